// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// domainPatterns holds per-domain indicator phrases for the rule tier.
// Methods are the strongest signal, then keywords, then applications.
type domainPatterns struct {
	keywords     []string
	methods      []string
	applications []string
}

const (
	keywordWeight     = 2
	methodWeight      = 3
	applicationWeight = 1
)

var patternTable = map[types.Domain]domainPatterns{
	types.DomainPhysics: {
		keywords: []string{
			"quantum", "particle", "field theory", "relativity", "thermodynamics",
			"electromagnetism", "optics", "condensed matter", "plasma",
			"photon", "electron", "proton", "neutron", "fermion",
			"superconductivity", "magnetism", "spectroscopy", "crystallography",
		},
		methods: []string{
			"monte carlo simulation", "density functional theory", "molecular dynamics",
			"finite element", "diffraction", "scattering",
		},
		applications: []string{
			"semiconductor", "laser", "detector", "accelerator", "telescope",
			"interferometer", "spectrometer",
		},
	},
	types.DomainEngineering: {
		keywords: []string{
			"optimization", "control", "manufacturing", "structural",
			"mechanical", "electrical", "civil", "aerospace", "automotive",
			"robotics", "automation", "sensors", "actuators", "fluid dynamics",
			"heat transfer", "vibration", "fatigue", "fracture", "composite",
			"alloy", "coating",
		},
		methods: []string{
			"finite element analysis", "computational fluid dynamics",
			"control theory", "signal processing", "image processing",
		},
		applications: []string{
			"aircraft", "spacecraft", "vehicle", "engine", "turbine", "pump",
			"compressor", "heat exchanger", "reactor", "bridge", "building",
		},
	},
	types.DomainComputerScience: {
		keywords: []string{
			"algorithm", "data structure", "programming", "software",
			"artificial intelligence", "machine learning", "deep learning",
			"neural network", "computer vision", "natural language processing",
			"database", "security", "cryptography", "blockchain",
			"distributed systems", "cloud computing", "parallel computing",
		},
		methods: []string{
			"supervised learning", "unsupervised learning", "reinforcement learning",
			"gradient descent", "backpropagation", "convolutional neural network",
			"recurrent neural network", "transformer", "attention mechanism",
		},
		applications: []string{
			"web application", "recommendation system", "search engine",
			"chatbot", "autonomous vehicle",
		},
	},
	types.DomainMathematics: {
		keywords: []string{
			"theorem", "proof", "algebra", "geometry", "calculus", "topology",
			"number theory", "combinatorics", "graph theory", "probability",
			"differential equation", "linear algebra", "real analysis",
			"complex analysis",
		},
		methods: []string{
			"mathematical proof", "numerical analysis",
			"monte carlo method", "approximation theory",
		},
		applications: []string{
			"cryptography", "coding theory", "mathematical modeling",
			"financial mathematics",
		},
	},
	types.DomainChemistry: {
		keywords: []string{
			"molecule", "bond", "reaction", "catalyst", "synthesis",
			"organic", "inorganic", "biochemistry", "polymer", "solution",
			"oxidation", "reduction", "kinetics", "spectroscopy",
		},
		methods: []string{
			"nmr", "mass spectrometry", "chromatography", "crystallography",
			"computational chemistry", "quantum chemistry", "molecular dynamics",
		},
		applications: []string{
			"drug discovery", "materials synthesis", "catalysis", "battery",
			"solar cell", "pharmaceutical",
		},
	},
	types.DomainMaterialsScience: {
		keywords: []string{
			"crystal", "alloy", "composite", "polymer", "ceramic",
			"semiconductor", "nanomaterial", "thin film", "coating",
			"characterization", "mechanical properties", "electrical properties",
			"thermal properties",
		},
		methods: []string{
			"x-ray diffraction", "electron microscopy", "atomic force microscopy",
			"thermal analysis", "mechanical testing",
		},
		applications: []string{
			"energy storage", "solar cells", "biomedical implants",
		},
	},
	types.DomainBiology: {
		keywords: []string{
			"cell", "gene", "protein", "dna", "rna", "enzyme", "metabolism",
			"evolution", "ecology", "organism", "species",
			"molecular biology", "genetics", "genomics", "proteomics",
			"bioinformatics", "phylogeny", "biodiversity",
		},
		methods: []string{
			"pcr", "sequencing", "cloning", "cell culture",
			"immunoassay", "western blot", "flow cytometry", "crispr",
		},
		applications: []string{
			"biotechnology", "genetic engineering", "conservation",
			"agriculture", "bioremediation",
		},
	},
	types.DomainMedicine: {
		keywords: []string{
			"patient", "disease", "treatment", "therapy", "drug", "clinical",
			"diagnosis", "symptom", "pathology", "pharmacology", "epidemiology",
			"public health", "medical imaging", "surgery", "oncology",
			"cardiology", "neurology", "psychiatry",
		},
		methods: []string{
			"clinical trial", "randomized controlled trial",
			"meta-analysis", "systematic review", "diagnostic imaging",
			"biopsy", "genetic testing",
		},
		applications: []string{
			"drug development", "medical device", "diagnostic tool",
			"surgical procedure", "rehabilitation", "preventive medicine",
		},
	},
	types.DomainAstronomy: {
		keywords: []string{
			"star", "galaxy", "planet", "cosmic", "universe", "telescope",
			"astrophysics", "cosmology", "dark matter", "dark energy",
			"black hole", "neutron star", "supernova", "exoplanet",
			"interstellar",
		},
		methods: []string{
			"photometry", "interferometry", "radio astronomy",
			"numerical simulation",
		},
		applications: []string{
			"space exploration", "satellite", "space telescope",
			"planetary science", "astrobiology",
		},
	},
	types.DomainNeuroscience: {
		keywords: []string{
			"brain", "neuron", "cortex", "synapse", "cognition",
			"neural circuit", "neurotransmitter", "plasticity",
			"neurodegeneration", "connectome",
		},
		methods: []string{
			"fmri", "electrophysiology", "optogenetics", "eeg",
			"calcium imaging",
		},
		applications: []string{
			"brain-computer interface", "neuroprosthetics", "deep brain stimulation",
		},
	},
	types.DomainStatistics: {
		keywords: []string{
			"bayesian", "inference", "regression", "estimator", "hypothesis test",
			"time series", "causal inference", "sampling", "variance",
		},
		methods: []string{
			"markov chain monte carlo", "bootstrap", "maximum likelihood",
			"expectation maximization",
		},
		applications: []string{
			"survey analysis", "experimental design", "forecasting",
		},
	},
	types.DomainEnvironmentalScience: {
		keywords: []string{
			"climate", "emissions", "ecosystem", "pollution", "sustainability",
			"biodiversity loss", "carbon", "warming", "deforestation",
		},
		methods: []string{
			"climate modeling", "remote sensing", "life cycle assessment",
		},
		applications: []string{
			"renewable energy", "conservation planning", "carbon capture",
		},
	},
}

// scoreDomains runs the weighted pattern match over the record text and
// returns raw scores per domain.
func scoreDomains(title, abstract string) map[types.Domain]int {
	text := strings.ToLower(title + " " + abstract)
	scores := make(map[types.Domain]int)

	for domain, patterns := range patternTable {
		score := 0
		for _, kw := range patterns.keywords {
			if strings.Contains(text, kw) {
				score += keywordWeight
			}
		}
		for _, m := range patterns.methods {
			if strings.Contains(text, m) {
				score += methodWeight
			}
		}
		for _, app := range patterns.applications {
			if strings.Contains(text, app) {
				score += applicationWeight
			}
		}
		if score > 0 {
			scores[domain] = score
		}
	}
	return scores
}
