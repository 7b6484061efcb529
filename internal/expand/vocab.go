// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expand

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// vocabEntry holds the static expansion vocabulary for one domain.
type vocabEntry struct {
	broader  []string
	narrower []string
	adjacent []string
	methods  []string
}

// domainVocab is the static fallback vocabulary, keyed by domain tag.
var domainVocab = map[types.Domain]vocabEntry{
	types.DomainComputerScience: {
		broader:  []string{"artificial intelligence", "neural networks", "deep learning", "computer science"},
		narrower: []string{"supervised learning", "unsupervised learning", "reinforcement learning", "transfer learning"},
		adjacent: []string{"natural language processing", "computer vision", "robotics", "data mining"},
		methods:  []string{"transformer", "CNN", "RNN", "GAN", "VAE", "attention mechanism", "gradient descent"},
	},
	types.DomainBiology: {
		broader:  []string{"life sciences", "biochemistry", "molecular biology"},
		narrower: []string{"genomics", "proteomics", "cell signaling", "gene expression"},
		adjacent: []string{"bioinformatics", "biophysics", "evolutionary biology", "microbiology"},
		methods:  []string{"RNA-seq", "CRISPR", "mass spectrometry", "PCR", "immunoassay"},
	},
	types.DomainMedicine: {
		broader:  []string{"medicine", "healthcare", "life sciences"},
		narrower: []string{"drug discovery", "clinical trials", "diagnostics", "therapeutics"},
		adjacent: []string{"epidemiology", "pharmacology", "medical imaging", "public health"},
		methods:  []string{"GWAS", "randomized controlled trial", "cohort study", "biomarker analysis"},
	},
	types.DomainMaterialsScience: {
		broader:  []string{"chemistry", "physics", "engineering"},
		narrower: []string{"nanomaterials", "polymers", "ceramics", "metals", "composites"},
		adjacent: []string{"chemical engineering", "mechanical engineering", "solid state physics"},
		methods:  []string{"synthesis", "characterization", "DFT", "molecular dynamics", "X-ray diffraction"},
	},
	types.DomainPhysics: {
		broader:  []string{"natural sciences", "physical sciences"},
		narrower: []string{"quantum physics", "condensed matter", "particle physics", "astrophysics"},
		adjacent: []string{"chemistry", "materials science", "engineering", "mathematics"},
		methods:  []string{"spectroscopy", "microscopy", "simulation", "theoretical modeling"},
	},
	types.DomainChemistry: {
		broader:  []string{"physical sciences", "natural sciences"},
		narrower: []string{"organic chemistry", "heterogeneous catalysis", "electrochemistry", "photochemistry"},
		adjacent: []string{"materials science", "chemical engineering", "biochemistry"},
		methods:  []string{"NMR spectroscopy", "chromatography", "catalyst screening", "reaction kinetics"},
	},
	types.DomainMathematics: {
		broader:  []string{"formal sciences", "pure mathematics"},
		narrower: []string{"algebraic topology", "number theory", "combinatorics", "partial differential equations"},
		adjacent: []string{"theoretical computer science", "statistics", "mathematical physics"},
		methods:  []string{"proof techniques", "numerical analysis", "optimization theory"},
	},
	types.DomainStatistics: {
		broader:  []string{"mathematics", "data science"},
		narrower: []string{"bayesian inference", "hypothesis testing", "time series analysis", "causal inference"},
		adjacent: []string{"machine learning", "econometrics", "biostatistics"},
		methods:  []string{"regression", "MCMC", "bootstrap", "maximum likelihood estimation"},
	},
	types.DomainNeuroscience: {
		broader:  []string{"biology", "cognitive science", "life sciences"},
		narrower: []string{"neural circuits", "synaptic plasticity", "neurodegeneration", "brain connectivity"},
		adjacent: []string{"psychology", "machine learning", "medicine"},
		methods:  []string{"fMRI", "electrophysiology", "optogenetics", "calcium imaging"},
	},
}

// synonymTable maps common technical terms to alternative phrasings.
var synonymTable = map[string][]string{
	"neural network":                 {"neural net", "artificial neural network", "ANN", "connectionist model"},
	"machine learning":               {"ML", "statistical learning", "artificial intelligence", "AI"},
	"deep learning":                  {"deep neural network", "DNN", "deep net"},
	"natural language processing":    {"NLP", "computational linguistics", "language processing"},
	"computer vision":                {"CV", "machine vision", "image analysis", "visual computing"},
	"reinforcement learning":         {"RL", "reward learning", "sequential decision making"},
	"transformer":                    {"attention model", "self-attention", "multi-head attention"},
	"convolutional neural network":   {"CNN", "ConvNet", "convolutional network"},
	"recurrent neural network":       {"RNN", "recurrent network", "sequential network"},
	"generative adversarial network": {"GAN", "adversarial network", "generative model"},
	"large language model":           {"LLM", "foundation model", "pretrained model"},
	"few-shot learning":              {"meta-learning", "learning to learn", "N-shot learning"},
	"transfer learning":              {"domain adaptation", "knowledge transfer", "fine-tuning"},
	"representation learning":        {"feature learning", "embedding learning", "latent representation"},
	"graph neural network":           {"GNN", "graph network", "geometric deep learning"},
	"attention mechanism":            {"attention", "self-attention", "cross-attention"},
	"protein folding":                {"protein structure prediction", "conformational analysis"},
	"drug discovery":                 {"drug development", "pharmaceutical research", "lead optimization"},
	"gene expression":                {"transcriptomics", "expression profiling"},
	"catalyst":                       {"catalysis", "catalytic material", "catalytic activity"},
	"quantum computing":              {"quantum computation", "quantum information processing"},
	"climate change":                 {"global warming", "climate variability", "anthropogenic warming"},
	"optimization":                   {"gradient descent", "backpropagation", "parameter optimization"},
	"regularization":                 {"dropout", "batch normalization", "weight decay"},
	"loss function":                  {"objective function", "cost function", "error function"},
}

// synonymKeys holds the synonymTable keys in sorted order. Lookups walk
// this slice, not the map, so a concept matching several keys always
// appends their synonyms in the same order.
var synonymKeys = func() []string {
	keys := make([]string, 0, len(synonymTable))
	for k := range synonymTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// domainPatterns drive lexical domain detection when no include-domains are
// supplied.
var domainPatterns = map[types.Domain][]string{
	types.DomainComputerScience:  {"machine learning", "neural network", "deep learning", "artificial intelligence", "algorithm", "natural language", "computer vision"},
	types.DomainBiology:          {"protein", "gene", "cell", "genome", "organism", "enzyme"},
	types.DomainMedicine:         {"clinical", "drug", "disease", "patient", "treatment", "therapy"},
	types.DomainMaterialsScience: {"materials", "crystal", "polymer", "nanomaterial", "alloy"},
	types.DomainPhysics:          {"physics", "quantum", "particle", "condensed matter", "spectroscopy"},
	types.DomainChemistry:        {"chemistry", "catalyst", "synthesis", "molecular", "reaction"},
	types.DomainMathematics:      {"theorem", "proof", "topology", "algebra", "manifold"},
	types.DomainStatistics:       {"bayesian", "inference", "regression", "statistical", "estimator"},
	types.DomainNeuroscience:     {"brain", "neuron", "cortex", "cognitive", "synaptic"},
}

// stopwords are filtered out during key-concept extraction.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "for": true,
	"with": true, "of": true, "in": true, "on": true, "to": true, "by": true,
	"from": true, "at": true, "as": true, "is": true, "are": true, "be": true,
	"being": true, "into": true, "that": true, "this": true, "these": true,
	"those": true, "using": true, "use": true, "based": true, "about": true,
	"what": true, "which": true, "when": true, "how": true, "why": true,
	"can": true, "state": true, "art": true, "towards": true, "toward": true,
	"new": true, "novel": true, "recent": true, "improved": true,
	"improving": true, "paper": true, "study": true, "approach": true,
	"method": true, "methods": true, "framework": true, "system": true,
	"systems": true,
}

// multiWordTerms are technical phrases recognized as single concepts.
var multiWordTerms = []string{
	"machine learning", "deep learning", "neural network",
	"natural language processing", "computer vision", "reinforcement learning",
	"transfer learning", "few-shot learning", "large language model",
	"attention mechanism", "graph neural network",
	"convolutional neural network", "recurrent neural network",
	"generative adversarial network", "representation learning",
	"protein folding", "drug discovery", "gene expression",
	"quantum computing", "climate change",
}

var (
	quotedPhraseRe = regexp.MustCompile(`"([^"]+)"`)
	tokenRe        = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9\-_]*\b`)
)

// extractKeyConcepts pulls the meaningful terms out of a query: quoted
// phrases, recognized multi-word technical terms, and significant single
// tokens, in that order.
func extractKeyConcepts(query string) []string {
	var concepts []string
	seen := map[string]bool{}

	add := func(term string) {
		key := strings.ToLower(term)
		if !seen[key] {
			seen[key] = true
			concepts = append(concepts, term)
		}
	}

	for _, m := range quotedPhraseRe.FindAllStringSubmatch(query, -1) {
		add(m[1])
	}

	unquoted := quotedPhraseRe.ReplaceAllString(query, " ")
	lower := strings.ToLower(unquoted)

	for _, term := range multiWordTerms {
		if strings.Contains(lower, term) {
			add(term)
		}
	}

	count := 0
	for _, tok := range tokenRe.FindAllString(lower, -1) {
		if stopwords[tok] || len(tok) <= 2 {
			continue
		}
		add(tok)
		count++
		if count >= 10 {
			break
		}
	}

	return concepts
}

// detectDomains scores the query against each domain's lexical patterns and
// returns the matching domains, best first. Empty means no match.
func detectDomains(query string) []types.Domain {
	lower := strings.ToLower(query)

	var best types.Domain
	bestScore := 0
	for domain, patterns := range domainPatterns {
		score := 0
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				score++
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && domain < best) {
			best = domain
			bestScore = score
		}
	}

	if bestScore == 0 {
		return nil
	}
	return []types.Domain{best}
}
