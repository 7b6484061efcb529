// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Domain is one of a fixed set of research-area tags used to scope
// classification and relevance filtering.
type Domain string

const (
	DomainPhysics              Domain = "physics"
	DomainEngineering          Domain = "engineering"
	DomainComputerScience      Domain = "computer_science"
	DomainMathematics          Domain = "mathematics"
	DomainChemistry            Domain = "chemistry"
	DomainMaterialsScience     Domain = "materials_science"
	DomainBiology              Domain = "biology"
	DomainMedicine             Domain = "medicine"
	DomainNeuroscience         Domain = "neuroscience"
	DomainPsychology           Domain = "psychology"
	DomainEconomics            Domain = "economics"
	DomainEnvironmentalScience Domain = "environmental_science"
	DomainAstronomy            Domain = "astronomy"
	DomainGeosciences          Domain = "geosciences"
	DomainStatistics           Domain = "statistics"

	// DomainGeneral is the bucket for records no classifier tier could place.
	// It is not a selectable include/exclude domain.
	DomainGeneral Domain = "general"
)

// AllDomains lists the selectable domains in display order. DomainGeneral is
// deliberately absent: it exists only as a classification fallback.
var AllDomains = []Domain{
	DomainPhysics,
	DomainEngineering,
	DomainComputerScience,
	DomainMathematics,
	DomainChemistry,
	DomainMaterialsScience,
	DomainBiology,
	DomainMedicine,
	DomainNeuroscience,
	DomainPsychology,
	DomainEconomics,
	DomainEnvironmentalScience,
	DomainAstronomy,
	DomainGeosciences,
	DomainStatistics,
}

// displayNames maps domain ids to human-readable labels.
var displayNames = map[Domain]string{
	DomainPhysics:              "Physics",
	DomainEngineering:          "Engineering",
	DomainComputerScience:      "Computer Science",
	DomainMathematics:          "Mathematics",
	DomainChemistry:            "Chemistry",
	DomainMaterialsScience:     "Materials Science",
	DomainBiology:              "Biology",
	DomainMedicine:             "Medicine",
	DomainNeuroscience:         "Neuroscience",
	DomainPsychology:           "Psychology",
	DomainEconomics:            "Economics",
	DomainEnvironmentalScience: "Environmental Science",
	DomainAstronomy:            "Astronomy",
	DomainGeosciences:          "Geosciences",
	DomainStatistics:           "Statistics",
	DomainGeneral:              "General",
}

// DisplayName returns the human-readable label for a domain, or the raw id
// for unknown values.
func (d Domain) DisplayName() string {
	if name, ok := displayNames[d]; ok {
		return name
	}
	return string(d)
}

// Valid reports whether d is a member of the selectable enumeration.
func (d Domain) Valid() bool {
	for _, known := range AllDomains {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDomain converts a domain id string into a Domain, rejecting ids
// outside the fixed enumeration.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown domain %q", s)
	}
	return d, nil
}

// ParseDomains converts a list of domain id strings, failing on the first
// unknown id.
func ParseDomains(ids []string) ([]Domain, error) {
	var out []Domain
	for _, id := range ids {
		d, err := ParseDomain(id)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// DomainSet is a membership set over domains.
type DomainSet map[Domain]bool

// NewDomainSet builds a set from a slice.
func NewDomainSet(domains []Domain) DomainSet {
	set := make(DomainSet, len(domains))
	for _, d := range domains {
		set[d] = true
	}
	return set
}

// Intersects reports whether any of the given tags is a member of the set.
func (s DomainSet) Intersects(tags []Domain) bool {
	for _, t := range tags {
		if s[t] {
			return true
		}
	}
	return false
}

// Overlap returns how many of the given tags are members of the set.
func (s DomainSet) Overlap(tags []Domain) int {
	n := 0
	for _, t := range tags {
		if s[t] {
			n++
		}
	}
	return n
}
