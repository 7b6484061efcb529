// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify tags papers with research domains and applies the
// include/exclude domain gate. A fast rule tier handles clear-cut records;
// an AI tier backs it up for ambiguous ones.
package classify

import (
	"bytes"
	"context"
	"sort"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/litreview/internal/model"
	"github.com/pdiddy/litreview/pkg/types"
)

// fullRuleScore is the raw pattern score treated as confidence 1.0.
const fullRuleScore = 6

// classifyPromptTmpl asks the model to place one paper inside the fixed
// domain enumeration.
var classifyPromptTmpl = template.Must(template.New("classify").Parse(`You are an expert research domain classifier. Classify the paper below into one or more of these research domains:

{{range .Domains}}- {{.}}
{{end}}
Use only domain ids from that list. Assign a confidence in [0,1] to each domain you pick, best first. Pick at most 3 domains.

Respond with a JSON object only, no text outside it:
{"domains": [{"domain": "physics", "confidence": 0.9}]}

Title: {{.Title}}
Abstract: {{.Abstract}}
`))

// aiClassification is the structured response expected from the model.
type aiClassification struct {
	Domains []aiDomainScore `json:"domains"`
}

type aiDomainScore struct {
	Domain     string  `json:"domain"`
	Confidence float64 `json:"confidence"`
}

// Output holds the surviving classified papers and gate accounting.
type Output struct {
	Papers           []types.ClassifiedPaper
	ExcludedByDomain int
}

// Classifier assigns domain tags to papers.
type Classifier struct {
	Client     model.Client
	Config     types.ClassifyConfig
	MaxRetries int
	Logger     *zap.Logger
}

// Classify tags every record and applies the domain gate: any tag in
// exclude drops the paper regardless of include; when include is non-empty
// a paper survives only if at least one tag is in it. Records neither tier
// can place are tagged general. AI-tier failures degrade to the rule
// result and never abort the run.
func (c *Classifier) Classify(ctx context.Context, records []types.PaperRecord, include, exclude []types.Domain) Output {
	threshold := c.Config.RuleConfidenceThreshold
	if threshold <= 0 {
		threshold = 0.5
	}

	includeSet := types.NewDomainSet(include)
	excludeSet := types.NewDomainSet(exclude)

	var out Output
	for _, r := range records {
		domains, confidence := c.classifyOne(ctx, r, threshold)

		if excludeSet.Intersects(domains) {
			out.ExcludedByDomain++
			continue
		}
		if len(include) > 0 && !includeSet.Intersects(domains) {
			out.ExcludedByDomain++
			continue
		}

		out.Papers = append(out.Papers, types.ClassifiedPaper{
			PaperRecord: r,
			Domains:     domains,
			Confidence:  confidence,
		})
	}
	return out
}

// classifyOne runs the rule tier and, when it is absent or weak, the AI
// tier. The general tag is the floor when neither tier produces anything.
func (c *Classifier) classifyOne(ctx context.Context, r types.PaperRecord, threshold float64) ([]types.Domain, map[types.Domain]float64) {
	domains, confidence := ruleClassify(r.Title, r.Abstract)

	needAI := len(domains) == 0 || confidence[domains[0]] < threshold
	if needAI && !c.Config.DisableAI && c.Client != nil {
		aiDomains, aiConfidence, err := c.aiClassify(ctx, r)
		if err != nil {
			if c.Logger != nil {
				c.Logger.Warn("AI classification failed, keeping rule result",
					zap.String("title", r.Title),
					zap.Error(err))
			}
		} else if len(aiDomains) > 0 {
			domains, confidence = aiDomains, aiConfidence
		}
	}

	if len(domains) == 0 {
		return []types.Domain{types.DomainGeneral}, nil
	}
	return domains, confidence
}

// ruleClassify matches the record against the pattern tables. Domains
// scoring at least max(2, 0.3×top) survive, ordered best first.
func ruleClassify(title, abstract string) ([]types.Domain, map[types.Domain]float64) {
	scores := scoreDomains(title, abstract)
	if len(scores) == 0 {
		return nil, nil
	}

	maxScore := 0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	cutoff := float64(maxScore) * 0.3
	if cutoff < 2 {
		cutoff = 2
	}

	var domains []types.Domain
	confidence := make(map[types.Domain]float64)
	for domain, score := range scores {
		if float64(score) < cutoff {
			continue
		}
		domains = append(domains, domain)
		conf := float64(score) / fullRuleScore
		if conf > 1 {
			conf = 1
		}
		confidence[domain] = conf
	}

	sort.Slice(domains, func(i, j int) bool {
		if confidence[domains[i]] != confidence[domains[j]] {
			return confidence[domains[i]] > confidence[domains[j]]
		}
		return domains[i] < domains[j]
	})

	return domains, confidence
}

// aiClassify asks the model to place the record inside the fixed
// enumeration. Domain ids outside the enumeration are dropped.
func (c *Classifier) aiClassify(ctx context.Context, r types.PaperRecord) ([]types.Domain, map[types.Domain]float64, error) {
	var buf bytes.Buffer
	err := classifyPromptTmpl.Execute(&buf, struct {
		Domains  []types.Domain
		Title    string
		Abstract string
	}{Domains: types.AllDomains, Title: r.Title, Abstract: r.Abstract})
	if err != nil {
		return nil, nil, err
	}

	raw, err := model.CompleteWithRetry(ctx, c.Client, buf.String(), c.MaxRetries)
	if err != nil {
		return nil, nil, err
	}

	var parsed aiClassification
	if err := model.DecodeJSON(raw, &parsed); err != nil {
		return nil, nil, err
	}

	var domains []types.Domain
	confidence := make(map[types.Domain]float64)
	for _, ds := range parsed.Domains {
		d, parseErr := types.ParseDomain(ds.Domain)
		if parseErr != nil {
			continue
		}
		if _, dup := confidence[d]; dup {
			continue
		}
		domains = append(domains, d)
		confidence[d] = ds.Confidence
	}
	return domains, confidence, nil
}
