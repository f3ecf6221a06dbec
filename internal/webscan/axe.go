package webscan

import (
	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/classify"
)

// sampleClipLength bounds each evidence snippet carried on a finding.
const sampleClipLength = 200

// NormalizeAxe converts a raw axe-core result document into canonical
// findings. Violations and incomplete (needs-review) checks become findings;
// passes only contribute a count to scoring.
func NormalizeAxe(raw *schemas.AxeResult) (violations, incomplete []schemas.Finding) {
	violations = make([]schemas.Finding, 0, len(raw.Violations))
	for i := range raw.Violations {
		check := &raw.Violations[i]
		violations = append(violations, schemas.Finding{
			RuleID:        check.ID,
			Title:         checkTitle(check.ID, "Violation"),
			Severity:      schemas.NormalizeImpact(check.Impact),
			Description:   check.Description,
			FixSuggestion: classify.FixSuggestion(check.ID),
			Category:      classify.Category(check.Tags),
			AffectedCount: nodeCount(check),
			Tags:          check.Tags,
			SampleNodes:   sampleNodes(check),
			HelpURL:       check.HelpURL,
		})
	}

	incomplete = make([]schemas.Finding, 0, len(raw.Incomplete))
	for i := range raw.Incomplete {
		check := &raw.Incomplete[i]
		incomplete = append(incomplete, schemas.Finding{
			RuleID:        check.ID,
			Title:         checkTitle(check.ID, "Review"),
			Severity:      schemas.NormalizeImpact(check.Impact),
			Description:   "Needs review: " + check.Description,
			FixSuggestion: "Manual review required.",
			Category:      classify.Category(check.Tags),
			AffectedCount: nodeCount(check),
			Tags:          check.Tags,
			SampleNodes:   sampleNodes(check),
			HelpURL:       check.HelpURL,
		})
	}

	return violations, incomplete
}

func checkTitle(ruleID, fallback string) string {
	if ruleID == "" {
		return fallback
	}
	return classify.Title(ruleID)
}

// nodeCount floors the instance count at 1: rules reported without node
// evidence still represent one occurrence.
func nodeCount(check *schemas.AxeCheck) int {
	if len(check.Nodes) < 1 {
		return 1
	}
	return len(check.Nodes)
}

// sampleNodes keeps up to MaxSampleNodes clipped HTML snippets for display.
func sampleNodes(check *schemas.AxeCheck) []string {
	n := len(check.Nodes)
	if n == 0 {
		return nil
	}
	if n > schemas.MaxSampleNodes {
		n = schemas.MaxSampleNodes
	}
	samples := make([]string, 0, n)
	for _, node := range check.Nodes[:n] {
		html := node.HTML
		if len(html) > sampleClipLength {
			html = html[:sampleClipLength]
		}
		samples = append(samples, html)
	}
	return samples
}
