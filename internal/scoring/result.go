package scoring

import (
	"fmt"
	"sort"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
)

// Policy selects the scoring function applied to web-scan findings.
type Policy string

const (
	// PolicyStrict is the linear-deduction policy with a hard floor of 60.
	PolicyStrict Policy = "strict"
	// PolicyWeighted is the impact-and-prevalence policy with no floor.
	PolicyWeighted Policy = "weighted"
)

// errorReasonBudget bounds the failure text carried on an error result, to
// keep reports compact.
const errorReasonBudget = 100

// maxReportedFindings bounds the prioritized issue list on a result.
const maxReportedFindings = 20

// Score runs the selected web-scan policy over the findings and packages the
// outcome as a complete ScoreResult: clamped score, grade, compliance tier,
// and the prioritized issue list. Unknown policies fall back to strict, the
// more conservative of the two.
func Score(policy Policy, subject string, violations, incomplete []schemas.Finding, passCount int, method string) schemas.ScoreResult {
	var score int
	switch policy {
	case PolicyWeighted:
		score = ScoreWeighted(violations, incomplete, passCount)
	default:
		score = ScoreStrict(violations, incomplete, passCount)
	}

	findings := prioritize(violations, incomplete)

	return schemas.ScoreResult{
		Subject:          subject,
		Score:            score,
		Grade:            GradeFor(score),
		ComplianceStatus: ComplianceStatus(score),
		Findings:         findings,
		ViolationCount:   len(violations),
		WarningCount:     len(incomplete),
		PassCount:        passCount,
		Summary:          summarize(score, len(violations), len(incomplete)),
		Method:           method,
	}
}

// ScoreDocumentResult packages the document policy's outcome the same way.
func ScoreDocumentResult(subject string, findings []schemas.Finding, elementCount int, method string) schemas.ScoreResult {
	score := ScoreDocument(findings, elementCount)

	violations := 0
	warnings := 0
	for i := range findings {
		switch findings[i].Severity {
		case schemas.SeverityCritical:
			violations++
		case schemas.SeverityWarning:
			warnings++
		}
	}

	return schemas.ScoreResult{
		Subject:          subject,
		Score:            score,
		Grade:            GradeFor(score),
		ComplianceStatus: ComplianceStatus(score),
		Findings:         prioritize(findings, nil),
		ViolationCount:   violations,
		WarningCount:     warnings,
		Summary:          summarize(score, violations, warnings),
		Method:           method,
	}
}

// ErrorResult is the deterministic error path: analysis of the subject failed
// outright, the scoring policies are bypassed, and the caller still receives
// a complete, renderable result. Score exactly 0, one synthetic critical
// finding, reason truncated to a fixed budget.
func ErrorResult(subject, reason string) schemas.ScoreResult {
	return schemas.ScoreResult{
		Subject:          subject,
		Score:            0,
		Grade:            GradeFor(0),
		ComplianceStatus: ComplianceStatus(0),
		Findings: []schemas.Finding{{
			Title:         "Analysis Failed",
			Severity:      schemas.SeverityCritical,
			Description:   truncate(reason, errorReasonBudget),
			FixSuggestion: "Try again with a different URL or file",
			Category:      schemas.CategoryError,
			AffectedCount: 1,
		}},
		ViolationCount: 1,
		Summary:        "Failed: " + truncate(reason, 50),
		Method:         schemas.MethodError,
	}
}

// ComplianceStatus maps a score onto the audit compliance tier. The bands are
// a total, non-overlapping step function with boundaries inclusive on the
// lower bound.
func ComplianceStatus(score int) string {
	switch {
	case score >= 95:
		return "COMPLIANT - Excellent"
	case score >= 90:
		return "COMPLIANT - Good"
	case score >= 80:
		return "PARTIALLY COMPLIANT - Needs Improvement"
	case score >= 70:
		return "NON-COMPLIANT - Significant Issues"
	default:
		return "NON-COMPLIANT - Critical Remediation Required"
	}
}

// GradeFor maps a score onto a display-only letter grade. Independent of the
// compliance tier bands.
func GradeFor(score int) schemas.Grade {
	switch {
	case score >= 95:
		return schemas.Grade{Letter: "A+", Label: "Excellent"}
	case score >= 90:
		return schemas.Grade{Letter: "A", Label: "Great"}
	case score >= 85:
		return schemas.Grade{Letter: "A-", Label: "Very Good"}
	case score >= 80:
		return schemas.Grade{Letter: "B+", Label: "Good"}
	case score >= 75:
		return schemas.Grade{Letter: "B", Label: "Satisfactory"}
	case score >= 70:
		return schemas.Grade{Letter: "B-", Label: "Fair"}
	case score >= 60:
		return schemas.Grade{Letter: "C", Label: "Needs Improvement"}
	case score >= 50:
		return schemas.Grade{Letter: "D", Label: "Poor"}
	default:
		return schemas.Grade{Letter: "F", Label: "Failing"}
	}
}

// prioritize merges the finding lists and orders them by severity rank,
// stably, so equal-severity findings keep their source order. The result is
// bounded to keep reports readable.
func prioritize(a, b []schemas.Finding) []schemas.Finding {
	merged := make([]schemas.Finding, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Severity.Rank() < merged[j].Severity.Rank()
	})

	if len(merged) > maxReportedFindings {
		merged = merged[:maxReportedFindings]
	}
	return merged
}

func summarize(score, violations, warnings int) string {
	var quality string
	switch {
	case score >= 90:
		quality = "Excellent"
	case score >= 70:
		quality = "Good"
	case score >= 50:
		quality = "Needs Work"
	default:
		quality = "Poor"
	}
	return fmt.Sprintf("%s - Score: %d/100. %d violations, %d warnings.", quality, score, violations, warnings)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
