// Package scoring converts normalized accessibility findings into bounded
// scores, letter grades, and compliance tiers. Every function here is pure:
// no I/O, no logging, no shared state.
package scoring

import (
	"math"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
)

// Strict policy deduction table. Any violation is a major deduction; the
// penalty scale is tuned for university compliance audits.
const (
	strictCriticalPenalty = 15
	strictSeriousPenalty  = 10
	strictModeratePenalty = 7
	strictMinorPenalty    = 4
	strictIncompletePenalty = 3
	strictPassBonus         = 5
	strictFloor             = 60
)

// Weighted policy constants. Deductions saturate with instance count so the
// first occurrence contributes most of the penalty.
const (
	weightedViolationScale  = 10.0
	weightedIncompleteScale = 2.0
	weightedPassBonusCap    = 20.0
	weightedPassBonusRate   = 0.5
)

// Document policy constants. Document checks are heuristic, so the floor is
// lower than the strict policy's: a document with any extractable content
// never fully fails.
const (
	docCriticalPenalty   = 15
	docWarningPenalty    = 5
	docContentBonus      = 5
	docContentThreshold  = 10
	docFloor             = 30
)

// ScoreStrict implements the strict linear-deduction policy for web scans.
// Deduction order never affects the result; the computation is a pure sum
// over the violation list. The score is clamped into [60,100]; scores below
// 60 are reserved for the error path, which bypasses this function.
func ScoreStrict(violations, incomplete []schemas.Finding, passCount int) int {
	total := len(violations) + len(incomplete) + passCount
	if total == 0 {
		return 100
	}

	score := 100
	for i := range violations {
		switch violations[i].Severity {
		case schemas.SeverityCritical:
			score -= strictCriticalPenalty
		case schemas.SeveritySerious:
			score -= strictSeriousPenalty
		case schemas.SeverityMinor:
			score -= strictMinorPenalty
		default:
			// Moderate, and anything the adapter failed to normalize.
			score -= strictModeratePenalty
		}
	}

	score -= strictIncompletePenalty * len(incomplete)

	passRate := float64(passCount) / float64(total)
	if passRate > 0.95 {
		score += strictPassBonus
	}

	return clamp(score, strictFloor, 100)
}

// ScoreWeighted implements the impact-and-prevalence policy. Each violation's
// deduction scales with an impact weight and a saturating node factor, so
// additional instances of the same issue add diminishing marginal penalty.
// More instances can never improve the score. Clamped into [0,100], no floor.
func ScoreWeighted(violations, incomplete []schemas.Finding, passCount int) int {
	total := len(violations) + len(incomplete) + passCount
	if total == 0 {
		return 100
	}

	score := 100.0
	for i := range violations {
		weight := impactWeight(violations[i].Severity)
		n := affected(&violations[i])
		nodeFactor := math.Min(1.0, 0.2+0.8*(1.0-math.Pow(0.9, float64(n))))
		score -= weightedViolationScale * weight * nodeFactor
	}

	for i := range incomplete {
		n := affected(&incomplete[i])
		score -= weightedIncompleteScale * math.Min(1.0, 0.5*(1.0-math.Pow(0.95, float64(n))))
	}

	score += math.Min(weightedPassBonusCap, weightedPassBonusRate*float64(passCount))

	return clamp(int(math.Round(score)), 0, 100)
}

// ScoreDocument implements the structural-deduction policy for PDF, Word, and
// plain-text findings. Info findings never penalize. Documents with more than
// docContentThreshold countable elements earn a flat content bonus.
func ScoreDocument(findings []schemas.Finding, elementCount int) int {
	score := 100
	for i := range findings {
		switch findings[i].Severity {
		case schemas.SeverityCritical:
			score -= docCriticalPenalty
		case schemas.SeverityWarning:
			score -= docWarningPenalty
		}
	}

	if elementCount > docContentThreshold {
		score += docContentBonus
	}

	return clamp(score, docFloor, 100)
}

func impactWeight(s schemas.Severity) float64 {
	switch s {
	case schemas.SeverityCritical:
		return 0.8
	case schemas.SeveritySerious:
		return 0.6
	case schemas.SeverityMinor:
		return 0.2
	default:
		return 0.4
	}
}

// affected floors the instance count at 1: a finding always represents at
// least one occurrence, absence-of-feature checks included.
func affected(f *schemas.Finding) int {
	if f.AffectedCount < 1 {
		return 1
	}
	return f.AffectedCount
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
