package docscan

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/scoring"
)

const longLineThreshold = 100

// analyzeText runs the plain-text rule set. The checks are intentionally
// shallow; text files carry almost no accessibility structure to inspect.
func (a *Analyzer) analyzeText(_ context.Context, path, filename string) (*schemas.ScoreResult, *schemas.DocumentInfo) {
	content, err := os.ReadFile(path)
	if err != nil {
		result := scoring.ErrorResult(filename, fmt.Sprintf("Text analysis error: %v", err))
		return &result, nil
	}

	lines := strings.Split(string(content), "\n")
	findings := CheckText(string(content), lines)

	info := &schemas.DocumentInfo{
		Lines:   len(lines),
		HasText: len(strings.TrimSpace(string(content))) > 0,
	}
	return a.score(filename, findings, info, schemas.MethodTextAnalysis)
}

// CheckText runs the text rules over already-split content.
func CheckText(content string, lines []string) []schemas.Finding {
	var findings []schemas.Finding

	if len(content) > 1000 && strings.Contains(content, "\n\n\n") {
		findings = append(findings, schemas.Finding{
			RuleID:        "text-paragraph-spacing",
			Title:         "Poor Paragraph Spacing",
			Severity:      schemas.SeverityWarning,
			Description:   "Text file has excessive blank lines",
			FixSuggestion: "Use consistent single blank lines between paragraphs",
			Category:      schemas.CategoryText,
			AffectedCount: 1,
		})
	}

	longLines := 0
	for _, line := range lines {
		if len(line) > longLineThreshold {
			longLines++
		}
	}
	if longLines > 0 {
		findings = append(findings, schemas.Finding{
			RuleID:        "text-long-lines",
			Title:         "Long Lines",
			Severity:      schemas.SeverityWarning,
			Description:   fmt.Sprintf("%d line(s) exceed %d characters", longLines, longLineThreshold),
			FixSuggestion: "Break long lines for better readability",
			Category:      schemas.CategoryText,
			AffectedCount: longLines,
		})
	}

	return findings
}

func extractPlainText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, textCharBudget)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}
