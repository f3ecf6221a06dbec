package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SerializeJSON renders the report as the machine-readable structured record.
func SerializeJSON(report *schemas.ComplianceReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// SerializeCSV renders the report as spreadsheet rows: a summary block
// followed by one row per issue. All dates come from the report itself, so
// the CSV can never drift from the JSON output.
func SerializeCSV(report *schemas.ComplianceReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{report.Institution + " Compliance Report"},
		{"Generated:", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{},
		{"SUMMARY"},
		{"Subject", report.Subject},
		{"Department", report.Department},
		{"Score", fmt.Sprintf("%d/100", report.Score)},
		{"Grade", report.Grade.Letter + " (" + report.Grade.Label + ")"},
		{"Compliance Status", report.ComplianceStatus},
		{"WCAG Level", report.WCAGLevel},
		{"Critical Issues", fmt.Sprintf("%d", report.CriticalIssues)},
		{"Total Issues", fmt.Sprintf("%d", report.TotalIssues)},
		{"Next Audit Due", report.NextAuditDate},
		{},
		{"DETAILED ISSUES"},
		{"Severity", "Title", "Description", "Category", "Fix Required", "Due Date"},
	}

	for _, issue := range report.DetailedIssues {
		fix := issue.FixSuggestion
		if fix == "" {
			fix = "Review required"
		}
		rows = append(rows, []string{
			strings.ToUpper(string(issue.Severity)),
			issue.Title,
			clip(issue.Description, 100),
			string(issue.Category),
			fix,
			issue.DueDate,
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to encode csv rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
