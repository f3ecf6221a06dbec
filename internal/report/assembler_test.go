package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/config"
	"github.com/xkilldash9x/a11ygrade-cli/internal/scoring"
)

// -- Test Helpers --

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	assembler, err := NewAssembler(config.ReportConfig{
		OutputDir:   t.TempDir(),
		Institution: "Test University",
		Auditor:     "A11y Wizard",
		Department:  "Digital Services",
	}, zap.NewNop())
	require.NoError(t, err)

	// Pin the clock so date assertions are deterministic.
	assembler.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	}
	return assembler
}

func sampleResult() schemas.ScoreResult {
	return scoring.Score(scoring.PolicyStrict, "https://example.edu",
		[]schemas.Finding{
			{
				RuleID:        "image-alt",
				Title:         "Image Alt",
				Severity:      schemas.SeverityCritical,
				Description:   "Images must have alternate text",
				FixSuggestion: "Add alt text to images.",
				Category:      schemas.CategoryImages,
				AffectedCount: 3,
				Tags:          []string{"cat.images", "wcag2aa"},
			},
			{
				RuleID:        "word-headings",
				Title:         "No Heading Structure",
				Severity:      schemas.SeverityWarning,
				Description:   "Document doesn't use heading styles",
				Category:      schemas.CategoryStructure,
				AffectedCount: 1,
			},
			{
				RuleID:        "region",
				Title:         "Region",
				Severity:      schemas.SeverityModerate,
				Description:   "Content should be contained in landmarks",
				Category:      schemas.CategoryGeneral,
				AffectedCount: 2,
			},
		}, nil, 10, schemas.MethodAxeCore)
}

// -- Assembly --

func TestAssemble_DueDatesFromSingleTimestamp(t *testing.T) {
	t.Parallel()
	assembler := newTestAssembler(t)

	rpt := assembler.Assemble(sampleResult(), nil, nil)

	// Findings arrive prioritized: critical, then moderate, then warning.
	require.Len(t, rpt.DetailedIssues, 3)
	assert.Equal(t, "IMMEDIATE", rpt.DetailedIssues[0].DueDate, "critical issues are due immediately")
	assert.Equal(t, "2026-05-14", rpt.DetailedIssues[1].DueDate, "moderate issues are due in 60 days")
	assert.Equal(t, "2026-04-14", rpt.DetailedIssues[2].DueDate, "warnings are due in 30 days")
	assert.Equal(t, "2026-06-13", rpt.NextAuditDate, "next audit is 90 days out")
}

func TestAssemble_ReportMetadata(t *testing.T) {
	t.Parallel()
	assembler := newTestAssembler(t)

	result := sampleResult()
	rpt := assembler.Assemble(result, nil, nil)

	assert.NotEmpty(t, rpt.ID)
	assert.Equal(t, "Test University", rpt.Institution)
	assert.Equal(t, "Digital Services", rpt.Department)
	assert.Equal(t, result.Subject, rpt.Subject)
	assert.Equal(t, result.Score, rpt.Score)
	assert.Equal(t, result.Grade, rpt.Grade)
	assert.Equal(t, result.ComplianceStatus, rpt.ComplianceStatus)
	assert.Equal(t, 1, rpt.CriticalIssues)
	assert.Equal(t, 3, rpt.TotalIssues)
	assert.Equal(t, []string{"ADA Title II", "Section 508", "WCAG 2.1 AA", "OCR Resolution Agreements"}, rpt.LegalReferences)
	assert.Nil(t, rpt.DocumentInfo)
	assert.Nil(t, rpt.Advisory)
}

func TestAssemble_UniqueIDs(t *testing.T) {
	t.Parallel()
	assembler := newTestAssembler(t)

	first := assembler.Assemble(sampleResult(), nil, nil)
	second := assembler.Assemble(sampleResult(), nil, nil)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestWCAGLevel(t *testing.T) {
	t.Parallel()

	criticalAA := []schemas.Finding{{Severity: schemas.SeverityCritical, Tags: []string{"wcag2aa"}}}
	assert.Equal(t, "WCAG 2.0 A (Minimum)", WCAGLevel(criticalAA))

	// A critical finding without the wcag2aa tag does not drop the level.
	criticalOther := []schemas.Finding{{Severity: schemas.SeverityCritical, Tags: []string{"wcag2a"}}}
	assert.Equal(t, "WCAG 2.1 AA (Target)", WCAGLevel(criticalOther))

	// Neither does a non-critical wcag2aa finding.
	moderateAA := []schemas.Finding{{Severity: schemas.SeverityModerate, Tags: []string{"wcag2aa"}}}
	assert.Equal(t, "WCAG 2.1 AA (Target)", WCAGLevel(moderateAA))

	assert.Equal(t, "WCAG 2.1 AA (Target)", WCAGLevel(nil))
}

// -- Output Files --

func TestWrite_ProducesConsistentPair(t *testing.T) {
	t.Parallel()
	assembler := newTestAssembler(t)

	rpt := assembler.Assemble(sampleResult(), nil, nil)
	jsonPath, csvPath, err := assembler.Write(rpt)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(jsonPath, "compliance_20260315_103000.json"))
	assert.True(t, strings.HasSuffix(csvPath, "compliance_20260315_103000.csv"))

	// The JSON file round-trips to the same report.
	structured, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded schemas.ComplianceReport
	require.NoError(t, json.Unmarshal(structured, &decoded))
	assert.Equal(t, rpt.ID, decoded.ID)
	assert.Equal(t, rpt.Score, decoded.Score)
	assert.Equal(t, rpt.NextAuditDate, decoded.NextAuditDate)
	require.Len(t, decoded.DetailedIssues, len(rpt.DetailedIssues))
	assert.Equal(t, rpt.DetailedIssues[0].DueDate, decoded.DetailedIssues[0].DueDate)

	// The CSV carries the same summary facts.
	tabular, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	reader := csv.NewReader(bytes.NewReader(tabular))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Test University Compliance Report"}, rows[0])
	assertCSVField(t, rows, "Score", fmt.Sprintf("%d/100", rpt.Score))
	assertCSVField(t, rows, "Compliance Status", rpt.ComplianceStatus)
	assertCSVField(t, rows, "Next Audit Due", rpt.NextAuditDate)

	// Per-issue rows: uppercased severity and matching due date.
	var issueRow []string
	for _, row := range rows {
		if len(row) == 6 && row[0] == "CRITICAL" {
			issueRow = row
			break
		}
	}
	require.NotNil(t, issueRow, "expected a CRITICAL issue row in the CSV")
	assert.Equal(t, "Image Alt", issueRow[1])
	assert.Equal(t, "IMMEDIATE", issueRow[5])
}

func TestSerializeCSV_FallbackFix(t *testing.T) {
	t.Parallel()
	assembler := newTestAssembler(t)

	result := sampleResult()
	result.Findings[2].FixSuggestion = ""
	rpt := assembler.Assemble(result, nil, nil)

	tabular, err := SerializeCSV(rpt)
	require.NoError(t, err)
	assert.Contains(t, string(tabular), "Review required")
}

// assertCSVField finds a two-column summary row by its label.
func assertCSVField(t *testing.T, rows [][]string, label, want string) {
	t.Helper()
	for _, row := range rows {
		if len(row) == 2 && row[0] == label {
			assert.Equal(t, want, row[1], "CSV field %q", label)
			return
		}
	}
	t.Fatalf("CSV field %q not found", label)
}
