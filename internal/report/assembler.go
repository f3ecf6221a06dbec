// Package report assembles scoring output and subject metadata into immutable
// compliance reports and serializes each one as a structured JSON file plus a
// tabular CSV file. Both outputs derive from the same in-memory report, so
// they always agree.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	homedir "github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/config"
)

// Audit cadence and remediation windows.
const (
	nextAuditInterval  = 90 * 24 * time.Hour
	warningDueInterval = 30 * 24 * time.Hour
	defaultDueInterval = 60 * 24 * time.Hour

	dueDateImmediate = "IMMEDIATE"
	dateLayout       = "2006-01-02"
	stampLayout      = "20060102_150405"
)

// legalReferences is the static citation list attached to every report.
var legalReferences = []string{
	"ADA Title II",
	"Section 508",
	"WCAG 2.1 AA",
	"OCR Resolution Agreements",
}

// defaultOutputDirName is used under the home directory when no output
// directory is configured.
const defaultOutputDirName = "compliance_reports"

// Assembler owns compliance report construction and the output directory
// lifecycle. One report produces exactly one JSON file and one CSV file
// sharing a timestamp-derived base name.
type Assembler struct {
	outputDir   string
	institution string
	auditor     string
	department  string
	logger      *zap.Logger

	// now is injectable so tests can pin report timestamps.
	now func() time.Time
}

// NewAssembler resolves the output directory (creating it if absent) and
// returns a ready assembler.
func NewAssembler(cfg config.ReportConfig, logger *zap.Logger) (*Assembler, error) {
	dir := cfg.OutputDir
	if dir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, defaultOutputDirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report output directory %s: %w", dir, err)
	}

	return &Assembler{
		outputDir:   dir,
		institution: cfg.Institution,
		auditor:     cfg.Auditor,
		department:  cfg.Department,
		logger:      logger.Named("report_assembler"),
		now:         time.Now,
	}, nil
}

// OutputDir returns the resolved report directory.
func (a *Assembler) OutputDir() string { return a.outputDir }

// Assemble combines a score result with subject metadata into an immutable
// ComplianceReport. The generation time is sampled exactly once; every
// derived date (due dates, next audit) comes from that single reference.
func (a *Assembler) Assemble(result schemas.ScoreResult, docInfo *schemas.DocumentInfo, advisory *schemas.Advisory) *schemas.ComplianceReport {
	now := a.now()

	detailed := make([]schemas.ReportFinding, 0, len(result.Findings))
	critical := 0
	for _, f := range result.Findings {
		if f.Severity == schemas.SeverityCritical {
			critical++
		}
		detailed = append(detailed, schemas.ReportFinding{
			Finding: f,
			DueDate: dueDate(f.Severity, now),
		})
	}

	return &schemas.ComplianceReport{
		ID:               uuid.New().String(),
		Institution:      a.institution,
		GeneratedAt:      now,
		Subject:          result.Subject,
		Department:       a.department,
		Score:            result.Score,
		Grade:            result.Grade,
		ComplianceStatus: result.ComplianceStatus,
		WCAGLevel:        WCAGLevel(result.Findings),
		CriticalIssues:   critical,
		TotalIssues:      len(result.Findings),
		DetailedIssues:   detailed,
		DocumentInfo:     docInfo,
		Advisory:         advisory,
		LegalReferences:  legalReferences,
		NextAuditDate:    now.Add(nextAuditInterval).Format(dateLayout),
	}
}

// Write serializes the report to its JSON and CSV files and returns both
// paths. The pair shares a base name derived from the generation timestamp.
func (a *Assembler) Write(report *schemas.ComplianceReport) (jsonPath, csvPath string, err error) {
	base := "compliance_" + report.GeneratedAt.Format(stampLayout)
	jsonPath = filepath.Join(a.outputDir, base+".json")
	csvPath = filepath.Join(a.outputDir, base+".csv")

	structured, err := SerializeJSON(report)
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize report: %w", err)
	}
	if err := os.WriteFile(jsonPath, structured, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write structured report: %w", err)
	}

	tabular, err := SerializeCSV(report)
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize tabular report: %w", err)
	}
	if err := os.WriteFile(csvPath, tabular, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write tabular report: %w", err)
	}

	a.logger.Info("Compliance report written",
		zap.String("subject", report.Subject),
		zap.Int("score", report.Score),
		zap.String("json", jsonPath),
		zap.String("csv", csvPath))

	return jsonPath, csvPath, nil
}

// WCAGLevel estimates the WCAG conformance level from the findings. Any
// critical finding tagged wcag2aa drops the estimate to the 2.0 A minimum.
// An approximation for audit triage, not a certification.
func WCAGLevel(findings []schemas.Finding) string {
	for i := range findings {
		if findings[i].Severity == schemas.SeverityCritical && findings[i].HasTag("wcag2aa") {
			return "WCAG 2.0 A (Minimum)"
		}
	}
	return "WCAG 2.1 AA (Target)"
}

// dueDate computes the remediation deadline for one finding from the report's
// single generation time.
func dueDate(severity schemas.Severity, now time.Time) string {
	switch severity {
	case schemas.SeverityCritical:
		return dueDateImmediate
	case schemas.SeverityWarning:
		return now.Add(warningDueInterval).Format(dateLayout)
	default:
		return now.Add(defaultDueInterval).Format(dateLayout)
	}
}
