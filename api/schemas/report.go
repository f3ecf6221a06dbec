package schemas

import "time"

// -- Scoring and Report Schemas --

// Grade is the display-only letter grade derived from a score. It is
// independent of the compliance status bands.
type Grade struct {
	Letter string `json:"letter"`
	Label  string `json:"label"`
}

// ScoreResult is the complete, renderable outcome of scoring one subject.
// Every public scoring entry point returns a well-formed ScoreResult; failures
// are encoded as data (score 0, a single synthetic critical finding), never
// as an escaped fault.
type ScoreResult struct {
	Subject string `json:"subject"`

	// Score is always clamped into [0,100]. The strict policy additionally
	// floors at 60; scores below that are reserved for the error path.
	Score            int    `json:"score"`
	Grade            Grade  `json:"grade"`
	ComplianceStatus string `json:"compliance_status"`

	// Findings are the enriched, prioritized issues behind the score.
	Findings []Finding `json:"findings"`

	ViolationCount int `json:"violation_count"`
	WarningCount   int `json:"warning_count"`
	PassCount      int `json:"pass_count"`

	Summary string `json:"summary"`

	// Method records which analysis path produced the result
	// ("axe-core", "static-fallback", "pdf-analysis", "word-analysis",
	// "text-analysis", or "error").
	Method string `json:"method"`
}

// IsError reports whether the result came from the deterministic error path.
func (r *ScoreResult) IsError() bool {
	return r.Method == MethodError
}

// Analysis method identifiers recorded on ScoreResult.
const (
	MethodAxeCore        = "axe-core"
	MethodStaticFallback = "static-fallback"
	MethodPDFAnalysis    = "pdf-analysis"
	MethodWordAnalysis   = "word-analysis"
	MethodTextAnalysis   = "text-analysis"
	MethodError          = "error"
)

// DocumentInfo captures the structural inventory of an analyzed document.
type DocumentInfo struct {
	Pages      int    `json:"pages,omitempty"`
	Paragraphs int    `json:"paragraphs,omitempty"`
	Lines      int    `json:"lines,omitempty"`
	Headings   int    `json:"headings,omitempty"`
	Images     int    `json:"images,omitempty"`
	Tables     int    `json:"tables,omitempty"`
	Hyperlinks int    `json:"hyperlinks,omitempty"`
	HasText    bool   `json:"has_text"`
	Title      string `json:"title,omitempty"`
	Author     string `json:"author,omitempty"`
}

// ElementCount returns the document's countable element total used by the
// document scoring policy (pages for PDFs, paragraphs for Word, lines for
// plain text).
func (d *DocumentInfo) ElementCount() int {
	if d.Pages > 0 {
		return d.Pages
	}
	if d.Paragraphs > 0 {
		return d.Paragraphs
	}
	return d.Lines
}

// AdvisoryIssue is one prioritized recommendation from the AI advisor.
type AdvisoryIssue struct {
	Title  string   `json:"title"`
	Reason string   `json:"reason"`
	Fixes  []string `json:"detailed_fixes,omitempty"`
}

// Advisory is the opportunistic AI analysis attached to a report. It never
// alters the numeric score.
type Advisory struct {
	Summary         string          `json:"summary"`
	PriorityIssues  []AdvisoryIssue `json:"priority_issues,omitempty"`
	NextSteps       []string        `json:"next_steps,omitempty"`
	EstimatedEffort string          `json:"estimated_effort,omitempty"`
	Source          string          `json:"source"`
}

// ReportFinding is a finding annotated with its remediation due date. The due
// date is computed once per report so the structured and tabular outputs
// always agree.
type ReportFinding struct {
	Finding
	DueDate string `json:"due_date"`
}

// ComplianceReport is the immutable audit snapshot produced once per analysis
// request. It is never mutated after assembly; both serialized outputs are
// derived from the same in-memory value.
type ComplianceReport struct {
	ID          string    `json:"id"`
	Institution string    `json:"institution"`
	GeneratedAt time.Time `json:"generated_at"`

	// Subject is the analyzed URL or filename.
	Subject    string `json:"subject"`
	Department string `json:"department,omitempty"`

	Score            int    `json:"score"`
	Grade            Grade  `json:"grade"`
	ComplianceStatus string `json:"compliance_status"`
	WCAGLevel        string `json:"wcag_level"`

	CriticalIssues int `json:"critical_issues"`
	TotalIssues    int `json:"total_issues"`

	DetailedIssues []ReportFinding `json:"detailed_issues"`

	DocumentInfo *DocumentInfo `json:"document_info,omitempty"`
	Advisory     *Advisory     `json:"advisory,omitempty"`

	LegalReferences []string `json:"legal_references"`
	NextAuditDate   string   `json:"next_audit_date"`
}
