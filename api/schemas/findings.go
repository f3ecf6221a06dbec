package schemas

import "strings"

// -- Finding Schemas --

// Severity is the canonical severity scale for accessibility findings.
// Source vocabularies differ (web scans report critical/serious/moderate/minor,
// document scans report critical/warning/info) and are normalized onto this
// single ordered scale. The values are lowercase to align with report output.
type Severity string

// Constants defining the standard severity levels, strongest first.
const (
	SeverityCritical Severity = "critical"
	SeveritySerious  Severity = "serious"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// severityRank orders severities for prioritization. Lower is more severe.
// Minor and warning share a band: minor web issues and document warnings
// carry comparable remediation urgency.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeveritySerious:  1,
	SeverityModerate: 2,
	SeverityMinor:    3,
	SeverityWarning:  3,
	SeverityInfo:     4,
}

// Rank returns the prioritization rank of the severity. Unknown severities
// sort after every known one.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return 99
}

// NormalizeImpact maps an axe-core impact string onto the canonical scale.
// Unknown or missing impacts default to moderate, matching how the scoring
// policies treat them.
func NormalizeImpact(impact string) Severity {
	switch strings.ToLower(strings.TrimSpace(impact)) {
	case "critical":
		return SeverityCritical
	case "serious":
		return SeveritySerious
	case "moderate":
		return SeverityModerate
	case "minor":
		return SeverityMinor
	default:
		return SeverityModerate
	}
}

// NormalizeDocumentSeverity maps the document-scan vocabulary onto the
// canonical scale. Unknown values default to warning, the mid tier of the
// document vocabulary.
func NormalizeDocumentSeverity(severity string) Severity {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "critical":
		return SeverityCritical
	case "warning":
		return SeverityWarning
	case "info":
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// Category is the closed set of issue categories used across all sources.
type Category string

// Constants defining the issue categories.
const (
	CategoryImages     Category = "Images"
	CategoryForms      Category = "Forms"
	CategoryColor      Category = "Color"
	CategoryLanguage   Category = "Language"
	CategoryStructure  Category = "Structure"
	CategoryTables     Category = "Tables"
	CategoryLinks      Category = "Links"
	CategoryMetadata   Category = "Metadata"
	CategoryNavigation Category = "Navigation"
	CategoryText       Category = "Text"
	CategoryError      Category = "Error"
	CategoryGeneral    Category = "General"
)

// MaxSampleNodes bounds the number of raw evidence snippets carried on a
// finding. Samples are display-only and never feed scoring.
const MaxSampleNodes = 2

// Finding is the normalized representation of one detected accessibility
// issue, regardless of source (web scan, PDF scan, Word scan, text scan).
// Adapters are responsible for producing it; the scoring engine only ever
// consumes this type.
type Finding struct {
	// RuleID is the stable rule identifier (e.g. "image-alt") used for fix
	// suggestion lookup. Empty for ad-hoc document checks, in which case
	// Title serves as the key.
	RuleID string `json:"rule_id,omitempty"`

	Title       string   `json:"title"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`

	// FixSuggestion is remediation advice attached by the classifier or the
	// source adapter.
	FixSuggestion string   `json:"fix_suggestion"`
	Category      Category `json:"category"`

	// AffectedCount is the number of instances (nodes/images/tables) this
	// finding represents, at least 1. Absence-of-feature checks use 1 as a
	// flag value.
	AffectedCount int `json:"affected_count"`

	// Tags carries the raw source tags (e.g. axe-core "wcag2aa", "cat.forms").
	Tags []string `json:"tags,omitempty"`

	// SampleNodes holds up to MaxSampleNodes raw evidence snippets.
	SampleNodes []string `json:"sample_nodes,omitempty"`

	HelpURL string `json:"help_url,omitempty"`
}

// HasTag reports whether the finding carries the given source tag.
func (f *Finding) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// -- Raw axe-core result schemas --

// AxeResult mirrors the JSON document produced by an axe-core run inside the
// browser. It is the raw input of the web scan adapter, before normalization
// into Findings.
type AxeResult struct {
	Violations []AxeCheck `json:"violations"`
	Incomplete []AxeCheck `json:"incomplete"`
	Passes     []AxeCheck `json:"passes"`
}

// AxeCheck is a single axe-core rule outcome.
type AxeCheck struct {
	ID          string    `json:"id"`
	Impact      string    `json:"impact"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description"`
	Help        string    `json:"help"`
	HelpURL     string    `json:"helpUrl"`
	Nodes       []AxeNode `json:"nodes"`
}

// AxeNode is the per-element evidence attached to an axe-core check.
type AxeNode struct {
	HTML   string   `json:"html"`
	Target []string `json:"target,omitempty"`
}

// TotalChecks returns the combined number of checks the run evaluated.
func (r *AxeResult) TotalChecks() int {
	return len(r.Violations) + len(r.Incomplete) + len(r.Passes)
}
