// Package rules tracks the currency of the accessibility standards the grader
// enforces. The updater probes the authoritative sources for each standard and
// reports whether the bundled rule set is still the latest published version.
package rules

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/a11ygrade-cli/internal/config"
)

// WCAGVersion is the standard version the bundled rule set targets.
const WCAGVersion = "2.2"

// probeReadLimit bounds how much of a source page is read when checking for a
// newer published version.
const probeReadLimit = 512 * 1024

// Source identifies one upstream standard the updater monitors.
type Source struct {
	Name string
	URL  string
}

// UpdateSources are the authoritative locations checked for rule changes.
var UpdateSources = []Source{
	{Name: "wcag", URL: "https://www.w3.org/TR/WCAG22/"},
	{Name: "axe_core", URL: "https://github.com/dequelabs/axe-core/releases"},
	{Name: "section508", URL: "https://www.access-board.gov/ict/"},
}

// SourceStatus is the outcome of probing one update source.
type SourceStatus struct {
	Source    Source
	Reachable bool
	Current   bool
	Detail    string
}

// UpdateReport summarizes an update check across all sources.
type UpdateReport struct {
	WCAGVersion     string
	Statuses        []SourceStatus
	UpcomingChanges []string
}

// Checklist is the institution-facing compliance checklist derived from the
// current rule set.
type Checklist struct {
	Mandatory   []string
	Recommended []string
}

// Updater checks upstream standards bodies for rule changes. Probes share a
// rate limiter so a check never hammers the sources.
type Updater struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewUpdater builds an updater with a bounded-timeout client and the
// configured probe rate.
func NewUpdater(cfg config.RulesConfig, logger *zap.Logger) *Updater {
	return &Updater{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		logger:  logger.Named("rules"),
	}
}

// CheckForUpdates probes each update source and reports rule currency.
// Unreachable sources are reported, not fatal; the grader keeps working with
// the bundled rules either way.
func (u *Updater) CheckForUpdates(ctx context.Context) *UpdateReport {
	report := &UpdateReport{
		WCAGVersion:     WCAGVersion,
		UpcomingChanges: upcomingChanges(),
	}

	for _, source := range UpdateSources {
		report.Statuses = append(report.Statuses, u.probe(ctx, source))
	}
	return report
}

// probe fetches one source page and, for the WCAG source, checks that the
// bundled version still appears as the published recommendation.
func (u *Updater) probe(ctx context.Context, source Source) SourceStatus {
	status := SourceStatus{Source: source}

	if err := u.limiter.Wait(ctx); err != nil {
		status.Detail = fmt.Sprintf("update check canceled: %v", err)
		return status
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		status.Detail = fmt.Sprintf("invalid source URL: %v", err)
		return status
	}

	resp, err := u.client.Do(req)
	if err != nil {
		u.logger.Warn("Update source unreachable",
			zap.String("source", source.Name), zap.Error(err))
		status.Detail = "could not check for updates"
		return status
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		status.Detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return status
	}
	status.Reachable = true

	if source.Name != "wcag" {
		status.Current = true
		status.Detail = "reachable"
		return status
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, probeReadLimit))
	if err != nil {
		status.Detail = fmt.Sprintf("failed to read source page: %v", err)
		return status
	}
	if strings.Contains(string(body), "WCAG "+WCAGVersion) {
		status.Current = true
		status.Detail = "using latest WCAG " + WCAGVersion
	} else {
		status.Detail = "newer WCAG version may be available"
	}
	return status
}

// ComplianceChecklist returns the institution compliance checklist.
func ComplianceChecklist() Checklist {
	return Checklist{
		Mandatory: []string{
			"All images have alt text",
			"All videos have captions",
			"Color contrast meets 4.5:1 ratio",
			"Keyboard navigable",
			"Form labels present",
			"Headings hierarchy correct",
			"Language attribute set",
			"No keyboard traps",
			"Error identification",
			"Focus visible",
		},
		Recommended: []string{
			"Skip navigation links",
			"ARIA labels where needed",
			"Mobile responsive",
			"Print stylesheets",
			"Dark mode compatible",
		},
	}
}

func upcomingChanges() []string {
	return []string{
		"WCAG 2.2: New success criteria for focus appearance",
		"WCAG 2.2: Enhanced target size requirements",
		"WCAG 2.2: Improved accessible authentication",
	}
}
