package rules

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/a11ygrade-cli/internal/config"
)

func newTestUpdater(t *testing.T) *Updater {
	t.Helper()
	return NewUpdater(config.RulesConfig{
		Timeout:   2 * time.Second,
		RateLimit: 100,
	}, zap.NewNop())
}

func TestProbe_CurrentWCAGVersion(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body>Web Content Accessibility Guidelines (WCAG %s)</body></html>", WCAGVersion)
	}))
	t.Cleanup(server.Close)

	status := newTestUpdater(t).probe(context.Background(), Source{Name: "wcag", URL: server.URL})

	assert.True(t, status.Reachable)
	assert.True(t, status.Current)
	assert.Contains(t, status.Detail, "latest WCAG")
}

func TestProbe_StaleWCAGVersion(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>WCAG 3.0 is now the recommendation</body></html>")
	}))
	t.Cleanup(server.Close)

	status := newTestUpdater(t).probe(context.Background(), Source{Name: "wcag", URL: server.URL})

	assert.True(t, status.Reachable)
	assert.False(t, status.Current)
	assert.Contains(t, status.Detail, "newer WCAG version may be available")
}

func TestProbe_NonWCAGSourceOnlyNeedsReachability(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "release notes")
	}))
	t.Cleanup(server.Close)

	status := newTestUpdater(t).probe(context.Background(), Source{Name: "axe_core", URL: server.URL})

	assert.True(t, status.Reachable)
	assert.True(t, status.Current)
}

func TestProbe_UnreachableSource(t *testing.T) {
	t.Parallel()

	status := newTestUpdater(t).probe(context.Background(), Source{Name: "wcag", URL: "http://127.0.0.1:1/"})

	assert.False(t, status.Reachable)
	assert.False(t, status.Current)
	assert.Equal(t, "could not check for updates", status.Detail)
}

func TestProbe_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	status := newTestUpdater(t).probe(context.Background(), Source{Name: "wcag", URL: server.URL})

	assert.False(t, status.Reachable)
	assert.Equal(t, "HTTP 502", status.Detail)
}

func TestProbe_HonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status := newTestUpdater(t).probe(ctx, Source{Name: "wcag", URL: "http://example.invalid/"})
	assert.False(t, status.Reachable)
}

func TestCheckForUpdates_CoversAllSources(t *testing.T) {
	t.Parallel()

	// Point the probes at nothing reachable; the report shape is what matters.
	updater := NewUpdater(config.RulesConfig{Timeout: 50 * time.Millisecond, RateLimit: 100}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	report := updater.CheckForUpdates(ctx)

	assert.Equal(t, WCAGVersion, report.WCAGVersion)
	require.Len(t, report.Statuses, len(UpdateSources))
	for i, status := range report.Statuses {
		assert.Equal(t, UpdateSources[i].Name, status.Source.Name)
	}
	assert.NotEmpty(t, report.UpcomingChanges)
}

func TestComplianceChecklist(t *testing.T) {
	t.Parallel()

	checklist := ComplianceChecklist()
	assert.Len(t, checklist.Mandatory, 10)
	assert.Len(t, checklist.Recommended, 5)
	assert.Contains(t, checklist.Mandatory, "All images have alt text")
	assert.Contains(t, checklist.Recommended, "Skip navigation links")
}
