package webscan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/config"
)

// -- Test Helpers --

func parseFixture(t *testing.T, page string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func findByRule(findings []schemas.Finding, ruleID string) *schemas.Finding {
	for i := range findings {
		if findings[i].RuleID == ruleID {
			return &findings[i]
		}
	}
	return nil
}

func newTestStaticChecker(t *testing.T) *StaticChecker {
	t.Helper()
	return NewStaticChecker(config.NewDefaultConfig(), zap.NewNop())
}

const cleanPage = `<!DOCTYPE html>
<html lang="en"><head><title>Course Catalog</title></head>
<body>
  <img src="logo.png" alt="University logo">
  <label for="q">Search</label><input id="q" type="text">
  <a href="/courses">Browse courses</a>
</body></html>`

const brokenPage = `<!DOCTYPE html>
<html><head></head>
<body>
  <img src="hero.jpg">
  <img src="chart.png" alt="">
  <input type="text">
  <input type="hidden" name="token">
  <a href="/next"></a>
</body></html>`

// -- Static Rule Set --

func TestCheckDocument_CleanPage(t *testing.T) {
	t.Parallel()

	violations, incomplete := CheckDocument(parseFixture(t, cleanPage))
	assert.Empty(t, violations)
	assert.Empty(t, incomplete)
}

func TestCheckDocument_BrokenPage(t *testing.T) {
	t.Parallel()

	violations, incomplete := CheckDocument(parseFixture(t, brokenPage))

	images := findByRule(violations, "image-alt")
	require.NotNil(t, images, "missing and empty alt attributes are both violations")
	assert.Equal(t, schemas.SeverityCritical, images.Severity)
	assert.Equal(t, 2, images.AffectedCount)
	assert.Len(t, images.SampleNodes, 2)

	lang := findByRule(violations, "html-has-lang")
	require.NotNil(t, lang)
	assert.Equal(t, schemas.SeverityCritical, lang.Severity)

	title := findByRule(violations, "document-title")
	require.NotNil(t, title)
	assert.Equal(t, schemas.SeveritySerious, title.Severity)

	label := findByRule(incomplete, "label")
	require.NotNil(t, label)
	assert.Equal(t, 1, label.AffectedCount, "hidden inputs are exempt from labeling")

	link := findByRule(incomplete, "link-name")
	require.NotNil(t, link)
	assert.Equal(t, 1, link.AffectedCount)
}

func TestCheckDocument_AriaLabelSatisfiesChecks(t *testing.T) {
	t.Parallel()

	page := `<html lang="en"><head><title>t</title></head><body>
		<input type="text" aria-label="Search">
		<a href="/x" aria-label="Next page"></a>
	</body></html>`

	violations, incomplete := CheckDocument(parseFixture(t, page))
	assert.Empty(t, violations)
	assert.Empty(t, incomplete)
}

// -- HTTP Fetch Path --

func TestStaticChecker_ScoresFetchedPage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"), "fetch should carry browser headers")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(brokenPage))
	}))
	t.Cleanup(server.Close)

	checker := newTestStaticChecker(t)
	result := checker.Check(context.Background(), server.URL)

	require.NotNil(t, result)
	assert.Equal(t, schemas.MethodStaticFallback, result.Method)
	assert.False(t, result.IsError())
	// 2 criticals and 1 serious violation plus 2 incomplete under strict:
	// 100 - 15 - 15 - 10 - 6 = 54, clamped to the floor.
	assert.Equal(t, 60, result.Score)
	assert.Equal(t, 3, result.ViolationCount)
	assert.Equal(t, 2, result.WarningCount)
}

func TestStaticChecker_ForbiddenMapsToErrorResult(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	checker := newTestStaticChecker(t)
	result := checker.Check(context.Background(), server.URL)

	require.NotNil(t, result)
	assert.True(t, result.IsError())
	assert.Equal(t, 0, result.Score)
	require.Len(t, result.Findings, 1)
	assert.Contains(t, result.Findings[0].Description, "403 Forbidden")
}

func TestStaticChecker_ServerErrorMapsToErrorResult(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	checker := newTestStaticChecker(t)
	result := checker.Check(context.Background(), server.URL)

	require.NotNil(t, result)
	assert.True(t, result.IsError())
	assert.Contains(t, result.Findings[0].Description, "HTTP 500")
}

func TestStaticChecker_NetworkErrorMapsToErrorResult(t *testing.T) {
	t.Parallel()

	checker := newTestStaticChecker(t)
	result := checker.Check(context.Background(), "http://127.0.0.1:1/unreachable")

	require.NotNil(t, result)
	assert.True(t, result.IsError())
	assert.Contains(t, result.Findings[0].Description, "Static checker failed")
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.edu", normalizeURL("example.edu"))
	assert.Equal(t, "http://example.edu", normalizeURL("http://example.edu"))
	assert.Equal(t, "https://example.edu", normalizeURL("https://example.edu"))
}
