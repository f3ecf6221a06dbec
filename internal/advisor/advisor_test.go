package advisor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/config"
)

// -- Test Setup Helpers --

func advisorConfig() config.AdvisorConfig {
	return config.AdvisorConfig{
		Enabled:     true,
		APIKey:      "test-key",
		Model:       "gemini-2.5-flash",
		APITimeout:  5 * time.Second,
		Temperature: 0.7,
		MaxTokens:   1500,
	}
}

// setupClient rigs up a Client pointed at a mock HTTP server.
func setupClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := advisorConfig()
	cfg.Endpoint = server.URL
	return NewClient(cfg, zap.NewNop())
}

// geminiTextResponse wraps text in the generateContent response envelope.
func geminiTextResponse(text string) string {
	payload := geminiResponsePayload{}
	payload.Candidates = []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	}{
		{Content: geminiContent{Parts: []geminiPart{{Text: text}}}},
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

func sampleFindings() []schemas.Finding {
	return []schemas.Finding{
		{Title: "Image Alt", Description: "Images must have alternate text", Severity: schemas.SeverityCritical},
		{Title: "Color Contrast", Description: "Insufficient contrast", Severity: schemas.SeveritySerious},
	}
}

// -- Construction --

func TestNewClient_DefaultEndpoint(t *testing.T) {
	t.Parallel()

	cfg := advisorConfig()
	client := NewClient(cfg, zap.NewNop())

	expected := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", cfg.Model)
	assert.Equal(t, expected, client.endpoint)
	assert.Equal(t, cfg.APITimeout, client.httpClient.Timeout)
	assert.True(t, client.Available())
}

func TestClient_UnavailableWithoutKey(t *testing.T) {
	t.Parallel()

	cfg := advisorConfig()
	cfg.APIKey = ""
	assert.False(t, NewClient(cfg, zap.NewNop()).Available())

	cfg = advisorConfig()
	cfg.Enabled = false
	assert.False(t, NewClient(cfg, zap.NewNop()).Available())
}

// -- Advise --

func TestAdvise_MockWithoutAPIKey(t *testing.T) {
	t.Parallel()

	cfg := advisorConfig()
	cfg.APIKey = ""
	client := NewClient(cfg, zap.NewNop())

	advisory, err := client.Advise(context.Background(), "https://example.edu", 85, sampleFindings())
	require.NoError(t, err)
	require.NotNil(t, advisory)
	assert.Equal(t, sourceMock, advisory.Source)
	assert.Contains(t, advisory.Summary, "85/100")
	assert.Contains(t, advisory.Summary, "No API client")
}

func TestAdvise_StructuredResponse(t *testing.T) {
	t.Parallel()

	response := `Here is my analysis:
{"summary": "Fix images first", "priority_issues": [{"title": "Image Alt", "reason": "Blocks screen readers"}], "next_steps": ["Audit all templates"], "estimated_effort": "2 days"}
Hope that helps!`

	var gotKey atomic.Value
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("x-goog-api-key"))
		fmt.Fprint(w, geminiTextResponse(response))
	})

	advisory, err := client.Advise(context.Background(), "https://example.edu", 85, sampleFindings())
	require.NoError(t, err)
	require.NotNil(t, advisory)

	assert.Equal(t, "test-key", gotKey.Load())
	assert.Equal(t, sourceAI, advisory.Source)
	assert.Equal(t, "Fix images first", advisory.Summary)
	require.Len(t, advisory.PriorityIssues, 1)
	assert.Equal(t, "Image Alt", advisory.PriorityIssues[0].Title)
	assert.Equal(t, []string{"Audit all templates"}, advisory.NextSteps)
	assert.Equal(t, "2 days", advisory.EstimatedEffort)
}

func TestAdvise_PermanentAPIErrorFallsBackToMock(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	advisory, err := client.Advise(context.Background(), "https://example.edu", 60, nil)
	require.NoError(t, err, "advisory failures never surface as errors")
	require.NotNil(t, advisory)
	assert.Equal(t, sourceMock, advisory.Source)
	assert.Contains(t, advisory.Summary, "API Error")
	assert.Equal(t, int32(1), calls.Load(), "a 400 is permanent and must not be retried")
}

func TestAdvise_TransientErrorIsRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, geminiTextResponse(`{"summary": "ok"}`))
	})

	advisory, err := client.Advise(context.Background(), "https://example.edu", 90, nil)
	require.NoError(t, err)
	require.NotNil(t, advisory)
	assert.Equal(t, sourceAI, advisory.Source)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

// -- Prompt Construction --

func TestBuildPrompt_BoundsIssues(t *testing.T) {
	t.Parallel()

	findings := make([]schemas.Finding, 8)
	for i := range findings {
		findings[i] = schemas.Finding{
			Title:       fmt.Sprintf("Issue %d", i),
			Description: strings.Repeat("d", 300),
		}
	}

	prompt := buildPrompt("https://example.edu", 70, findings)

	assert.Contains(t, prompt, "Score: 70/100")
	assert.Contains(t, prompt, "Issues: 8")
	assert.Contains(t, prompt, "Issue 4")
	assert.NotContains(t, prompt, "Issue 5", "prompt quotes at most five findings")
	for _, line := range strings.Split(prompt, "\n") {
		assert.LessOrEqual(t, len(line), 120, "quoted descriptions are clipped")
	}
}

// -- Response Parsing --

func TestParseAdvisory_PlainJSON(t *testing.T) {
	t.Parallel()

	advisory := ParseAdvisory(`{"summary": "tidy", "estimated_effort": "1 hour"}`)
	assert.Equal(t, sourceAI, advisory.Source)
	assert.Equal(t, "tidy", advisory.Summary)
	assert.Equal(t, "1 hour", advisory.EstimatedEffort)
}

func TestParseAdvisory_NonJSONBecomesTextAdvisory(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("All images need alternate text. ", 20)
	advisory := ParseAdvisory(long)

	assert.Equal(t, sourceAIText, advisory.Source)
	assert.True(t, strings.HasPrefix(advisory.Summary, "Accessibility Analysis: "))
	assert.True(t, strings.HasSuffix(advisory.Summary, "..."))
	require.Len(t, advisory.PriorityIssues, 1)
	assert.Equal(t, []string{long}, advisory.PriorityIssues[0].Fixes, "the full response is preserved")
}

func TestParseAdvisory_MalformedBracesFallBackToText(t *testing.T) {
	t.Parallel()

	advisory := ParseAdvisory(`prose with a { dangling briefcase } but no valid JSON`)
	assert.Equal(t, sourceAIText, advisory.Source)
}
