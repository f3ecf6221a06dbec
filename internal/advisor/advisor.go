// Package advisor produces the optional AI-generated remediation guidance
// attached to compliance reports. Advice is strictly opportunistic: it never
// changes a score, and every failure path degrades to a deterministic
// placeholder advisory rather than an error surfaced to the user.
package advisor

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/config"
)

const (
	systemPrompt = "You are an accessibility expert specializing in web pages and PDF, Word, and text documents. Provide practical, tool-specific advice."

	// promptIssueLimit bounds how many findings are quoted in the prompt.
	promptIssueLimit = 5

	// Advisory sources recorded on the report.
	sourceAI     = "Gemini AI"
	sourceAIText = "Gemini AI (Text)"
	sourceMock   = "Mock (needs API key)"
)

// Client talks to the Gemini generateContent API. With no API key configured
// it serves deterministic mock advisories instead.
type Client struct {
	cfg        config.AdvisorConfig
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ schemas.Advisor = (*Client)(nil)

// NewClient builds an advisory client from configuration.
func NewClient(cfg config.AdvisorConfig, logger *zap.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", cfg.Model)
	}
	return &Client{
		cfg:        cfg,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: cfg.APITimeout},
		logger:     logger.Named("advisor"),
	}
}

// Available reports whether real AI advice can be requested.
func (c *Client) Available() bool {
	return c.cfg.Enabled && c.cfg.APIKey != ""
}

// Advise generates remediation guidance for a scored subject. It always
// returns a usable advisory: real AI output when the API succeeds, a text
// wrapper when the response is not valid JSON, and a mock advisory when the
// API is unconfigured or unreachable.
func (c *Client) Advise(ctx context.Context, subject string, score int, findings []schemas.Finding) (*schemas.Advisory, error) {
	if !c.Available() {
		return mockAdvisory(score, "No API client"), nil
	}

	content, err := c.generate(ctx, systemPrompt, buildPrompt(subject, score, findings))
	if err != nil {
		c.logger.Warn("Advisory request failed, serving mock advisory",
			zap.String("subject", subject), zap.Error(err))
		return mockAdvisory(score, fmt.Sprintf("API Error: %v", err)), nil
	}

	return ParseAdvisory(content), nil
}

// buildPrompt renders the scoring outcome into the analysis request.
func buildPrompt(subject string, score int, findings []schemas.Finding) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze these accessibility results:\n\n")
	fmt.Fprintf(&sb, "Subject: %s\nScore: %d/100\nIssues: %d\n\nTop issues:\n", subject, score, len(findings))

	limit := len(findings)
	if limit > promptIssueLimit {
		limit = promptIssueLimit
	}
	for _, finding := range findings[:limit] {
		desc := finding.Description
		if len(desc) > 100 {
			desc = desc[:100]
		}
		fmt.Fprintf(&sb, "- %s: %s\n", finding.Title, desc)
	}

	sb.WriteString("\nProvide JSON with: priority_issues[], summary, next_steps[], estimated_effort")
	return sb.String()
}

// ParseAdvisory extracts a structured advisory from model output. Models often
// wrap JSON in prose or markdown fences, so it looks for the outermost brace
// pair; when no parseable JSON is present the raw text becomes the summary.
func ParseAdvisory(content string) *schemas.Advisory {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		var advisory schemas.Advisory
		if err := json.Unmarshal([]byte(content[start:end+1]), &advisory); err == nil {
			advisory.Source = sourceAI
			return &advisory
		}
	}

	summary := content
	if len(summary) > 250 {
		summary = summary[:250] + "..."
	}
	return &schemas.Advisory{
		Summary: "Accessibility Analysis: " + summary,
		PriorityIssues: []schemas.AdvisoryIssue{{
			Title:  "Review Full Analysis",
			Reason: "AI response was not structured JSON",
			Fixes:  []string{content},
		}},
		Source: sourceAIText,
	}
}

// mockAdvisory is the deterministic stand-in used whenever the real API is
// unavailable. It is honest about being a placeholder.
func mockAdvisory(score int, reason string) *schemas.Advisory {
	return &schemas.Advisory{
		Summary: fmt.Sprintf("Mock advisory | Score: %d/100 | %s", score, reason),
		PriorityIssues: []schemas.AdvisoryIssue{{
			Title:  "Configure API for Real AI",
			Reason: reason,
			Fixes:  []string{"Set A11YGRADE_ADVISOR_API_KEY and enable the advisor in configuration"},
		}},
		NextSteps:       []string{"Obtain a Gemini API key", "Enable advisor.enabled in configuration"},
		EstimatedEffort: "Unknown",
		Source:          sourceMock,
	}
}
