package webscan

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/classify"
	"github.com/xkilldash9x/a11ygrade-cli/internal/config"
	"github.com/xkilldash9x/a11ygrade-cli/internal/scoring"
)

// StaticChecker is the degraded scan path: a plain HTTP fetch plus a handful
// of structural HTML checks. Far less thorough than axe-core, but it keeps
// the grader usable against pages the browser cannot reach.
type StaticChecker struct {
	cfg    *config.Config
	client *http.Client
	policy scoring.Policy
	logger *zap.Logger
}

// NewStaticChecker builds the fallback checker with a bounded-timeout client.
func NewStaticChecker(cfg *config.Config, logger *zap.Logger) *StaticChecker {
	return &StaticChecker{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Network.Timeout},
		policy: scoring.Policy(cfg.Scoring.Policy),
		logger: logger.Named("webscan.static"),
	}
}

// Check fetches the page and runs the static rule set. Fetch failures map to
// the deterministic error result, never to a raw fault.
func (c *StaticChecker) Check(ctx context.Context, target string) *schemas.ScoreResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		result := scoring.ErrorResult(target, fmt.Sprintf("Static checker failed: %v", err))
		return &result
	}
	c.setBrowserHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		result := scoring.ErrorResult(target, fmt.Sprintf("Static checker failed: %v", err))
		return &result
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		result := scoring.ErrorResult(target, "Website blocked access (403 Forbidden)")
		return &result
	}
	if resp.StatusCode != http.StatusOK {
		result := scoring.ErrorResult(target, fmt.Sprintf("HTTP %d", resp.StatusCode))
		return &result
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		result := scoring.ErrorResult(target, fmt.Sprintf("Static checker failed: %v", err))
		return &result
	}

	violations, incomplete := CheckDocument(doc)
	result := scoring.Score(c.policy, target, violations, incomplete, 0, schemas.MethodStaticFallback)
	c.logger.Info("Static fallback scan complete",
		zap.String("url", target),
		zap.Int("score", result.Score),
		zap.Int("issues", len(result.Findings)))
	return &result
}

// setBrowserHeaders makes the fetch look like an ordinary browser request;
// many sites serve crawlers a degraded or blocked page otherwise.
func (c *StaticChecker) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.cfg.Network.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// CheckDocument runs the static rule set over a parsed HTML tree.
func CheckDocument(doc *html.Node) (violations, incomplete []schemas.Finding) {
	var (
		imagesMissingAlt []string
		hasLang          bool
		hasTitle         bool
		unlabeledInputs  int
		emptyLinks       int
		labeledIDs       = map[string]bool{}
		inputs           []*html.Node
	)

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "img":
			if attr(n, "alt") == "" {
				imagesMissingAlt = append(imagesMissingAlt, renderTag(n))
			}
		case "html":
			if attr(n, "lang") != "" {
				hasLang = true
			}
		case "title":
			if n.FirstChild != nil && strings.TrimSpace(n.FirstChild.Data) != "" {
				hasTitle = true
			}
		case "label":
			if forID := attr(n, "for"); forID != "" {
				labeledIDs[forID] = true
			}
		case "input":
			if attr(n, "type") != "hidden" {
				inputs = append(inputs, n)
			}
		case "a":
			if attr(n, "href") != "" && strings.TrimSpace(textContent(n)) == "" && attr(n, "aria-label") == "" {
				emptyLinks++
			}
		}
	})

	for _, in := range inputs {
		if attr(in, "aria-label") == "" && !labeledIDs[attr(in, "id")] {
			unlabeledInputs++
		}
	}

	if len(imagesMissingAlt) > 0 {
		samples := imagesMissingAlt
		if len(samples) > schemas.MaxSampleNodes {
			samples = samples[:schemas.MaxSampleNodes]
		}
		violations = append(violations, schemas.Finding{
			RuleID:        "image-alt",
			Title:         "Missing Image Alt Text",
			Severity:      schemas.SeverityCritical,
			Description:   "Images without alt text",
			FixSuggestion: classify.FixSuggestion("image-alt"),
			Category:      schemas.CategoryImages,
			AffectedCount: len(imagesMissingAlt),
			SampleNodes:   samples,
		})
	}

	if !hasLang {
		violations = append(violations, schemas.Finding{
			RuleID:        "html-has-lang",
			Title:         "Missing Language Attribute",
			Severity:      schemas.SeverityCritical,
			Description:   "HTML missing lang attribute",
			FixSuggestion: classify.FixSuggestion("html-has-lang"),
			Category:      schemas.CategoryStructure,
			AffectedCount: 1,
		})
	}

	if !hasTitle {
		violations = append(violations, schemas.Finding{
			RuleID:        "document-title",
			Title:         "Missing Document Title",
			Severity:      schemas.SeveritySerious,
			Description:   "Page has no <title> element",
			FixSuggestion: classify.FixSuggestion("document-title"),
			Category:      schemas.CategoryStructure,
			AffectedCount: 1,
		})
	}

	if unlabeledInputs > 0 {
		incomplete = append(incomplete, schemas.Finding{
			RuleID:        "label",
			Title:         "Inputs Without Labels",
			Severity:      schemas.SeverityModerate,
			Description:   "Needs review: form inputs without associated labels",
			FixSuggestion: classify.FixSuggestion("label"),
			Category:      schemas.CategoryForms,
			AffectedCount: unlabeledInputs,
		})
	}

	if emptyLinks > 0 {
		incomplete = append(incomplete, schemas.Finding{
			RuleID:        "link-name",
			Title:         "Links Without Text",
			Severity:      schemas.SeverityModerate,
			Description:   "Needs review: links with no discernible text",
			FixSuggestion: classify.FixSuggestion("link-name"),
			Category:      schemas.CategoryLinks,
			AffectedCount: emptyLinks,
		})
	}

	return violations, incomplete
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(textContent(child))
	}
	return sb.String()
}

func renderTag(n *html.Node) string {
	var sb strings.Builder
	sb.WriteString("<" + n.Data)
	for _, a := range n.Attr {
		sb.WriteString(fmt.Sprintf(" %s=%q", a.Key, a.Val))
	}
	sb.WriteString(">")
	return sb.String()
}
