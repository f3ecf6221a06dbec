// Package webscan drives a headless browser over a target page, runs the
// axe-core rule engine inside it, and normalizes the raw results into
// findings for scoring. When the browser path fails it degrades to a static
// HTML checker, and when that fails too the caller still receives the
// deterministic error result.
package webscan

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/config"
	"github.com/xkilldash9x/a11ygrade-cli/internal/scoring"
)

// axeSourceURL is the rule engine injected into the target page.
const axeSourceURL = "https://cdn.jsdelivr.net/npm/axe-core@4.10.2/axe.min.js"

// axeLoaderScript injects axe-core into the page and resolves once the
// engine global is available.
const axeLoaderScript = `new Promise((resolve, reject) => {
	if (window.axe) { resolve(true); return; }
	const s = document.createElement('script');
	s.src = ` + "`" + axeSourceURL + "`" + `;
	s.onload = () => resolve(true);
	s.onerror = () => reject(new Error('failed to load axe-core'));
	document.head.appendChild(s);
})`

// axeRunScript executes the audit and returns the raw result document.
const axeRunScript = `axe.run(document, {resultTypes: ['violations', 'incomplete', 'passes']})`

// Scanner evaluates web pages for accessibility compliance.
type Scanner struct {
	cfg      *config.Config
	policy   scoring.Policy
	fallback *StaticChecker
	logger   *zap.Logger
}

var _ schemas.PageScanner = (*Scanner)(nil)

// NewScanner builds a scanner using the configured scoring policy.
func NewScanner(cfg *config.Config, logger *zap.Logger) *Scanner {
	return &Scanner{
		cfg:      cfg,
		policy:   scoring.Policy(cfg.Scoring.Policy),
		fallback: NewStaticChecker(cfg, logger),
		logger:   logger.Named("webscan"),
	}
}

// CheckURL analyzes one URL and always returns a complete result: a scored
// axe-core run, a scored static-fallback run, or the error result.
func (s *Scanner) CheckURL(ctx context.Context, target string) *schemas.ScoreResult {
	target = normalizeURL(target)

	raw, err := s.runAxe(ctx, target)
	if err == nil {
		violations, incomplete := NormalizeAxe(raw)
		result := scoring.Score(s.policy, target, violations, incomplete, len(raw.Passes), schemas.MethodAxeCore)
		s.logger.Info("Browser scan complete",
			zap.String("url", target),
			zap.Int("score", result.Score),
			zap.Int("violations", len(raw.Violations)),
			zap.Int("incomplete", len(raw.Incomplete)),
			zap.Int("passes", len(raw.Passes)))
		return &result
	}

	s.logger.Warn("Browser scan failed, falling back to static checker",
		zap.String("url", target), zap.Error(err))
	return s.fallback.Check(ctx, target)
}

// runAxe navigates the page in a dedicated browser context and runs axe-core
// in it. The whole operation is bounded by the configured navigation timeout.
func (s *Scanner) runAxe(ctx context.Context, target string) (*schemas.AxeResult, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, s.execOptions()...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	runCtx, runCancel := context.WithTimeout(browserCtx, s.cfg.Browser.NavigationTimeout)
	defer runCancel()

	awaitPromise := func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}

	var loaded bool
	var raw schemas.AxeResult
	err := chromedp.Run(runCtx,
		chromedp.Navigate(target),
		chromedp.Sleep(s.cfg.Browser.PostLoadWait),
		chromedp.Evaluate(axeLoaderScript, &loaded, awaitPromise),
		chromedp.Evaluate(axeRunScript, &raw, awaitPromise),
	)
	if err != nil {
		if runCtx.Err() != nil {
			return nil, fmt.Errorf("browser scan timed out after %s: %w", s.cfg.Browser.NavigationTimeout, runCtx.Err())
		}
		return nil, fmt.Errorf("browser scan failed: %w", err)
	}
	return &raw, nil
}

// execOptions derives the browser launch flags from configuration.
func (s *Scanner) execOptions() []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
	}
	if s.cfg.Browser.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if s.cfg.Browser.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	for _, arg := range s.cfg.Browser.Args {
		key, value, found := strings.Cut(arg, "=")
		if found {
			opts = append(opts, chromedp.Flag(key, value))
		} else {
			opts = append(opts, chromedp.Flag(key, true))
		}
	}
	return opts
}

// normalizeURL defaults bare hosts to https.
func normalizeURL(target string) string {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return "https://" + target
	}
	return target
}
