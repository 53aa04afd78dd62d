package navigate

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/sellermate/prowl/internal/browser"
	"github.com/sellermate/prowl/internal/config"
	"github.com/sellermate/prowl/internal/types"
)

// challengeMarkers are the substrings whose case-insensitive presence
// in page text classifies a load as soft-blocked, regardless of HTTP
// status.
var challengeMarkers = []string{
	"captcha",
	"robot",
	"verify you are a human",
}

// DetectChallenge reports whether the page content looks like a
// CAPTCHA or human-verification interstitial rather than real content.
func DetectChallenge(html string) bool {
	lower := strings.ToLower(html)
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Navigator drives one navigation attempt for one strategy. Errors are
// always captured inside the returned attempt, never propagated: the
// fallback chain decides what happens next.
type Navigator interface {
	Navigate(ctx context.Context, targetURL string, strategy types.Strategy) *types.NavigationAttempt
}

// BrowserNavigator is the rod-backed Navigator. It owns strategy
// preparation (user-agent and header switches, browser relaunches for
// the alt-profile and minimal tiers) on top of a single Session.
type BrowserNavigator struct {
	session *browser.Session
	cfg     *config.Config
	logger  *slog.Logger
}

// NewBrowserNavigator wraps a browser session.
func NewBrowserNavigator(sess *browser.Session, cfg *config.Config, logger *slog.Logger) *BrowserNavigator {
	return &BrowserNavigator{
		session: sess,
		cfg:     cfg,
		logger:  logger.With("component", "navigator"),
	}
}

// Navigate implements Navigator.
func (n *BrowserNavigator) Navigate(ctx context.Context, targetURL string, strategy types.Strategy) *types.NavigationAttempt {
	start := time.Now()
	att := &types.NavigationAttempt{Strategy: strategy}

	html, blocked, err := n.attempt(ctx, targetURL, strategy)
	att.Elapsed = time.Since(start)
	att.HTML = html

	switch {
	case err != nil:
		att.Outcome = types.OutcomeError
		att.Err = &types.NavigationError{URL: targetURL, Strategy: strategy, Err: err}
		n.logger.Warn("navigation attempt failed", "strategy", strategy, "error", err)
	case blocked:
		att.Outcome = types.OutcomeBlocked
		n.logger.Info("navigation attempt soft-blocked", "strategy", strategy, "elapsed", att.Elapsed)
	default:
		att.Outcome = types.OutcomeSuccess
		n.logger.Info("navigation attempt succeeded",
			"strategy", strategy,
			"size", len(html),
			"elapsed", att.Elapsed,
		)
	}
	return att
}

// attempt runs a single strategy end to end: prepare the page, load
// the target, classify the result, and run the human-simulation pass
// on unblocked loads so lazy content materializes before the HTML is
// captured.
func (n *BrowserNavigator) attempt(ctx context.Context, targetURL string, strategy types.Strategy) (html string, blocked bool, err error) {
	page, dest, err := n.prepare(targetURL, strategy)
	if err != nil {
		if strategy == types.StrategyMinimal {
			// The no-script tier must never dead-end on a broken
			// browser: fall through to a plain HTTP fetch.
			html, ferr := lastChanceFetch(ctx, targetURL, n.cfg.Navigate.Timeout)
			if ferr != nil {
				return "", false, err
			}
			return html, DetectChallenge(html), nil
		}
		return "", false, err
	}

	timeout := n.cfg.Navigate.Timeout
	p := page.Context(ctx).Timeout(timeout)

	if strategy == types.StrategyDirect {
		// Pause before first contact; an instant hit right after
		// process launch is itself a bot signal.
		sleepCtx(ctx, browser.RandomDelay(2*time.Second))
	}

	if err := p.Navigate(dest); err != nil {
		return "", false, fmt.Errorf("navigate: %w", err)
	}

	if strategy == types.StrategyMinimal {
		if err := p.WaitLoad(); err != nil {
			n.logger.Warn("load wait timed out, continuing", "error", err)
		}
	} else if err := p.WaitStable(500 * time.Millisecond); err != nil {
		n.logger.Warn("page stability timeout, continuing", "error", err)
	}

	n.screenshot(page, "product-screenshot")

	html, err = page.HTML()
	if err != nil {
		return "", false, fmt.Errorf("read page content: %w", err)
	}

	if strategy == types.StrategyCached && len(html) < n.cfg.Navigate.MinCachedBytes {
		return html, false, fmt.Errorf("cached copy too small (%d bytes): likely an error stub", len(html))
	}

	if DetectChallenge(html) {
		n.screenshot(page, "captcha")
		html = n.awaitManualSolve(ctx, page, html)
		if DetectChallenge(html) {
			return html, true, nil
		}
	}

	if strategy != types.StrategyMinimal {
		browser.SimulateHuman(page)
		browser.AutoScroll(page)
		sleepCtx(ctx, n.cfg.Navigate.SettleDelay)
		if fresh, err := page.HTML(); err == nil && fresh != "" {
			html = fresh
		}
	}

	return html, false, nil
}

// prepare mutates the session for the given strategy and returns the
// page plus the URL actually navigated to.
func (n *BrowserNavigator) prepare(targetURL string, strategy types.Strategy) (*rod.Page, string, error) {
	switch strategy {
	case types.StrategyDirect:
		page := n.session.Page()
		if err := browser.Harden(page, n.session.UserAgent(), targetURL); err != nil {
			return nil, "", err
		}
		return page, targetURL, nil

	case types.StrategyCached:
		dest := fmt.Sprintf(n.cfg.Navigate.CacheTemplate, url.QueryEscape(targetURL))
		return n.session.Page(), dest, nil

	case types.StrategyMobileUA:
		page := n.session.Page()
		if err := browser.Harden(page, browser.MobileUserAgent, targetURL); err != nil {
			return nil, "", err
		}
		return page, targetURL, nil

	case types.StrategyAltReferrer:
		page := n.session.Page()
		if _, err := page.SetExtraHeaders([]string{"Referer", n.cfg.Navigate.ReferrerURL}); err != nil {
			return nil, "", err
		}
		return page, targetURL, nil

	case types.StrategyAltProfile:
		if err := n.session.Relaunch(browser.ProfileFirefox); err != nil {
			return nil, "", err
		}
		page := n.session.Page()
		if err := browser.Harden(page, browser.FirefoxUserAgent, targetURL); err != nil {
			return nil, "", err
		}
		return page, targetURL, nil

	case types.StrategyMinimal:
		if err := n.session.Relaunch(browser.ProfileMinimal); err != nil {
			return nil, "", err
		}
		return n.session.Page(), targetURL, nil

	default:
		return nil, "", fmt.Errorf("unknown strategy %q", strategy)
	}
}

// awaitManualSolve pauses for a human to clear the challenge in a
// visible browser, then re-reads the page. In headless mode, or with
// the wait disabled, it returns the blocked content unchanged.
func (n *BrowserNavigator) awaitManualSolve(ctx context.Context, page *rod.Page, html string) string {
	if n.cfg.Browser.Headless || n.cfg.Navigate.ChallengeWait <= 0 {
		return html
	}

	n.logger.Info("challenge detected, waiting for manual solve", "wait", n.cfg.Navigate.ChallengeWait)
	sleepCtx(ctx, n.cfg.Navigate.ChallengeWait)

	fresh, err := page.HTML()
	if err != nil {
		return html
	}
	n.screenshot(page, "after-captcha")
	return fresh
}

func (n *BrowserNavigator) screenshot(page *rod.Page, label string) {
	if !n.cfg.Browser.Screenshots {
		return
	}
	path, err := browser.CaptureScreenshot(page, n.cfg.Browser.ScreenshotDir, label)
	if err != nil {
		n.logger.Warn("screenshot failed", "label", label, "error", err)
		return
	}
	n.logger.Debug("screenshot saved", "path", path)
}

// sleepCtx sleeps for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
