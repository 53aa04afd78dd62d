package browser

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sellermate/prowl/internal/types"
)

// User-agent strings used across the fallback chain. Desktop agents
// rotate per session; the mobile and Firefox agents are fixed because
// their strategies exist to present one specific alternate client class.
const (
	MobileUserAgent   = "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Mobile/15E148 Safari/604.1"
	FirefoxUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/119.0"
	FallbackUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var desktopUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
}

// RandomDesktopUserAgent picks a desktop user-agent for a new session.
func RandomDesktopUserAgent() string {
	return desktopUserAgents[rand.Intn(len(desktopUserAgents))]
}

// fingerprintJS overrides the client-detectable automation signals:
// webdriver flag, plugin and language lists, the notification
// permissions hook, and the window.chrome object headless builds lack.
const fingerprintJS = `
Object.defineProperty(navigator, 'webdriver', { get: () => false });
window.chrome = { runtime: {}, loadTimes: () => {}, csi: () => {}, app: {} };
const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) =>
	parameters.name === 'notifications'
		? Promise.resolve({ state: Notification.permission })
		: originalQuery(parameters);
Object.defineProperty(navigator, 'plugins', {
	get: () => [
		{ name: 'Chrome PDF Plugin', filename: 'internal-pdf-viewer', description: 'Portable Document Format' },
		{ name: 'Chrome PDF Viewer', filename: 'mhjfbmdgcfjbbpaeojofohoefgiehjai', description: 'Portable Document Format' },
		{ name: 'Native Client', filename: 'internal-nacl-plugin', description: '' }
	]
});
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
`

// Harden applies the evasion layer to a page before navigation:
// user-agent override, a realistic header bundle, the fingerprint
// patches, and a planted session cookie so the site sees a returning
// user. Idempotent per page; mutates page state, returns nothing of
// its own.
func Harden(page *rod.Page, userAgent, targetURL string) error {
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      userAgent,
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		return fmt.Errorf("set user agent: %w", err)
	}

	_, err := page.SetExtraHeaders([]string{
		"Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language", "en-US,en;q=0.9",
		"Accept-Encoding", "gzip, deflate, br",
		"Upgrade-Insecure-Requests", "1",
		"Sec-Fetch-Dest", "document",
		"Sec-Fetch-Mode", "navigate",
		"Sec-Fetch-Site", "none",
		"Sec-Fetch-User", "?1",
	})
	if err != nil {
		return fmt.Errorf("set headers: %w", err)
	}

	if _, err := page.EvalOnNewDocument(fingerprintJS); err != nil {
		return fmt.Errorf("inject fingerprint patches: %w", err)
	}

	plantSessionCookie(page, targetURL)
	return nil
}

// plantSessionCookie mimics a returning user with a week-old session.
// Best effort: cookie rejection is not worth failing the attempt over.
func plantSessionCookie(page *rod.Page, targetURL string) {
	domain := types.Hostname(targetURL)
	if domain == "" {
		return
	}
	_ = page.SetCookies([]*proto.NetworkCookieParam{{
		Name:     "session-id",
		Value:    fmt.Sprintf("%d", time.Now().UnixMilli()),
		Domain:   "." + domain,
		Path:     "/",
		Expires:  proto.TimeSinceEpoch(time.Now().Add(7 * 24 * time.Hour).Unix()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: proto.NetworkCookieSameSiteNone,
	}})
}

// SimulateHuman performs a bounded burst of randomized pointer moves
// and a scroll nudge with human-scale pauses. Applied after a
// successful navigation to defeat behavioral bot checks.
func SimulateHuman(page *rod.Page) {
	for i := 0; i < 5; i++ {
		x := 100 + rand.Float64()*700
		y := 100 + rand.Float64()*700
		if err := page.Mouse.MoveTo(proto.Point{X: x, Y: y}); err != nil {
			return
		}
		time.Sleep(time.Duration(500+rand.Intn(1000)) * time.Millisecond)
	}
	_, _ = page.Eval(`() => window.scrollBy(0, 300 + Math.random() * 400)`)
	time.Sleep(time.Duration(1000+rand.Intn(1000)) * time.Millisecond)
}

// AutoScroll scrolls the page in fixed increments until the scrollable
// height is exhausted or the 10,000px cap is hit, forcing lazy-loaded
// content (images especially) to materialize in the DOM.
func AutoScroll(page *rod.Page) {
	_, _ = page.Eval(`() => new Promise((resolve) => {
		let totalHeight = 0;
		const distance = 100;
		const timer = setInterval(() => {
			const scrollHeight = document.body.scrollHeight;
			window.scrollBy(0, distance);
			totalHeight += distance;
			if (totalHeight >= scrollHeight || totalHeight > 10000) {
				clearInterval(timer);
				resolve();
			}
		}, 100);
	})`)
}
