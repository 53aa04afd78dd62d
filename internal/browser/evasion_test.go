package browser

import (
	"strings"
	"testing"
	"time"

	"github.com/sellermate/prowl/internal/config"
)

func TestRandomDesktopUserAgent(t *testing.T) {
	for i := 0; i < 20; i++ {
		ua := RandomDesktopUserAgent()
		if !strings.HasPrefix(ua, "Mozilla/5.0") {
			t.Fatalf("unexpected user agent %q", ua)
		}
		if strings.Contains(ua, "iPhone") {
			t.Fatalf("desktop pool must not contain mobile agents: %q", ua)
		}
	}
}

func TestFixedUserAgents(t *testing.T) {
	if !strings.Contains(MobileUserAgent, "iPhone") {
		t.Error("mobile agent should present an iPhone client")
	}
	if !strings.Contains(FirefoxUserAgent, "Firefox/") {
		t.Error("alternate profile agent should present Firefox")
	}
	if !strings.Contains(FallbackUserAgent, "Chrome/") {
		t.Error("fallback agent should present Chrome")
	}
}

// The injected script must cover the signals headless detection
// actually probes.
func TestFingerprintPatchesCoverKnownSignals(t *testing.T) {
	for _, probe := range []string{"webdriver", "window.chrome", "permissions.query", "plugins", "languages"} {
		if !strings.Contains(fingerprintJS, probe) {
			t.Errorf("fingerprint script missing %q patch", probe)
		}
	}
}

func TestPickViewport(t *testing.T) {
	t.Run("fixed", func(t *testing.T) {
		cfg := &config.BrowserConfig{ViewportWidth: 1440, ViewportHeight: 900}
		w, h := pickViewport(cfg)
		if w != 1440 || h != 900 {
			t.Errorf("got %dx%d, want configured 1440x900", w, h)
		}
	})

	t.Run("randomized", func(t *testing.T) {
		cfg := &config.BrowserConfig{}
		for i := 0; i < 20; i++ {
			w, h := pickViewport(cfg)
			if w < 1200 || w > 2600 || h < 700 || h > 1500 {
				t.Fatalf("viewport %dx%d outside desktop range", w, h)
			}
		}
	})
}

func TestRandomDelayBounds(t *testing.T) {
	base := 2 * time.Second
	for i := 0; i < 50; i++ {
		d := RandomDelay(base)
		if d < time.Duration(float64(base)*0.75) || d > time.Duration(float64(base)*1.25) {
			t.Fatalf("delay %s outside ±25%% of %s", d, base)
		}
	}
}
