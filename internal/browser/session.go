package browser

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/sellermate/prowl/internal/config"
	"github.com/sellermate/prowl/internal/types"
)

// Profile selects the browser fingerprint a session launches with.
// The fallback chain relaunches with a different profile when the
// default fingerprint keeps getting blocked.
type Profile string

const (
	// ProfileStealth is the default: Chromium with automation flags
	// stripped and the stealth page patches applied.
	ProfileStealth Profile = "stealth"

	// ProfileFirefox relaunches with a Firefox user-agent and a bare
	// flag set, presenting a different browser family.
	ProfileFirefox Profile = "firefox"

	// ProfileMinimal launches incognito with script execution disabled
	// for the last-resort no-JS load.
	ProfileMinimal Profile = "minimal"
)

// Session owns one browser process and one page for the duration of a
// single extraction. It must be closed exactly once; Close is
// idempotent so deferred cleanup is safe on every exit path.
type Session struct {
	browser   *rod.Browser
	page      *rod.Page
	profile   Profile
	userAgent string
	viewportW int
	viewportH int
	cfg       *config.BrowserConfig
	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

// NewSession launches a browser with the stealth profile and opens a
// hardened page. Launch failure is an EnvironmentError: fatal to the
// extraction, never retried here.
func NewSession(cfg *config.BrowserConfig, logger *slog.Logger) (*Session, error) {
	s := &Session{
		cfg:    cfg,
		logger: logger.With("component", "browser_session"),
	}
	s.viewportW, s.viewportH = pickViewport(cfg)

	if err := s.launch(ProfileStealth); err != nil {
		return nil, err
	}
	return s, nil
}

// launch starts the browser process and opens the session page for the
// given profile.
func (s *Session) launch(profile Profile) error {
	l := launcher.New().Headless(s.cfg.Headless || profile != ProfileStealth)

	if s.cfg.NoSandbox {
		l = l.Set("no-sandbox").Set("disable-setuid-sandbox")
	}
	if s.cfg.IgnoreCertErrors {
		l = l.Set("ignore-certificate-errors")
	}

	switch profile {
	case ProfileStealth:
		l = l.
			Set("disable-gpu").
			Set("disable-dev-shm-usage").
			Set("disable-web-security").
			Set("disable-features", "IsolateOrigins,site-per-process").
			Set("disable-blink-features", "AutomationControlled").
			Set("window-size", fmt.Sprintf("%d,%d", s.viewportW, s.viewportH))
		if s.cfg.UserDataDir != "" {
			l = l.UserDataDir(s.cfg.UserDataDir)
		}
		s.userAgent = RandomDesktopUserAgent()
	case ProfileFirefox:
		s.userAgent = FirefoxUserAgent
	case ProfileMinimal:
		l = l.Set("incognito")
		s.userAgent = FallbackUserAgent
	}

	launchURL, err := l.Launch()
	if err != nil {
		return &types.EnvironmentError{Err: fmt.Errorf("launch browser: %w", err)}
	}

	b := rod.New().ControlURL(launchURL)
	if err := b.Connect(); err != nil {
		return &types.EnvironmentError{Err: fmt.Errorf("connect browser: %w", err)}
	}
	s.browser = b
	s.profile = profile

	var page *rod.Page
	if profile == ProfileStealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		_ = b.Close()
		return &types.EnvironmentError{Err: fmt.Errorf("open page: %w", err)}
	}
	s.page = page

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.viewportW,
		Height:            s.viewportH,
		DeviceScaleFactor: 1,
	}); err != nil {
		s.logger.Warn("failed to set viewport", "error", err)
	}

	if profile == ProfileMinimal {
		// No-script tier: whatever loads before scripts is all we want.
		if err := (proto.EmulationSetScriptExecutionDisabled{Value: true}).Call(page); err != nil {
			s.logger.Warn("failed to disable script execution", "error", err)
		}
	}

	s.logger.Info("browser session ready",
		"profile", profile,
		"viewport", fmt.Sprintf("%dx%d", s.viewportW, s.viewportH),
	)
	return nil
}

// Page returns the session's page.
func (s *Session) Page() *rod.Page { return s.page }

// UserAgent returns the user-agent string picked for this session.
func (s *Session) UserAgent() string { return s.userAgent }

// Profile returns the currently active browser profile.
func (s *Session) Profile() Profile { return s.profile }

// Relaunch tears the current browser down and starts a fresh one with
// a different fingerprint. Used by the alt-profile and minimal tiers.
func (s *Session) Relaunch(profile Profile) error {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Warn("error closing browser before relaunch", "error", err)
		}
		s.browser = nil
		s.page = nil
	}
	s.logger.Info("relaunching browser", "profile", profile)
	return s.launch(profile)
}

// Close shuts the browser down. Safe to call multiple times; only the
// first call does anything.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.browser != nil {
			s.closeErr = s.browser.Close()
			s.browser = nil
			s.page = nil
		}
		s.logger.Info("browser session closed")
	})
	return s.closeErr
}

// pickViewport returns configured dimensions, or a randomized desktop
// viewport when none are set.
func pickViewport(cfg *config.BrowserConfig) (int, int) {
	if cfg.ViewportWidth > 0 && cfg.ViewportHeight > 0 {
		return cfg.ViewportWidth, cfg.ViewportHeight
	}
	viewports := []struct{ w, h int }{
		{1920, 1080}, {1366, 768}, {1536, 864},
		{1440, 900}, {2560, 1440},
	}
	vp := viewports[rand.Intn(len(viewports))]
	return vp.w, vp.h
}

// RandomDelay returns a random delay around the base duration (±25%).
func RandomDelay(base time.Duration) time.Duration {
	jitter := float64(base) * 0.25
	return base + time.Duration(rand.Float64()*2*jitter-jitter)
}
