// Package prowl provides a public SDK for embedding the product
// scraper as a library.
//
// Example usage:
//
//	scraper := prowl.NewScraper(
//	    prowl.WithTimeout(90*time.Second),
//	    prowl.WithHeadless(true),
//	)
//
//	result, err := scraper.Scrape(ctx, "https://www.amazon.in/dp/B0ABCDEF")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Record.Title)
package prowl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sellermate/prowl/internal/browser"
	"github.com/sellermate/prowl/internal/config"
	"github.com/sellermate/prowl/internal/extract"
	"github.com/sellermate/prowl/internal/navigate"
	"github.com/sellermate/prowl/internal/storage"
	"github.com/sellermate/prowl/internal/types"
)

// ResultKind tags how a scrape concluded.
type ResultKind string

const (
	// KindSuccess means a navigation strategy loaded the page cleanly
	// and extraction ran on real content.
	KindSuccess ResultKind = "success"

	// KindDegraded means every strategy failed or was blocked; the
	// record is a placeholder (or built from partially blocked HTML)
	// so downstream consumers still get a complete shape.
	KindDegraded ResultKind = "degraded"
)

// Result is the outcome of a single scrape.
type Result struct {
	Kind     ResultKind
	Record   *types.ProductRecord
	Reason   string
	Attempts []*types.NavigationAttempt
}

// Degraded reports whether the record is placeholder data.
func (r *Result) Degraded() bool { return r.Kind == KindDegraded }

// Option configures a Scraper.
type Option func(*config.Config)

// WithTimeout sets the per-strategy navigation timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config.Config) { c.Navigate.Timeout = d }
}

// WithHeadless toggles headless browser mode. Headful mode also
// enables the manual CAPTCHA solve window.
func WithHeadless(headless bool) Option {
	return func(c *config.Config) { c.Browser.Headless = headless }
}

// WithScreenshots enables page and challenge screenshots in dir.
func WithScreenshots(dir string) Option {
	return func(c *config.Config) {
		c.Browser.Screenshots = true
		c.Browser.ScreenshotDir = dir
	}
}

// WithStrictErrors makes Scrape return an error on total navigation
// failure instead of a degraded placeholder result.
func WithStrictErrors() Option {
	return func(c *config.Config) { c.Scraper.StrictErrors = true }
}

// WithStorage enables a record sink ("json" or "mongodb").
func WithStorage(storageType, target string) Option {
	return func(c *config.Config) {
		c.Storage.Type = storageType
		switch storageType {
		case config.StorageJSON:
			c.Storage.OutputPath = target
		case config.StorageMongoDB:
			c.Storage.MongoURI = target
		}
	}
}

// WithConfig replaces the whole configuration. Options given after
// this one still apply on top.
func WithConfig(cfg *config.Config) Option {
	return func(c *config.Config) { *c = *cfg }
}

// WithVerbose enables debug-level logging.
func WithVerbose() Option {
	return func(c *config.Config) { c.Logging.Level = "debug" }
}

// runner is one live browser session plus its navigator.
type runner interface {
	Navigate(ctx context.Context, targetURL string, strategy types.Strategy) *types.NavigationAttempt
	Close() error
}

type browserRunner struct {
	*navigate.BrowserNavigator
	session *browser.Session
}

func (r *browserRunner) Close() error { return r.session.Close() }

// Scraper scrapes product pages. It is safe to reuse for sequential
// scrapes; each Scrape call owns its browser session.
type Scraper struct {
	cfg    *config.Config
	logger *slog.Logger

	// seams for tests
	openRunner func(ctx context.Context) (runner, error)
	extractor  func(html, pageURL string) (*types.ProductRecord, error)
}

// NewScraper creates a Scraper with the given options.
func NewScraper(opts ...Option) *Scraper {
	cfg := config.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	level := slog.LevelInfo
	if cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	s := &Scraper{cfg: cfg, logger: logger}
	s.openRunner = s.openBrowserRunner
	s.extractor = extract.NewExtractor(&cfg.Scraper, logger).Extract
	return s
}

func (s *Scraper) openBrowserRunner(ctx context.Context) (runner, error) {
	sess, err := browser.NewSession(&s.cfg.Browser, s.logger)
	if err != nil {
		return nil, err
	}
	return &browserRunner{
		BrowserNavigator: navigate.NewBrowserNavigator(sess, s.cfg, s.logger),
		session:          sess,
	}, nil
}

// Scrape fetches and extracts a single product page. The browser
// session is torn down exactly once on every path out, including
// panics in extraction.
func (s *Scraper) Scrape(ctx context.Context, targetURL string) (result *Result, err error) {
	if err := config.ValidateURL(targetURL); err != nil {
		return nil, err
	}

	run, err := s.openRunner(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := run.Close(); closeErr != nil {
			s.logger.Warn("session close failed", "error", closeErr)
		}
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("scrape panicked: %v", r)
		}
	}()

	started := time.Now()
	s.logger.Info("scrape starting", "url", targetURL)

	chain := navigate.RunChain(ctx, run, targetURL, s.logger)

	if chain.HTML == "" {
		reason := fmt.Sprintf("all %d navigation strategies failed", len(chain.Attempts))
		if s.cfg.Scraper.StrictErrors {
			return nil, &types.NavigationError{URL: targetURL, Err: types.ErrAllStrategiesFailed}
		}
		s.logger.Error("scrape degraded", "url", targetURL, "reason", reason)
		return &Result{
			Kind:     KindDegraded,
			Record:   types.DegradedRecord(targetURL, types.ErrAllStrategiesFailed),
			Reason:   reason,
			Attempts: chain.Attempts,
		}, nil
	}

	rec, err := s.extractor(chain.HTML, targetURL)
	if err != nil {
		if s.cfg.Scraper.StrictErrors {
			return nil, err
		}
		s.logger.Error("extraction failed, returning placeholder record",
			"url", targetURL, "error", err)
		return &Result{
			Kind:     KindDegraded,
			Record:   types.DegradedRecord(targetURL, err),
			Reason:   err.Error(),
			Attempts: chain.Attempts,
		}, nil
	}

	kind := KindSuccess
	reason := ""
	if !chain.Succeeded {
		// Extracted from blocked or partial HTML. The record may be
		// mostly placeholders but the shape is complete.
		kind = KindDegraded
		reason = "no strategy loaded the page cleanly"
	}

	s.logger.Info("scrape finished",
		"url", targetURL,
		"kind", kind,
		"attempts", len(chain.Attempts),
		"elapsed", time.Since(started).Round(time.Millisecond))

	return &Result{
		Kind:     kind,
		Record:   rec,
		Reason:   reason,
		Attempts: chain.Attempts,
	}, nil
}

// ScrapeProduct is a one-call convenience that returns just the
// record, degraded or not.
func (s *Scraper) ScrapeProduct(ctx context.Context, targetURL string) (*types.ProductRecord, error) {
	res, err := s.Scrape(ctx, targetURL)
	if err != nil {
		return nil, err
	}
	return res.Record, nil
}

// ScrapeAndStore scrapes a page and writes the record to the
// configured sink.
func (s *Scraper) ScrapeAndStore(ctx context.Context, targetURL string) (*Result, error) {
	res, err := s.Scrape(ctx, targetURL)
	if err != nil {
		return nil, err
	}

	sink, err := storage.New(ctx, &s.cfg.Storage, s.logger)
	if err != nil {
		return res, fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if closeErr := sink.Close(ctx); closeErr != nil {
			s.logger.Warn("storage close failed", "error", closeErr)
		}
	}()

	if err := sink.Store(ctx, res.Record); err != nil {
		return res, fmt.Errorf("store record: %w", err)
	}
	return res, nil
}
