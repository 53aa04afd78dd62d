package prowl

import (
	"context"
	"errors"
	"testing"

	"github.com/sellermate/prowl/internal/types"
)

// fakeRunner plays back scripted attempts and counts teardowns.
type fakeRunner struct {
	attempts   map[types.Strategy]*types.NavigationAttempt
	closeCalls int
}

func (f *fakeRunner) Navigate(ctx context.Context, targetURL string, strategy types.Strategy) *types.NavigationAttempt {
	if att, ok := f.attempts[strategy]; ok {
		att.Strategy = strategy
		return att
	}
	return &types.NavigationAttempt{Strategy: strategy, Outcome: types.OutcomeError, Err: errors.New("no route")}
}

func (f *fakeRunner) Close() error {
	f.closeCalls++
	return nil
}

func newTestScraper(run *fakeRunner, opts ...Option) *Scraper {
	s := NewScraper(opts...)
	s.openRunner = func(ctx context.Context) (runner, error) { return run, nil }
	return s
}

func TestScrapeSuccess(t *testing.T) {
	run := &fakeRunner{attempts: map[types.Strategy]*types.NavigationAttempt{
		types.StrategyDirect: {Outcome: types.OutcomeSuccess, HTML: `<html><span id="productTitle">Acme Widget</span></html>`},
	}}
	s := newTestScraper(run)

	res, err := s.Scrape(context.Background(), "https://www.amazon.in/dp/B0TEST")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if res.Kind != KindSuccess {
		t.Errorf("kind: got %q", res.Kind)
	}
	if res.Record.Title != "Acme Widget" {
		t.Errorf("title: got %q", res.Record.Title)
	}
	if len(res.Attempts) != 1 {
		t.Errorf("attempts: got %d, want 1", len(res.Attempts))
	}
	if run.closeCalls != 1 {
		t.Errorf("close calls: got %d, want exactly 1", run.closeCalls)
	}
}

func TestScrapeDegradedOnTotalFailure(t *testing.T) {
	run := &fakeRunner{} // every strategy errors
	s := newTestScraper(run)

	res, err := s.Scrape(context.Background(), "https://www.flipkart.com/p/itm1")
	if err != nil {
		t.Fatalf("degraded path must not error: %v", err)
	}
	if !res.Degraded() {
		t.Error("expected degraded result")
	}
	if res.Record.Title != "Could not retrieve product data" {
		t.Errorf("title: got %q", res.Record.Title)
	}
	if res.Record.Category != types.CategoryUnknown {
		t.Errorf("category: got %q", res.Record.Category)
	}
	if len(res.Attempts) != len(types.Strategies()) {
		t.Errorf("attempts: got %d", len(res.Attempts))
	}
	if run.closeCalls != 1 {
		t.Errorf("close calls: got %d, want exactly 1", run.closeCalls)
	}
}

func TestScrapeStrictErrors(t *testing.T) {
	run := &fakeRunner{}
	s := newTestScraper(run, WithStrictErrors())

	_, err := s.Scrape(context.Background(), "https://shop.example/p")
	if err == nil {
		t.Fatal("expected error in strict mode")
	}
	if !errors.Is(err, types.ErrAllStrategiesFailed) {
		t.Errorf("got %v, want ErrAllStrategiesFailed", err)
	}
	if run.closeCalls != 1 {
		t.Errorf("close calls: got %d, want exactly 1", run.closeCalls)
	}
}

func TestScrapeClosesSessionOnExtractorPanic(t *testing.T) {
	run := &fakeRunner{attempts: map[types.Strategy]*types.NavigationAttempt{
		types.StrategyDirect: {Outcome: types.OutcomeSuccess, HTML: "<html>ok</html>"},
	}}
	s := newTestScraper(run)
	s.extractor = func(html, pageURL string) (*types.ProductRecord, error) {
		panic("selector table corrupted")
	}

	res, err := s.Scrape(context.Background(), "https://shop.example/p")
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	if res != nil {
		t.Errorf("result must be nil after panic, got %+v", res)
	}
	if run.closeCalls != 1 {
		t.Errorf("close calls: got %d, want exactly 1 even on panic", run.closeCalls)
	}
}

func TestScrapeRejectsInvalidURL(t *testing.T) {
	run := &fakeRunner{}
	s := newTestScraper(run)

	if _, err := s.Scrape(context.Background(), "not-a-url"); err == nil {
		t.Error("expected error for invalid URL")
	}
	if run.closeCalls != 0 {
		t.Error("no session should open for an invalid URL")
	}
}

func TestScrapeBlockedHTMLStillExtracted(t *testing.T) {
	blockedHTML := `<html><body>captcha<h1>Acme Widget</h1></body></html>`
	run := &fakeRunner{attempts: map[types.Strategy]*types.NavigationAttempt{
		types.StrategyMinimal: {Outcome: types.OutcomeBlocked, HTML: blockedHTML},
	}}
	s := newTestScraper(run)

	res, err := s.Scrape(context.Background(), "https://shop.example/p")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if !res.Degraded() {
		t.Error("blocked-only content should be tagged degraded")
	}
	// Extraction still ran on the partial HTML.
	if res.Record.Title != "Acme Widget" {
		t.Errorf("title: got %q", res.Record.Title)
	}
	if len(res.Attempts) != len(types.Strategies()) {
		t.Errorf("attempts: got %d", len(res.Attempts))
	}
}

func TestScrapeProduct(t *testing.T) {
	run := &fakeRunner{attempts: map[types.Strategy]*types.NavigationAttempt{
		types.StrategyDirect: {Outcome: types.OutcomeSuccess, HTML: "<html><h1>Plain Widget</h1></html>"},
	}}
	s := newTestScraper(run)

	rec, err := s.ScrapeProduct(context.Background(), "https://shop.example/p")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if rec.Title != "Plain Widget" {
		t.Errorf("title: got %q", rec.Title)
	}
	if rec.SourceURL != "https://shop.example/p" {
		t.Errorf("sourceUrl: got %q", rec.SourceURL)
	}
}
