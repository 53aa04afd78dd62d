package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNormalizeFillsEveryField(t *testing.T) {
	rec := &ProductRecord{}
	rec.Normalize("https://www.amazon.in/dp/B0TEST")

	if rec.Title != UnknownProduct {
		t.Errorf("title: got %q", rec.Title)
	}
	if rec.Price != NotAvailable || rec.Description != NotAvailable || rec.Rating != NotAvailable {
		t.Errorf("string sentinels missing: %+v", rec)
	}
	if rec.Specifications != NotAvailable {
		t.Errorf("specifications: got %v", rec.Specifications)
	}
	if rec.Images == nil || rec.Reviews == nil || rec.Features == nil {
		t.Error("slice fields must be non-nil")
	}
	if rec.SourceURL != "https://www.amazon.in/dp/B0TEST" {
		t.Errorf("sourceUrl: got %q", rec.SourceURL)
	}
	if rec.Platform != "www.amazon.in" {
		t.Errorf("platform: got %q", rec.Platform)
	}
	if rec.Category != CategoryOther {
		t.Errorf("category: got %q", rec.Category)
	}
}

func TestNormalizeKeepsRealData(t *testing.T) {
	rec := &ProductRecord{
		Title:    "Acme Widget",
		Price:    "₹999",
		Images:   []string{"https://a.com/1.jpg"},
		Platform: "amazon",
		Category: "Tools",
	}
	rec.Normalize("https://a.com/p")

	if rec.Title != "Acme Widget" || rec.Price != "₹999" {
		t.Errorf("real values overwritten: %+v", rec)
	}
	if rec.Platform != "amazon" || rec.Category != "Tools" {
		t.Errorf("platform/category overwritten: %+v", rec)
	}
	if len(rec.Images) != 1 {
		t.Errorf("images changed: %v", rec.Images)
	}
}

func TestDegradedRecord(t *testing.T) {
	rec := DegradedRecord("https://www.flipkart.com/p/itm1", errors.New("net timeout"))

	if rec.Title != "Could not retrieve product data" {
		t.Errorf("title: got %q", rec.Title)
	}
	if !strings.Contains(rec.Description, "net timeout") {
		t.Errorf("description should carry the cause: %q", rec.Description)
	}
	if rec.Category != CategoryUnknown {
		t.Errorf("category: got %q, want %q", rec.Category, CategoryUnknown)
	}
	if rec.Platform != "www.flipkart.com" {
		t.Errorf("platform: got %q", rec.Platform)
	}
	if rec.Images == nil || rec.Reviews == nil || rec.Features == nil {
		t.Error("slice fields must be non-nil")
	}
}

// JSON output must never contain null for the array fields; consumers
// index into them without checking.
func TestRecordJSONArraysNeverNull(t *testing.T) {
	rec := &ProductRecord{}
	rec.Normalize("https://a.com/p")

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "null") {
		t.Errorf("marshaled record contains null: %s", out)
	}
	for _, key := range []string{`"title"`, `"price"`, `"description"`, `"images"`, `"rating"`, `"reviews"`, `"specifications"`, `"features"`, `"sourceUrl"`, `"platform"`, `"category"`} {
		if !strings.Contains(string(out), key) {
			t.Errorf("missing %s in %s", key, out)
		}
	}
}

func TestHostname(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://www.amazon.in/dp/B0TEST", "www.amazon.in"},
		{"http://shop.example:8080/p", "shop.example"},
		{"not a url", "not a url"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Hostname(tc.in); got != tc.want {
			t.Errorf("Hostname(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStrategiesOrder(t *testing.T) {
	want := []Strategy{StrategyDirect, StrategyCached, StrategyMobileUA, StrategyAltReferrer, StrategyAltProfile, StrategyMinimal}
	got := Strategies()
	if len(got) != len(want) {
		t.Fatalf("got %d strategies, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("strategy %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAttemptUsable(t *testing.T) {
	blocked := &NavigationAttempt{Strategy: StrategyDirect, Outcome: OutcomeBlocked, HTML: "<html>captcha</html>"}
	if !blocked.Usable() {
		t.Error("blocked attempt with content should still be usable")
	}
	failed := &NavigationAttempt{Strategy: StrategyCached, Outcome: OutcomeError}
	if failed.Usable() {
		t.Error("attempt without content must not be usable")
	}
}

func TestErrorUnwrap(t *testing.T) {
	navErr := &NavigationError{URL: "https://a.com", Strategy: StrategyDirect, Err: ErrAllStrategiesFailed}
	if !errors.Is(navErr, ErrAllStrategiesFailed) {
		t.Error("NavigationError should unwrap to its cause")
	}
	exErr := &ExtractionError{URL: "https://a.com", Err: ErrEmptyPage}
	if !errors.Is(exErr, ErrEmptyPage) {
		t.Error("ExtractionError should unwrap to its cause")
	}
}
