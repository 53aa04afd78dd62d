package navigate

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestLiveLastChanceFetch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping live test")
	}

	html, err := lastChanceFetch(context.Background(), "https://quotes.toscrape.com", 30*time.Second)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(strings.ToLower(html), "<html") {
		t.Errorf("expected an HTML document, got %d bytes", len(html))
	}
	if DetectChallenge(html) {
		t.Log("live page classified as challenged; markers may appear in unrelated content")
	}
}
