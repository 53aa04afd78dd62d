package navigate

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
)

const fetchBody = "<html><body><h1>Acme Widget</h1></body></html>"

func TestLastChanceFetchPlain(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(fetchBody))
	}))
	defer srv.Close()

	html, err := lastChanceFetch(context.Background(), srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if html != fetchBody {
		t.Errorf("body: got %q", html)
	}
	if !strings.Contains(gotUA, "Mozilla/") {
		t.Errorf("request must carry a browser user agent, got %q", gotUA)
	}
}

func TestLastChanceFetchGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(fetchBody))
		gz.Close()
	}))
	defer srv.Close()

	html, err := lastChanceFetch(context.Background(), srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if html != fetchBody {
		t.Errorf("gzip body: got %q", html)
	}
}

func TestLastChanceFetchBrotli(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		br := brotli.NewWriter(w)
		br.Write([]byte(fetchBody))
		br.Close()
	}))
	defer srv.Close()

	html, err := lastChanceFetch(context.Background(), srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if html != fetchBody {
		t.Errorf("brotli body: got %q", html)
	}
}

func TestLastChanceFetchContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := lastChanceFetch(ctx, srv.URL, 5*time.Second); err == nil {
		t.Error("expected error on canceled context")
	}
}
