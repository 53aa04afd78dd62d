// Package extract turns rendered HTML into normalized product records.
// Platform-specific selector tables handle Amazon and Flipkart; every
// other storefront goes through the generic microdata/meta tables.
package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sellermate/prowl/internal/config"
	"github.com/sellermate/prowl/internal/types"
)

type Extractor struct {
	cfg    *config.ScraperConfig
	logger *slog.Logger
}

func NewExtractor(cfg *config.ScraperConfig, logger *slog.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg,
		logger: logger.With("component", "extract"),
	}
}

// Platform classifies a page URL by hostname.
func Platform(pageURL string) string {
	host := types.Hostname(pageURL)
	switch {
	case strings.Contains(host, "amazon"):
		return "amazon"
	case strings.Contains(host, "flipkart"):
		return "flipkart"
	default:
		return host
	}
}

// Extract parses the page and returns a fully populated record. Fields
// the page does not yield come back with their placeholder values, so
// callers never see partially filled records.
func (e *Extractor) Extract(htmlContent, pageURL string) (*types.ProductRecord, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return nil, &types.ExtractionError{URL: pageURL, Err: types.ErrEmptyPage}
	}

	p, err := newPageDoc(htmlContent)
	if err != nil {
		return nil, &types.ExtractionError{URL: pageURL, Err: err}
	}

	var rec *types.ProductRecord
	platform := Platform(pageURL)
	switch platform {
	case "amazon":
		rec = e.extractAmazon(p, pageURL)
	case "flipkart":
		rec = e.extractFlipkart(p, pageURL)
	default:
		rec = e.extractGeneric(p, pageURL)
	}

	rec.Normalize(pageURL)
	e.logger.Debug("extraction complete",
		"url", pageURL,
		"platform", rec.Platform,
		"title", rec.Title,
		"images", len(rec.Images))
	return rec, nil
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	priceJunkRe  = regexp.MustCompile(`[^\d.,₹$€£\s]`)
)

func squashWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// cleanPrice strips everything but digits, separators and common
// currency symbols, keeping the first price when a node carries
// several (strike-through list prices and the like).
func cleanPrice(s string) string {
	s = squashWhitespace(s)
	if s == "" {
		return ""
	}
	s = priceJunkRe.ReplaceAllString(s, "")
	// "Rs." style prefixes leave a dangling separator once the letters
	// are gone.
	s = strings.TrimSpace(strings.TrimLeft(s, ".,"))
	if i := strings.Index(s, " "); i > 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// tableToMap reads two-cell table rows into a key/value map. Rows with
// th/td pairs work too.
func tableToMap(doc *goquery.Document, rowSelector string) map[string]string {
	specs := make(map[string]string)
	doc.Find(rowSelector).Each(func(i int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		k := squashWhitespace(cells.Eq(0).Text())
		v := squashWhitespace(cells.Eq(1).Text())
		if k != "" && v != "" {
			specs[k] = v
		}
	})
	if len(specs) == 0 {
		return nil
	}
	return specs
}

// splitColonPair splits "Brand : Acme" style bullet text.
func splitColonPair(s string) (key, value string, ok bool) {
	k, v, found := strings.Cut(s, ":")
	if !found {
		return "", "", false
	}
	k = squashWhitespace(strings.ReplaceAll(k, "‎", ""))
	v = squashWhitespace(strings.ReplaceAll(v, "‏", ""))
	if k == "" || v == "" {
		return "", "", false
	}
	return k, v, true
}
