package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jsonLDProduct is the subset of a schema.org Product node the
// extractor cares about.
type jsonLDProduct struct {
	Type        string          `json:"@type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       json.RawMessage `json:"image"`
}

// jsonLDImages returns the image URLs declared in ld+json blocks.
// Machine-readable structured data beats DOM scraping whenever a site
// provides it, so this runs before any selector-based image hunting.
func jsonLDImages(doc *goquery.Document) []string {
	var images []string

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return true
		}

		for _, prod := range decodeJSONLD(raw) {
			if imgs := decodeImageField(prod.Image); len(imgs) > 0 {
				images = imgs
				return false
			}
		}
		return true
	})

	return images
}

// decodeJSONLD parses a block as a single node or an array of nodes.
func decodeJSONLD(raw string) []jsonLDProduct {
	var one jsonLDProduct
	if err := json.Unmarshal([]byte(raw), &one); err == nil {
		return []jsonLDProduct{one}
	}
	var many []jsonLDProduct
	if err := json.Unmarshal([]byte(raw), &many); err == nil {
		return many
	}
	return nil
}

// decodeImageField handles the two shapes schema.org allows for the
// image property: a single URL string or an array of URL strings.
func decodeImageField(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		var out []string
		for _, u := range many {
			if u != "" {
				out = append(out, u)
			}
		}
		return out
	}
	return nil
}
