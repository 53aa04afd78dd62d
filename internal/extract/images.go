package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// imageAttrs are the attributes an image URL may hide in, checked in
// order. Lazy-load libraries park the real URL in data-* attributes
// and leave src pointing at a placeholder.
var imageAttrs = []string{"src", "data-src", "data-old-hires", "data-zoom-image", "data-image", "data-lazy-src"}

// imageExtRe accepts URLs that look like actual image files.
var imageExtRe = regexp.MustCompile(`(?i)\.(jpe?g|png|webp|gif|avif)`)

// placeholderNames are filename fragments of known non-product images.
var placeholderNames = []string{"blank.gif", "spacer", "pixel.", "placeholder", "loading."}

// extractImages runs the image pipeline: structured data first, then
// the ordered DOM selector lists, then the large-image fallback. The
// result is absolutized against pageURL and deduplicated; transform
// (optional) rewrites URLs to higher-resolution variants.
func (e *Extractor) extractImages(p *pageDoc, pageURL string, selectorSets []string, transform func(string) string) []string {
	base, _ := url.Parse(pageURL)

	if imgs := jsonLDImages(p.doc); len(imgs) > 0 {
		return dedupeAbsolute(imgs, base, transform)
	}

	for _, selector := range selectorSets {
		var found []string
		p.doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
			if src := imageSource(sel); src != "" {
				found = append(found, src)
			}
		})
		// First selector that yields candidates wins; later ones are
		// lower-fidelity duplicates of the same gallery.
		if len(found) > 0 {
			return dedupeAbsolute(found, base, transform)
		}
	}

	return dedupeAbsolute(e.largeImages(p), base, transform)
}

// imageSource pulls a usable URL out of an element, skipping data URIs
// and known placeholder files.
func imageSource(sel *goquery.Selection) string {
	for _, attr := range imageAttrs {
		src, ok := sel.Attr(attr)
		if !ok || src == "" {
			continue
		}
		if strings.HasPrefix(src, "data:") || isPlaceholder(src) {
			continue
		}
		if !imageExtRe.MatchString(src) {
			continue
		}
		return src
	}
	// Background-image galleries (Flipkart does this) stash the URL in
	// an inline style.
	if style, ok := sel.Attr("style"); ok {
		if m := styleURLRe.FindStringSubmatch(style); m != nil {
			return m[1]
		}
	}
	return ""
}

var styleURLRe = regexp.MustCompile(`url\(["']?([^"')]+)["']?\)`)

func isPlaceholder(src string) bool {
	lower := strings.ToLower(src)
	for _, name := range placeholderNames {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

// largeImages is the fallback of last resort: any on-page image whose
// declared dimensions exceed the configured floor. Rendered sizes are
// unavailable from static HTML, so width/height attributes stand in.
func (e *Extractor) largeImages(p *pageDoc) []string {
	min := e.cfg.MinImagePixels
	var out []string
	p.doc.Find("img").Each(func(i int, sel *goquery.Selection) {
		w, _ := strconv.Atoi(sel.AttrOr("width", "0"))
		h, _ := strconv.Atoi(sel.AttrOr("height", "0"))
		if w <= min || h <= min {
			return
		}
		src := sel.AttrOr("src", "")
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		out = append(out, src)
	})
	return out
}

// dedupeAbsolute resolves candidates against the page URL, applies the
// platform transform, and drops duplicates while preserving order.
func dedupeAbsolute(candidates []string, base *url.URL, transform func(string) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range candidates {
		abs := absolutize(c, base)
		if abs == "" {
			continue
		}
		if transform != nil {
			abs = transform(abs)
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		out = append(out, abs)
	}
	return out
}

// absolutize resolves a possibly relative URL against the page URL.
func absolutize(raw string, base *url.URL) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if base == nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
