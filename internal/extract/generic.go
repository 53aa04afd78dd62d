package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sellermate/prowl/internal/types"
)

// Generic tables lean on schema.org microdata and social meta tags so
// unrecognized storefronts still yield something useful.
var (
	genericTitle = []Descriptor{
		css("h1"),
		css(`[itemprop="name"]`),
		cssAttr(`meta[property="og:title"]`, "content"),
		cssAttr(`meta[name="twitter:title"]`, "content"),
		css("title"),
	}
	genericPrice = []Descriptor{
		css(`[itemprop="price"]`),
		cssAttr(`meta[itemprop="price"]`, "content"),
		cssAttr(`meta[property="product:price:amount"]`, "content"),
		css(".price"),
		css(".product-price"),
		css(`[class*="price"]`),
	}
	genericDescription = []Descriptor{
		css(`[itemprop="description"]`),
		cssAttr(`meta[property="og:description"]`, "content"),
		cssAttr(`meta[name="description"]`, "content"),
		css(".product-description"),
		css("#description"),
	}
	genericImageSelectors = []string{
		`[itemprop="image"]`,
		".product-image img",
		".product-gallery img",
		"#main-image",
		`img[class*="product"]`,
	}
	genericRating = []Descriptor{
		css(`[itemprop="ratingValue"]`),
		cssAttr(`meta[itemprop="ratingValue"]`, "content"),
		css(".rating"),
		css(`[class*="rating"]`),
	}
	genericReviews = []Descriptor{
		css(`[itemprop="review"]`),
		css(".review-text"),
		css(`[class*="review-content"]`),
	}
	genericFeatures = []Descriptor{
		css(".product-features li"),
		css(".features li"),
		css(`[class*="feature"] li`),
	}
	genericCategory = []Descriptor{
		css(`[itemprop="category"]`),
		cssAttr(`meta[property="product:category"]`, "content"),
	}
)

func (e *Extractor) extractGeneric(p *pageDoc, pageURL string) *types.ProductRecord {
	rec := &types.ProductRecord{
		Title:       p.firstMatch(genericTitle),
		Price:       cleanPrice(p.firstMatch(genericPrice)),
		Description: p.firstMatch(genericDescription),
		Images:      e.extractImages(p, pageURL, genericImageSelectors, nil),
		Rating:      p.firstMatch(genericRating),
		Reviews:     p.collectList(genericReviews, 10, e.cfg.MaxReviews),
		Features:    p.collectList(genericFeatures, 5, e.cfg.MaxFeatures),
		Category:    genericCategoryValue(p),
		Platform:    types.Hostname(pageURL),
	}

	if rec.Description == "" {
		rec.Description = firstParagraphs(p.doc, 3)
	}
	rec.Specifications = genericSpecifications(p.doc)
	return rec
}

func genericCategoryValue(p *pageDoc) string {
	if cat := p.firstMatch(genericCategory); cat != "" {
		return cat
	}
	var crumbs []string
	p.doc.Find(`.breadcrumb a, nav[aria-label="breadcrumb"] a, [class*="breadcrumb"] a`).Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" && !strings.EqualFold(text, "home") {
			crumbs = append(crumbs, text)
		}
	})
	return strings.Join(crumbs, " > ")
}

func genericSpecifications(doc *goquery.Document) any {
	for _, sel := range []string{".specifications tr", ".product-specs tr", `[class*="spec"] tr`} {
		if specs := tableToMap(doc, sel); len(specs) > 0 {
			return specs
		}
	}

	specs := make(map[string]string)
	doc.Find("dl dt").Each(func(i int, dt *goquery.Selection) {
		dd := dt.NextFiltered("dd")
		k := strings.TrimSpace(dt.Text())
		v := squashWhitespace(dd.Text())
		if k != "" && v != "" {
			specs[k] = v
		}
	})
	if len(specs) > 0 {
		return specs
	}
	return nil
}

// firstParagraphs joins the first few substantial paragraphs on the
// page, as a last-ditch description.
func firstParagraphs(doc *goquery.Document, n int) string {
	var parts []string
	doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := squashWhitespace(s.Text())
		if len(text) > 50 {
			parts = append(parts, text)
		}
		return len(parts) < n
	})
	return strings.Join(parts, "\n\n")
}
