package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sellermate/prowl/internal/types"
)

// Amazon selector tables, most reliable first.
var (
	amazonTitle = []Descriptor{
		css("#productTitle"),
		css("h1.a-size-large"),
		css("h1"),
	}
	amazonPrice = []Descriptor{
		css(".a-price .a-offscreen"),
		css("#priceblock_ourprice"),
		css("#priceblock_dealprice"),
	}
	amazonDescription = []Descriptor{
		css("#productDescription p"),
		css("#feature-bullets"),
		css(".a-expander-content"),
	}
	amazonImageSelectors = []string{
		"#imgTagWrapperId img",
		"#imageBlock img",
		".imgTagWrapper img",
		"#altImages img",
	}
	amazonRating = []Descriptor{
		cssAttr("#acrPopover", "title"),
		css(".a-icon-star"),
		css(`span[data-hook="rating-out-of-text"]`),
	}
	amazonReviews = []Descriptor{
		css(".a-row.a-spacing-small.review-data"),
		css(`[data-hook="review-body"]`),
	}
	amazonFeatures = []Descriptor{
		css("#feature-bullets li"),
		css(".a-unordered-list .a-list-item"),
	}
	amazonCategory = []Descriptor{
		css("#wayfinding-breadcrumbs_feature_div"),
		css(".a-breadcrumb"),
		cssAttr("#nav-subnav", "data-category"),
		xpath(`//div[@id='nav-subnav']//a[1]`),
	}
)

// amazonImageSizeRe rewrites thumbnail variants to full-size ones.
var amazonImageSizeRe = regexp.MustCompile(`_[ST]C_`)

func upscaleAmazonImage(src string) string {
	return amazonImageSizeRe.ReplaceAllString(src, "_AC_")
}

func (e *Extractor) extractAmazon(p *pageDoc, pageURL string) *types.ProductRecord {
	rec := &types.ProductRecord{
		Title:       p.firstMatch(amazonTitle),
		Price:       cleanPrice(p.firstMatch(amazonPrice)),
		Description: p.firstMatch(amazonDescription),
		Images:      e.extractImages(p, pageURL, amazonImageSelectors, upscaleAmazonImage),
		Rating:      p.firstMatch(amazonRating),
		Reviews:     p.collectList(amazonReviews, 10, e.cfg.MaxReviews),
		Features:    p.collectList(amazonFeatures, 5, e.cfg.MaxFeatures),
		Category:    squashWhitespace(p.firstMatch(amazonCategory)),
		Platform:    "amazon",
	}

	if rec.Price == "" {
		rec.Price = amazonSplitPrice(p.doc)
	}
	rec.Specifications = amazonSpecifications(p)

	if rec.Title == "" {
		rec.Title = "Amazon Product"
	}
	return rec
}

// amazonSplitPrice concatenates Amazon's split whole/fraction price
// nodes ("1,299" + "99") with a decimal point.
func amazonSplitPrice(doc *goquery.Document) string {
	whole := strings.TrimSpace(doc.Find(".a-price-whole").First().Text())
	if whole == "" {
		return ""
	}
	whole = strings.TrimSuffix(whole, ".")
	fraction := strings.TrimSpace(doc.Find(".a-price-fraction").First().Text())
	if fraction == "" {
		return cleanPrice(whole)
	}
	return cleanPrice(whole + "." + fraction)
}

// amazonSpecifications prefers the tech-spec table as a key/value map,
// then the detail-bullets list, then the raw text of whichever specs
// container exists.
func amazonSpecifications(p *pageDoc) any {
	specs := tableToMap(p.doc, "#productDetails_techSpec_section_1 tr")
	if len(specs) > 0 {
		return specs
	}

	specs = make(map[string]string)
	p.doc.Find("#detailBullets_feature_div li").Each(func(i int, sel *goquery.Selection) {
		k, v, ok := splitColonPair(sel.Text())
		if ok {
			specs[k] = v
		}
	})
	if len(specs) > 0 {
		return specs
	}

	raw := p.firstMatch([]Descriptor{
		css("#productDetails_techSpec_section_1"),
		css("#detailBullets_feature_div"),
	})
	if raw != "" {
		return squashWhitespace(raw)
	}
	return nil
}
