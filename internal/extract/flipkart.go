package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sellermate/prowl/internal/types"
)

// Flipkart rotates obfuscated class names; each table carries the
// current generation first and older generations behind it.
var (
	flipkartTitle = []Descriptor{
		css("span.VU-ZEz"),
		css("span.B_NuCI"),
		css("h1.yhB1nd"),
		css("h1"),
	}
	flipkartPrice = []Descriptor{
		css("div.Nx9bqj.CxhGGd.yKS4la"),
		css("div.Nx9bqj"),
		css("div._30jeq3._16Jk6d"),
		css("div._30jeq3"),
	}
	flipkartDescription = []Descriptor{
		css("div._4gvKMe"),
		css("div._1mXcCf"),
		css(`div.yN\+eNk`),
	}
	flipkartImageSelectors = []string{
		"img.q6DClP",
		"img.DByuf4",
		"div.Be4x5X.-PhTVc",
		`img[class*="_396cs4"]`,
		"img._2r_T1I",
	}
	flipkartRating = []Descriptor{
		css("div.ipqd2A"),
		css("div.XQDdHH"),
		css("div._3LWZlK"),
	}
	flipkartReviews = []Descriptor{
		css("div.ZmyHeo"),
		css("div.t-ZTKy"),
		css("div.qwjRop"),
	}
	flipkartFeatures = []Descriptor{
		css("ul._1xgFaf li"),
		css("li._21Ahn-"),
		css("._2418kt li"),
	}
	flipkartCategory = []Descriptor{
		css("div._7dPnhA"),
		css("div._1MR4o5"),
	}
)

func upscaleFlipkartImage(src string) string {
	return strings.ReplaceAll(src, "128/128", "832/832")
}

func (e *Extractor) extractFlipkart(p *pageDoc, pageURL string) *types.ProductRecord {
	rec := &types.ProductRecord{
		Title:       p.firstMatch(flipkartTitle),
		Price:       cleanPrice(p.firstMatch(flipkartPrice)),
		Description: p.firstMatch(flipkartDescription),
		Images:      e.extractImages(p, pageURL, flipkartImageSelectors, upscaleFlipkartImage),
		Rating:      p.firstMatch(flipkartRating),
		Reviews:     p.collectList(flipkartReviews, 10, e.cfg.MaxReviews),
		Features:    p.collectList(flipkartFeatures, 5, e.cfg.MaxFeatures),
		Category:    flipkartBreadcrumb(p.doc),
		Platform:    "flipkart",
	}

	rec.Specifications = flipkartSpecifications(p.doc)

	if rec.Title == "" {
		rec.Title = "Flipkart Product"
	}
	return rec
}

// flipkartBreadcrumb joins the breadcrumb trail, dropping the leading
// "Home" crumb and the product itself.
func flipkartBreadcrumb(doc *goquery.Document) string {
	var crumbs []string
	for _, sel := range []string{"div._7dPnhA a", "div._1MR4o5 a", `a.R0cyWM`} {
		doc.Find(sel).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" && !strings.EqualFold(text, "home") {
				crumbs = append(crumbs, text)
			}
		})
		if len(crumbs) > 0 {
			break
		}
	}
	if len(crumbs) > 1 {
		crumbs = crumbs[:len(crumbs)-1]
	}
	return strings.Join(crumbs, " > ")
}

// flipkartSpecifications builds a nested map keyed by section
// heading ("General", "Display Features") with the key/value rows
// beneath it.
func flipkartSpecifications(doc *goquery.Document) any {
	sections := make(map[string]map[string]string)
	for _, sectionSel := range []string{"div.GNDEQ-", "div._3k-BhJ"} {
		doc.Find(sectionSel).Each(func(i int, section *goquery.Selection) {
			heading := strings.TrimSpace(section.Find("div._4BJ2V\\+, div.flxcaE").First().Text())
			if heading == "" {
				heading = "General"
			}
			rows := make(map[string]string)
			section.Find("tr").Each(func(j int, row *goquery.Selection) {
				cells := row.Find("td")
				if cells.Length() < 2 {
					return
				}
				k := strings.TrimSpace(cells.Eq(0).Text())
				v := squashWhitespace(cells.Eq(1).Text())
				if k != "" && v != "" {
					rows[k] = v
				}
			})
			if len(rows) > 0 {
				sections[heading] = rows
			}
		})
		if len(sections) > 0 {
			break
		}
	}
	if len(sections) > 0 {
		return sections
	}

	flat := tableToMap(doc, "table._14cfVK tr")
	if len(flat) > 0 {
		return flat
	}
	return nil
}
