package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Kind selects the query language of a Descriptor.
type Kind string

const (
	KindCSS   Kind = "css"
	KindXPath Kind = "xpath"
)

// Descriptor is one entry in an ordered selector list for a field.
// E-commerce front ends churn their class names constantly, so every
// field carries several independent descriptors in decreasing order of
// reliability; the first one yielding non-empty content wins.
type Descriptor struct {
	Query string
	Kind  Kind
	// Attr extracts an attribute value instead of text. Empty means
	// text content, with content/value attributes as a fallback.
	Attr string
}

// css is shorthand for a text-content CSS descriptor.
func css(q string) Descriptor { return Descriptor{Query: q, Kind: KindCSS} }

// cssAttr is shorthand for an attribute-valued CSS descriptor.
func cssAttr(q, attr string) Descriptor { return Descriptor{Query: q, Kind: KindCSS, Attr: attr} }

// xpath is shorthand for a text-content XPath descriptor.
func xpath(q string) Descriptor { return Descriptor{Query: q, Kind: KindXPath} }

// pageDoc holds both views of a parsed page: the goquery document for
// CSS descriptors and a lazily built node tree for XPath descriptors.
type pageDoc struct {
	doc  *goquery.Document
	raw  string
	root *html.Node
}

func newPageDoc(rawHTML string) (*pageDoc, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	return &pageDoc{doc: doc, raw: rawHTML}, nil
}

// xpathRoot parses the page for XPath queries on first use.
func (p *pageDoc) xpathRoot() *html.Node {
	if p.root == nil {
		root, err := htmlquery.Parse(strings.NewReader(p.raw))
		if err != nil {
			return nil
		}
		p.root = root
	}
	return p.root
}

// firstMatch applies descriptors in order and returns the first
// non-empty value found, or "" when the list is exhausted. A miss is
// not an error: the caller resolves it to a sentinel at the boundary.
func (p *pageDoc) firstMatch(descs []Descriptor) string {
	for _, d := range descs {
		if v := p.eval(d); v != "" {
			return v
		}
	}
	return ""
}

// eval resolves a single descriptor against the page.
func (p *pageDoc) eval(d Descriptor) string {
	switch d.Kind {
	case KindXPath:
		root := p.xpathRoot()
		if root == nil {
			return ""
		}
		node := htmlquery.FindOne(root, d.Query)
		if node == nil {
			return ""
		}
		if d.Attr != "" {
			return strings.TrimSpace(htmlquery.SelectAttr(node, d.Attr))
		}
		return strings.TrimSpace(htmlquery.InnerText(node))

	default:
		sel := p.doc.Find(d.Query).First()
		if sel.Length() == 0 {
			return ""
		}
		if d.Attr != "" {
			v, _ := sel.Attr(d.Attr)
			return strings.TrimSpace(v)
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text
		}
		// Meta-style elements carry their payload in content/value.
		if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		if v, ok := sel.Attr("value"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return ""
	}
}

// collectList gathers the text of every element matched by the first
// descriptor that yields anything, deduplicated, dropping entries
// shorter than minLen and stopping at cap entries.
func (p *pageDoc) collectList(descs []Descriptor, minLen, cap int) []string {
	for _, d := range descs {
		var out []string
		seen := make(map[string]bool)

		appendText := func(text string) {
			text = strings.TrimSpace(text)
			if len(text) <= minLen || seen[text] {
				return
			}
			seen[text] = true
			out = append(out, text)
		}

		switch d.Kind {
		case KindXPath:
			root := p.xpathRoot()
			if root == nil {
				continue
			}
			for _, node := range htmlquery.Find(root, d.Query) {
				appendText(htmlquery.InnerText(node))
			}
		default:
			p.doc.Find(d.Query).Each(func(i int, sel *goquery.Selection) {
				appendText(sel.Text())
			})
		}

		if len(out) > 0 {
			if cap > 0 && len(out) > cap {
				out = out[:cap]
			}
			return out
		}
	}
	return nil
}
