package scraper

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/ysakura/mdcrawl/internal/model"
)

// boilerplateSelector matches elements that never carry documentation
// content: chrome, scripts, and the class/id markers ad and menu widgets
// commonly use.
const boilerplateSelector = "nav, header, footer, script, style, noscript, aside, iframe, " +
	".nav, .navbar, .navigation, .sidebar, .side-bar, .menu, .breadcrumb, " +
	".ad, .ads, .advertisement, .banner, .cookie-banner, #sidebar, #menu, #nav"

// contentSelectors is the ordered candidate list for the primary content
// region. Documentation sites vary widely in markup, so the chain starts
// with semantic landmarks and degrades toward common wrapper class names;
// <body> is the final fallback. Trying selectors in priority order with a
// minimum-length gate avoids picking an empty or near-empty wrapper.
var contentSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	".content",
	"#content",
	".documentation",
	".docs-content",
	".markdown-body",
	"#main-content",
	"body",
}

// minContentLength is the rendered-text length a candidate region must
// exceed to be selected as the primary content region.
const minContentLength = 100

// Extractor converts raw HTML into a Markdown Page and harvests the page's
// outbound anchors. It is safe for concurrent use: batch members extract
// in parallel against a single shared instance.
type Extractor struct {
	// conv renders a selected HTML region as Markdown with atx headings
	// and fenced code blocks.
	conv *md.Converter
}

// NewExtractor creates an Extractor with the Markdown conventions the
// downstream context store expects: "#"-style headings and fenced code
// blocks.
func NewExtractor() *Extractor {
	return &Extractor{
		conv: md.NewConverter("", true, &md.Options{
			HeadingStyle:   "atx",
			CodeBlockStyle: "fenced",
		}),
	}
}

// Extract parses rawHTML, strips boilerplate, selects the best content
// region, and returns the resulting Page along with the raw href values of
// every anchor on the page. Anchors are harvested before boilerplate
// removal: navigation links are noise in the content but essential for
// crawl discovery.
func (e *Extractor) Extract(rawHTML []byte, pageURL string) (model.Page, []string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHTML))
	if err != nil {
		return model.Page{}, nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	hrefs := harvestAnchors(doc)

	doc.Find(boilerplateSelector).Remove()

	region := selectContentRegion(doc)
	content := strings.TrimSpace(e.conv.Convert(region))

	title := extractTitle(doc, pageURL)

	return model.NewPage(pageURL, title, content), hrefs, nil
}

// harvestAnchors collects the href attribute of every anchor in document
// order. Values are returned unresolved; the scope handles resolution and
// filtering.
func harvestAnchors(doc *goquery.Document) []string {
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// selectContentRegion walks the candidate selector chain and returns the
// first region whose rendered text exceeds minContentLength. When no
// candidate qualifies the whole document is used, so thin pages still
// produce a Page rather than an empty one.
func selectContentRegion(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentSelectors {
		region := doc.Find(selector).First()
		if region.Length() == 0 {
			continue
		}
		if len(strings.TrimSpace(region.Text())) > minContentLength {
			return region
		}
	}
	return doc.Selection
}

// extractTitle returns the first <h1> text, falling back to <title>, and
// finally to the page URL itself.
func extractTitle(doc *goquery.Document, pageURL string) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return pageURL
}
