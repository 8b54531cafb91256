package model

import (
	"strings"
	"time"
)

// Page represents a single crawled page with its content converted to
// Markdown. A Page is immutable once constructed: the crawl engine never
// re-fetches or edits a page in place, and cross-run deduplication by
// (URL, Title) identity is the responsibility of the caller, not the engine.
type Page struct {
	// URL is the absolute URL that was fetched.
	URL string `json:"url"`

	// Title is the best-effort page heading. It comes from the first <h1>,
	// then the <title> element, and finally the URL itself if neither exists.
	Title string `json:"title"`

	// Content is the extracted main content rendered as Markdown.
	Content string `json:"content"`

	// WordCount is the number of whitespace-delimited tokens in Content.
	WordCount int `json:"word_count"`

	// ScrapedAt is the capture timestamp of this page.
	ScrapedAt time.Time `json:"scraped_at"`
}

// NewPage constructs a Page from extracted content, computing the word
// count and stamping the capture time.
func NewPage(url, title, content string) Page {
	return Page{
		URL:       url,
		Title:     title,
		Content:   content,
		WordCount: len(strings.Fields(content)),
		ScrapedAt: time.Now(),
	}
}

// ScrapeResult is the aggregate outcome of one Scrape invocation.
//
// Pages appear in completion order, not queue insertion order: batch members
// fetch concurrently, so a fast page from a later queue position can precede
// a slow page from an earlier one.
type ScrapeResult struct {
	// PageCount is always len(Pages). It is stored explicitly because the
	// result is serialized to JSON for downstream consumers that read the
	// count without unmarshaling every page.
	PageCount int `json:"page_count"`

	// Pages holds the collected pages in the order they completed
	// fetch + extraction.
	Pages []Page `json:"pages"`

	// ScrapedAt is the timestamp of result assembly.
	ScrapedAt time.Time `json:"scraped_at"`

	// BaseURL is the scope used for the crawl: the site origin when the
	// crawl was seeded from a sitemap, or the original start URL when the
	// crawl grew recursively from one page.
	BaseURL string `json:"base_url"`
}

// NewScrapeResult assembles a ScrapeResult from collected pages.
// It is the single place the PageCount == len(Pages) invariant is
// established.
func NewScrapeResult(baseURL string, pages []Page) *ScrapeResult {
	if pages == nil {
		pages = make([]Page, 0)
	}
	return &ScrapeResult{
		PageCount: len(pages),
		Pages:     pages,
		ScrapedAt: time.Now(),
		BaseURL:   baseURL,
	}
}
