// Package scraper implements the crawl engine that turns a documentation
// site into a bounded collection of Markdown pages.
//
// # Architecture
//
// The package is designed around the Scraper type, which owns the crawl
// frontier (visited set + pending queue) for the duration of one Scrape
// call and drains it in fixed-size concurrent batches.
//
// Two discovery strategies are tried in order:
//
//  1. Sitemap mode: a fixed set of candidate sitemap locations is probed.
//     The first candidate that yields a non-empty URL list seeds the whole
//     crawl, and no further link discovery happens.
//  2. Recursive mode: when every sitemap probe fails or comes back empty,
//     the frontier is seeded with the start URL alone and grows by
//     following in-scope links found on fetched pages.
//
// # Components
//
//   - Scraper: the frontier loop, batching, and result aggregation
//   - Fetcher: a single HTTP GET with timeout and configured headers
//   - Extractor: boilerplate removal, content-region selection, and
//     HTML to Markdown conversion
//   - scope: link resolution and the in-scope predicate
//
// # Failure model
//
// A failed or timed-out fetch is a silent skip: the page is dropped, the
// crawl continues, and no error reaches the caller. The only hard failure
// is a start URL that does not parse as an absolute HTTP(S) URL, which is
// surfaced before the crawl begins.
//
// # Usage
//
//	s := scraper.New(scraper.WithMaxPages(50))
//	result, err := s.Scrape(ctx, "https://docs.example.com")
package scraper
