// Package model defines the core data structures used throughout mdcrawl.
//
// This package contains the following main types:
//   - Page: A single crawled page converted to Markdown
//   - ScrapeResult: The aggregate result of one crawl invocation
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (scraper, store, report) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
