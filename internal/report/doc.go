// Package report renders scrape results for human or machine consumption.
//
// Three writers are provided:
//   - MarkdownWriter: a GitHub-flavored Markdown summary with tables
//   - JSONWriter: the full ScrapeResult as JSON for tool integration
//   - MultiWriter: fan-out to several writers (e.g., terminal and file)
//
// All writers consume the same model.ScrapeResult; none of them mutate it.
package report
