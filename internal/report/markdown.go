package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/ysakura/mdcrawl/internal/model"
)

// MarkdownWriter outputs crawl summaries in Markdown format, designed for
// committing next to the scraped corpus or pasting into documentation.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation: type-safe tables and headings beat hand-rolled string
// concatenation once tables grow columns.
type MarkdownWriter struct {
	baseWriter

	// maxRows caps the per-page table. Large crawls produce hundreds of
	// pages; the summary stays readable by truncating with a note.
	maxRows int
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMaxRows caps the number of page rows in the summary table.
// Zero means no cap.
func WithMaxRows(n int) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.maxRows = n
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to output.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the crawl summary in Markdown format.
func (w *MarkdownWriter) Write(result *model.ScrapeResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Base URL", "`" + result.BaseURL + "`"},
			{"Pages", strconv.Itoa(result.PageCount)},
			{"Scraped At", result.ScrapedAt.Format("2006-01-02 15:04:05 MST")},
			{"Total Words", strconv.Itoa(totalWords(result))},
		},
	})
	md.PlainText("")

	w.writePages(md, result)

	return len(md.String()), md.Build()
}

// writePages writes the per-page table, truncated to maxRows when set.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, result *model.ScrapeResult) {
	if result.PageCount == 0 {
		md.H2("Pages")
		md.PlainText("")
		md.PlainText("No pages were collected.")
		return
	}

	pages := result.Pages
	truncated := 0
	if w.maxRows > 0 && len(pages) > w.maxRows {
		truncated = len(pages) - w.maxRows
		pages = pages[:w.maxRows]
	}

	rows := make([][]string, 0, len(pages))
	for _, page := range pages {
		rows = append(rows, []string{
			page.Title,
			"`" + page.URL + "`",
			strconv.Itoa(page.WordCount),
		})
	}

	md.H2("Pages")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Title", "URL", "Words"},
		Rows:   rows,
	})

	if truncated > 0 {
		md.PlainText("")
		md.PlainText(fmt.Sprintf("... and %d more pages.", truncated))
	}
}

// totalWords sums the word counts across all pages.
func totalWords(result *model.ScrapeResult) int {
	total := 0
	for _, page := range result.Pages {
		total += page.WordCount
	}
	return total
}
