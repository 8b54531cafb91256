package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ysakura/mdcrawl/internal/model"
)

func sampleResult() *model.ScrapeResult {
	return model.NewScrapeResult("https://docs.example.com", []model.Page{
		model.NewPage("https://docs.example.com/intro", "Introduction", "# Introduction\n\nwelcome to the docs"),
		model.NewPage("https://docs.example.com/setup", "Setup", "# Setup\n\ninstall and configure"),
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output round-trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		n, err := w.Write(sampleResult())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, buffer has %d", n, buf.Len())
		}

		var decoded model.ScrapeResult
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.PageCount != 2 {
			t.Errorf("PageCount = %d, want 2", decoded.PageCount)
		}
		if len(decoded.Pages) != 2 {
			t.Errorf("len(Pages) = %d, want 2", len(decoded.Pages))
		}
		if decoded.Pages[0].Title != "Introduction" {
			t.Errorf("Pages[0].Title = %q", decoded.Pages[0].Title)
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(sampleResult()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"") {
			t.Errorf("output not indented: %s", buf.String())
		}
	})

	t.Run("output ends with newline", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(sampleResult()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("output missing trailing newline")
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("summary contains heading and pages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(sampleResult()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Crawl Report") {
			t.Errorf("output missing report heading: %s", output)
		}
		if !strings.Contains(output, "## Pages") {
			t.Errorf("output missing pages section: %s", output)
		}
		if !strings.Contains(output, "Introduction") {
			t.Errorf("output missing page title: %s", output)
		}
		if !strings.Contains(output, "`https://docs.example.com/setup`") {
			t.Errorf("output missing page URL: %s", output)
		}
	})

	t.Run("empty result notes no pages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(model.NewScrapeResult("https://docs.example.com", nil)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "No pages were collected.") {
			t.Errorf("output missing empty note: %s", buf.String())
		}
	})

	t.Run("max rows truncates with note", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf, WithMaxRows(1))

		if _, err := w.Write(sampleResult()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "... and 1 more pages.") {
			t.Errorf("output missing truncation note: %s", output)
		}
		if strings.Contains(output, "Setup") {
			t.Errorf("output contains truncated row: %s", output)
		}
	})
}

// errorWriter fails every Write call.
type errorWriter struct{}

func (errorWriter) Write(*model.ScrapeResult) (int, error) {
	return 0, errors.New("write failed")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(&a), NewMarkdownWriter(&b))

		if _, err := mw.Write(sampleResult()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if a.Len() == 0 {
			t.Error("first writer received nothing")
		}
		if b.Len() == 0 {
			t.Error("second writer received nothing")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := NewMultiWriter(errorWriter{}, NewJSONWriter(&buf))

		if _, err := mw.Write(sampleResult()); err == nil {
			t.Error("Write() error = nil, want propagated failure")
		}
		if buf.Len() != 0 {
			t.Error("writer after failing writer still received output")
		}
	})
}
