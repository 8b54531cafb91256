package store

import (
	"context"
	"testing"

	"github.com/ysakura/mdcrawl/internal/model"
)

// newTestStore opens a store in a per-test temporary directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return s
}

func testResult(baseURL string, pages ...model.Page) *model.ScrapeResult {
	return model.NewScrapeResult(baseURL, pages)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database when allowed", func(t *testing.T) {
		t.Parallel()

		s, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close() //nolint:errcheck
	})

	t.Run("refuses missing database when creation disabled", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("Open() error = nil, want missing database error")
		}
	})
}

func TestSaveResult(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("persists run and pages", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t)
		result := testResult("https://docs.example.com",
			model.NewPage("https://docs.example.com/a", "Page A", "# A\n\ncontent"),
			model.NewPage("https://docs.example.com/b", "Page B", "# B\n\ncontent"),
		)

		runID, inserted, err := s.SaveResult(ctx, result)
		if err != nil {
			t.Fatalf("SaveResult() error = %v", err)
		}
		if runID == 0 {
			t.Error("runID = 0, want non-zero")
		}
		if inserted != 2 {
			t.Errorf("inserted = %d, want 2", inserted)
		}

		pages, err := s.GetPages(ctx, runID)
		if err != nil {
			t.Fatalf("GetPages() error = %v", err)
		}
		if len(pages) != 2 {
			t.Fatalf("len(pages) = %d, want 2", len(pages))
		}
		if pages[0].URL != "https://docs.example.com/a" {
			t.Errorf("pages[0].URL = %q, want /a first", pages[0].URL)
		}
		if pages[0].Content != "# A\n\ncontent" {
			t.Errorf("pages[0].Content = %q", pages[0].Content)
		}
	})

	t.Run("deduplicates across runs by url and title", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t)
		page := model.NewPage("https://docs.example.com/a", "Page A", "content")

		if _, inserted, err := s.SaveResult(ctx, testResult("https://docs.example.com", page)); err != nil {
			t.Fatalf("first SaveResult() error = %v", err)
		} else if inserted != 1 {
			t.Errorf("first inserted = %d, want 1", inserted)
		}

		_, inserted, err := s.SaveResult(ctx, testResult("https://docs.example.com", page))
		if err != nil {
			t.Fatalf("second SaveResult() error = %v", err)
		}
		if inserted != 0 {
			t.Errorf("second inserted = %d, want 0 (duplicate)", inserted)
		}
	})

	t.Run("same url with new title is a new page", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t)
		url := "https://docs.example.com/a"

		if _, _, err := s.SaveResult(ctx, testResult("https://docs.example.com",
			model.NewPage(url, "Old Title", "content"))); err != nil {
			t.Fatal(err)
		}

		_, inserted, err := s.SaveResult(ctx, testResult("https://docs.example.com",
			model.NewPage(url, "New Title", "content")))
		if err != nil {
			t.Fatalf("SaveResult() error = %v", err)
		}
		if inserted != 1 {
			t.Errorf("inserted = %d, want 1 (title changed)", inserted)
		}
	})

	t.Run("empty result persists a run with zero pages", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t)
		runID, inserted, err := s.SaveResult(ctx, testResult("https://docs.example.com"))
		if err != nil {
			t.Fatalf("SaveResult() error = %v", err)
		}
		if inserted != 0 {
			t.Errorf("inserted = %d, want 0", inserted)
		}

		pages, err := s.GetPages(ctx, runID)
		if err != nil {
			t.Fatalf("GetPages() error = %v", err)
		}
		if len(pages) != 0 {
			t.Errorf("len(pages) = %d, want 0", len(pages))
		}
	})
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	for i, base := range []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"} {
		page := model.NewPage(base+"/p", "Page", "content")
		if _, _, err := s.SaveResult(ctx, testResult(base, page)); err != nil {
			t.Fatalf("SaveResult(%d) error = %v", i, err)
		}
	}

	t.Run("returns all runs newest first", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("len(runs) = %d, want 3", len(runs))
		}
		if runs[0].BaseURL != "https://c.example.com" {
			t.Errorf("runs[0].BaseURL = %q, want newest run first", runs[0].BaseURL)
		}
		if runs[0].PageCount != 1 {
			t.Errorf("runs[0].PageCount = %d, want 1", runs[0].PageCount)
		}
	})

	t.Run("limit caps the result", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, 2)
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("len(runs) = %d, want 2", len(runs))
		}
	})
}

func TestHasPage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	page := model.NewPage("https://docs.example.com/a", "Page A", "content")
	if _, _, err := s.SaveResult(ctx, testResult("https://docs.example.com", page)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		url   string
		title string
		want  bool
	}{
		{name: "stored page", url: "https://docs.example.com/a", title: "Page A", want: true},
		{name: "unknown url", url: "https://docs.example.com/b", title: "Page A", want: false},
		{name: "same url different title", url: "https://docs.example.com/a", title: "Other", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.HasPage(ctx, tt.url, tt.title)
			if err != nil {
				t.Fatalf("HasPage() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("HasPage(%q, %q) = %v, want %v", tt.url, tt.title, got, tt.want)
			}
		})
	}
}
