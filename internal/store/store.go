package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ysakura/mdcrawl/internal/model"
)

// Store provides SQLite-based persistence for crawl runs and their pages.
//
// Design decision: We use a single database file for all runs rather than
// one file per site. This keeps cross-run (url, title) deduplication a
// simple unique index and makes backup/restore one file.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store at the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned instead of creating an empty one.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, "mdcrawl.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection modes: rwc allows creation, rw does not.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; keep the pool at a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Runs store one row per scrape invocation
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base_url TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		scraped_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_base_url ON runs(base_url);
	CREATE INDEX IF NOT EXISTS idx_runs_scraped_at ON runs(scraped_at);

	-- Pages store the Markdown content collected across runs.
	-- The (url, title) unique index implements cross-run dedup.
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		word_count INTEGER NOT NULL,
		scraped_at DATETIME NOT NULL,
		UNIQUE(url, title)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// SaveResult persists a scrape result as a new run. Pages whose (url,
// title) identity already exists from a previous run are skipped rather
// than duplicated. It returns the run ID and the number of pages actually
// inserted.
func (s *Store) SaveResult(ctx context.Context, result *model.ScrapeResult) (int64, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (base_url, page_count, scraped_at) VALUES (?, ?, ?)`,
		result.BaseURL, result.PageCount, result.ScrapedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read run id: %w", err)
	}

	inserted := 0
	for _, page := range result.Pages {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO pages (run_id, url, title, content, word_count, scraped_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(url, title) DO NOTHING`,
			runID, page.URL, page.Title, page.Content, page.WordCount,
			page.ScrapedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert page %s: %w", page.URL, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit: %w", err)
	}

	return runID, inserted, nil
}

// Run describes a stored scrape invocation.
type Run struct {
	ID        int64
	BaseURL   string
	PageCount int
	ScrapedAt time.Time
}

// ListRuns returns stored runs, newest first. A non-positive limit
// returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: LIMIT -1 means no limit.
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, base_url, page_count, scraped_at FROM runs ORDER BY scraped_at DESC, id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run
	for rows.Next() {
		var r Run
		var scrapedAt string
		if err := rows.Scan(&r.ID, &r.BaseURL, &r.PageCount, &scrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.ScrapedAt = parseTimestamp(scrapedAt)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetPages returns the pages stored for a run in insertion order.
func (s *Store) GetPages(ctx context.Context, runID int64) ([]model.Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, title, content, word_count, scraped_at FROM pages WHERE run_id = ? ORDER BY id`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var pages []model.Page
	for rows.Next() {
		var p model.Page
		var scrapedAt string
		if err := rows.Scan(&p.URL, &p.Title, &p.Content, &p.WordCount, &scrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		p.ScrapedAt = parseTimestamp(scrapedAt)
		pages = append(pages, p)
	}

	return pages, rows.Err()
}

// HasPage reports whether a page with the given (url, title) identity is
// already stored, regardless of run.
func (s *Store) HasPage(ctx context.Context, url, title string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pages WHERE url = ? AND title = ?`, url, title).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query page: %w", err)
	}
	return count > 0, nil
}

// parseTimestamp parses a stored RFC3339 timestamp, returning the zero
// time for unparseable values rather than failing the whole query.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
