package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ysakura/mdcrawl/internal/config"
	mdlog "github.com/ysakura/mdcrawl/internal/log"
	"github.com/ysakura/mdcrawl/internal/model"
	"github.com/ysakura/mdcrawl/internal/report"
	"github.com/ysakura/mdcrawl/internal/scraper"
	"github.com/ysakura/mdcrawl/internal/store"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Crawl a site and collect its pages as Markdown",
		Long: `Scrape crawls a documentation site starting from the given URL.

URL discovery tries the site's XML sitemap first (sitemap.xml and
sitemap_index.xml, relative to the start URL and to the origin). When no
sitemap yields URLs, the crawl grows recursively by following same-origin
links found on fetched pages.

Each page has boilerplate stripped, its main content region selected, and
the result converted to Markdown. Pages are stored in a local SQLite
database for downstream use; pages already stored from a previous run with
the same URL and title are not duplicated.

Examples:
  # Crawl a documentation site
  mdcrawl scrape https://docs.example.com

  # Limit the crawl and raise concurrency
  mdcrawl scrape --max-pages 50 --concurrency 10 https://docs.example.com

  # Crawl an authenticated site
  mdcrawl scrape --auth-header "Bearer token123" https://internal.example.com/docs

  # Output a JSON report without persisting
  mdcrawl scrape --json --no-save https://docs.example.com

Configuration file (.mdcrawl) example:
  sites:
    internal.example.com:
      authHeader: "Bearer token123"
      cookie: "session=abc"
      maxPages: 50`,
		Args: cobra.ExactArgs(1),
		RunE: runScrapeCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to collect")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Fetch timeout for each page")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of pages fetched per batch")

	// Authentication flags
	cmd.Flags().StringP("auth-header", "a", "",
		"Authorization header value (with or without the 'Authorization:' prefix)")
	cmd.Flags().StringP("cookies", "k", "",
		"Cookie header string (e.g. 'name=value; name2=value2')")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .mdcrawl in current or home directory)")

	// Output flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-save", false,
		"Do not persist pages to the local database")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := mdlog.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Context with signal handling for graceful shutdown. Cancellation
	// stops the crawl at the next batch boundary; collected pages are
	// still reported.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScrape(ctx, cfg, logger)
}

// getVerboseFlag reads the persistent verbose flag.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig builds the run configuration from flags, the config file,
// and the positional start URL.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.StartURL = args[0]

	var err error
	if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.AuthHeader, err = cmd.Flags().GetString("auth-header"); err != nil {
		return nil, err
	}
	if cfg.Cookies, err = cmd.Flags().GetString("cookies"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if err := loadSiteConfigs(cfg); err != nil {
		return nil, err
	}
	applySiteConfig(cfg, cmd)

	return cfg, nil
}

// loadSiteConfigs loads the optional .mdcrawl config file. A missing file
// is only an error when the user named it explicitly.
func loadSiteConfigs(cfg *config.Config) error {
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("config file %s: %w", cfg.ConfigFilePath, config.ErrConfigNotFound)
		}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && cfg.ConfigFilePath == "" {
			return nil
		}
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	cfg.SiteConfigs = file
	return nil
}

// applySiteConfig overlays per-site settings from the config file for the
// start URL's host. Explicit CLI flags win over file values.
func applySiteConfig(cfg *config.Config, cmd *cobra.Command) {
	if cfg.SiteConfigs == nil {
		return
	}
	u, err := url.Parse(cfg.StartURL)
	if err != nil {
		// The scraper reports invalid start URLs with a better message.
		return
	}

	site := cfg.SiteConfigs.GetSiteConfig(u.Hostname())
	if cfg.AuthHeader == "" && site.AuthHeader != "" {
		cfg.AuthHeader = site.AuthHeader
	}
	if cfg.Cookies == "" && site.Cookie != "" {
		cfg.Cookies = site.Cookie
	}
	if site.MaxPages != 0 && !cmd.Flags().Changed("max-pages") {
		cfg.MaxPages = site.MaxPages
	}
	if site.Concurrency != 0 && !cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = site.Concurrency
	}
}

// runScrape executes the crawl and handles persistence and report output.
func runScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"start_url", cfg.StartURL,
		"max_pages", cfg.MaxPages,
		"concurrency", cfg.Concurrency,
		"save_to_db", cfg.SaveToDB,
	)

	s := scraper.New(
		scraper.WithMaxPages(cfg.MaxPages),
		scraper.WithConcurrency(cfg.Concurrency),
		scraper.WithTimeout(cfg.Timeout),
		scraper.WithAuthHeader(cfg.AuthHeader),
		scraper.WithCookies(cfg.Cookies),
		scraper.WithLogger(logger),
	)

	result, err := s.Scrape(ctx, cfg.StartURL)
	if err != nil {
		return err
	}

	if cfg.SaveToDB {
		if err := saveResult(ctx, cfg, result, logger); err != nil {
			return err
		}
	}

	return outputReport(cfg, result)
}

// saveResult persists the crawl result to the local store.
func saveResult(ctx context.Context, cfg *config.Config, result *model.ScrapeResult, logger *slog.Logger) error {
	db, err := store.Open(cfg.DBDir, store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	runID, inserted, err := db.SaveResult(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	logger.Info("result saved",
		"run_id", runID,
		"pages", result.PageCount,
		"inserted", inserted,
		"duplicates", result.PageCount-inserted,
	)
	return nil
}

// outputReport writes the report in the selected format to stdout or the
// configured output file.
func outputReport(cfg *config.Config, result *model.ScrapeResult) error {
	out := os.Stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		// Default: short human-readable summary.
		fmt.Fprintf(out, "Crawled %d pages from %s\n", result.PageCount, result.BaseURL)
		for _, page := range result.Pages {
			fmt.Fprintf(out, "  %-40s %s\n", truncate(page.Title, 40), page.URL)
		}
		return nil
	}

	if _, err := w.Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// truncate shortens s to at most n runes, appending an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
