package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ysakura/mdcrawl/internal/model"
)

// Default crawl limits. These are chosen for documentation sites, which
// rarely exceed a few hundred pages of real content.
const (
	// DefaultMaxPages caps the number of pages collected per crawl.
	DefaultMaxPages = 200

	// DefaultTimeout is the per-page fetch deadline.
	DefaultTimeout = 5 * time.Second

	// DefaultSitemapTimeout is the deadline for each sitemap probe. Probes
	// are speculative, so they get a shorter budget than page fetches.
	DefaultSitemapTimeout = 3 * time.Second

	// DefaultConcurrency is the number of fetches dispatched per batch.
	DefaultConcurrency = 5
)

// ErrCrawlInProgress is returned when Scrape is called on a Scraper that
// already has a crawl in flight. A Scraper owns one frontier at a time;
// concurrent crawls need separate instances.
var ErrCrawlInProgress = fmt.Errorf("scraper: crawl already in progress on this instance")

// Scraper drives a sitemap-seeded or link-discovery crawl to completion
// within a page budget. The zero configuration obtained from New is ready
// to use; options customize limits and request headers.
//
// A Scraper is reusable across sequential Scrape calls - the frontier state
// is created fresh per call - but supports only one crawl in flight.
type Scraper struct {
	fetcher        *Fetcher
	extractor      *Extractor
	maxPages       int
	concurrency    int
	timeout        time.Duration
	sitemapTimeout time.Duration
	userAgent      string
	authHeader     string
	cookies        string
	logger         *slog.Logger

	// crawling guards against concurrent Scrape calls, which would
	// corrupt nothing (state is per-call) but would violate the one
	// crawl per instance contract and share the fetcher's header set.
	crawling atomic.Bool
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithMaxPages sets the page budget per crawl.
func WithMaxPages(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithConcurrency sets the number of URLs fetched per batch.
func WithConcurrency(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithTimeout sets the per-page fetch deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithSitemapTimeout sets the deadline for individual sitemap probes.
func WithSitemapTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.sitemapTimeout = d
		}
	}
}

// WithAuthHeader sets an Authorization header value to send with every
// request. The value may include a leading "Authorization:" prefix, which
// is stripped.
func WithAuthHeader(value string) Option {
	return func(s *Scraper) {
		s.authHeader = value
	}
}

// WithCookies sets a Cookie header string to send with every request.
func WithCookies(value string) Option {
	return func(s *Scraper) {
		s.cookies = value
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithLogger sets a custom logger. The default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scraper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Scraper with the given options applied over defaults.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		maxPages:       DefaultMaxPages,
		concurrency:    DefaultConcurrency,
		timeout:        DefaultTimeout,
		sitemapTimeout: DefaultSitemapTimeout,
		userAgent:      DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.fetcher = NewFetcher(s.userAgent, s.authHeader, s.cookies, s.timeout)
	s.extractor = NewExtractor()
	return s
}

// frontier is the combined visited set and pending FIFO queue driving crawl
// progress. It is created fresh per Scrape call and owned exclusively by
// that call's loop: all mutation happens between batches, never inside one.
type frontier struct {
	visited map[string]bool
	queue   []string
}

// enqueue appends a URL and marks it visited, so the same URL is never
// dispatched twice within one crawl.
func (f *frontier) enqueue(u string) {
	f.visited[u] = true
	f.queue = append(f.queue, u)
}

// nextBatch removes up to n URLs from the front of the queue.
func (f *frontier) nextBatch(n int) []string {
	if n > len(f.queue) {
		n = len(f.queue)
	}
	batch := f.queue[:n]
	f.queue = f.queue[n:]
	return batch
}

// fetchOutcome carries a batch member's result back to the loop turn.
// Failed fetches produce no outcome at all: a skipped page is silent.
type fetchOutcome struct {
	page  model.Page
	links []string
}

// Scrape crawls from startURL and returns the collected pages.
//
// Sitemap discovery runs first; if any candidate yields URLs, the frontier
// is seeded from the filtered sitemap list and no in-page link discovery
// happens. Otherwise the frontier is seeded with startURL alone and grows
// by following in-scope links.
//
// The only hard failure is a startURL that does not parse as an absolute
// HTTP(S) URL. Per-page fetch failures are skipped silently, so the result
// may contain fewer pages than the budget without any error.
func (s *Scraper) Scrape(ctx context.Context, startURL string) (*model.ScrapeResult, error) {
	if !s.crawling.CompareAndSwap(false, true) {
		return nil, ErrCrawlInProgress
	}
	defer s.crawling.Store(false)

	seed, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL %q: %w", startURL, err)
	}
	if (seed.Scheme != "http" && seed.Scheme != "https") || seed.Host == "" {
		return nil, fmt.Errorf("invalid start URL %q: must be an absolute http(s) URL", startURL)
	}

	sc := newScope(seed)
	f := &frontier{visited: make(map[string]bool)}

	// Sitemap mode short-circuits link discovery entirely.
	sitemapURLs := s.resolveSitemap(ctx, seed)
	discover := len(sitemapURLs) == 0

	baseURL := startURL
	if !discover {
		baseURL = sc.origin
		for _, u := range sitemapURLs {
			if len(f.queue) >= s.maxPages {
				break
			}
			if sc.inScope(u, f.visited) {
				f.enqueue(u)
			}
		}
		s.logger.Debug("seeded from sitemap", "urls", len(f.queue))
	} else {
		f.enqueue(seed.String())
		s.logger.Debug("seeded for recursive crawl", "start", seed.String())
	}

	pages := make([]model.Page, 0, s.maxPages)
	var skipped int

	for len(f.queue) > 0 && len(pages) < s.maxPages {
		batch := f.nextBatch(s.concurrency)

		// Batch members append outcomes under mu as they finish, so the
		// pages slice reflects completion order. The frontier itself is
		// touched only after the whole batch settles.
		var mu sync.Mutex
		var outcomes []fetchOutcome

		g, gctx := errgroup.WithContext(ctx)
		for _, pageURL := range batch {
			g.Go(func() error {
				body, err := s.fetcher.Fetch(gctx, pageURL)
				if err != nil {
					s.logger.Debug("page skipped", "url", pageURL, "error", err)
					mu.Lock()
					skipped++
					mu.Unlock()
					return nil
				}

				page, hrefs, err := s.extractor.Extract(body, pageURL)
				if err != nil {
					s.logger.Debug("page skipped", "url", pageURL, "error", err)
					mu.Lock()
					skipped++
					mu.Unlock()
					return nil
				}

				outcome := fetchOutcome{page: page}
				if discover {
					outcome.links = hrefs
				}

				mu.Lock()
				outcomes = append(outcomes, outcome)
				mu.Unlock()
				return nil
			})
		}
		// Workers swallow their own failures, so Wait only synchronizes.
		_ = g.Wait() //nolint:errcheck

		for _, outcome := range outcomes {
			pages = append(pages, outcome.page)
			for _, href := range outcome.links {
				if resolved := sc.resolve(href); sc.inScope(resolved, f.visited) {
					f.enqueue(resolved)
				}
			}
		}

		// Context cancellation stops dispatching further batches; pages
		// already collected are still returned.
		if ctx.Err() != nil {
			break
		}
	}

	// The batch boundary can overshoot the budget by up to concurrency-1
	// pages; truncate so callers can rely on len(pages) <= maxPages.
	if len(pages) > s.maxPages {
		pages = pages[:s.maxPages]
	}

	s.logger.Info("crawl finished",
		"base_url", baseURL,
		"pages", len(pages),
		"skipped", skipped,
		"sitemap_mode", !discover,
	)

	return model.NewScrapeResult(baseURL, pages), nil
}
