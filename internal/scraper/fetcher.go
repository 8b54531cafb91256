package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent identifies mdcrawl in HTTP requests. A descriptive
// User-Agent lets site operators identify crawler traffic in their logs.
const DefaultUserAgent = "mdcrawl/1.0 (+https://github.com/ysakura/mdcrawl)"

// Fetcher performs single HTTP GET requests with a per-request timeout and
// the configured identification headers. Every failure mode (transport
// error, timeout, non-2xx status) is reported as an error; the crawl loop
// treats all of them as "skip this URL", never as fatal.
//
// Design decision: We build on resty rather than raw net/http because:
//  1. Per-request header and timeout handling stays declarative
//  2. Status-class checks (IsSuccess) replace manual range comparisons
//  3. The underlying transport remains replaceable for tests
type Fetcher struct {
	// client is the shared resty client. It carries no global timeout;
	// each fetch applies its own deadline via context.
	client *resty.Client

	// userAgent is sent on every request.
	userAgent string

	// authHeader, when non-empty, is sent as the Authorization header.
	// It is stored normalized (no leading "Authorization:" prefix).
	authHeader string

	// cookies, when non-empty, is sent verbatim as the Cookie header.
	cookies string

	// timeout is the default per-fetch deadline.
	timeout time.Duration
}

// NewFetcher creates a Fetcher with the given header configuration.
// The authHeader value may be supplied with or without a leading
// "Authorization:" prefix; the prefix is stripped either way.
func NewFetcher(userAgent, authHeader, cookies string, timeout time.Duration) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		client:     resty.New().SetRetryCount(0),
		userAgent:  userAgent,
		authHeader: NormalizeAuthHeader(authHeader),
		cookies:    cookies,
		timeout:    timeout,
	}
}

// NormalizeAuthHeader strips an optional leading "Authorization:" prefix
// from a configured auth header value. Users paste the value straight from
// browser dev tools, which includes the header name about half the time.
func NormalizeAuthHeader(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= len("authorization:") && strings.EqualFold(value[:len("authorization:")], "authorization:") {
		value = strings.TrimSpace(value[len("authorization:"):])
	}
	return value
}

// Fetch performs a GET request against rawURL and returns the response
// body. A non-2xx status is an error: the crawl engine performs no retries
// and makes no distinction between transport and status failures.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return f.FetchWithTimeout(ctx, rawURL, f.timeout)
}

// FetchWithTimeout is Fetch with an explicit deadline, used by the sitemap
// resolver which probes with a shorter timeout than page fetches.
func (f *Fetcher) FetchWithTimeout(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := f.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", f.userAgent)
	if f.authHeader != "" {
		req.SetHeader("Authorization", f.authHeader)
	}
	if f.cookies != "" {
		req.SetHeader("Cookie", f.cookies)
	}

	resp, err := req.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode())
	}

	return resp.Body(), nil
}
