package scraper

import (
	"context"
	"encoding/xml"
	"net/url"
	"strings"
)

// sitemapCandidates builds the fixed, ordered list of sitemap locations to
// probe for a seed URL: first relative to the seed itself, then relative to
// the site origin. Duplicates collapse when the seed is the origin.
func sitemapCandidates(seed *url.URL) []string {
	base := seed.Scheme + "://" + seed.Host + strings.TrimSuffix(seed.Path, "/")
	origin := seed.Scheme + "://" + seed.Host

	raw := []string{
		base + "/sitemap.xml",
		base + "/sitemap_index.xml",
		origin + "/sitemap.xml",
		origin + "/sitemap_index.xml",
	}

	seen := make(map[string]bool, len(raw))
	candidates := make([]string, 0, len(raw))
	for _, c := range raw {
		if !seen[c] {
			seen[c] = true
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// sitemapDoc matches both document shapes a sitemap candidate can return:
// a <urlset> of leaf <url> entries and a <sitemapindex> of nested <sitemap>
// entries. Both carry their location in a <loc> child.
type sitemapDoc struct {
	URLs     []sitemapLoc `xml:"url"`
	Sitemaps []sitemapLoc `xml:"sitemap"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// resolveSitemap probes the candidate sitemap locations in order and
// returns the URL list of the first candidate that parses to a non-empty
// result. Nested sitemap-index entries are collected alongside leaf URLs
// but not expanded recursively.
//
// Exhausting every candidate returns an empty slice and no error: that is
// the explicit signal to fall back to recursive crawling, not a failure.
func (s *Scraper) resolveSitemap(ctx context.Context, seed *url.URL) []string {
	for _, candidate := range sitemapCandidates(seed) {
		body, err := s.fetcher.FetchWithTimeout(ctx, candidate, s.sitemapTimeout)
		if err != nil {
			s.logger.Debug("sitemap probe failed", "candidate", candidate, "error", err)
			continue
		}

		urls := parseSitemap(body)
		if len(urls) > 0 {
			s.logger.Debug("sitemap discovered", "candidate", candidate, "urls", len(urls))
			return urls
		}
	}
	return nil
}

// parseSitemap extracts every <loc> value from a sitemap or sitemap-index
// document. Malformed XML yields an empty list, which the caller treats the
// same as an empty sitemap.
func parseSitemap(body []byte) []string {
	var doc sitemapDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil
	}

	urls := make([]string, 0, len(doc.URLs)+len(doc.Sitemaps))
	for _, entry := range doc.URLs {
		if loc := strings.TrimSpace(entry.Loc); loc != "" {
			urls = append(urls, loc)
		}
	}
	for _, entry := range doc.Sitemaps {
		if loc := strings.TrimSpace(entry.Loc); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls
}
