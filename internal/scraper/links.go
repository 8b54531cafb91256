package scraper

import (
	"net/url"
	"path"
	"strings"
)

// denyList contains URL substrings that are never crawled. Matching URLs
// are marketing, binary, or auth surfaces that add noise to a documentation
// corpus. The list is fixed and not user-configurable.
var denyList = []string{
	"/blog/",
	"/changelog/",
	".pdf",
	".zip",
	".tar.gz",
	"/downloads/",
	"/login",
	"/signup",
	"/api-reference/",
}

// scope captures the crawl boundary derived from the seed URL. It resolves
// discovered hrefs to absolute URLs and decides which of them are eligible
// for fetching.
type scope struct {
	// origin is the scheme://host of the seed URL, with no trailing slash.
	origin string

	// baseDir is the directory portion of the seed URL's path, always
	// ending in "/". Relative hrefs that are not root-relative resolve
	// against origin + baseDir.
	baseDir string
}

// newScope derives the crawl scope from a parsed seed URL.
func newScope(seed *url.URL) *scope {
	// A bare origin URL ("https://example.com") parses with an empty
	// path; path.Dir("") would yield "." and corrupt the host string
	// when joined to the origin.
	seedPath := seed.Path
	if seedPath == "" {
		seedPath = "/"
	}
	dir := path.Dir(seedPath)
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return &scope{
		origin:  seed.Scheme + "://" + seed.Host,
		baseDir: dir,
	}
}

// resolve converts a discovered href into a normalized absolute URL.
// It returns "" when the href cannot or should not be resolved; the
// caller drops such links silently.
//
// Resolution rules:
//   - absolute http(s) hrefs are used as-is, fragment stripped
//   - root-relative hrefs ("/...") join the scope origin
//   - all other relative hrefs join origin + baseDir
func (sc *scope) resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		// Fragment-only hrefs point within the current page.
		return ""
	}

	// Non-navigational schemes never produce crawlable URLs.
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(href, prefix) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	var resolved *url.URL
	switch {
	case u.Scheme == "http" || u.Scheme == "https":
		resolved = u
	case u.Scheme != "":
		// Absolute URL with a non-HTTP scheme (ftp:, chrome:, ...).
		return ""
	case strings.HasPrefix(href, "/"):
		resolved, err = url.Parse(sc.origin + href)
		if err != nil {
			return ""
		}
	default:
		resolved, err = url.Parse(sc.origin + sc.baseDir + href)
		if err != nil {
			return ""
		}
	}

	resolved.Fragment = ""
	return resolved.String()
}

// inScope reports whether a resolved URL should be enqueued. The predicate
// is the same for sitemap seeding and recursive link discovery: same-origin,
// not yet visited, and not matching any denylist substring.
func (sc *scope) inScope(u string, visited map[string]bool) bool {
	if u == "" {
		return false
	}
	if !strings.HasPrefix(u, sc.origin) {
		return false
	}
	if visited[u] {
		return false
	}
	for _, deny := range denyList {
		if strings.Contains(u, deny) {
			return false
		}
	}
	return true
}
