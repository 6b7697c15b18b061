package crawler

import (
	"errors"
	"net/url"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// errEmptyHost is returned when a target URL parses but has no host.
var errEmptyHost = errors.New("target URL has no host")

// skipExtensions are path suffixes that are never worth fetching: they
// cannot be HTML, so they would only waste requests against the page cap.
var skipExtensions = []string{".pdf", ".jpg", ".png", ".gif", ".css", ".js"}

// Frontier owns the crawl state: the set of discovered-but-unvisited URLs
// and the set of visited URLs. A URL is never in both sets at once; the
// spider pops a candidate and marks it visited before fetching it.
//
// Design decision: We use mapset rather than a slice-backed queue because
// the traversal order is intentionally arbitrary. A queue would impose
// breadth-first semantics the design does not want, and the set gives us
// O(1) membership checks for deduplication.
type Frontier struct {
	// host is the seed's host; links to any other host are out of scope.
	host string

	// maxPages caps the number of URLs that may be marked visited.
	maxPages int

	// frontier holds normalized URLs discovered but not yet visited.
	frontier mapset.Set[string]

	// visited holds normalized URLs that have been handed to the spider.
	// It grows monotonically and doubles as the page-cap counter.
	visited mapset.Set[string]
}

// NewFrontier creates a Frontier scoped to the seed URL's host and seeds
// it with the seed URL itself.
func NewFrontier(seed *url.URL, maxPages int) *Frontier {
	f := &Frontier{
		host:     strings.ToLower(seed.Host),
		maxPages: maxPages,
		frontier: mapset.NewSet[string](),
		visited:  mapset.NewSet[string](),
	}
	f.frontier.Add(normalizeURL(seed.String()))
	return f
}

// NextCandidate removes and returns an arbitrary unvisited URL.
// It returns false when the frontier is empty.
func (f *Frontier) NextCandidate() (string, bool) {
	return f.frontier.Pop()
}

// MarkVisited records a URL as visited. The spider calls this before
// attempting the fetch, so a failing URL is never re-offered and the
// page cap counts attempts rather than successes.
func (f *Frontier) MarkVisited(rawURL string) {
	f.visited.Add(normalizeURL(rawURL))
}

// Offer adds a URL to the frontier if it is in scope and has not been
// seen before. It reports whether the URL was added.
func (f *Frontier) Offer(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		// Malformed URLs are out of scope, not errors.
		return false
	}
	if !f.inScope(u) {
		return false
	}

	normalized := normalizeURL(u.String())
	if f.visited.Contains(normalized) || f.frontier.Contains(normalized) {
		return false
	}

	f.frontier.Add(normalized)
	return true
}

// ShouldContinue reports whether the crawl loop has work left: the
// frontier is non-empty and the page cap has not been reached.
func (f *Frontier) ShouldContinue() bool {
	return !f.frontier.IsEmpty() && f.visited.Cardinality() < f.maxPages
}

// VisitedCount returns the number of URLs marked visited so far.
func (f *Frontier) VisitedCount() int {
	return f.visited.Cardinality()
}

// DiscoveredCount returns the number of unique in-scope URLs seen,
// visited or not.
func (f *Frontier) DiscoveredCount() int {
	return f.visited.Cardinality() + f.frontier.Cardinality()
}

// inScope reports whether a URL belongs to this crawl: same host as the
// seed, http or https scheme, and a path that does not end in a known
// non-HTML extension.
func (f *Frontier) inScope(u *url.URL) bool {
	if !strings.EqualFold(u.Host, f.host) {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	return true
}

// normalizeURL normalizes a URL for deduplication: the fragment is
// dropped (it never changes content), scheme and host are lowercased,
// and an empty path becomes "/" so http://example.com and
// http://example.com/ dedupe to the same entry.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

// NormalizeTarget coerces a user-supplied domain into a crawlable root
// URL: a missing scheme defaults to http, and the result must parse with
// a non-empty host.
func NormalizeTarget(target string) (*url.URL, error) {
	trimmed := strings.TrimSpace(target)
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, &url.Error{Op: "parse", URL: target, Err: errEmptyHost}
	}

	return u, nil
}
