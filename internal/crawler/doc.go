// Package crawler provides the single-domain crawl loop for seoscan.
//
// # Architecture
//
// The package is built around two types:
//
//   - Frontier: the set of discovered-but-unvisited URLs plus the set of
//     visited URLs. It decides whether a discovered link is in scope and
//     whether the crawl should continue.
//   - Spider: the sequential fetch loop. It pops a candidate from the
//     frontier, fetches it, hands the parsed document to the injected
//     analyzer, and offers discovered links back to the frontier.
//
// # Traversal order
//
// The frontier is a plain unordered set, not a queue. Visit order is
// unspecified: the crawl is neither breadth-first nor depth-first, it
// simply takes "some unvisited URL" each iteration. Callers must not
// rely on any particular ordering of results beyond analysis order.
//
// # Error tolerance
//
// Per-page failures never abort a crawl. Fetch errors are logged at warn
// level, parse errors at error level, and the URL is abandoned in both
// cases. Non-HTML responses are skipped silently. Only an error before
// the loop starts (an unusable target URL) is fatal.
//
// # Usage
//
//	spider := crawler.NewSpider(httpClient, analyzer, crawler.WithMaxPages(50))
//	pages, stats, err := spider.Crawl(ctx, "https://example.com")
package crawler
