// Package store persists crawl results to a local SQLite database.
//
// The crawl engine itself never touches storage: it hands an in-memory
// ScrapeResult to the caller, and this package is the caller-side
// persistence layer. It also implements the cross-run (url, title)
// deduplication that the engine deliberately leaves to its caller -
// pages whose identity already exists in the store are counted as
// duplicates instead of inserted again.
package store
