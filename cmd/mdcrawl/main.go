// Package main provides the entry point for the mdcrawl CLI.
//
// mdcrawl crawls a documentation site and produces cleaned Markdown pages
// suitable for feeding into a downstream context store.
//
// Usage:
//
//	mdcrawl scrape <url>
//
// See --help for all available options.
package main

// main is the entry point for mdcrawl.
func main() {
	Execute()
}
