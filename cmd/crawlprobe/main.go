// Package main provides the entry point for the crawlprobe CLI.
//
// crawlprobe sends a fixed number of HTTP requests to a URL from a pool of
// concurrent workers and reports response times. In crawl mode each worker
// follows a random link from the previous response instead of hitting the
// same URL again.
//
// Usage:
//
//	crawlprobe run https://example.com -n 500 -p 20
//	crawlprobe run example.com --follow-links --json
//
// See --help for all available options.
package main

func main() {
	Execute()
}
