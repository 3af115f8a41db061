// Package crawler implements the link-selection policy used in crawl mode.
//
// In crawl mode each worker chooses the target of its next request from the
// links found in the body of the previous response. This package provides
// the pieces of that policy:
//
//   - FilterSet: substrings that disqualify a candidate link. It starts with
//     static markers and grows with the paths of requests that failed.
//   - VisitedSet: the distinct URLs reached by crawling.
//   - ExtractLinks: pulls href="..." targets out of a response body.
//   - Picker: combines the above to choose the next target for one worker.
//
// FilterSet and VisitedSet are shared by all workers of a run and are safe
// for concurrent use. A Picker owns a random source and belongs to exactly
// one worker.
//
// # Usage
//
//	filters := crawler.NewFilterSet(crawler.DefaultFilters())
//	visited := crawler.NewVisitedSet()
//	picker, err := crawler.NewPicker(seed, filters, visited, rng)
//	next := picker.PickNext(body)
package crawler
