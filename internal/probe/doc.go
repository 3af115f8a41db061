// Package probe is the request-dispatch engine of crawlprobe.
//
// A Dispatcher first sends one GET to the seed URL. If that liveness probe
// does not return 200 the run stops before any worker starts. Otherwise the
// total request count is split across a fixed pool of workers, which run
// concurrently until each has issued its share:
//
//	total=10, workers=3  ->  [4 3 3]
//
// Every worker is sequential. It sends a request, classifies the outcome
// and chooses its next target: the seed, or in crawl mode a random link
// from the body it just received. Paths that return a non-200 status are
// added to the shared filter set so that no worker picks them again.
//
// Workers share three structures, each with its own lock: the filter set,
// the visited set and the timing collector. After all workers have
// returned, the Dispatcher summarizes them into a model.RunReport.
package probe
