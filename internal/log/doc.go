// Package log builds the slog loggers used by crawlprobe.
//
// Every logger is backed by SecureHandler, which masks values that should
// not end up in a terminal or a CI log: configured cookies and auth
// headers, bearer and JWT tokens, URL passwords and sensitive query
// parameters. Per-request warnings carry the target URL, so masking also
// applies to URL-valued attributes.
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{Verbose: verbose})
//	logger.Warn("request failed", "url", target, "error", err)
package log
