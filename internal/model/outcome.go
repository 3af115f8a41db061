package model

import (
	"net/http"
	"time"
)

// Outcome is the result of one request attempt.
//
// An Outcome is produced once per attempt, consumed immediately by the
// worker that issued it and never stored.
type Outcome struct {
	// URL is the target the request was sent to.
	URL string

	// Method is the HTTP method that was used.
	Method Method

	// StatusCode is the HTTP status code.
	// Zero if the request failed before a response was received.
	StatusCode int

	// Latency is the wall-clock time spent on the request, including
	// reading the (size limited) body.
	Latency time.Duration

	// Body is the response body, truncated to the transport's size limit.
	Body []byte

	// Err is set when the request failed at the transport level
	// (timeout, connection refused, body read error).
	Err error
}

// Failed reports whether the request failed at the transport level.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Succeeded reports whether a response was received with status 200.
// Every other status, including other 2xx codes, counts as a failing path.
func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.StatusCode == http.StatusOK
}
