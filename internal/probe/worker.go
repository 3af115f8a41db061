package probe

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/crawlprobe/internal/crawler"
	"github.com/nao1215/crawlprobe/internal/model"
)

// worker issues its assigned number of requests one after another.
type worker struct {
	id          int
	assigned    int
	seed        string
	method      model.Method
	timeout     time.Duration
	followLinks bool
	newSender   SenderFactory
	picker      *crawler.Picker
	state       *runState
	logger      *slog.Logger
}

// run sends up to assigned requests. It stops early, without starting a
// new request, once ctx is done.
func (w *worker) run(ctx context.Context) {
	sender := w.newSender()
	defer sender.Close()

	target := w.seed
	for range w.assigned {
		if ctx.Err() != nil {
			w.logger.Debug("worker stopped", "reason", ctx.Err())
			return
		}
		if target == "" {
			target = w.seed
		}
		target = w.step(ctx, sender, target)
	}
}

// step sends one request to target and returns the next target.
// A panic is logged with a correlation id and treated as a transport failure.
// The request itself ignores cancellation of ctx so that it finishes.
func (w *worker) step(ctx context.Context, sender Sender, target string) (next string) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			w.logger.Error("request panicked",
				"correlation_id", correlationID,
				"url", target,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			w.state.failed.Add(1)
			next = w.seed
		}
	}()

	w.state.attempted.Add(1)
	out := sender.Send(context.WithoutCancel(ctx), w.method, target, w.timeout)

	if out.Failed() {
		w.state.failed.Add(1)
		w.logger.Warn("request failed",
			"url", target,
			"method", w.method.String(),
			"latency", out.Latency,
			"error", out.Err,
		)
		return w.seed
	}

	if !out.Succeeded() {
		w.state.failed.Add(1)
		path := pathOf(target)
		added := w.state.filters.Add(path)
		w.logger.Warn("unexpected status",
			"url", target,
			"status", out.StatusCode,
			"latency", out.Latency,
			"blacklisted", added,
			"path", path,
		)
		return w.seed
	}

	next = w.seed
	if w.followLinks {
		next = w.picker.PickNext(out.Body)
	}
	// Recorded last so a panic above is counted only as a failure.
	w.state.timings.Add(out.Latency)
	return next
}

// pathOf returns the path component of rawURL, or "" if it does not parse.
func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}
