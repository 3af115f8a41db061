package transport

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/nao1215/crawlprobe/internal/model"
)

// TestSend tests request construction and outcome reporting.
func TestSend(t *testing.T) {
	t.Parallel()

	t.Run("GET returns status body and latency", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			_, _ = w.Write([]byte(`<a href="/next">next</a>`))
		}))
		defer server.Close()

		client := NewClient()
		defer client.Close()

		out := client.Send(context.Background(), model.MethodGet, server.URL, 5*time.Second)
		if out.Err != nil {
			t.Fatalf("unexpected error: %v", out.Err)
		}
		if !out.Succeeded() {
			t.Errorf("expected success, got status %d", out.StatusCode)
		}
		if string(out.Body) != `<a href="/next">next</a>` {
			t.Errorf("unexpected body %q", out.Body)
		}
		if out.Latency <= 0 {
			t.Error("expected positive latency")
		}
		if out.URL != server.URL || out.Method != model.MethodGet {
			t.Errorf("outcome does not describe the request: %+v", out)
		}
	})

	t.Run("POST sends an empty form body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
				t.Errorf("unexpected Content-Type %q", ct)
			}
			body, _ := io.ReadAll(r.Body)
			if len(body) != 0 {
				t.Errorf("expected empty body, got %q", body)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		out := NewClient().Send(context.Background(), model.MethodPost, server.URL, 5*time.Second)
		if !out.Succeeded() {
			t.Errorf("expected success, got %+v", out)
		}
	})

	t.Run("configured headers are sent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ua := r.Header.Get("User-Agent"); ua != "probe-test/1.0" {
				t.Errorf("unexpected User-Agent %q", ua)
			}
			if v := r.Header.Get("X-Probe"); v != "yes" {
				t.Errorf("unexpected X-Probe %q", v)
			}
			if c := r.Header.Get("Cookie"); c != "session=abc" {
				t.Errorf("unexpected Cookie %q", c)
			}
		}))
		defer server.Close()

		client := NewClient(
			WithUserAgent("probe-test/1.0"),
			WithHeaders(map[string]string{"X-Probe": "yes"}),
			WithCookie("session=abc"),
		)
		if out := client.Send(context.Background(), model.MethodGet, server.URL, 5*time.Second); out.Err != nil {
			t.Fatalf("unexpected error: %v", out.Err)
		}
	})

	t.Run("default User-Agent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
				t.Errorf("unexpected User-Agent %q", ua)
			}
		}))
		defer server.Close()

		_ = NewClient(WithUserAgent("")).Send(context.Background(), model.MethodGet, server.URL, 5*time.Second)
	})

	t.Run("non-200 status is not an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		out := NewClient().Send(context.Background(), model.MethodGet, server.URL, 5*time.Second)
		if out.Failed() {
			t.Fatalf("unexpected transport error: %v", out.Err)
		}
		if out.StatusCode != http.StatusNotFound || out.Succeeded() {
			t.Errorf("expected unsuccessful 404, got %d", out.StatusCode)
		}
	})

	t.Run("body is truncated to the size limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		}))
		defer server.Close()

		out := NewClient(WithMaxBodySize(10)).Send(context.Background(), model.MethodGet, server.URL, 5*time.Second)
		if out.Err != nil {
			t.Fatalf("unexpected error: %v", out.Err)
		}
		if len(out.Body) != 10 {
			t.Errorf("expected 10 bytes, got %d", len(out.Body))
		}
	})

	t.Run("timeout is a transport failure", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		out := NewClient().Send(context.Background(), model.MethodGet, server.URL, 50*time.Millisecond)
		if !out.Failed() {
			t.Fatal("expected transport failure")
		}
		if !errors.Is(out.Err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", out.Err)
		}
		if out.StatusCode != 0 {
			t.Errorf("expected no status, got %d", out.StatusCode)
		}
	})

	t.Run("connection refused is a transport failure", func(t *testing.T) {
		t.Parallel()

		listener, err := net.Listen("tcp", "127.0.0.1:0") //nolint:noctx // test code
		if err != nil {
			t.Fatalf("failed to reserve port: %v", err)
		}
		addr := listener.Addr().String()
		_ = listener.Close()

		out := NewClient().Send(context.Background(), model.MethodGet, "http://"+addr, time.Second)
		if !out.Failed() {
			t.Error("expected transport failure")
		}
	})

	t.Run("unknown method is rejected", func(t *testing.T) {
		t.Parallel()

		out := NewClient().Send(context.Background(), model.Method(9), "http://127.0.0.1", time.Second)
		if !errors.Is(out.Err, model.ErrUnknownMethod) {
			t.Errorf("expected ErrUnknownMethod, got %v", out.Err)
		}
	})

	t.Run("custom dialer is used", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		defer server.Close()

		dialed := make(chan string, 1)
		var d net.Dialer
		client := NewClient(WithDialContext(func(ctx context.Context, network, _ string) (net.Conn, error) {
			select {
			case dialed <- "called":
			default:
			}
			return d.DialContext(ctx, network, server.Listener.Addr().String())
		}))

		out := client.Send(context.Background(), model.MethodGet, "http://probe.invalid/", 5*time.Second)
		if out.Err != nil {
			t.Fatalf("unexpected error: %v", out.Err)
		}
		select {
		case <-dialed:
		default:
			t.Error("expected custom dialer to be called")
		}
	})
}

// TestRedirects tests the redirect policy.
func TestRedirects(t *testing.T) {
	t.Parallel()

	newServer := func() *httptest.Server {
		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("moved"))
		})
		return httptest.NewServer(mux)
	}

	t.Run("not followed by default", func(t *testing.T) {
		t.Parallel()

		server := newServer()
		defer server.Close()

		out := NewClient().Send(context.Background(), model.MethodGet, server.URL+"/old", 5*time.Second)
		if out.Err != nil {
			t.Fatalf("unexpected error: %v", out.Err)
		}
		if out.StatusCode != http.StatusMovedPermanently {
			t.Errorf("expected 301, got %d", out.StatusCode)
		}
	})

	t.Run("followed when enabled", func(t *testing.T) {
		t.Parallel()

		server := newServer()
		defer server.Close()

		out := NewClient(WithFollowRedirects(true)).Send(context.Background(), model.MethodGet, server.URL+"/old", 5*time.Second)
		if !out.Succeeded() || string(out.Body) != "moved" {
			t.Errorf("expected redirected 200, got %d %q", out.StatusCode, out.Body)
		}
	})
}

// TestCompressedBodies tests decoding of compressed responses.
func TestCompressedBodies(t *testing.T) {
	t.Parallel()

	const page = `<html><a href="/compressed">c</a></html>`

	encode := map[string]func([]byte) []byte{
		"gzip": func(b []byte) []byte {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, _ = zw.Write(b)
			_ = zw.Close()
			return buf.Bytes()
		},
		"br": func(b []byte) []byte {
			var buf bytes.Buffer
			bw := brotli.NewWriter(&buf)
			_, _ = bw.Write(b)
			_ = bw.Close()
			return buf.Bytes()
		},
	}

	for encoding, fn := range encode {
		t.Run(encoding, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.Contains(r.Header.Get("Accept-Encoding"), encoding) {
					t.Errorf("expected %s in Accept-Encoding, got %q", encoding, r.Header.Get("Accept-Encoding"))
				}
				w.Header().Set("Content-Encoding", encoding)
				_, _ = w.Write(fn([]byte(page)))
			}))
			defer server.Close()

			out := NewClient().Send(context.Background(), model.MethodGet, server.URL, 5*time.Second)
			if out.Err != nil {
				t.Fatalf("unexpected error: %v", out.Err)
			}
			if string(out.Body) != page {
				t.Errorf("unexpected decoded body %q", out.Body)
			}
		})
	}

	t.Run("compression disabled", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			if ae := r.Header.Get("Accept-Encoding"); strings.Contains(ae, "br") {
				t.Errorf("unexpected Accept-Encoding %q", ae)
			}
		}))
		defer server.Close()

		_ = NewClient(WithCompression(false)).Send(context.Background(), model.MethodGet, server.URL, 5*time.Second)
	})
}

// TestClose tests that Close is safe to call repeatedly and on nil.
func TestClose(t *testing.T) {
	t.Parallel()

	client := NewClient()
	client.Close()
	client.Close()

	var nilClient *Client
	nilClient.Close()
}
