package transport

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/nao1215/crawlprobe/internal/model"
)

const (
	// DefaultMaxBodySize is the default limit on bytes read from a response body.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024

	// DefaultUserAgent is sent when no User-Agent is configured.
	DefaultUserAgent = "crawlprobe"

	// maxRedirects stops redirect loops when redirects are followed;
	// the last response is returned.
	maxRedirects = 10

	formContentType = "application/x-www-form-urlencoded"
)

const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// DialContextFunc matches http.Transport.DialContext.
type DialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

type options struct {
	userAgent          string
	headers            map[string]string
	cookie             string
	maxBodySize        int64
	dialContext        DialContextFunc
	insecureSkipVerify bool
	compression        bool
	followRedirects    bool
}

// Option configures a Client.
type Option func(*options)

// WithUserAgent sets the User-Agent header. An empty value keeps the default.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.headers = make(map[string]string, len(headers))
		for k, v := range headers {
			o.headers[k] = v
		}
	}
}

// WithCookie sets a raw Cookie header value (e.g. "session=abc; theme=dark").
func WithCookie(cookie string) Option {
	return func(o *options) {
		o.cookie = cookie
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
// Non-positive values keep the default.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}

// WithDialContext replaces the dialer, e.g. with a SOCKS5 dialer for Tor.
func WithDialContext(dial DialContextFunc) Option {
	return func(o *options) {
		o.dialContext = dial
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// Onion services commonly present self-signed certificates.
func WithInsecureSkipVerify(skip bool) Option {
	return func(o *options) {
		o.insecureSkipVerify = skip
	}
}

// WithCompression controls whether gzip, deflate and br responses are
// requested and decoded. It is on by default.
func WithCompression(enabled bool) Option {
	return func(o *options) {
		o.compression = enabled
	}
}

// WithFollowRedirects makes the client follow up to ten redirects.
// By default a 3xx response is returned as is and counts as a failing path.
func WithFollowRedirects(follow bool) Option {
	return func(o *options) {
		o.followRedirects = follow
	}
}

// Client sends single HTTP requests and reports their Outcome.
// It is safe for concurrent use, though a run gives each worker its own.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	headers     map[string]string
	cookie      string
	maxBodySize int64
	compression bool
}

// NewClient creates a Client. Timeouts are applied per request by Send,
// so the underlying http.Client has none.
func NewClient(opts ...Option) *Client {
	o := options{
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		compression: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
		DisableCompression:  true,
	}
	if o.dialContext != nil {
		tr.Proxy = nil
		tr.DialContext = o.dialContext
	}
	if o.insecureSkipVerify {
		tr.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // onion services use self-signed certificates
		}
	}

	followRedirects := o.followRedirects
	return &Client{
		httpClient: &http.Client{
			Transport: tr,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if !followRedirects || len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent:   o.userAgent,
		headers:     o.headers,
		cookie:      o.cookie,
		maxBodySize: o.maxBodySize,
		compression: o.compression,
	}
}

// Send issues one request and waits at most timeout for it, including the
// body read. GET carries no body; POST carries an empty form body.
//
// Send never returns an error directly: transport failures are reported in
// Outcome.Err, and any received status is reported even if reading the body
// fails afterwards.
func (c *Client) Send(ctx context.Context, method model.Method, rawURL string, timeout time.Duration) model.Outcome {
	out := model.Outcome{URL: rawURL, Method: method}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, method, rawURL)
	if err != nil {
		out.Err = err
		return out
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		out.Latency = time.Since(start)
		out.Err = fmt.Errorf("request failed: %w", err)
		return out
	}
	out.StatusCode = resp.StatusCode

	body, err := c.readBody(resp)
	out.Latency = time.Since(start)
	if err != nil {
		out.Err = fmt.Errorf("failed to read response body: %w", err)
		return out
	}
	out.Body = body

	return out
}

func (c *Client) newRequest(ctx context.Context, method model.Method, rawURL string) (*http.Request, error) {
	var (
		req *http.Request
		err error
	)
	switch method {
	case model.MethodGet:
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	case model.MethodPost:
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(""))
		if err == nil {
			req.Header.Set("Content-Type", formContentType)
		}
	default:
		return nil, fmt.Errorf("%w: %v", model.ErrUnknownMethod, method)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if c.compression {
		req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	return req, nil
}

// readBody decodes the response body and reads at most maxBodySize bytes
// of the decoded content. Longer bodies are truncated without error.
func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	reader := io.Reader(resp.Body)
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer func() { _ = fl.Close() }()
		reader = fl
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	return io.ReadAll(io.LimitReader(reader, c.maxBodySize))
}

// Close releases idle connections. The Client stays usable afterwards.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}
