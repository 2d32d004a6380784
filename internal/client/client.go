package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const maxBodyRead = 1 << 20 // 1MB

// TransportError reports a network-level failure: connection refused, DNS
// failure, timeout. The request never produced a Result. The client performs
// no retries; that decision belongs to the caller.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Result is the normalized outcome of one executed request. OK is always
// exactly 200 <= Status < 300.
type Result struct {
	Status     int
	StatusText string
	Headers    map[string]string
	Body       any // decoded JSON value, or raw text for non-JSON responses
	OK         bool
}

// Options configures a Client. HTTPClient carries the transport timeout; the
// client adds none of its own.
type Options struct {
	BaseURL        string
	DefaultHeaders map[string]string
	HTTPClient     *http.Client
	Limiter        *rate.Limiter // optional client-side request pacing
	Logger         *slog.Logger
	Verbose        bool // log response bodies
}

// Client executes Descriptors against a base URL and normalizes responses.
// It holds no mutable state after construction and is safe for concurrent
// use.
type Client struct {
	base    string
	headers map[string]string
	hc      *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	verbose bool
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	headers := make(map[string]string, len(opts.DefaultHeaders))
	for k, v := range opts.DefaultHeaders {
		headers[k] = v
	}
	return &Client{
		base:    strings.TrimRight(opts.BaseURL, "/"),
		headers: headers,
		hc:      hc,
		limiter: opts.Limiter,
		logger:  logger,
		verbose: opts.Verbose,
	}
}

// Execute performs the described call and normalizes the response. A non-2xx
// status is not an error; only network-level failures return a
// *TransportError.
func (c *Client) Execute(ctx context.Context, d Descriptor) (*Result, error) {
	fullURL := c.base + d.Path
	if q := EncodeQuery(d.Query); q != "" {
		fullURL += "?" + q
	}

	headers := make(map[string]string, len(c.headers)+len(d.Headers))
	for k, v := range c.headers {
		headers[k] = v
	}
	for k, v := range d.Headers {
		headers[k] = v
	}

	var bodyReader io.Reader
	if carriesBody(d.Method) && d.Body != nil {
		raw, err := json.Marshal(d.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
		if _, ok := headers["Content-Type"]; !ok {
			headers["Content-Type"] = "application/json"
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Method: d.Method, URL: fullURL, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("request start", "method", d.Method, "url", fullURL)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{Method: d.Method, URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))

	respHeaders := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		respHeaders[k] = resp.Header.Get(k)
	}

	res := &Result{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Headers:    respHeaders,
		Body:       decodeBody(respHeaders["Content-Type"], raw),
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
	}

	c.logger.Debug("response received",
		"method", d.Method, "url", fullURL, "status", res.Status, "ok", res.OK)
	if c.verbose {
		c.logger.Debug("response body", "url", fullURL, "body", string(raw))
	}

	return res, nil
}

// decodeBody parses JSON bodies into a generic value. A body that claims to
// be JSON but fails to parse becomes an empty object rather than an error,
// matching the normalization contract. Anything else is kept as raw text.
func decodeBody(contentType string, raw []byte) any {
	if !isJSONContentType(contentType) {
		return string(raw)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return map[string]any{}
	}
	return v
}

func isJSONContentType(ct string) bool {
	ct = strings.ToLower(ct)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.TrimSpace(ct)
	return ct == "application/json" || strings.HasSuffix(ct, "+json")
}

// Get issues a GET for path with the given query params.
func (c *Client) Get(ctx context.Context, path string, query ...Param) (*Result, error) {
	return c.Execute(ctx, Descriptor{Method: "GET", Path: path, Query: query})
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, query ...Param) (*Result, error) {
	return c.Execute(ctx, Descriptor{Method: "POST", Path: path, Body: body, Query: query})
}

// Delete issues a DELETE for path.
func (c *Client) Delete(ctx context.Context, path string, query ...Param) (*Result, error) {
	return c.Execute(ctx, Descriptor{Method: "DELETE", Path: path, Query: query})
}
