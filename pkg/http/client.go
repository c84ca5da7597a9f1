package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	MethodGet = http.MethodGet

	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 8 * time.Second
	// DefaultUserAgent is sent unless a header overlay replaces it.
	DefaultUserAgent = "MarketAtlas/1.0"

	maxBodyBytes    = 4 << 20
	maxPayloadBytes = 512
)

// Doer is the subset of *http.Client the transport needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures HTTPClient.
type ClientOption func(*Client)

// RequestOptions holds HTTP request parameters.
type RequestOptions struct {
	Method      string
	URL         string
	Headers     map[string]string
	QueryParams url.Values
	// Timeout overrides the client default when positive.
	Timeout time.Duration
}

// Response is a decoded successful upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsJSON reports whether the response declared a JSON content type.
func (r *Response) IsJSON() bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.Contains(ct, "json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// Text returns the raw body.
func (r *Response) Text() string { return string(r.Body) }

// DecodeJSON unmarshals the body into dest. Non-JSON responses are rejected.
func (r *Response) DecodeJSON(dest interface{}) error {
	if !r.IsJSON() {
		return UnexpectedPayloadErrorf("expected json response, got %q", r.Header.Get("Content-Type"))
	}
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return UnexpectedPayloadErrorf("decode json: %v", err)
	}
	return nil
}

// Client performs single outbound requests with a timeout and default headers.
type Client struct {
	timeout time.Duration
	headers map[string]string
	doer    Doer
}

// NewClient creates a new HTTP client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout: DefaultTimeout,
		headers: map[string]string{
			"User-Agent": DefaultUserAgent,
			"Accept":     "application/json",
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.doer == nil {
		// Deadline is enforced per call through the request context.
		c.doer = &http.Client{}
	}
	return c
}

// Fetch issues one request. It never retries.
func (c *Client) Fetch(ctx context.Context, opts *RequestOptions) (*Response, error) {
	timeout := c.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := c.buildRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, TimeoutError(timeout)
		}
		return nil, NetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, TimeoutError(timeout)
		}
		return nil, NetworkError(fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, UpstreamHTTPError(resp.StatusCode, snippet(body))
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// Get is a shorthand for a GET with query parameters and a header overlay.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values, headers map[string]string) (*Response, error) {
	return c.Fetch(ctx, &RequestOptions{Method: MethodGet, URL: rawURL, QueryParams: query, Headers: headers})
}

func (c *Client) buildRequest(ctx context.Context, opts *RequestOptions) (*http.Request, error) {
	u, err := url.Parse(opts.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, InvalidParameterErrorf("url", "invalid url %q", opts.URL)
	}

	method := opts.Method
	if method == "" {
		method = MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, InvalidParameterErrorf("url", "new request: %v", err)
	}

	c.addQueryParams(req, opts.QueryParams)
	c.addHeaders(req, opts.Headers)

	return req, nil
}

func (c *Client) addQueryParams(req *http.Request, params url.Values) {
	if len(params) > 0 {
		q := req.URL.Query()
		for key, values := range params {
			for _, value := range values {
				q.Add(key, value)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
}

func (c *Client) addHeaders(req *http.Request, overlay map[string]string) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	for key, value := range overlay {
		req.Header.Set(key, value)
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func snippet(body []byte) string {
	if len(body) > maxPayloadBytes {
		return string(body[:maxPayloadBytes])
	}
	return string(body)
}

// WithTimeout sets the default per-call timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent replaces the default User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.headers["User-Agent"] = ua
		}
	}
}

// WithDefaultHeader adds or replaces a default header.
func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithDoer replaces the underlying HTTP client.
func WithDoer(d Doer) ClientOption {
	return func(c *Client) {
		c.doer = d
	}
}
