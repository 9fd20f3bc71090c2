// Package apiclient talks JSON to the remote quiz API through a configurable
// middleware pipeline.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrTransport wraps failures to reach the API at all.
var ErrTransport = errors.New("api unreachable")

// ErrMalformedResponse is returned when a response body is not the expected JSON.
var ErrMalformedResponse = errors.New("malformed api response")

// ErrRejected matches application-level refusals: a 2xx response whose body
// says success is false.
var ErrRejected = errors.New("api rejected request")

const maxBodyBytes = 4 << 20

// RejectedError is an application-level refusal carrying the server message.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return "api rejected request: " + e.Message
	}
	return "api rejected request"
}

func (e *RejectedError) Unwrap() error { return ErrRejected }

// StatusError is returned for non-2xx responses. Message carries the server's
// "message" field when the body had one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api returned %d", e.StatusCode)
}

// ServerMessage returns the server-supplied message carried by err, or
// fallback when there is none.
func ServerMessage(err error, fallback string) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	var re *RejectedError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}

// Client issues requests against one API base URL. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL string
	http    *http.Client
	public  *http.Client
}

// Option configures the Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout     time.Duration
	transport   http.RoundTripper
	middlewares []Middleware
	tokens      TokenSource
}

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithTransport replaces the base RoundTripper (http.DefaultTransport).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

// WithMiddleware appends stages to the pipeline shared by both the
// authenticated and the public client.
func WithMiddleware(mws ...Middleware) Option {
	return func(o *clientOptions) {
		o.middlewares = append(o.middlewares, mws...)
	}
}

// WithBearer attaches tokens from src to authenticated requests.
func WithBearer(src TokenSource) Option {
	return func(o *clientOptions) {
		o.tokens = src
	}
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}

	o := &clientOptions{
		timeout:   10 * time.Second,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(o)
	}

	public := Chain(o.transport, o.middlewares...)
	authed := public
	if o.tokens != nil {
		authed = Chain(o.transport, append(append([]Middleware{}, o.middlewares...), Bearer(o.tokens))...)
	}

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Transport: authed, Timeout: o.timeout},
		public:  &http.Client{Transport: public, Timeout: o.timeout},
	}, nil
}

// Public returns a Client sharing this one's pipeline minus the bearer stage.
func (c *Client) Public() *Client {
	return &Client{baseURL: c.baseURL, http: c.public, public: c.public}
}

// Get issues a GET and decodes the JSON response into out (which may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with body encoded as JSON. A nil body sends "{}".
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	if body == nil {
		body = struct{}{}
	}
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Do issues a request. Non-2xx responses yield *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &msg) == nil {
			se.Message = msg.Message
		}
		return se
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// Expand substitutes {name} placeholders in tpl with path-escaped values
// given as name, value pairs.
func Expand(tpl string, pairs ...string) string {
	out := tpl
	for i := 0; i+1 < len(pairs); i += 2 {
		out = strings.ReplaceAll(out, "{"+pairs[i]+"}", url.PathEscape(pairs[i+1]))
	}
	return out
}
