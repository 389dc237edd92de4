package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// AcceptHeader is sent with every request.
	AcceptHeader = "application/vnd.github+json"
)

// Client wraps the go-github client with header handling and rate tracking.
// It is safe for concurrent use.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

type clientOptions struct {
	baseURL           string
	requestsPerSecond float64
}

// Option configures a Client.
type Option func(*clientOptions)

// WithBaseURL points the client at another API root, e.g. a test server
// or a GitHub Enterprise instance.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithRequestsPerSecond sets the proactive throttle rate.
// Zero or less disables spacing.
func WithRequestsPerSecond(rps float64) Option {
	return func(o *clientOptions) {
		o.requestsPerSecond = rps
	}
}

// NewHTTPClient builds the pooled session shared by every request of a run.
// An empty token yields an unauthenticated client.
func NewHTTPClient(ctx context.Context, token string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if token == "" {
		return &http.Client{Timeout: timeout}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = timeout
	return tc
}

// NewClient creates a GitHub API client over httpClient.
// The caller keeps ownership of httpClient; it is not modified.
func NewClient(httpClient *http.Client, opts ...Option) (*Client, error) {
	o := clientOptions{requestsPerSecond: DefaultRequestsPerSecond}
	for _, opt := range opts {
		opt(&o)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	limiter := NewRateLimiter(o.requestsPerSecond)

	session := *httpClient
	session.Transport = &headerTransport{
		base:    httpClient.Transport,
		limiter: limiter,
	}

	client := gh.NewClient(&session)
	if o.baseURL != "" {
		base, err := parseBaseURL(o.baseURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = base
	}

	return &Client{
		gh:          client,
		rateLimiter: limiter,
	}, nil
}

// GitHub returns the underlying go-github client.
func (c *Client) GitHub() *gh.Client {
	return c.gh
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse api base url: %q is not absolute", raw)
	}
	return u, nil
}

// headerTransport sets the Accept header and feeds every response,
// successful or not, to the rate limiter.
type headerTransport struct {
	base    http.RoundTripper
	limiter *RateLimiter
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	r := req.Clone(req.Context())
	r.Header.Set("Accept", AcceptHeader)

	resp, err := base.RoundTrip(r)
	if resp != nil {
		t.limiter.UpdateFromResponse(resp)
	}
	return resp, err
}
