package modrinth

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the public Modrinth v2 API.
	DefaultBaseURL = "https://api.modrinth.com/v2/"
	// DefaultUserAgent identifies this client when no user agent is set.
	DefaultUserAgent = "s0up4200/rinth"

	defaultTimeout = 30 * time.Second
	tracerName     = "github.com/s0up4200/rinth/modrinth"
)

// Client represents a Modrinth API client. A Client is safe for concurrent
// use; it holds only read-only configuration and a pooled HTTP client.
type Client struct {
	base   *url.URL
	exec   *Executor
	logger zerolog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	token          string
	userAgent      string
	timeout        time.Duration
	httpClient     *http.Client
	strict         bool
	tracerProvider trace.TracerProvider
}

// WithToken sets the token sent in the Authorization header of every
// request. Without it requests are unauthenticated.
func WithToken(token string) Option {
	return func(o *clientOptions) {
		o.token = token
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithTimeout sets the HTTP client timeout. It is ignored when a custom
// client is supplied with WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithStrictDecoding makes responses with fields the client does not know
// about fail with a *DeserializeError pointing at the unknown field.
func WithStrictDecoding() Option {
	return func(o *clientOptions) {
		o.strict = true
	}
}

// WithTracerProvider sets the provider used for request spans. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *clientOptions) {
		o.tracerProvider = tp
	}
}

// NewClient creates a new Modrinth client. An empty baseURL selects
// DefaultBaseURL. No request is made.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, inputErrorf("base url %q: %v", baseURL, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, inputErrorf("base url %q must be an absolute http(s) URL", baseURL)
	}
	base.RawQuery = ""
	base.Fragment = ""
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	o := clientOptions{
		userAgent: DefaultUserAgent,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
		httpClient.Timeout = o.timeout
	}

	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	header := make(http.Header)
	header.Set("Accept", "application/json")
	header.Set("User-Agent", o.userAgent)
	if o.token != "" {
		header.Set("Authorization", o.token)
	}

	return &Client{
		base: base,
		exec: &Executor{
			httpClient: httpClient,
			header:     header,
			strict:     o.strict,
			tracer:     tp.Tracer(tracerName),
			logger:     logger,
		},
		logger: logger,
	}, nil
}

// BaseURL returns the API root requests are resolved against.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Executor returns the executor shared by the client's requests, for use
// with Get on endpoints the client does not wrap.
func (c *Client) Executor() *Executor {
	return c.exec
}

// endpoint resolves path segments against the base URL and attaches query.
func (c *Client) endpoint(query string, segments ...string) string {
	u := c.base.JoinPath(segments...)
	u.RawQuery = query
	return u.String()
}
