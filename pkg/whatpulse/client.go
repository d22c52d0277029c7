package whatpulse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// StatsFetcher defines the operations offered by the WhatPulse client API.
// This interface is implemented by *Client and can be used for testing.
type StatsFetcher interface {
	FetchAccountTotals(ctx context.Context) (AccountTotals, error)
	FetchUnpulsedStats(ctx context.Context) (UnpulsedStats, error)
	Pulse(ctx context.Context) error
}

// Ensure Client implements StatsFetcher at compile time.
var _ StatsFetcher = (*Client)(nil)

const (
	DefaultHost   = "localhost"
	DefaultPort   = 3490
	DefaultScheme = "http"

	apiVersionPath   = "/v1/"
	defaultUserAgent = "pulsar/0.1"
)

// Client talks to the WhatPulse desktop client's local HTTP API.
// It holds no mutable state after construction and is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *resty.Client
}

type options struct {
	host       string
	port       int
	scheme     string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*options)

// WithHost sets the hostname. An empty value keeps the default.
func WithHost(host string) Option {
	return func(o *options) { o.host = host }
}

// WithPort sets the port. Zero keeps the default.
func WithPort(port int) Option {
	return func(o *options) { o.port = port }
}

// WithScheme sets the URL scheme ("http" or "https"; a trailing colon is
// accepted). An empty value keeps the default.
func WithScheme(scheme string) Option {
	return func(o *options) { o.scheme = scheme }
}

// WithHTTPClient sets the underlying *http.Client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithUserAgent overrides the User-Agent header sent with every request.
// An empty value keeps the default.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// NewClient builds a Client. Unset options fall back to localhost:3490 over http.
// A malformed host, scheme or port is reported here rather than at request time.
func NewClient(opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	base, err := buildBaseURL(o.host, o.port, o.scheme)
	if err != nil {
		return nil, err
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{}
	}
	ua := strings.TrimSpace(o.userAgent)
	if ua == "" {
		ua = defaultUserAgent
	}

	rc := resty.NewWithClient(hc).
		SetLogger(discardLogger{}).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", ua)

	return &Client{baseURL: base, http: rc}, nil
}

// BaseURL returns the address every request path is resolved against.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchAccountTotals retrieves lifetime account totals and ranks.
func (c *Client) FetchAccountTotals(ctx context.Context) (AccountTotals, error) {
	if c == nil {
		return AccountTotals{}, fmt.Errorf("client is nil")
	}
	body, err := c.get(ctx, "account-totals")
	if err != nil {
		return AccountTotals{}, err
	}
	var raw rawAccountTotals
	if err := json.Unmarshal(body, &raw); err != nil {
		return AccountTotals{}, errors.Wrap(err, "decode account totals")
	}
	totals, err := raw.convert()
	if err != nil {
		return AccountTotals{}, errors.Wrap(err, "convert account totals")
	}
	return totals, nil
}

// FetchUnpulsedStats retrieves counters accumulated since the last pulse.
// The upstream encodes these as JSON numbers, so no conversion is applied.
func (c *Client) FetchUnpulsedStats(ctx context.Context) (UnpulsedStats, error) {
	if c == nil {
		return UnpulsedStats{}, fmt.Errorf("client is nil")
	}
	body, err := c.get(ctx, "unpulsed")
	if err != nil {
		return UnpulsedStats{}, err
	}
	var stats UnpulsedStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return UnpulsedStats{}, errors.Wrap(err, "decode unpulsed stats")
	}
	return stats, nil
}

// Pulse asks the WhatPulse client to submit its unpulsed stats.
//
// The upstream does not report whether the pulse went through, so a nil
// error only means the request was answered without an error envelope.
// Callers cannot tell an accepted pulse from an ignored one.
func (c *Client) Pulse(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	_, err := c.get(ctx, "pulse")
	return err
}

// get issues a GET for path relative to the base URL and returns the body of
// a successful response. Non-200 statuses and error envelopes become *Error;
// transport failures are returned as-is.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	resp, err := c.http.R().SetContext(ctx).Get(reqURL.String())
	if err != nil {
		return nil, err
	}

	if err := statusError(resp.StatusCode()); err != nil {
		return nil, err
	}

	body := resp.Body()
	if err := envelopeError(body); err != nil {
		return nil, err
	}
	return body, nil
}

// envelopeError reports the in-body error the upstream uses on 200 responses.
func envelopeError(body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return errors.Wrap(err, "decode response")
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	value, ok := obj["error"]
	if !ok || !truthy(value) {
		return nil
	}
	msg, ok := value.(string)
	if !ok {
		msg = fmt.Sprint(value)
	}
	return newAPIError(msg)
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	default:
		return true
	}
}

func buildBaseURL(host string, port int, scheme string) (*url.URL, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		host = DefaultHost
	}
	if strings.ContainsAny(host, "/?#@ ") {
		return nil, errors.Errorf("invalid host %q", host)
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	// A colon is only valid inside an IPv6 literal; "host:port" is rejected.
	if strings.Contains(host, ":") && net.ParseIP(host) == nil {
		return nil, errors.Errorf("invalid host %q", host)
	}

	if port == 0 {
		port = DefaultPort
	}
	if port < 0 || port > 65535 {
		return nil, errors.Errorf("invalid port %d", port)
	}

	scheme = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(scheme), ":"))
	if scheme == "" {
		scheme = DefaultScheme
	}
	if !validScheme(scheme) {
		return nil, errors.Errorf("invalid scheme %q", scheme)
	}

	raw := scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port)) + apiVersionPath
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parse base url %q", raw)
	}
	return u, nil
}

// validScheme reports whether s is a scheme the HTTP transport can speak.
func validScheme(s string) bool {
	return s == "http" || s == "https"
}

// discardLogger keeps resty from writing warnings to stderr.
type discardLogger struct{}

func (discardLogger) Errorf(string, ...any) {}
func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Debugf(string, ...any) {}
