package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20

	EndpointHomeContent  = "/api/home-content/"
	EndpointServices     = "/api/services/"
	EndpointPortfolio    = "/api/portfolio/"
	EndpointTestimonials = "/api/testimonials/"
	EndpointQueries      = "/api/queries/"
)

// Request outcomes reported to an Observer.
const (
	OutcomeOK         = "ok"
	OutcomeNetwork    = "network_error"
	OutcomeParse      = "parse_error"
	OutcomeValidation = "validation_error"
)

// Observer is told about every finished API request.
type Observer interface {
	ObserveRequest(endpoint, method, outcome string, elapsed time.Duration)
}

// ClientConfig holds the content API connection settings.
type ClientConfig struct {
	// Origin is the backend base URL, e.g. "http://localhost:8000". Media paths
	// are resolved against it too.
	Origin  string
	Timeout time.Duration
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger.With().Str("component", "content").Logger()
	}
}

func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		c.observer = o
	}
}

// Client talks to the content API. It is safe for concurrent use.
type Client struct {
	origin     string
	httpClient *http.Client
	logger     zerolog.Logger
	observer   Observer
}

// NewClient creates a client for the API at cfg.Origin.
func NewClient(cfg ClientConfig, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		origin:     strings.TrimRight(cfg.Origin, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Origin returns the backend base URL.
func (c *Client) Origin() string {
	return c.origin
}

// ImageURL resolves a media path from the API against the client's origin.
func (c *Client) ImageURL(path string) string {
	return ImageURL(c.origin, path)
}

// FetchHomeContent returns the home-content list. The page uses its first element.
func (c *Client) FetchHomeContent(ctx context.Context) ([]HomeContent, error) {
	var out []HomeContent
	if err := c.getJSON(ctx, EndpointHomeContent, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FetchServices(ctx context.Context) ([]Service, error) {
	var out []Service
	if err := c.getJSON(ctx, EndpointServices, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FetchPortfolio(ctx context.Context) ([]PortfolioItem, error) {
	var out []PortfolioItem
	if err := c.getJSON(ctx, EndpointPortfolio, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FetchTestimonials(ctx context.Context) ([]Testimonial, error) {
	var out []Testimonial
	if err := c.getJSON(ctx, EndpointTestimonials, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchQueries returns all stored contact queries in API order.
func (c *Client) FetchQueries(ctx context.Context) ([]Query, error) {
	var out []Query
	if err := c.getJSON(ctx, EndpointQueries, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchHomePage fetches the four home resources concurrently. Any failure fails the
// whole page; an empty home-content list is ErrNoHomeContent.
func (c *Client) FetchHomePage(ctx context.Context) (*HomePage, error) {
	results, err := JoinAll(ctx,
		func(ctx context.Context) (any, error) { return c.FetchHomeContent(ctx) },
		func(ctx context.Context) (any, error) { return c.FetchServices(ctx) },
		func(ctx context.Context) (any, error) { return c.FetchPortfolio(ctx) },
		func(ctx context.Context) (any, error) { return c.FetchTestimonials(ctx) },
	)
	if err != nil {
		return nil, fmt.Errorf("fetch home page: %w", err)
	}
	home, _ := results[0].([]HomeContent)
	if len(home) == 0 {
		return nil, ErrNoHomeContent
	}
	page := &HomePage{Content: home[0]}
	page.Services, _ = results[1].([]Service)
	page.Portfolio, _ = results[2].([]PortfolioItem)
	page.Testimonials, _ = results[3].([]Testimonial)
	return page, nil
}

// PostQuery submits a contact query. A 4xx answer is a *ValidationError, a 5xx answer or
// transport failure a *NetworkError.
func (c *Client) PostQuery(ctx context.Context, in QueryInput) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}
	start := time.Now()
	resp, err := c.do(ctx, http.MethodPost, EndpointQueries, bytes.NewReader(body))
	if err != nil {
		c.observe(EndpointQueries, http.MethodPost, OutcomeNetwork, start)
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		c.observe(EndpointQueries, http.MethodPost, OutcomeOK, start)
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		c.observe(EndpointQueries, http.MethodPost, OutcomeValidation, start)
		return newValidationError(resp)
	default:
		c.observe(EndpointQueries, http.MethodPost, OutcomeNetwork, start)
		return &NetworkError{Method: http.MethodPost, Endpoint: EndpointQueries, StatusCode: resp.StatusCode}
	}
}

func newValidationError(resp *http.Response) *ValidationError {
	verr := &ValidationError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil || len(raw) == 0 {
		return verr
	}
	var fields map[string][]string
	if json.Unmarshal(raw, &fields) == nil && len(fields) > 0 {
		verr.Fields = fields
	}
	return verr
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	start := time.Now()
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.observe(endpoint, http.MethodGet, OutcomeNetwork, start)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.observe(endpoint, http.MethodGet, OutcomeNetwork, start)
		return &NetworkError{Method: http.MethodGet, Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		c.observe(endpoint, http.MethodGet, OutcomeParse, start)
		return &ParseError{Endpoint: endpoint, Err: err}
	}
	c.observe(endpoint, http.MethodGet, OutcomeOK, start)
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.origin+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Warn().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("content request failed")
		}
		return nil, &NetworkError{Method: method, Endpoint: endpoint, Err: err}
	}
	return resp, nil
}

func (c *Client) observe(endpoint, method, outcome string, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveRequest(endpoint, method, outcome, time.Since(start))
}
