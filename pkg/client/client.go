// Package client provides the HTTP transport for the SeatGeek listings API
// with error classification and request metrics.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for listings API requests.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_api_requests_total",
		Help: "Total listings API requests by status",
	}, []string{"status"})

	apiRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapshot_api_request_duration_seconds",
		Help:    "Listings API request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_api_errors_total",
		Help: "Total listings API errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the listings API root used when Config.BaseURL is empty.
const DefaultBaseURL = "http://api.seatgeek.com/2"

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassUnexpected represents non-2xx statuses outside 4xx/5xx.
	ErrorClassUnexpected ErrorClass = "unexpected"
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, e.g. "http://api.seatgeek.com/2".
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout bounds a whole request including the body read.
	// Zero means no timeout: the call blocks until the response completes.
	Timeout time.Duration

	// HTTPClient overrides the underlying client (tests). Timeout is ignored
	// when set.
	HTTPClient *http.Client
}

// DefaultConfig returns the configuration matching the public API defaults.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
	}
}

// Client performs GET requests against the listings API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// New creates a new listings API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		config:     cfg,
		logger:     log.With().Str("component", "api-client").Logger(),
	}, nil
}

// Get requests path (relative to the base URL) with the given query and
// returns the full response body. Transport failures and non-2xx statuses
// are returned as *FetchError.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.resolve(path, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	defer func() {
		apiRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	c.logger.Debug().
		Str("url", target).
		Msg("Executing API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(target, 0, err, "network_error")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, c.fail(target, resp.StatusCode, nil, strconv.Itoa(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(target, resp.StatusCode, fmt.Errorf("read body: %w", err), "read_error")
	}

	apiRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.Debug().
		Str("url", target).
		Int("status_code", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(startTime)).
		Msg("API request complete")

	return body, nil
}

// fail records metrics for a failed request and builds its FetchError.
func (c *Client) fail(target string, status int, err error, statusLabel string) error {
	class := classify(status, err)
	apiErrorsTotal.WithLabelValues(string(class)).Inc()
	apiRequestsTotal.WithLabelValues(statusLabel).Inc()

	c.logger.Warn().
		Err(err).
		Str("url", target).
		Int("status_code", status).
		Str("error_class", string(class)).
		Msg("API request failed")

	return &FetchError{
		URL:        target,
		StatusCode: status,
		Class:      class,
		Err:        err,
	}
}

// resolve joins the base URL, path and encoded query.
func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = query.Encode()
	return u.String()
}

// classify categorizes a failure for observability and error reporting.
func classify(status int, err error) ErrorClass {
	switch {
	case err != nil, status == 0:
		return ErrorClassNetwork
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassUnexpected
	}
}
