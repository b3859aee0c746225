// Package postgrest implements the api ports against a PostgREST style data API.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vibes/internal/api"
	"vibes/internal/log"
	"vibes/internal/query"
)

const (
	DefaultTimeout = 7 * time.Second
	maxBodyBytes   = 4 << 20
	maxErrorBody   = 512
)

// Tables and views of the data API.
const (
	PathCategories           = "/categories"
	PathExpenses             = "/expenses"
	PathDashboardData        = "/dashboard_data"
	PathMonthlyTrend         = "/monthly_expenses_trend"
	PathCategoryDistribution = "/category_distribution"
	PathCategoryComparison   = "/category_comparison"
	PathExpenseSummary       = "/expense_summary"
)

// Client is the single place that knows the data API address.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l.WithComponent(log.ComponentDataAPI) }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// get fetches path?req into out.
func (c *Client) get(ctx context.Context, path string, req query.Request, out any) error {
	return c.do(ctx, http.MethodGet, path, req.Encode(), nil, out)
}

func (c *Client) do(ctx context.Context, method, path, rawQuery string, body, out any) error {
	endpoint := c.baseURL + path
	if rawQuery != "" {
		endpoint += "?" + rawQuery
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Data API request failed",
			log.FieldMethod, method, log.FieldPath, path, log.FieldError, err.Error())
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	c.logger.DebugContext(ctx, "Data API request",
		log.FieldMethod, method,
		log.FieldPath, path,
		log.FieldQuery, rawQuery,
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return &api.StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: msg}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", api.ErrInvalidRecord, method, path, err)
	}
	return nil
}

// Ping checks that the categories table answers.
func (c *Client) Ping(ctx context.Context) error {
	var probe []json.RawMessage
	return c.get(ctx, PathCategories, query.Request{Limit: 1}, &probe)
}
