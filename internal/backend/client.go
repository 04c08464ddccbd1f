package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vijay-prabhu/gcgcards/internal/filter"
)

// Backend actions
const (
	ActionQuery                 = "query"
	ActionSetWeightedAdjustment = "setWeightedAdjustment"
)

// Client is an HTTP client for the spreadsheet-backed card API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the overall request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a backend client. An empty baseURL yields a client whose
// operations all fail with ErrNotConfigured.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSpace(baseURL),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a backend endpoint is set
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// BaseURL returns the configured endpoint
func (c *Client) BaseURL() string {
	return c.baseURL
}

// QueryURL builds the query request URL. It always carries action=query and
// a limit; when useCriteria is set every non-empty criterion is added verbatim.
func (c *Client) QueryURL(criteria filter.Criteria, useCriteria bool) (string, error) {
	params := map[string]string{}
	if useCriteria {
		params = criteria.Params()
	}
	params["action"] = ActionQuery
	params[filter.ParamLimit] = criteria.LimitOrDefault()
	return c.buildURL(params)
}

// AdjustmentURL builds the write request URL for one card
func (c *Client) AdjustmentURL(cardNo, adjustment string) (string, error) {
	return c.buildURL(map[string]string{
		"action":     ActionSetWeightedAdjustment,
		"cardNo":     cardNo,
		"adjustment": adjustment,
	})
}

func (c *Client) buildURL(params map[string]string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid backend url %q: %w", c.baseURL, err)
	}

	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Query fetches cards matching criteria. The returned error is non-nil only
// when no request could be made or completed (ErrNotConfigured or a
// *TransportError); backend-reported and malformed responses come back as a
// Failure result.
func (c *Client) Query(ctx context.Context, criteria filter.Criteria) (Result, error) {
	u, err := c.QueryURL(criteria, true)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, ActionQuery, u)
}

// SetWeightedAdjustment stores a manual score correction for cardNo. The
// adjustment is sent as the raw string; the backend validates it.
func (c *Client) SetWeightedAdjustment(ctx context.Context, cardNo, adjustment string) (Result, error) {
	u, err := c.AdjustmentURL(cardNo, adjustment)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, ActionSetWeightedAdjustment, u)
}

func (c *Client) get(ctx context.Context, action, u string) (Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Action: action, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Action: action, Err: err}
	}
	req.Header.Set("Cache-Control", "no-store")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("action", action),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, &TransportError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Action: action, Err: fmt.Errorf("read response: %w", err)}
	}

	// The status code is informational only; the body decides the outcome.
	result := Decode(body)
	fields := []zap.Field{
		zap.String("action", action),
		zap.Int("http_status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	}
	switch r := result.(type) {
	case Success:
		c.logger.Debug("backend response", append(fields, zap.Int("cards", len(r.Cards)))...)
	case Failure:
		c.logger.Debug("backend failure", append(fields,
			zap.String("status", r.Status),
			zap.String("message", r.Message),
			zap.Bool("malformed", r.Malformed))...)
	}

	return result, nil
}
