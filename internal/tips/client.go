// Package tips fetches the short list of budgeting tips shown next to the
// expense list and keeps the last result around for the HTTP layer.
package tips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go"

	applog "spendlog/internal/log"
)

// Tip is one entry of the remote tips feed.
type Tip struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ErrInvalidResponse is returned when the body is not a JSON list of tips.
var ErrInvalidResponse = errors.New("tips: invalid response")

// StatusError reports a non-2xx answer from the tips endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tips: unexpected status %d", e.Code)
}

// Client performs GET requests against the tips endpoint.
type Client struct {
	url      string
	http     *http.Client
	attempts uint
	delay    time.Duration
	logger   *applog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithAttempts sets the total number of tries, first one included.
func WithAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = uint(n)
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

func WithLogger(l *applog.Logger) Option {
	return func(c *Client) { c.logger = l.WithComponent(applog.ComponentTips) }
}

func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:      url,
		http:     &http.Client{Timeout: 10 * time.Second},
		attempts: 3,
		delay:    500 * time.Millisecond,
		logger:   applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentTips),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads the tips list. Transport failures and 5xx answers are
// retried; 4xx answers and undecodable bodies fail immediately.
func (c *Client) Fetch(ctx context.Context) ([]Tip, error) {
	var result []Tip

	err := retry.Do(
		func() error {
			tips, err := c.fetchOnce(ctx)
			if err != nil {
				return err
			}
			result = tips
			return nil
		},
		retry.Context(ctx),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("Tips fetch failed, retrying",
				applog.FieldAttempt, n+1,
				applog.FieldURL, c.url,
				applog.FieldError, err)
		}),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Tips fetched", "count", len(result))
	return result, nil
}

func (c *Client) fetchOnce(ctx context.Context) ([]Tip, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build tips request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tips: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var tips []Tip
	if err := json.NewDecoder(resp.Body).Decode(&tips); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if tips == nil {
		tips = []Tip{}
	}
	return tips, nil
}

func retryable(err error) bool {
	if errors.Is(err, ErrInvalidResponse) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	return true
}
