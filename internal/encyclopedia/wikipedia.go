// Package encyclopedia fetches short article summaries for the mind's topics.
package encyclopedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/keshon/v0id/internal/logging"
	"github.com/keshon/v0id/pkg/retrylimit"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://en.wikipedia.org/api/rest_v1"
	userAgent      = "v0id/1.0 (introspective loop; summary lookups)"
	maxBody        = 1 << 20
)

type statusError struct {
	code int
}

func (e *statusError) Error() string   { return fmt.Sprintf("wikipedia: http %d", e.code) }
func (e *statusError) StatusCode() int { return e.code }

type summary struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// Client looks up page summaries. Lookups are best effort: every failure
// reads as "nothing found".
type Client struct {
	baseURL string
	http    *http.Client
	limiter *retrylimit.AdaptiveLimiter
	retry   retrylimit.Config
	log     zerolog.Logger
}

// New returns a client for the REST API at baseURL (DefaultBaseURL when empty).
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	l := logging.Component("encyclopedia")
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: retrylimit.NewAdaptiveLimiter(rate.Limit(1), rate.Limit(0.1), rate.Limit(2), rate.Limit(0.1), 0.5),
		retry: retrylimit.Config{
			MaxAttempts:  2,
			InitialDelay: 300 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Logger:       &l,
		},
		log: l,
	}
}

// Summary returns the lead extract for title.
func (c *Client) Summary(ctx context.Context, title string) (string, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", false
	}

	var out summary
	err := retrylimit.Do(ctx, c.retry, c.limiter, func(ctx context.Context) error {
		var err error
		out, err = c.fetch(ctx, title)
		return err
	})
	if err != nil {
		c.log.Debug().Err(err).Str("title", title).Msg("summary lookup failed")
		return "", false
	}

	extract := strings.TrimSpace(out.Extract)
	if extract == "" || out.Type == "disambiguation" {
		return "", false
	}
	c.log.Debug().Str("title", title).Int("len", len(extract)).Msg("summary found")
	return extract, true
}

func (c *Client) fetch(ctx context.Context, title string) (summary, error) {
	endpoint := c.baseURL + "/page/summary/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return summary{}, &retrylimit.FatalError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return summary{}, fmt.Errorf("wikipedia: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return summary{}, &statusError{code: resp.StatusCode}
	default:
		// 404 and other client errors will not improve on retry
		return summary{}, &retrylimit.FatalError{Err: &statusError{code: resp.StatusCode}}
	}

	var s summary
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&s); err != nil {
		return summary{}, &retrylimit.FatalError{Err: fmt.Errorf("wikipedia: decode summary: %w", err)}
	}
	return s, nil
}
