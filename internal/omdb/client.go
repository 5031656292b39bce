// Package omdb verifies TV series titles against the OMDb API, the
// library's stand-in for an IMDB lookup.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Client provides access to the OMDb title endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new OMDb client.  Lookups are paced to 5 per second
// with a burst of 10, well under the free tier's daily quota spread.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(5), 10),
		logger:      logger,
	}
}

// titleResponse is the subset of the OMDb answer we look at.
type titleResponse struct {
	Response string `json:"Response"`
	Type     string `json:"Type"`
	Title    string `json:"Title"`
	Error    string `json:"Error"`
}

// LookupSeries asks OMDb whether title names a series.  Any transport,
// status or decoding problem is returned as an error.
func (c *Client) LookupSeries(ctx context.Context, title string) (bool, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)
	params.Set("type", "series")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("lookup failed: status %d", resp.StatusCode)
	}

	var body titleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("omdb lookup", "title", title, "response", body.Response, "type", body.Type)
	return body.Response == "True" && body.Type == "series", nil
}

// VerifySeries is the fail-open check used when saving shows: only a
// definite "not a series" answer rejects the title.  Timeouts and other
// failures are logged and let the title through.
func (c *Client) VerifySeries(ctx context.Context, title string) bool {
	found, err := c.LookupSeries(ctx, title)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, context.Canceled) {
			level = slog.LevelDebug
		}
		c.logger.Log(ctx, level, "title lookup failed, accepting title", "title", title, "error", err)
		return true
	}
	return found
}

// AcceptAll is a verifier that approves every title.  It is used when
// OMDB_ENABLED is false.
type AcceptAll struct{}

// VerifySeries always returns true.
func (AcceptAll) VerifySeries(context.Context, string) bool { return true }
