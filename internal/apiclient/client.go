// Package apiclient is a typed client for the /api/shows endpoints.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/tv-show-library/internal/model"
)

// APIError is a non-2xx answer.  Message is the server's "error" field
// verbatim, or the status text when the body had none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

// ShowInput is the body of create and update calls.
type ShowInput struct {
	Title         string `json:"title"`
	CoverImageURL string `json:"cover_image_url"`
	Genre         string `json:"genre"`
	IsEnded       bool   `json:"is_ended"`
}

// Filter narrows List.  Zero values mean no filtering.
type Filter struct {
	Title  string
	Status string // model.StatusEnded or model.StatusInProgress
}

// Unfiltered reports whether f would return the full list.
func (f Filter) Unfiltered() bool {
	return strings.TrimSpace(f.Title) == "" && f.Status == ""
}

// Client talks to one API server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for baseURL (for example http://localhost:5000).
// token is sent as a bearer token when non-empty.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// List returns the shows matching f, newest first.
func (c *Client) List(ctx context.Context, f Filter) ([]model.Show, error) {
	q := url.Values{}
	if t := strings.TrimSpace(f.Title); t != "" {
		q.Set("title", t)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	path := "/api/shows"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []model.Show
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Show{}
	}
	return out, nil
}

// Get fetches one show.
func (c *Client) Get(ctx context.Context, id int64) (model.Show, error) {
	var s model.Show
	err := c.do(ctx, http.MethodGet, showPath(id), nil, &s)
	return s, err
}

// Create stores a new show and returns its id.
func (c *Client) Create(ctx context.Context, in ShowInput) (int64, error) {
	var out struct {
		ID      int64  `json:"id"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/shows", in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// Update replaces the show with id.
func (c *Client) Update(ctx context.Context, id int64, in ShowInput) error {
	return c.do(ctx, http.MethodPut, showPath(id), in, nil)
}

// Delete removes the show with id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, showPath(id), nil, nil)
}

func showPath(id int64) string {
	return "/api/shows/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &body)
	msg := body.Error
	if msg == "" || (resp.StatusCode == http.StatusTooManyRequests && body.Message != "") {
		msg = body.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
