// Package hn is a client for the Hacker News Firebase API.
package hn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cristianoliveira/hnreader/internal/story"
	"github.com/cristianoliveira/hnreader/internal/version"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL           = "https://hacker-news.firebaseio.com/v0"
	DefaultTimeout           = 15 * time.Second
	DefaultRequestsPerSecond = 20
)

// maxBodyBytes caps a single response. The top stories array is ~500 ids.
const maxBodyBytes = 4 << 20

var (
	// ErrItemNotFound is returned when the API answers null for an item.
	ErrItemNotFound = errors.New("hn: item not found")
	// ErrUnexpectedStatus wraps non-200 responses.
	ErrUnexpectedStatus = errors.New("hn: unexpected status")
)

// Client fetches top story ids and items.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.http.Timeout = d
	}
}

// WithRequestsPerSecond paces outgoing requests. Zero or negative disables pacing.
func WithRequestsPerSecond(n int) Option {
	return func(cl *Client) {
		if n <= 0 {
			cl.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		cl.limiter = rate.NewLimiter(rate.Limit(n), n)
	}
}

// NewClient creates a client rooted at baseURL. An empty baseURL uses the
// public API.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultRequestsPerSecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTopStoryIDs returns the ranked top story ids. Null entries are dropped.
func (c *Client) FetchTopStoryIDs(ctx context.Context) ([]story.ID, error) {
	var raw []*uint64
	if err := c.getJSON(ctx, c.baseURL+"/topstories.json", &raw); err != nil {
		return nil, fmt.Errorf("fetch top stories: %w", err)
	}
	ids := make([]story.ID, 0, len(raw))
	for _, id := range raw {
		if id == nil {
			continue
		}
		ids = append(ids, *id)
	}
	return ids, nil
}

// FetchItem fetches and decodes one story.
func (c *Client) FetchItem(ctx context.Context, id story.ID) (story.Story, error) {
	var it *item
	url := c.baseURL + "/item/" + strconv.FormatUint(id, 10) + ".json"
	if err := c.getJSON(ctx, url, &it); err != nil {
		return story.Story{}, fmt.Errorf("fetch item %d: %w", id, err)
	}
	if it == nil || it.Deleted {
		return story.Story{}, fmt.Errorf("fetch item %d: %w", id, ErrItemNotFound)
	}
	return it.toStory(), nil
}

func (c *Client) getJSON(ctx context.Context, url string, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
