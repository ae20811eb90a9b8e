// Package hn is a read-only client for the Hacker News firebase API.
package hn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/alphabot-ai/hnbot/internal/metrics"
	"github.com/alphabot-ai/hnbot/internal/model"
)

// DefaultBaseURL is the public firebase endpoint.
const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

// ListKind names one of the upstream story listings.
type ListKind string

const (
	ListTop  ListKind = "top"
	ListNew  ListKind = "new"
	ListBest ListKind = "best"
	ListAsk  ListKind = "ask"
	ListShow ListKind = "show"
	ListJob  ListKind = "job"
)

// listEndpoints maps a kind to its endpoint and the upstream's own
// length cap (500 for the story lists, 200 for ask/show/job).
var listEndpoints = map[ListKind]struct {
	path string
	cap  int
}{
	ListTop:  {"topstories", 500},
	ListNew:  {"newstories", 500},
	ListBest: {"beststories", 500},
	ListAsk:  {"askstories", 200},
	ListShow: {"showstories", 200},
	ListJob:  {"jobstories", 200},
}

// ParseListKind validates a list kind string.
func ParseListKind(s string) (ListKind, bool) {
	k := ListKind(s)
	_, ok := listEndpoints[k]
	return k, ok
}

// Cap returns the upstream length cap for the kind, or 0 for an
// unknown kind.
func (k ListKind) Cap() int { return listEndpoints[k].cap }

// ListKinds returns all valid kinds in a stable order.
func ListKinds() []ListKind {
	return []ListKind{ListTop, ListNew, ListBest, ListAsk, ListShow, ListJob}
}

// Fetcher is the upstream read surface. The HTTP client implements it;
// tests substitute a fixture-backed fake.
type Fetcher interface {
	Item(ctx context.Context, id int) (model.Item, error)
	User(ctx context.Context, username string) (model.User, error)
	List(ctx context.Context, kind ListKind) ([]int, error)
	MaxItem(ctx context.Context) (int, error)
	Updates(ctx context.Context) (model.Updates, error)
}

// Client talks to the Hacker News API over HTTP. No retries, no cache;
// each call is one outbound GET.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	// APIKey, when set, is passed through as a header. The upstream
	// requires no key today.
	APIKey string
}

// New creates a client against baseURL (DefaultBaseURL when empty).
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// get fetches one endpoint, decodes the body into dest, and counts
// the fetch per op and outcome. A literal null body maps to
// ErrNotFound.
func (c *Client) get(ctx context.Context, op, path string, dest any) error {
	err := c.fetch(ctx, op, path, dest)
	metrics.UpstreamFetchesTotal.WithLabelValues(op, fetchOutcome(err)).Inc()
	return err
}

func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (c *Client) fetch(ctx context.Context, op, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/"+path, nil)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("X-Api-Key", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &UpstreamError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	if isNull(body) {
		return ErrNotFound
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("malformed body: %w", err)}
	}
	return nil
}

func isNull(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Item fetches one item by id.
func (c *Client) Item(ctx context.Context, id int) (model.Item, error) {
	var item model.Item
	if err := c.get(ctx, "item", fmt.Sprintf("item/%d.json", id), &item); err != nil {
		return model.Item{}, err
	}
	return item, nil
}

// User fetches one user profile by username.
func (c *Client) User(ctx context.Context, username string) (model.User, error) {
	var user model.User
	if err := c.get(ctx, "user", fmt.Sprintf("user/%s.json", url.PathEscape(username)), &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// List fetches the ordered id list for a kind.
func (c *Client) List(ctx context.Context, kind ListKind) ([]int, error) {
	ep, ok := listEndpoints[kind]
	if !ok {
		return nil, fmt.Errorf("unknown list kind %q", kind)
	}
	var ids []int
	if err := c.get(ctx, "list/"+ep.path, ep.path+".json", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// MaxItem returns the current largest item id.
func (c *Client) MaxItem(ctx context.Context) (int, error) {
	var id int
	if err := c.get(ctx, "maxitem", "maxitem.json", &id); err != nil {
		return 0, err
	}
	return id, nil
}

// Updates returns the latest changed items and profiles.
func (c *Client) Updates(ctx context.Context) (model.Updates, error) {
	var up model.Updates
	if err := c.get(ctx, "updates", "updates.json", &up); err != nil {
		return model.Updates{}, err
	}
	return up, nil
}
