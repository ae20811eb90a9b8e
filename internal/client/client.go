// Package client provides a Go client for the hnbot API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alphabot-ai/hnbot/internal/model"
	"github.com/alphabot-ai/hnbot/internal/tools"
)

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// Client is an hnbot API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a new hnbot client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) get(path string, query url.Values, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	resp, err := c.HTTPClient.Get(u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, apiError(body))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed (%d): %s", resp.StatusCode, apiError(body))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func apiError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return string(body)
}

// GetItem fetches one item by id.
func (c *Client) GetItem(id int) (*model.Item, error) {
	var item model.Item
	if err := c.get("/api/item/"+strconv.Itoa(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetUser fetches a user profile.
func (c *Client) GetUser(username string) (*model.User, error) {
	var user model.User
	if err := c.get("/api/user/"+url.PathEscape(username), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetMaxItemID fetches the current largest item id.
func (c *Client) GetMaxItemID() (int, error) {
	var result struct {
		MaxItemID int `json:"max_item_id"`
	}
	if err := c.get("/api/maxitem", nil, &result); err != nil {
		return 0, err
	}
	return result.MaxItemID, nil
}

// GetUpdates fetches recently changed items and profiles.
func (c *Client) GetUpdates() (*model.Updates, error) {
	var upd model.Updates
	if err := c.get("/api/updates", nil, &upd); err != nil {
		return nil, err
	}
	return &upd, nil
}

// GetStories fetches a story list. limit 0 uses the server default.
func (c *Client) GetStories(kind string, limit int) ([]model.Item, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var result struct {
		Stories []model.Item `json:"stories"`
	}
	if err := c.get("/api/stories/"+url.PathEscape(kind), q, &result); err != nil {
		return nil, err
	}
	return result.Stories, nil
}

// SearchStories scores recent stories against a title query.
func (c *Client) SearchStories(query string, limit int) ([]model.ScoredStory, error) {
	q := url.Values{"query": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var result struct {
		Matches []model.ScoredStory `json:"matches"`
	}
	if err := c.get("/api/stories/search", q, &result); err != nil {
		return nil, err
	}
	return result.Matches, nil
}

// GetStoriesByDate fetches stories posted within a UTC day bucket.
func (c *Client) GetStoriesByDate(daysAgo, limit int) ([]model.Item, error) {
	q := url.Values{"days_ago": {strconv.Itoa(daysAgo)}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var result struct {
		Stories []model.Item `json:"stories"`
	}
	if err := c.get("/api/stories/by-date", q, &result); err != nil {
		return nil, err
	}
	return result.Stories, nil
}

// GetStoryThread fetches a story with its comment tree.
func (c *Client) GetStoryThread(id, commentLimit, maxDepth int) (*model.StoryThread, error) {
	q := url.Values{}
	if commentLimit > 0 {
		q.Set("comment_limit", strconv.Itoa(commentLimit))
	}
	if maxDepth > 0 {
		q.Set("max_depth", strconv.Itoa(maxDepth))
	}
	var thread model.StoryThread
	if err := c.get("/api/story/"+strconv.Itoa(id)+"/comments", q, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// GetStoryByTitle fetches the best-matching story with its comments.
func (c *Client) GetStoryByTitle(title string) (*model.StoryThread, error) {
	var thread model.StoryThread
	if err := c.get("/api/story/by-title", url.Values{"title": {title}}, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// GetStoryContent fetches a story's linked page as readable content.
func (c *Client) GetStoryContent(id int, format string) (*model.ContentResult, error) {
	q := url.Values{}
	if format != "" {
		q.Set("format", format)
	}
	var result model.ContentResult
	if err := c.get("/api/story/"+strconv.Itoa(id)+"/content", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTools fetches the tool descriptions.
func (c *Client) ListTools() ([]tools.Info, error) {
	var result struct {
		Tools []tools.Info `json:"tools"`
	}
	if err := c.get("/api/tools", nil, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// InvokeTool invokes a tool by name and returns the raw result.
func (c *Client) InvokeTool(name string, args map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Post(c.BaseURL+"/api/tools/"+url.PathEscape(name),
		"application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var result struct {
		Result json.RawMessage `json:"result"`
	}
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result.Result, nil
}

// ListPrompts fetches the prompt template descriptions.
func (c *Client) ListPrompts() ([]tools.PromptInfo, error) {
	var result struct {
		Prompts []tools.PromptInfo `json:"prompts"`
	}
	if err := c.get("/api/prompts", nil, &result); err != nil {
		return nil, err
	}
	return result.Prompts, nil
}

// RenderPrompt fills a prompt template by name.
func (c *Client) RenderPrompt(name string, params map[string]any) (string, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTPClient.Post(c.BaseURL+"/api/prompts/"+url.PathEscape(name),
		"application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var result struct {
		Prompt string `json:"prompt"`
	}
	if err := decodeResponse(resp, &result); err != nil {
		return "", err
	}
	return result.Prompt, nil
}

// ListResources fetches the hn:// resource templates.
func (c *Client) ListResources() ([]tools.ResourceInfo, error) {
	var result struct {
		Resources []tools.ResourceInfo `json:"resources"`
	}
	if err := c.get("/api/resources", nil, &result); err != nil {
		return nil, err
	}
	return result.Resources, nil
}

// ReadResource resolves an hn:// URI and returns the raw result.
func (c *Client) ReadResource(uri string) (json.RawMessage, error) {
	var result struct {
		Result json.RawMessage `json:"result"`
	}
	if err := c.get("/api/resources/read", url.Values{"uri": {uri}}, &result); err != nil {
		return nil, err
	}
	return result.Result, nil
}

// Health reports whether the server answers its liveness probe.
func (c *Client) Health() error {
	var result struct {
		Status string `json:"status"`
	}
	if err := c.get("/health", nil, &result); err != nil {
		return err
	}
	if result.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", result.Status)
	}
	return nil
}

// Version fetches the server build identity.
func (c *Client) Version() (map[string]any, error) {
	var result map[string]any
	if err := c.get("/api/version", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
