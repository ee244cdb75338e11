package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/salmonumbrella/notion-tools/internal/blocks"
)

const (
	// DefaultBaseURL is the base URL for the Notion API.
	DefaultBaseURL = "https://api.notion.com"
	// APIVersion is the Notion-Version header sent with every request.
	APIVersion = "2022-06-28"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries bounds retries for rate limit errors.
	DefaultMaxRetries = 3
	// initialBackoff is the first delay used for rate limit retries.
	initialBackoff = time.Second
)

// APIError is a failed Notion API call. Message carries the upstream
// error text; Code and Status carry the machine-readable fields from
// Notion's error body when the response included them.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error (status %d)", e.Status)
}

// IsAuthentication reports whether err is an authentication failure.
func IsAuthentication(err error) bool { return errStatus(err) == http.StatusUnauthorized }

// IsRateLimit reports whether err is a rate limit error.
func IsRateLimit(err error) bool { return errStatus(err) == http.StatusTooManyRequests }

// IsNotFound reports whether err is a missing-object error.
func IsNotFound(err error) bool { return errStatus(err) == http.StatusNotFound }

// IsValidation reports whether err is an invalid-request error.
func IsValidation(err error) bool { return errStatus(err) == http.StatusBadRequest }

func errStatus(err error) int {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client is an HTTP client for the Notion REST API.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	debug      bool
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for the client.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout sets a custom timeout for the HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithMaxRetries sets the retry budget for rate limited requests.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithDebug enables debug logging.
func WithDebug(debug bool) ClientOption {
	return func(c *Client) {
		c.debug = debug
	}
}

// NewClient creates a new Notion API client.
func NewClient(apiToken string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiToken:   apiToken,
		maxRetries: DefaultMaxRetries,
		backoff:    initialBackoff,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetDebug enables or disables debug logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// errorBody is the shape of Notion's error responses.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// call makes a single API call and decodes the response into out.
func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Notion-Version", APIVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := APIError{Status: resp.StatusCode, Message: string(respBody)}
		var parsed errorBody
		if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.Message != "" {
			apiErr.Code = parsed.Code
			apiErr.Message = parsed.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// callWithRetry calls the API with bounded backoff for rate limits.
// Only 429 responses are retried; everything else surfaces immediately.
func (c *Client) callWithRetry(ctx context.Context, method, path string, body, out interface{}) error {
	backoff := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.call(ctx, method, path, body, out)
		if err == nil {
			return nil
		}

		if !IsRateLimit(err) || attempt == c.maxRetries {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return APIError{Status: http.StatusTooManyRequests, Message: "rate limit exceeded after retries"}
}

// Page is the subset of a Notion page object used by this tool.
type Page struct {
	Object     string                 `json:"object"`
	ID         string                 `json:"id"`
	URL        string                 `json:"url,omitempty"`
	Parent     map[string]interface{} `json:"parent,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// BlockList is the response of a block children append.
type BlockList struct {
	Object  string            `json:"object"`
	Results []json.RawMessage `json:"results"`
}

// objectList is the response shape shared by search and database query.
type objectList struct {
	Object  string                   `json:"object"`
	Results []map[string]interface{} `json:"results"`
}

// CreatePage creates a new page under the given parent.
func (c *Client) CreatePage(ctx context.Context, parent, properties map[string]interface{}, children []blocks.Block) (*Page, error) {
	body := map[string]interface{}{
		"parent":     parent,
		"properties": properties,
	}
	if len(children) > 0 {
		body["children"] = children
	}

	var page Page
	if err := c.callWithRetry(ctx, http.MethodPost, "/v1/pages", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePageProperties patches the properties of an existing page.
func (c *Client) UpdatePageProperties(ctx context.Context, pageID string, properties map[string]interface{}) (*Page, error) {
	body := map[string]interface{}{
		"properties": properties,
	}

	var page Page
	if err := c.callWithRetry(ctx, http.MethodPatch, "/v1/pages/"+pageID, body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// RetrievePage fetches a page by ID.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.callWithRetry(ctx, http.MethodGet, "/v1/pages/"+pageID, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AppendBlockChildren appends blocks under a page or block.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, children []blocks.Block, replace bool) (*BlockList, error) {
	body := map[string]interface{}{
		"children": children,
	}
	if replace {
		body["replace"] = true
	}

	var list BlockList
	if err := c.callWithRetry(ctx, http.MethodPatch, "/v1/blocks/"+blockID+"/children", body, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Search runs a workspace-wide full text search.
func (c *Client) Search(ctx context.Context, query string, filter map[string]interface{}) ([]map[string]interface{}, error) {
	body := map[string]interface{}{
		"query": query,
	}
	if filter != nil {
		body["filter"] = filter
	}

	var list objectList
	if err := c.callWithRetry(ctx, http.MethodPost, "/v1/search", body, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// QueryDatabase queries rows of a database.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filter map[string]interface{}) ([]map[string]interface{}, error) {
	body := map[string]interface{}{}
	if filter != nil {
		body["filter"] = filter
	}

	var list objectList
	if err := c.callWithRetry(ctx, http.MethodPost, "/v1/databases/"+databaseID+"/query", body, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)
