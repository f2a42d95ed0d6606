package smartsheet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MicroFocus/ppm-smartsheet-connector/internal/model"
)

// DefaultBaseURL is the Smartsheet v2 API root.
const DefaultBaseURL = "https://api.smartsheet.com/2.0"

// Client makes authenticated calls to the Smartsheet REST API. Column-only
// sheet metadata is cached per sheet id since the mapping UI requests it once
// per field; the cache is cleared whenever the access token changes.
type Client struct {
	BaseURL string
	Client  *http.Client

	mu          sync.Mutex
	token       string
	columnCache map[string]*model.Sheet
}

// NewClient creates a client using the given access token.
func NewClient(token string) *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		Client:      &http.Client{Timeout: 20 * time.Second},
		token:       token,
		columnCache: make(map[string]*model.Sheet),
	}
}

// SetToken switches the active access token. Cached column metadata belongs
// to the previous credential and is dropped.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == c.token {
		return
	}
	c.token = token
	c.columnCache = make(map[string]*model.Sheet)
}

// doRequest does an authenticated request and returns the body bytes. Every
// call carries an X-B3-TraceId header for request tracing.
func (c *Client) doRequest(ctx context.Context, method, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-B3-TraceId", uuid.NewString())

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("smartsheet api error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// FetchHome returns the full container tree: Home-root sheets, folders and
// workspaces with their nested content.
func (c *Client) FetchHome(ctx context.Context) (*model.Home, error) {
	url := c.BaseURL + "/home?include=source"
	b, err := c.doRequest(ctx, "GET", url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch home: %w", err)
	}
	var payload homePayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse home: %w", err)
	}
	home := payload.toModel()
	return &home, nil
}

// FetchSheet returns the whole sheet, rows included. Not cached: it is only
// called once per work-plan sync.
func (c *Client) FetchSheet(ctx context.Context, sheetID string) (*model.Sheet, error) {
	url := c.BaseURL + "/sheets/" + sheetID + "?includeAll=true"
	b, err := c.doRequest(ctx, "GET", url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet %s: %w", sheetID, err)
	}
	var payload sheetPayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse sheet %s: %w", sheetID, err)
	}
	sheet := payload.toModel()
	return &sheet, nil
}

// FetchSheetColumns returns column-only sheet metadata, cached per sheet id.
// rowIds=1 keeps row data out of the response; the /summary API would be
// nicer but is not available on entry-level subscriptions.
func (c *Client) FetchSheetColumns(ctx context.Context, sheetID string) (*model.Sheet, error) {
	c.mu.Lock()
	if cached, ok := c.columnCache[sheetID]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	url := c.BaseURL + "/sheets/" + sheetID + "?rowIds=1"
	b, err := c.doRequest(ctx, "GET", url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet columns %s: %w", sheetID, err)
	}
	var payload sheetPayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse sheet columns %s: %w", sheetID, err)
	}
	sheet := payload.toModel()
	sheet.Rows = nil

	c.mu.Lock()
	c.columnCache[sheetID] = &sheet
	c.mu.Unlock()

	return &sheet, nil
}

// FetchUsers lists the organization's users for resource resolution.
func (c *Client) FetchUsers(ctx context.Context) ([]model.User, error) {
	url := c.BaseURL + "/users?includeAll=true"
	b, err := c.doRequest(ctx, "GET", url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	var payload struct {
		Data []userPayload `json:"data"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse users: %w", err)
	}
	users := make([]model.User, 0, len(payload.Data))
	for _, u := range payload.Data {
		users = append(users, u.toModel())
	}
	return users, nil
}
