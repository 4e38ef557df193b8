// Package api implements the HTTP transport for the backend's private v3
// endpoints. Transport and backend failures are returned unchanged to the
// caller; this layer never retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mesh-intelligence/notional/pkg/types"
)

// queryLimit is the fixed page size of a collection query. Pagination past
// one page is out of scope.
const queryLimit = 100

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Body)
}

// Client talks to the backend API on behalf of one authenticated user.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client authenticating with the given token_v2 value.
// An empty baseURL means types.DefaultBaseURL.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = types.DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// post sends a JSON body to path and decodes the JSON response into out
// when out is non-nil.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Cookie", "token_v2="+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &Error{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}

// queryLoader mirrors the fixed loader block of a collection query.
type queryLoader struct {
	Limit            int    `json:"limit"`
	LoadContentCover bool   `json:"loadContentCover"`
	Type             string `json:"type"`
	UserLocale       string `json:"userLocale"`
	UserTimeZone     string `json:"userTimeZone"`
}

// queryShape is the empty query block the backend requires.
type queryShape struct {
	Aggregate      []any  `json:"aggregate"`
	Filter         []any  `json:"filter"`
	FilterOperator string `json:"filter_operator"`
	Sort           []any  `json:"sort"`
}

type queryCollectionRequest struct {
	CollectionID     string      `json:"collectionId"`
	CollectionViewID string      `json:"collectionViewId"`
	Loader           queryLoader `json:"loader"`
	Query            queryShape  `json:"query"`
}

// QueryCollection fetches one page of the collection's current view.
func (c *Client) QueryCollection(ctx context.Context, keys types.TableKeySet) (*types.CollectionQuery, error) {
	req := queryCollectionRequest{
		CollectionID:     keys.CollectionID,
		CollectionViewID: keys.CollectionViewID,
		Loader: queryLoader{
			Limit:            queryLimit,
			LoadContentCover: false,
			Type:             "table",
			UserLocale:       "en",
			UserTimeZone:     "Europe/London",
		},
		Query: queryShape{
			Aggregate:      []any{},
			Filter:         []any{},
			FilterOperator: "and",
			Sort:           []any{},
		},
	}

	var resp types.CollectionQuery
	if err := c.post(ctx, "/queryCollection", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type submitTransactionRequest struct {
	RequestID    string              `json:"requestId"`
	Transactions []types.Transaction `json:"transactions"`
}

// SubmitTransaction submits one batch of transactions under a fresh
// request id and returns the backend's response verbatim.
func (c *Client) SubmitTransaction(ctx context.Context, requestID string, transactions []types.Transaction) (json.RawMessage, error) {
	req := submitTransactionRequest{RequestID: requestID, Transactions: transactions}

	var resp json.RawMessage
	if err := c.post(ctx, "/submitTransaction", req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// LoadUserContent fetches the caller's workspaces, keyed by space id.
func (c *Client) LoadUserContent(ctx context.Context) (map[string]types.SpaceRecord, error) {
	var resp struct {
		RecordMap types.RecordMap `json:"recordMap"`
	}
	if err := c.post(ctx, "/loadUserContent", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return resp.RecordMap.Space, nil
}

type syncRecordValuesRequest struct {
	RecordVersionMap struct {
		NotionUser map[string]int `json:"notion_user"`
	} `json:"recordVersionMap"`
}

// SyncRecordValues fetches the user records for the given ids, keyed by
// user id.
func (c *Client) SyncRecordValues(ctx context.Context, userIDs []string) (map[string]types.UserRecord, error) {
	var req syncRecordValuesRequest
	req.RecordVersionMap.NotionUser = make(map[string]int, len(userIDs))
	for _, id := range userIDs {
		req.RecordVersionMap.NotionUser[id] = -1
	}

	var resp struct {
		RecordMap types.RecordMap `json:"recordMap"`
	}
	if err := c.post(ctx, "/syncRecordValues", req, &resp); err != nil {
		return nil, err
	}
	return resp.RecordMap.NotionUser, nil
}

type loadPageChunkRequest struct {
	PageID          string `json:"pageId"`
	Limit           int    `json:"limit"`
	ChunkNumber     int    `json:"chunkNumber"`
	VerticalColumns bool   `json:"verticalColumns"`
	Cursor          struct {
		Stack []any `json:"stack"`
	} `json:"cursor"`
}

// LoadPageChunk fetches the record map of a page, used to discover the
// collection views it embeds.
func (c *Client) LoadPageChunk(ctx context.Context, pageID string) (*types.PageChunk, error) {
	req := loadPageChunkRequest{
		PageID:      pageID,
		Limit:       100000,
		ChunkNumber: 0,
	}
	req.Cursor.Stack = []any{}

	var resp types.PageChunk
	if err := c.post(ctx, "/loadPageChunk", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
