package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/motoriq/fieldsync/internal/models"
)

// Rate limits for the data service, requests per minute.
const (
	// DefaultRateLimit keeps a single field device well under the
	// backend's per-key quota.
	DefaultRateLimit = 120

	defaultTimeout = 30 * time.Second
)

// Client implements Service against a table/row REST API. Writes map to
// POST/PATCH/DELETE on /rest/v1/{table}; reads use select with nested
// relations. Requests are rate limited client-side.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	mu      sync.Mutex

	// Stats tracking
	requestCount int
}

// NewClient creates a data service client.
func NewClient(baseURL, apiKey string, rateLimit int) *Client {
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	// rateLimit requests per minute
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rateLimit)), rateLimit)

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: limiter,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// RequestCount returns the number of requests issued so far.
func (c *Client) RequestCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestCount
}

// do waits for the rate limiter, issues the request, and returns the body
// for 2xx responses.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	c.mu.Lock()
	c.requestCount++
	c.mu.Unlock()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, truncate(data, 200))
	}
	return data, nil
}

// Insert implements Service.
func (c *Client) Insert(ctx context.Context, table string, data json.RawMessage) error {
	_, err := c.do(ctx, http.MethodPost, "/rest/v1/"+table, nil, data)
	return err
}

// Update implements Service.
func (c *Client) Update(ctx context.Context, table, id string, data json.RawMessage) error {
	query := url.Values{"id": {"eq." + id}}
	_, err := c.do(ctx, http.MethodPatch, "/rest/v1/"+table, query, data)
	return err
}

// Delete implements Service.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	query := url.Values{"id": {"eq." + id}}
	_, err := c.do(ctx, http.MethodDelete, "/rest/v1/"+table, query, nil)
	return err
}

// FetchWorkOrder implements Service.
func (c *Client) FetchWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error) {
	query := url.Values{
		"id":     {"eq." + id},
		"select": {"*,customer:customers(*),equipment:equipment_units(*,hierarchy:equipment_units(*))"},
	}
	data, err := c.do(ctx, http.MethodGet, "/rest/v1/work_orders", query, nil)
	if err != nil {
		return nil, err
	}

	var orders []models.WorkOrder
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("decode work order: %w", err)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("work order %s not found", id)
	}
	return &orders[0], nil
}

// FetchWorkSessions implements Service.
func (c *Client) FetchWorkSessions(ctx context.Context, workOrderID string) ([]models.WorkSession, error) {
	query := url.Values{
		"work_order_id": {"eq." + workOrderID},
		"select":        {"*"},
	}
	data, err := c.do(ctx, http.MethodGet, "/rest/v1/work_sessions", query, nil)
	if err != nil {
		return nil, err
	}

	var sessions []models.WorkSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("decode work sessions: %w", err)
	}
	return sessions, nil
}

// FetchProceduresByEquipmentType implements Service.
func (c *Client) FetchProceduresByEquipmentType(ctx context.Context, equipmentType string) ([]models.Procedure, error) {
	query := url.Values{
		"equipment_type": {"eq." + equipmentType},
		"select":         {"*,steps:procedure_steps(*)"},
	}
	data, err := c.do(ctx, http.MethodGet, "/rest/v1/procedures", query, nil)
	if err != nil {
		return nil, err
	}

	var procedures []models.Procedure
	if err := json.Unmarshal(data, &procedures); err != nil {
		return nil, fmt.Errorf("decode procedures: %w", err)
	}
	return procedures, nil
}

// truncate shortens response bodies for error messages.
func truncate(data []byte, max int) string {
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
