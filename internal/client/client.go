// Package client is a typed HTTP client for the order API, used by the
// polling surfaces, the seeder and the dining cart.
package client

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

	"github.com/google/uuid"
	"github.com/subo-hems/api/internal/domain"
	"github.com/subo-hems/api/internal/menu"
)

// ErrUnauthorized is returned for 401 and 403 answers.
var ErrUnauthorized = errors.New("unauthorized")

// Option configures a Client.
type Option func(*Client)

// WithHTTPTimeout bounds every request. A poll that exceeds it fails and is
// retried on the next tick.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// Client talks to one API base URL. Safe for concurrent use once built.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for baseURL, e.g. "http://localhost:8081".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ItemRequest references a menu item on the wire.
type ItemRequest struct {
	MenuID   int    `json:"id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Type        string        `json:"type,omitempty"`
	TableNumber int           `json:"tableNumber,omitempty"`
	Items       []ItemRequest `json:"items"`
}

// User is the identity returned by login.
type User struct {
	Username string   `json:"username"`
	Role     string   `json:"role"`
	Surfaces []string `json:"surfaces"`
}

// LoginResult carries the token and the logged-in user.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ListOrders fetches the orders, optionally filtered by status.
func (c *Client) ListOrders(ctx context.Context, status string) ([]domain.Order, error) {
	path := "/orders"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	var o domain.Order
	err := c.do(ctx, http.MethodGet, orderPath(id), nil, &o)
	return o, err
}

// CreateOrder places a new order.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	var o domain.Order
	err := c.do(ctx, http.MethodPost, "/orders", req, &o)
	return o, err
}

// SetStatus sends a status command.
func (c *Client) SetStatus(ctx context.Context, id int64, status string) (domain.Order, error) {
	var o domain.Order
	err := c.do(ctx, http.MethodPut, orderPath(id), map[string]string{"status": status}, &o)
	return o, err
}

// AppendItems adds items to an existing order.
func (c *Client) AppendItems(ctx context.Context, id int64, items []ItemRequest) (domain.Order, error) {
	var o domain.Order
	err := c.do(ctx, http.MethodPost, orderPath(id)+"/items", map[string]any{"items": items}, &o)
	return o, err
}

// SetItemPrepared sets the prepared flag of the item at index.
func (c *Client) SetItemPrepared(ctx context.Context, id int64, index int, prepared bool) (domain.Order, error) {
	var o domain.Order
	path := orderPath(id) + "/items/" + strconv.Itoa(index)
	err := c.do(ctx, http.MethodPatch, path, map[string]bool{"prepared": prepared}, &o)
	return o, err
}

// DeleteOrder removes an order and returns it.
func (c *Client) DeleteOrder(ctx context.Context, id int64) (domain.Order, error) {
	var o domain.Order
	err := c.do(ctx, http.MethodDelete, orderPath(id), nil, &o)
	return o, err
}

// Menu fetches the catalog grouped by category.
func (c *Client) Menu(ctx context.Context) (map[string][]menu.Item, error) {
	var m map[string][]menu.Item
	if err := c.do(ctx, http.MethodGet, "/menu", nil, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Login exchanges credentials for a token. It does not store the token;
// build a new client WithToken to use it.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var res LoginResult
	body := map[string]string{"username": username, "password": password}
	err := c.do(ctx, http.MethodPost, "/auth/login", body, &res)
	return res, err
}

func orderPath(id int64) string {
	return "/orders/" + strconv.FormatInt(id, 10)
}

// do sends one request and decodes a JSON answer into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrTransientIO, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %v", domain.ErrTransientIO, method, path, err)
	}
	return nil
}

// statusError maps an error status to a domain sentinel, keeping the
// server's message.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}

	var kind error
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		kind = domain.ErrValidation
	case resp.StatusCode == http.StatusNotFound:
		kind = domain.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		kind = domain.ErrNotReady
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		kind = ErrUnauthorized
	default:
		kind = domain.ErrTransientIO
	}
	return fmt.Errorf("%w: status %d: %s", kind, resp.StatusCode, msg)
}
