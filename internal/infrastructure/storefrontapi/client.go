// Package storefrontapi is the shopper-side HTTP client for the customer and
// order endpoints. Any non-2xx answer is a hard failure and POSTs are never retried.
package storefrontapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader carries the per-order id on order creation
	IdempotencyKeyHeader = "Idempotency-Key"

	maxResponseSize = 4 << 20
	defaultTimeout  = 15 * time.Second
)

// ErrBaseURLRequired is returned by New for an empty base URL
var ErrBaseURLRequired = errors.New("storefront api: base URL is required")

// Client talks to the storefront API under {baseURL}/api
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for baseURL, e.g. "http://localhost:8080"
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrBaseURLRequired
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("storefront api: invalid base URL: %w", err)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetProduct fetches one catalog product. An unknown id surfaces as *APIError.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var resp productResponse
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Product == nil {
		return nil, errors.New("storefront api: product response missing product")
	}
	return resp.Product, nil
}

// LookupCustomer returns the userOrderId registered for email, if any
func (c *Client) LookupCustomer(ctx context.Context, email string) (string, bool, error) {
	var resp customerLookupResponse
	q := url.Values{"email": {email}}
	if err := c.do(ctx, http.MethodGet, "/api/customers", q, nil, nil, &resp); err != nil {
		return "", false, err
	}
	if resp.UserOrderID == nil || *resp.UserOrderID == "" {
		return "", false, nil
	}
	return *resp.UserOrderID, true, nil
}

// RegisterCustomer registers email with a freshly minted userOrderId. The returned
// id is canonical: it is the existing one when the email was already registered.
func (c *Client) RegisterCustomer(ctx context.Context, email, userOrderID string) (string, bool, error) {
	var resp registerCustomerResponse
	body := registerCustomerRequest{Email: email, UserOrderID: userOrderID}
	if err := c.do(ctx, http.MethodPost, "/api/customers", nil, body, nil, &resp); err != nil {
		return "", false, err
	}
	if resp.UserOrderID == "" {
		return "", false, errors.New("storefront api: registration returned no userOrderId")
	}
	return resp.UserOrderID, resp.Created, nil
}

// PlaceOrder creates order, sending its id as the idempotency key
func (c *Client) PlaceOrder(ctx context.Context, order Order) (*Order, error) {
	var resp orderResponse
	headers := http.Header{IdempotencyKeyHeader: {order.ID}}
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, order, headers, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, errors.New("storefront api: order response missing order")
	}
	return resp.Order, nil
}

// ListOrders returns the orders owned by userOrderID. A 404 surfaces as *APIError.
func (c *Client) ListOrders(ctx context.Context, userOrderID string) ([]Order, error) {
	var resp ordersResponse
	q := url.Values{"userOrderId": {userOrderID}}
	if err := c.do(ctx, http.MethodGet, "/api/orders", q, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// Login exchanges admin credentials for a session token
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	body := loginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", nil, body, nil, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// UpdateOrderStatus overwrites the status of order id. Requires an admin token.
func (c *Client) UpdateOrderStatus(ctx context.Context, token, id, status string) (*Order, error) {
	var resp orderResponse
	headers := http.Header{"Authorization": {"Bearer " + token}}
	body := updateStatusRequest{ID: id, Status: status}
	if err := c.do(ctx, http.MethodPatch, "/api/orders", nil, body, headers, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, errors.New("storefront api: status response missing order")
	}
	return resp.Order, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, headers http.Header, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("storefront api: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("storefront api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storefront api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("storefront api: read response: %w", err)
	}

	c.logger.Debug("storefront api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("storefront api: decode response: %w", err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	apiErr := &APIError{StatusCode: status}
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
		apiErr.RequestID = body.Error.RequestID
	}
	return apiErr
}

// IsNotFound reports whether err is an API 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}
