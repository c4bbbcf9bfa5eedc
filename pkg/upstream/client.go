// Package upstream is the HTTP client for the grocery platform API: vendors,
// the authoritative cart, pack quotes, and order intake.
package upstream

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
	"github.com/sethvargo/go-retry"

	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/metrics"
)

const (
	defaultTimeout          = 10 * time.Second
	defaultRetryCount       = 2
	defaultRetryDelay       = 500 * time.Millisecond
	errorBodyReadLimit int64 = 2048
)

var errBaseURLRequired = errors.New("upstream base url is required")

// Client talks to the grocery platform API. Mutating operations are never
// retried; bounded retries apply only to the read paths that opt in.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retryCount int
	retryDelay time.Duration
	metrics    *metrics.UpstreamMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRetryPolicy sets the bounded retry applied to retryable reads.
func WithRetryPolicy(count int, delay time.Duration) Option {
	return func(c *Client) {
		if count >= 0 {
			c.retryCount = count
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// WithMetrics attaches a request metrics recorder.
func WithMetrics(m *metrics.UpstreamMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the platform client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryCount: defaultRetryCount,
		retryDelay: defaultRetryDelay,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return client, nil
}

// Login exchanges credentials for a platform session.
func (c *Client) Login(ctx context.Context, creds Credentials) (Session, error) {
	var session Session
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return session, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", creds, &session)
	return session, err
}

// Logout revokes the platform session token.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, "logout", http.MethodPost, "/auth/logout", token, nil, nil)
}

// ListVendors fetches vendors with their catalogs for the query region.
func (c *Client) ListVendors(ctx context.Context, token string, q VendorQuery) ([]Vendor, error) {
	params := url.Values{}
	if q.Latitude != nil && q.Longitude != nil {
		params.Set("lat", strconv.FormatFloat(*q.Latitude, 'f', -1, 64))
		params.Set("lng", strconv.FormatFloat(*q.Longitude, 'f', -1, 64))
	}
	if q.RadiusKM > 0 {
		params.Set("radius_km", strconv.FormatFloat(q.RadiusKM, 'f', -1, 64))
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	if q.SortHint != "" {
		params.Set("sort", q.SortHint)
	}

	path := "/vendors"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var payload struct {
		Vendors []Vendor `json:"vendors"`
	}
	if err := c.do(ctx, "list_vendors", http.MethodGet, path, token, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Vendors, nil
}

// FetchCart returns the platform-held cart lines for the session user.
func (c *Client) FetchCart(ctx context.Context, token string) ([]CartLine, error) {
	var payload struct {
		Lines []CartLine `json:"lines"`
	}
	if err := c.do(ctx, "fetch_cart", http.MethodGet, "/cart", token, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Lines, nil
}

// AddCartItem appends a line to the platform cart. Never retried.
func (c *Client) AddCartItem(ctx context.Context, token string, item CartItemInput) error {
	if item.ItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}
	return c.do(ctx, "add_cart_item", http.MethodPost, "/cart/items", token, item, nil)
}

// UpdateCartItem sets the quantity of a platform cart line. Never retried.
func (c *Client) UpdateCartItem(ctx context.Context, token string, itemID uuid.UUID, quantity int) error {
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}
	return c.do(ctx, "update_cart_item", http.MethodPatch, "/cart/items/"+itemID.String(), token, body, nil)
}

// RemoveCartItem deletes a platform cart line. Never retried.
func (c *Client) RemoveCartItem(ctx context.Context, token string, itemID uuid.UUID) error {
	return c.do(ctx, "remove_cart_item", http.MethodDelete, "/cart/items/"+itemID.String(), token, nil, nil)
}

// ClearCart empties the platform cart. Never retried.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, "clear_cart", http.MethodDelete, "/cart", token, nil, nil)
}

// SubmitOrder places an order. Submission is never retried: a timeout here is
// surfaced to the caller rather than risking a duplicate order.
func (c *Client) SubmitOrder(ctx context.Context, token string, submission OrderSubmission) (OrderReceipt, error) {
	var receipt OrderReceipt
	err := c.do(ctx, "submit_order", http.MethodPost, "/orders", token, submission, &receipt)
	return receipt, err
}

// OrderDetail fetches one order, retrying transient failures with a fixed
// delay up to the configured count. Reads are safe to repeat.
func (c *Client) OrderDetail(ctx context.Context, token string, orderID uuid.UUID) (OrderRecord, error) {
	var record OrderRecord
	backoff := retry.WithMaxRetries(uint64(c.retryCount), retry.NewConstant(c.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.do(ctx, "order_detail", http.MethodGet, "/orders/"+orderID.String(), token, nil, &record)
		if err != nil && pkgerrors.IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	return record, err
}

// ListOrders returns the session user's order history.
func (c *Client) ListOrders(ctx context.Context, token string) ([]OrderRecord, error) {
	var payload struct {
		Orders []OrderRecord `json:"orders"`
	}
	if err := c.do(ctx, "list_orders", http.MethodGet, "/orders", token, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}

// QueryPacks asks the platform for per-vendor quotes on a named item list.
func (c *Client) QueryPacks(ctx context.Context, token string, q PackQuery) ([]PackOffer, error) {
	if len(q.ItemNames) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pack item names are required")
	}
	var payload struct {
		Offers []PackOffer `json:"offers"`
	}
	if err := c.do(ctx, "query_packs", http.MethodPost, "/packs/quote", token, q, &payload); err != nil {
		return nil, err
	}
	return payload.Offers, nil
}

func (c *Client) do(ctx context.Context, operation, method, path, token string, body, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "upstream client not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+operation+" request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build "+operation+" request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Observe(operation, 0, time.Since(start))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+operation+" request")
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.Observe(operation, resp.StatusCode, time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.statusError(operation, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+operation+" response")
	}
	return nil
}

// statusError translates an upstream failure status into the error taxonomy.
// 401 maps to unauthorized so callers tear the local session down.
func (c *Client) statusError(operation string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	cause := &pkgerrors.StatusError{
		Status: resp.StatusCode,
		Err:    fmt.Errorf("%s", strings.TrimSpace(string(msg))),
	}

	code := pkgerrors.CodeDependency
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		code = pkgerrors.CodeUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		code = pkgerrors.CodeForbidden
	case resp.StatusCode == http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	case resp.StatusCode == http.StatusConflict:
		code = pkgerrors.CodeConflict
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		code = pkgerrors.CodeValidation
	}

	return pkgerrors.Wrap(code, cause, operation+" request failed")
}
