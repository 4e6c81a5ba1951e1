package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"book-marketplace/internal/domains/order/model"
	"book-marketplace/internal/shared/middleware"
)

// =====================================================
// BOOK STORE HTTP CLIENT
// =====================================================

const maxErrorBody = 4 << 10

type stockChange struct {
	Quantity int    `json:"quantity"`
	OrderRef string `json:"orderRef,omitempty"`
}

type HTTPBookClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPBookClient resolves the Book Store location once; every call is
// bounded by timeout.
func NewHTTPBookClient(baseURL string, timeout time.Duration) *HTTPBookClient {
	return &HTTPBookClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPBookClient) GetBook(ctx context.Context, bookID int64) (*model.BookSnapshot, error) {
	var book model.BookSnapshot
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d", bookID), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *HTTPBookClient) UpdateQuantity(ctx context.Context, bookID int64, quantity int) error {
	body := stockChange{Quantity: quantity}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/books/%d/quantity", bookID), body, nil)
}

func (c *HTTPBookClient) DecrementStock(ctx context.Context, bookID int64, quantity int) (*model.BookSnapshot, error) {
	var book model.BookSnapshot
	body := stockChange{Quantity: quantity}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/books/%d/decrement", bookID), body, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *HTTPBookClient) RestoreStock(ctx context.Context, bookID int64, quantity int, orderRef string) error {
	body := stockChange{Quantity: quantity, OrderRef: orderRef}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/books/%d/restock", bookID), body, nil)
}

// do sends one JSON request and decodes a 2xx body into out (when non-nil).
// 404 and 409 map to domain errors, anything else to ErrBookStoreUnavailable.
func (c *HTTPBookClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if method == http.MethodGet {
		// stock decisions need the current row, not the Book Store's cache
		req.Header.Set("Cache-Control", "no-cache")
	}
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", model.ErrBookStoreUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.ErrBookNotFound
	case resp.StatusCode == http.StatusConflict:
		return model.ErrInsufficientStock
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s returned %d: %s",
			model.ErrBookStoreUnavailable, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", model.ErrBookStoreUnavailable, method, path, err)
	}
	return nil
}
