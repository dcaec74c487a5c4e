// Package client talks to the remote inventory/loan API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/metrics"
)

const (
	inventoryPath = "/api/inventario"
	loansPath     = "/api/prestamos"

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

// ErrInvalidInventory is returned when the inventory body is not a JSON array.
var ErrInvalidInventory = errors.New("inventory response is not a list")

// LoanAPI is the remote contract: list the lendable equipment and create one loan request.
type LoanAPI interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateLoan(ctx context.Context, req model.LoanRequest) error
}

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsClientError reports whether the API rejected the request itself (4xx),
// as opposed to being unavailable.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// StatusCode extracts the HTTP status from err, or 0 when there was no response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Options configures an HTTPClient.
type Options struct {
	BaseURL string
	// PublicInventory requests the public view of the inventory (?public=true).
	PublicInventory bool
	// Timeout bounds each call. Zero leaves calls unbounded.
	Timeout time.Duration
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// HTTPClient implements LoanAPI over JSON/HTTP.
type HTTPClient struct {
	baseURL         string
	publicInventory bool
	http            *http.Client
}

// NewHTTPClient creates a new upstream client.
func NewHTTPClient(opts Options) *HTTPClient {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &HTTPClient{
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		publicInventory: opts.PublicInventory,
		http:            hc,
	}
}

type inventoryItem struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre_equipo"`
}

type errorBody struct {
	Err string `json:"err"`
}

// ListProducts fetches the inventory in the order the API returns it.
func (c *HTTPClient) ListProducts(ctx context.Context) ([]model.Product, error) {
	url := c.baseURL + inventoryPath
	if c.publicInventory {
		url += "?public=true"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, "list_products")
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidInventory
	}

	var items []inventoryItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}

	products := make([]model.Product, len(items))
	for i, it := range items {
		products[i] = model.Product{ID: it.ID, Name: it.Name}
	}
	return products, nil
}

// CreateLoan posts one loan request. The response body of a 2xx is ignored.
func (c *HTTPClient) CreateLoan(ctx context.Context, loan model.LoanRequest) error {
	payload, err := json.Marshal(loan)
	if err != nil {
		return fmt.Errorf("failed to encode loan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loansPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create loan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	_, err = c.do(req, "create_loan")
	return err
}

func (c *HTTPClient) do(req *http.Request, operation string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(operation, 0, time.Since(start))
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordUpstreamRequest(operation, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, newAPIError(resp.StatusCode, data)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", operation, err)
	}
	return data, nil
}

func newAPIError(status int, body []byte) *APIError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && strings.TrimSpace(eb.Err) != "" {
		return &APIError{StatusCode: status, Message: eb.Err}
	}
	return &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("upstream returned %d %s", status, http.StatusText(status)),
	}
}
