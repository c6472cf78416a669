// Package client provides an HTTP client for the fintrack record API and a
// client-side cache of one user's records built on it.
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

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx response from the record API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Retryable reports whether repeating the request may succeed.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// RecordDraft is a record to create. Empty UserID and nil Date are filled in by the server.
type RecordDraft struct {
	UserID        string          `json:"userId,omitempty"`
	Date          *time.Time      `json:"date,omitempty"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"paymentMethod"`
}

// RecordPatch lists the fields to change. Nil fields are left as stored.
type RecordPatch struct {
	Date          *time.Time       `json:"date,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Category      *string          `json:"category,omitempty"`
	PaymentMethod *string          `json:"paymentMethod,omitempty"`
}

// RecordClient communicates with the record API.
type RecordClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewRecordClient creates a new record API client. token is sent as a bearer
// token when non-empty.
func NewRecordClient(baseURL, token string, httpClient *http.Client) *RecordClient {
	return &RecordClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// ListAll fetches the administrative listing.
func (c *RecordClient) ListAll(ctx context.Context) ([]models.Record, error) {
	var records []models.Record
	if err := c.do(ctx, http.MethodGet, "/api/financial-records/all", nil, nil, &records); err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// ListByUser fetches every record owned by userID.
func (c *RecordClient) ListByUser(ctx context.Context, userID string) ([]models.Record, error) {
	var records []models.Record
	path := "/api/financial-records/getAllByUserID/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &records); err != nil {
		return nil, fmt.Errorf("listing records for %s: %w", userID, err)
	}
	return records, nil
}

// Get fetches one record.
func (c *RecordClient) Get(ctx context.Context, id string) (*models.Record, error) {
	var record models.Record
	if err := c.do(ctx, http.MethodGet, "/api/financial-records/"+url.PathEscape(id), nil, nil, &record); err != nil {
		return nil, fmt.Errorf("fetching record: %w", err)
	}
	return &record, nil
}

// Create stores draft. A non-empty idempotencyKey makes retries of the same
// create return the first stored record.
func (c *RecordClient) Create(ctx context.Context, draft RecordDraft, idempotencyKey string) (*models.Record, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}

	var record models.Record
	if err := c.do(ctx, http.MethodPost, "/api/financial-records", draft, headers, &record); err != nil {
		return nil, fmt.Errorf("creating record: %w", err)
	}
	return &record, nil
}

// Update applies patch to record id and returns the stored result.
func (c *RecordClient) Update(ctx context.Context, id string, patch RecordPatch) (*models.Record, error) {
	var record models.Record
	if err := c.do(ctx, http.MethodPut, "/api/financial-records/"+url.PathEscape(id), patch, nil, &record); err != nil {
		return nil, fmt.Errorf("updating record: %w", err)
	}
	return &record, nil
}

// Delete removes record id and returns what was deleted.
func (c *RecordClient) Delete(ctx context.Context, id string) (*models.Record, error) {
	var result struct {
		Message string        `json:"message"`
		Record  models.Record `json:"record"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/financial-records/"+url.PathEscape(id), nil, nil, &result); err != nil {
		return nil, fmt.Errorf("deleting record: %w", err)
	}
	return &result.Record, nil
}

// MonthlyTotals fetches the twelve monthly totals of userID for year.
// An empty userID lets the server pick the caller or the default user.
func (c *RecordClient) MonthlyTotals(ctx context.Context, userID string, year int) ([]models.MonthlyTotal, error) {
	q := url.Values{}
	if userID != "" {
		q.Set("userId", userID)
	}
	q.Set("year", strconv.Itoa(year))

	var totals []models.MonthlyTotal
	if err := c.do(ctx, http.MethodGet, "/api/financial-records/monthlyTotals?"+q.Encode(), nil, nil, &totals); err != nil {
		return nil, fmt.Errorf("fetching monthly totals: %w", err)
	}
	return totals, nil
}

func (c *RecordClient) do(ctx context.Context, method, path string, body interface{}, headers map[string]string, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(raw, &envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}

// IsNotFound reports whether err is a 404 from the record API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
