package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"fintrack/internal/models"
	"fintrack/internal/uuid"
)

const (
	defaultFetchTries      = 4
	defaultInitialInterval = 500 * time.Millisecond
)

// CacheOption configures a RecordCache.
type CacheOption func(*RecordCache)

// WithFetchRetries sets how many times a fetch is attempted in total.
func WithFetchRetries(tries uint) CacheOption {
	return func(c *RecordCache) { c.fetchTries = tries }
}

// WithInitialBackoff sets the first delay between fetch attempts.
func WithInitialBackoff(d time.Duration) CacheOption {
	return func(c *RecordCache) { c.initialInterval = d }
}

// RecordCache mirrors one identity's records. Local state only changes after
// the server confirms a write, and then holds the server's copy.
// It is safe for concurrent use.
type RecordCache struct {
	client          *RecordClient
	fetchTries      uint
	initialInterval time.Duration

	mu      sync.RWMutex
	userID  string
	records []models.Record
	loading bool
	err     error
}

// NewRecordCache creates an empty cache over client. Call SetIdentity to load it.
func NewRecordCache(client *RecordClient, opts ...CacheOption) *RecordCache {
	c := &RecordCache{
		client:          client,
		fetchTries:      defaultFetchTries,
		initialInterval: defaultInitialInterval,
		records:         []models.Record{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Records returns a snapshot of the cached records.
func (c *RecordCache) Records() []models.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.records)
}

// Loading reports whether a fetch is in flight.
func (c *RecordCache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the last fetch or mutation error, or nil.
func (c *RecordCache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// UserID returns the current identity. Empty means anonymous.
func (c *RecordCache) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

// SetIdentity switches the cache to userID and reloads it. An empty userID
// loads the anonymous listing.
func (c *RecordCache) SetIdentity(ctx context.Context, userID string) error {
	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh replaces the cached records with the server's. On failure the
// previous records are kept and Err reports the failure.
func (c *RecordCache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	userID := c.userID
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	records, err := c.fetch(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID != userID {
		// The identity changed while this fetch was in flight.
		return nil
	}
	c.loading = false
	if err != nil {
		c.err = fmt.Errorf("loading records: %w", err)
		return c.err
	}
	if records == nil {
		records = []models.Record{}
	}
	c.records = records
	return nil
}

// fetch loads the records of userID with exponential backoff. Client errors
// are not retried.
func (c *RecordCache) fetch(ctx context.Context, userID string) ([]models.Record, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval

	operation := func() ([]models.Record, error) {
		var records []models.Record
		var err error
		if userID == "" {
			records, err = c.client.ListAll(ctx)
		} else {
			records, err = c.client.ListByUser(ctx, userID)
		}
		if err != nil && !retryable(ctx, err) {
			return nil, backoff.Permanent(err)
		}
		return records, err
	}

	return backoff.Retry(ctx, operation, backoff.WithBackOff(b), backoff.WithMaxTries(c.fetchTries))
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return true
}

// AddRecord creates draft for the current identity and appends the server's
// record. The request carries a fresh idempotency key and is not retried.
func (c *RecordCache) AddRecord(ctx context.Context, draft RecordDraft) (*models.Record, error) {
	c.mu.Lock()
	c.err = nil
	if draft.UserID == "" {
		draft.UserID = c.userID
	}
	c.mu.Unlock()

	record, err := c.client.Create(ctx, draft, uuid.NewKey())
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, *record)
	return record, nil
}

// UpdateRecord patches record id and replaces the cached entry with the
// server's result.
func (c *RecordCache) UpdateRecord(ctx context.Context, id string, patch RecordPatch) (*models.Record, error) {
	c.clearErr()

	record, err := c.client.Update(ctx, id, patch)
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].ID == id {
			c.records[i] = *record
			break
		}
	}
	return record, nil
}

// DeleteRecord deletes record id and drops it from the cache.
func (c *RecordCache) DeleteRecord(ctx context.Context, id string) error {
	c.clearErr()

	if _, err := c.client.Delete(ctx, id); err != nil {
		return c.fail(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = slices.DeleteFunc(c.records, func(r models.Record) bool { return r.ID == id })
	return nil
}

// MonthlyTotals fetches the aggregation for the current identity.
func (c *RecordCache) MonthlyTotals(ctx context.Context, year int) ([]models.MonthlyTotal, error) {
	totals, err := c.client.MonthlyTotals(ctx, c.UserID(), year)
	if err != nil {
		return nil, c.fail(err)
	}
	return totals, nil
}

func (c *RecordCache) clearErr() {
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()
}

// fail records err as the cache error and returns it.
func (c *RecordCache) fail(err error) error {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	return err
}
