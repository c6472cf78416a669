package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// fakeAPI is an in-memory record API for cache tests.
type fakeAPI struct {
	mu          sync.Mutex
	records     map[string]models.Record
	nextID      int
	failListing int32 // remaining listing calls answered with 503
	listCalls   atomic.Int32
	idemKeys    []string
}

func newFakeAPI(seed ...models.Record) *fakeAPI {
	f := &fakeAPI{records: map[string]models.Record{}}
	for _, r := range seed {
		f.records[r.ID] = r
	}
	return f
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	const prefix = "/api/financial-records"
	path := strings.TrimPrefix(r.URL.Path, prefix)

	switch {
	case r.Method == http.MethodGet && (path == "/all" || strings.HasPrefix(path, "/getAllByUserID/")):
		f.listCalls.Add(1)
		if f.failListing > 0 {
			f.failListing--
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": map[string]string{"code": "STORE_UNAVAILABLE", "message": "Database is unreachable"}})
			return
		}
		user := strings.TrimPrefix(path, "/getAllByUserID/")
		out := []models.Record{}
		for _, rec := range f.records {
			if path == "/all" || rec.UserID == user {
				out = append(out, rec)
			}
		}
		writeJSON(w, http.StatusOK, out)

	case r.Method == http.MethodPost && path == "":
		var draft RecordDraft
		_ = json.NewDecoder(r.Body).Decode(&draft)
		if draft.Amount.IsZero() {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]string{"code": "ZERO_AMOUNT", "message": "Amount cannot be zero"}})
			return
		}
		f.idemKeys = append(f.idemKeys, r.Header.Get("Idempotency-Key"))
		f.nextID++
		rec := models.Record{
			Base:          models.Base{ID: fmt.Sprintf("srv-%d", f.nextID), CreatedAt: time.Now().UTC()},
			UserID:        draft.UserID,
			Date:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Description:   draft.Description,
			Amount:        draft.Amount,
			Category:      draft.Category,
			PaymentMethod: draft.PaymentMethod,
		}
		if rec.UserID == "" {
			rec.UserID = models.DefaultUserID
		}
		f.records[rec.ID] = rec
		writeJSON(w, http.StatusCreated, rec)

	case r.Method == http.MethodPut:
		id := strings.TrimPrefix(path, "/")
		rec, ok := f.records[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]string{"code": "RECORD_NOT_FOUND", "message": "Record not found"}})
			return
		}
		var patch RecordPatch
		_ = json.NewDecoder(r.Body).Decode(&patch)
		if patch.Description != nil {
			rec.Description = *patch.Description
		}
		if patch.Amount != nil {
			rec.Amount = *patch.Amount
		}
		rec.UpdatedAt = time.Now().UTC()
		f.records[id] = rec
		writeJSON(w, http.StatusOK, rec)

	case r.Method == http.MethodDelete:
		id := strings.TrimPrefix(path, "/")
		rec, ok := f.records[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]string{"code": "RECORD_NOT_FOUND", "message": "Record not found"}})
			return
		}
		delete(f.records, id)
		writeJSON(w, http.StatusOK, map[string]any{"message": "Record deleted successfully", "record": rec})

	case r.Method == http.MethodGet && path == "/monthlyTotals":
		writeJSON(w, http.StatusOK, []map[string]any{{"month": "Jan", "amount": 1, "count": 1, "user": r.URL.Query().Get("userId")}})

	default:
		http.NotFound(w, r)
	}
}

func newTestCache(t *testing.T, api *fakeAPI) *RecordCache {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return NewRecordCache(NewRecordClient(server.URL, "", server.Client()),
		WithFetchRetries(3), WithInitialBackoff(time.Millisecond))
}

func seedRecord(id, user string) models.Record {
	return models.Record{
		Base:          models.Base{ID: id},
		UserID:        user,
		Description:   "seed " + id,
		Amount:        decimal.NewFromInt(5),
		Category:      "Food",
		PaymentMethod: "Cash",
	}
}

func TestRecordCache_SetIdentity(t *testing.T) {
	api := newFakeAPI(seedRecord("a", "u1"), seedRecord("b", "u1"), seedRecord("c", "u2"))
	cache := newTestCache(t, api)
	ctx := context.Background()

	if err := cache.SetIdentity(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(cache.Records()); got != 2 {
		t.Errorf("expected 2 records for u1, got %d", got)
	}
	if cache.Loading() {
		t.Error("expected loading to be false after fetch")
	}

	// Identity change replaces local state wholesale.
	if err := cache.SetIdentity(ctx, "u2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records := cache.Records()
	if len(records) != 1 || records[0].ID != "c" {
		t.Errorf("expected only u2's record, got %+v", records)
	}

	// Anonymous loads the administrative listing.
	if err := cache.SetIdentity(ctx, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(cache.Records()); got != 3 {
		t.Errorf("expected 3 records anonymously, got %d", got)
	}
}

func TestRecordCache_FetchRetriesServerErrors(t *testing.T) {
	api := newFakeAPI(seedRecord("a", "u1"))
	api.failListing = 2
	cache := newTestCache(t, api)

	if err := cache.SetIdentity(context.Background(), "u1"); err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if got := api.listCalls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if len(cache.Records()) != 1 {
		t.Errorf("expected 1 record, got %d", len(cache.Records()))
	}
}

func TestRecordCache_FetchFailureKeepsStaleRecords(t *testing.T) {
	api := newFakeAPI(seedRecord("a", "u1"))
	cache := newTestCache(t, api)
	ctx := context.Background()

	if err := cache.SetIdentity(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	api.mu.Lock()
	api.failListing = 10
	api.mu.Unlock()

	err := cache.Refresh(ctx)
	if err == nil {
		t.Fatal("expected refresh to fail")
	}
	if cache.Err() == nil || !strings.Contains(cache.Err().Error(), "loading records") {
		t.Errorf("expected a readable error, got %v", cache.Err())
	}
	if len(cache.Records()) != 1 {
		t.Errorf("expected stale records to be kept, got %d", len(cache.Records()))
	}
	if cache.Loading() {
		t.Error("expected loading to be false after a failed fetch")
	}
}

func TestRecordCache_FetchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusForbidden, map[string]any{"error": map[string]string{"code": "FORBIDDEN", "message": "Access denied"}})
	}))
	defer server.Close()

	cache := NewRecordCache(NewRecordClient(server.URL, "", server.Client()),
		WithFetchRetries(5), WithInitialBackoff(time.Millisecond))

	if err := cache.SetIdentity(context.Background(), "someone-else"); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected a single attempt, got %d", got)
	}
}

func TestRecordCache_AddRecordHoldsServerCopy(t *testing.T) {
	api := newFakeAPI()
	cache := newTestCache(t, api)
	ctx := context.Background()

	if err := cache.SetIdentity(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	draft := RecordDraft{Description: "Taxi", Amount: decimal.NewFromInt(-20), Category: "Transportation", PaymentMethod: "Cash"}
	saved, err := cache.AddRecord(ctx, draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := cache.Records()
	if len(records) != 1 {
		t.Fatalf("expected exactly one new entry, got %d", len(records))
	}
	got := records[0]
	if got.ID != saved.ID || got.ID == "" {
		t.Errorf("expected the server-assigned id, got %q", got.ID)
	}
	if got.UserID != "u1" {
		t.Errorf("expected the current identity as owner, got %q", got.UserID)
	}
	if got.CreatedAt.IsZero() || got.Date.IsZero() {
		t.Error("expected server-assigned fields on the cached record")
	}
	if len(api.idemKeys) != 1 || api.idemKeys[0] == "" {
		t.Errorf("expected one create carrying an idempotency key, got %v", api.idemKeys)
	}
}

func TestRecordCache_AddRecordFailure(t *testing.T) {
	cache := newTestCache(t, newFakeAPI())
	ctx := context.Background()
	_ = cache.SetIdentity(ctx, "u1")

	_, err := cache.AddRecord(ctx, RecordDraft{Description: "x", Category: "Food", PaymentMethod: "Cash"})
	if err == nil {
		t.Fatal("expected zero amount to fail")
	}
	if cache.Err() == nil {
		t.Error("expected the error flag to be set")
	}
	if len(cache.Records()) != 0 {
		t.Error("failed create must not change local state")
	}
}

func TestRecordCache_UpdateAndDelete(t *testing.T) {
	api := newFakeAPI(seedRecord("a", "u1"), seedRecord("b", "u1"))
	cache := newTestCache(t, api)
	ctx := context.Background()

	if err := cache.SetIdentity(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	desc := "Renamed"
	updated, err := cache.UpdateRecord(ctx, "a", RecordPatch{Description: &desc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range cache.Records() {
		if r.ID == "a" && (r.Description != "Renamed" || !r.UpdatedAt.Equal(updated.UpdatedAt)) {
			t.Errorf("expected cached entry replaced by server copy, got %+v", r)
		}
	}

	if err := cache.DeleteRecord(ctx, "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records := cache.Records()
	if len(records) != 1 || records[0].ID != "a" {
		t.Errorf("expected only a to remain, got %+v", records)
	}

	err = cache.DeleteRecord(ctx, "b")
	if !IsNotFound(err) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
	if cache.Err() == nil {
		t.Error("expected the error flag to be set")
	}

	// A successful mutation clears the previous error.
	if _, err := cache.UpdateRecord(ctx, "a", RecordPatch{Description: &desc}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.Err() != nil {
		t.Errorf("expected error cleared, got %v", cache.Err())
	}
}

func TestRecordCache_MonthlyTotalsUsesIdentity(t *testing.T) {
	cache := newTestCache(t, newFakeAPI())
	ctx := context.Background()
	_ = cache.SetIdentity(ctx, "u9")

	totals, err := cache.MonthlyTotals(ctx, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(totals) != 1 || totals[0].Month != "Jan" {
		t.Errorf("unexpected totals %+v", totals)
	}
}
