package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	apperrors "fintrack/internal/errors"
)

func TestStoreError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), "STORE_TIMEOUT"},
		{"canceled", context.Canceled, "STORE_TIMEOUT"},
		{"bad_conn", driver.ErrBadConn, "STORE_UNAVAILABLE"},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, "STORE_UNAVAILABLE"},
		{"unknown", errors.New("syntax error at or near"), "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := storeError(tt.err)

			var appErr *apperrors.AppError
			if !errors.As(got, &appErr) {
				t.Fatalf("expected *AppError, got %T", got)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, appErr.Code)
			}
			if !errors.Is(got, tt.err) {
				t.Error("expected the store error to stay reachable through Unwrap")
			}
		})
	}

	t.Run("nil", func(t *testing.T) {
		if storeError(nil) != nil {
			t.Error("expected nil")
		}
	})

	t.Run("app_error_passes_through", func(t *testing.T) {
		if got := storeError(apperrors.ErrRecordNotFound); got != apperrors.ErrRecordNotFound {
			t.Errorf("expected the same AppError back, got %v", got)
		}
	})
}
