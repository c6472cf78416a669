package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestRecord stores a record for userID dated at date with the given amount.
func CreateTestRecord(t *testing.T, db *gorm.DB, userID string, date time.Time, amount int64) *models.Record {
	t.Helper()

	record := &models.Record{
		UserID:        userID,
		Date:          date.UTC(),
		Description:   fmt.Sprintf("Test record %d", nextID()),
		Amount:        decimal.NewFromInt(amount),
		Category:      "Food",
		PaymentMethod: "Cash",
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test record: %v", err)
	}
	return record
}

// UniqueUserID returns a user id not used by any other fixture in this run.
func UniqueUserID() string {
	return fmt.Sprintf("user-%d", nextID())
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
