package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// RecordInput carries the fields of a record to create. Nil Date means
// "now"; nil Amount means the field was not supplied.
type RecordInput struct {
	UserID         string
	Date           *time.Time
	Description    string
	Amount         *decimal.Decimal
	Category       string
	PaymentMethod  string
	IdempotencyKey string
}

// RecordPatch holds the fields to overwrite on update. Nil fields are left unchanged.
type RecordPatch struct {
	Date          *time.Time
	Description   *string
	Amount        *decimal.Decimal
	Category      *string
	PaymentMethod *string
}

// RecordServicer defines the contract for financial record storage and aggregation.
type RecordServicer interface {
	GetUserRecords(ctx context.Context, userID string, list pagination.ListRequest) ([]models.Record, error)
	GetAllRecords(ctx context.Context, list pagination.ListRequest) ([]models.Record, error)
	GetRecordByID(ctx context.Context, id string) (*models.Record, error)
	// CreateRecord reports created=false when an idempotency key replays an earlier create.
	CreateRecord(ctx context.Context, input RecordInput) (record *models.Record, created bool, err error)
	UpdateRecord(ctx context.Context, id string, patch RecordPatch) (*models.Record, error)
	DeleteRecord(ctx context.Context, id string) (*models.Record, error)
	MonthlyTotals(ctx context.Context, userID string, year int) ([]models.MonthlyTotal, error)
	SeedRecords(ctx context.Context, records []models.Record) (int, error)
	DeleteUserRecords(ctx context.Context, userID string) (int64, error)
}
