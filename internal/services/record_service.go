package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// seedBatchSize bounds a single INSERT during bulk seeding.
const seedBatchSize = 100

// recordService handles financial record persistence and aggregation.
type recordService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRecordService creates a new RecordServicer.
func NewRecordService(db *gorm.DB) RecordServicer {
	return &recordService{db: db, now: time.Now}
}

// GetUserRecords returns the records owned by userID.
func (s *recordService) GetUserRecords(ctx context.Context, userID string, list pagination.ListRequest) ([]models.Record, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}

	records := []models.Record{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(pagination.Apply(list)).
		Find(&records).Error; err != nil {
		return nil, storeError(err)
	}
	return records, nil
}

// GetAllRecords returns records across all users, capped and newest first by default.
func (s *recordService) GetAllRecords(ctx context.Context, list pagination.ListRequest) ([]models.Record, error) {
	list.Defaults()

	records := []models.Record{}
	if err := s.db.WithContext(ctx).
		Scopes(pagination.Apply(list)).
		Find(&records).Error; err != nil {
		return nil, storeError(err)
	}
	return records, nil
}

// GetRecordByID retrieves a single record.
func (s *recordService) GetRecordByID(ctx context.Context, id string) (*models.Record, error) {
	var record models.Record
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, storeError(err)
	}
	return &record, nil
}

// CreateRecord validates and stores a new record, defaulting the owner and date.
func (s *recordService) CreateRecord(ctx context.Context, input RecordInput) (*models.Record, bool, error) {
	if input.Amount == nil {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount is required")
	}

	record := &models.Record{
		UserID:        strings.TrimSpace(input.UserID),
		Description:   input.Description,
		Amount:        *input.Amount,
		Category:      input.Category,
		PaymentMethod: input.PaymentMethod,
	}
	if record.UserID == "" {
		record.UserID = models.DefaultUserID
	}
	if input.Date != nil && !input.Date.IsZero() {
		record.Date = *input.Date
	} else {
		record.Date = s.now()
	}
	record.Date = normalizeDate(record.Date)

	if err := validateRecord(record); err != nil {
		return nil, false, err
	}

	db := s.db.WithContext(ctx)

	if input.IdempotencyKey != "" {
		key := input.IdempotencyKey
		record.IdempotencyKey = &key

		existing, err := s.findByIdempotencyKey(db, record.UserID, key)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	if err := db.Create(record).Error; err != nil {
		// A concurrent replay of the same key won the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) && record.IdempotencyKey != nil {
			existing, findErr := s.findByIdempotencyKey(db, record.UserID, *record.IdempotencyKey)
			if findErr != nil {
				return nil, false, findErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, storeError(err)
	}

	return record, true, nil
}

func (s *recordService) findByIdempotencyKey(db *gorm.DB, userID, key string) (*models.Record, error) {
	var existing models.Record
	result := db.Where("user_id = ? AND idempotency_key = ?", userID, key).Limit(1).Find(&existing)
	if result.Error != nil {
		return nil, storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &existing, nil
}

// UpdateRecord merges patch over the stored record, re-validates, and returns
// the stored result. The id never changes.
func (s *recordService) UpdateRecord(ctx context.Context, id string, patch RecordPatch) (*models.Record, error) {
	record, err := s.GetRecordByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Date != nil && !patch.Date.IsZero() {
		record.Date = normalizeDate(*patch.Date)
		updates["date"] = record.Date
	}
	if patch.Description != nil {
		record.Description = *patch.Description
		updates["description"] = record.Description
	}
	if patch.Amount != nil {
		record.Amount = *patch.Amount
		updates["amount"] = record.Amount
	}
	if patch.Category != nil {
		record.Category = *patch.Category
		updates["category"] = record.Category
	}
	if patch.PaymentMethod != nil {
		record.PaymentMethod = *patch.PaymentMethod
		updates["payment_method"] = record.PaymentMethod
	}

	if err := validateRecord(record); err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).Model(&models.Record{}).Where("id = ?", id).Updates(withUpdatedAt(updates, s.now()))
	if result.Error != nil {
		return nil, storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrRecordNotFound
	}

	return s.GetRecordByID(ctx, id)
}

func withUpdatedAt(updates map[string]interface{}, now time.Time) map[string]interface{} {
	updates["updated_at"] = now
	return updates
}

// DeleteRecord hard-deletes a record and returns what was removed.
func (s *recordService) DeleteRecord(ctx context.Context, id string) (*models.Record, error) {
	record, err := s.GetRecordByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Record{})
	if result.Error != nil {
		return nil, storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrRecordNotFound
	}
	return record, nil
}

// monthRow is one grouped row of the monthly aggregation.
type monthRow struct {
	MonthNum int
	Amount   decimal.Decimal
	Count    int64
}

// MonthlyTotals sums a user's records per calendar month of year. The result
// always has twelve entries, Jan..Dec, with empty months zero-filled.
func (s *recordService) MonthlyTotals(ctx context.Context, userID string, year int) ([]models.MonthlyTotal, error) {
	if year < 1 || year > 9998 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("year %d is out of range", year))
	}
	if strings.TrimSpace(userID) == "" {
		userID = models.DefaultUserID
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	query := s.db.WithContext(ctx).
		Model(&models.Record{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end)

	var rows []monthRow
	var err error
	if s.db.Dialector.Name() == "sqlite" {
		rows, err = sumMonthsInGo(query, year)
	} else {
		err = query.
			Select("CAST(EXTRACT(MONTH FROM date AT TIME ZONE 'UTC') AS INTEGER) AS month_num, " +
				"COALESCE(SUM(amount), 0) AS amount, COUNT(*) AS count").
			Group("month_num").
			Order("month_num").
			Scan(&rows).Error
	}
	if err != nil {
		return nil, storeError(err)
	}

	totals := make([]models.MonthlyTotal, len(models.MonthNames))
	for i, name := range models.MonthNames {
		totals[i] = models.MonthlyTotal{Month: name, Amount: decimal.Zero}
	}
	for _, row := range rows {
		if row.MonthNum < 1 || row.MonthNum > 12 {
			continue
		}
		totals[row.MonthNum-1].Amount = row.Amount
		totals[row.MonthNum-1].Count = row.Count
	}
	return totals, nil
}

// sumMonthsInGo groups the year's records by UTC month in memory. SQLite
// stores decimal columns as REAL and its strftime rounds fractional seconds,
// so neither SUM nor the month can be taken in SQL there.
func sumMonthsInGo(query *gorm.DB, year int) ([]monthRow, error) {
	var records []models.Record
	if err := query.Select("date", "amount").Find(&records).Error; err != nil {
		return nil, err
	}

	rows := make([]monthRow, 12)
	for i := range rows {
		rows[i] = monthRow{MonthNum: i + 1, Amount: decimal.Zero}
	}
	for _, r := range records {
		date := r.Date.UTC()
		if date.Year() != year {
			continue
		}
		row := &rows[date.Month()-1]
		row.Amount = row.Amount.Add(r.Amount)
		row.Count++
	}
	return rows, nil
}

// SeedRecords bulk-inserts already-populated records.
func (s *recordService) SeedRecords(ctx context.Context, records []models.Record) (int, error) {
	for i := range records {
		if records[i].UserID == "" {
			records[i].UserID = models.DefaultUserID
		}
		records[i].Date = normalizeDate(records[i].Date)
		if err := validateRecord(&records[i]); err != nil {
			return 0, err
		}
	}
	if len(records) == 0 {
		return 0, nil
	}

	if err := s.db.WithContext(ctx).CreateInBatches(records, seedBatchSize).Error; err != nil {
		return 0, storeError(err)
	}
	return len(records), nil
}

// DeleteUserRecords removes every record owned by userID.
func (s *recordService) DeleteUserRecords(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}
	result := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Record{})
	if result.Error != nil {
		return 0, storeError(result.Error)
	}
	return result.RowsAffected, nil
}

// normalizeDate converts t to UTC at the precision the store keeps, so the
// returned record matches what a later read sees.
func normalizeDate(t time.Time) time.Time {
	return t.UTC().Truncate(models.DatePrecision)
}

// validateRecord enforces the invariants every persisted record must satisfy.
func validateRecord(r *models.Record) error {
	switch {
	case strings.TrimSpace(r.UserID) == "":
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	case strings.TrimSpace(r.Description) == "":
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	case strings.TrimSpace(r.Category) == "":
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	case strings.TrimSpace(r.PaymentMethod) == "":
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "payment method is required")
	case !r.Amount.Equal(r.Amount.Round(models.AmountScale)):
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("amount supports at most %d decimal places", models.AmountScale))
	case r.Amount.IsZero():
		return apperrors.ErrZeroAmount
	case r.Date.IsZero():
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	return nil
}
