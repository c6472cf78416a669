package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUserID owns records created without an identity.
const DefaultUserID = "default-user"

// AmountScale is the number of decimal places the amount column keeps.
const AmountScale = 4

// DatePrecision is the finest date resolution the store keeps.
const DatePrecision = time.Microsecond

// Record is a single financial transaction entry.
type Record struct {
	Base
	UserID        string          `gorm:"not null;index:idx_financial_records_user_date,priority:1;uniqueIndex:idx_financial_records_user_idempotency,priority:1" json:"userId"`
	Date          time.Time       `gorm:"not null;index:idx_financial_records_user_date,priority:2" json:"date"`
	Description   string          `gorm:"not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Category      string          `gorm:"not null" json:"category"`
	PaymentMethod string          `gorm:"not null" json:"paymentMethod"`

	// IdempotencyKey collapses client retries of the same create into one row.
	IdempotencyKey *string `gorm:"uniqueIndex:idx_financial_records_user_idempotency,priority:2" json:"-"`
}

// TableName pins the table name used by the SQL migrations.
func (Record) TableName() string {
	return "financial_records"
}

// MonthlyTotal is the aggregate of one calendar month.
type MonthlyTotal struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Count  int64           `json:"count"`
}

// MonthNames lists the month labels in calendar order.
var MonthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Categories are the values offered by the record form. The data layer
// accepts any non-empty category.
var Categories = []string{"Food", "Rent", "Utilities", "Entertainment", "Transportation", "Healthcare", "Shopping", "Other"}

// PaymentMethods are the values offered by the record form.
var PaymentMethods = []string{"Cash", "Credit Card", "Debit Card", "Bank Transfer", "Digital Wallet"}
