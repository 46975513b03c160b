package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recurrence cadences for bills.
const (
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

// Bill represents a payable bill, either entered by hand or materialized
// from a recurring template. Generated instances are independent rows: each
// carries its own paid state and is deduplicated on
// (user_id, name, due_date, is_recurring).
type Bill struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"-"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        string          `json:"due_date"` // ISO-8601 calendar date
	IsAutoPaid     bool            `json:"is_auto_paid"`
	IsPaid         bool            `json:"is_paid"`
	Notes          *string         `json:"notes"`
	ReminderDays   int             `json:"reminder_days"`
	IsRecurring    bool            `json:"is_recurring"`
	RecurrenceType string          `json:"recurrence_type"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BillInput is used for creating/updating bills.
type BillInput struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        string          `json:"due_date"`
	IsAutoPaid     bool            `json:"is_auto_paid"`
	IsPaid         bool            `json:"is_paid"`
	Notes          *string         `json:"notes"`
	ReminderDays   int             `json:"reminder_days"`
	IsRecurring    bool            `json:"is_recurring"`
	RecurrenceType string          `json:"recurrence_type"`
}

func (b *BillInput) Validate() string {
	if b.Name == "" {
		return "name is required"
	}
	if b.Category == "" {
		return "category is required"
	}
	if !b.Amount.IsPositive() {
		return "amount must be positive"
	}
	if _, err := ParseDate(b.DueDate); err != nil {
		return "due_date must be a valid date (YYYY-MM-DD)"
	}
	if b.ReminderDays < 0 {
		return "reminder_days must be non-negative"
	}
	// The column rejects anything outside the enum, so one-off bills get
	// the default cadence too; it is inert while is_recurring is false.
	if b.RecurrenceType == "" {
		b.RecurrenceType = RecurrenceMonthly
	}
	switch b.RecurrenceType {
	case RecurrenceMonthly, RecurrenceYearly:
	default:
		return "recurrence_type must be one of: monthly, yearly"
	}
	return ""
}
