package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income represents a single income entry.
type Income struct {
	ID                 int64           `json:"id"`
	UserID             int64           `json:"-"`
	Amount             decimal.Decimal `json:"amount"`
	Category           string          `json:"category"`
	Source             string          `json:"source"`
	Description        *string         `json:"description"`
	Date               string          `json:"date"`
	IsRecurring        bool            `json:"is_recurring"`
	RecurringFrequency string          `json:"recurring_frequency"`
	CreatedAt          time.Time       `json:"created_at"`
}

// IncomeInput is used for creating/updating income entries.
type IncomeInput struct {
	Amount             decimal.Decimal `json:"amount"`
	Category           string          `json:"category"`
	Source             string          `json:"source"`
	Description        *string         `json:"description"`
	Date               string          `json:"date"`
	IsRecurring        bool            `json:"is_recurring"`
	RecurringFrequency string          `json:"recurring_frequency"`
}

func (i *IncomeInput) Validate() string {
	if !i.Amount.IsPositive() {
		return "amount must be positive"
	}
	if i.Category == "" {
		return "category is required"
	}
	if i.Source == "" {
		return "source is required"
	}
	if _, err := ParseDate(i.Date); err != nil {
		return "date must be a valid date (YYYY-MM-DD)"
	}
	if i.RecurringFrequency == "" {
		i.RecurringFrequency = "monthly"
	}
	switch i.RecurringFrequency {
	case "daily", "weekly", "bi-weekly", "monthly", "yearly":
	default:
		return "recurring_frequency must be one of: daily, weekly, bi-weekly, monthly, yearly"
	}
	return ""
}
