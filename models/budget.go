package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a per-category spending cap over a rolling period.
type Budget struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"-"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Period         string          `json:"period"` // weekly, monthly, yearly
	AlertThreshold int             `json:"alert_threshold"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	// Computed fields
	Spent       decimal.Decimal `json:"spent"`
	PercentUsed float64         `json:"percent_used"`
}

// BudgetInput is used for creating/updating budgets.
type BudgetInput struct {
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Period         string          `json:"period"`
	AlertThreshold int             `json:"alert_threshold"`
}

func (b *BudgetInput) Validate() string {
	if b.Category == "" {
		return "category is required"
	}
	if !b.Amount.IsPositive() {
		return "amount must be positive"
	}
	if b.Period == "" {
		b.Period = "monthly"
	}
	switch b.Period {
	case "weekly", "monthly", "yearly":
	default:
		return "period must be one of: weekly, monthly, yearly"
	}
	if b.AlertThreshold == 0 {
		b.AlertThreshold = 80
	}
	if b.AlertThreshold < 1 || b.AlertThreshold > 100 {
		return "alert_threshold must be between 1 and 100"
	}
	return ""
}
