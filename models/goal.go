package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal tracks progress toward a savings target.
type SavingsGoal struct {
	ID                  int64            `json:"id"`
	UserID              int64            `json:"-"`
	Name                string           `json:"name"`
	TargetAmount        decimal.Decimal  `json:"target_amount"`
	CurrentAmount       decimal.Decimal  `json:"current_amount"`
	TargetDate          string           `json:"target_date"`
	MonthlyContribution *decimal.Decimal `json:"monthly_contribution"`
	Description         *string          `json:"description"`
	Icon                *string          `json:"icon"`
	IsCompleted         bool             `json:"is_completed"`
	CreatedAt           time.Time        `json:"created_at"`
}

// SavingsGoalInput is used for creating/updating savings goals.
type SavingsGoalInput struct {
	Name                string           `json:"name"`
	TargetAmount        decimal.Decimal  `json:"target_amount"`
	CurrentAmount       decimal.Decimal  `json:"current_amount"`
	TargetDate          string           `json:"target_date"`
	MonthlyContribution *decimal.Decimal `json:"monthly_contribution"`
	Description         *string          `json:"description"`
	Icon                *string          `json:"icon"`
	IsCompleted         bool             `json:"is_completed"`
}

func (g *SavingsGoalInput) Validate() string {
	if g.Name == "" {
		return "name is required"
	}
	if !g.TargetAmount.IsPositive() {
		return "target_amount must be positive"
	}
	if g.CurrentAmount.IsNegative() {
		return "current_amount must be non-negative"
	}
	if _, err := ParseDate(g.TargetDate); err != nil {
		return "target_date must be a valid date (YYYY-MM-DD)"
	}
	if g.MonthlyContribution != nil && g.MonthlyContribution.IsNegative() {
		return "monthly_contribution must be non-negative"
	}
	return ""
}
