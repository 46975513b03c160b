package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt represents an outstanding liability being paid down over time.
type Debt struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"-"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"` // annual percentage
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	DueDateDay     *int            `json:"due_date_day"`
	Notes          *string         `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	// Computed fields
	PayoffProgressPercent float64 `json:"payoff_progress_percent"`
	PayoffEstimate        string  `json:"payoff_estimate"` // months, never, undefined
	EstimatedPayoffMonths *int    `json:"estimated_payoff_months"`
}

// DebtInput is used for creating/updating debts.
type DebtInput struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	DueDateDay     *int            `json:"due_date_day"`
	Notes          *string         `json:"notes"`
}

func (d *DebtInput) Validate() string {
	if d.Name == "" {
		return "name is required"
	}
	switch d.Type {
	case "Credit Card", "Student Loan", "Personal Loan", "Mortgage", "Car Loan", "Other":
	default:
		return "type must be one of: Credit Card, Student Loan, Personal Loan, Mortgage, Car Loan, Other"
	}
	if !d.TotalAmount.IsPositive() {
		return "total_amount must be positive"
	}
	if d.CurrentBalance.IsNegative() {
		return "current_balance must be non-negative"
	}
	if d.InterestRate.IsNegative() {
		return "interest_rate must be non-negative"
	}
	if d.MinimumPayment.IsNegative() {
		return "minimum_payment must be non-negative"
	}
	if d.DueDateDay != nil && (*d.DueDateDay < 1 || *d.DueDateDay > 31) {
		return "due_date_day must be between 1 and 31"
	}
	return ""
}
