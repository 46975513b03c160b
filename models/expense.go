package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategories is the fixed set of spending categories.
var ExpenseCategories = []string{
	"Housing",
	"Utilities",
	"Food",
	"Transportation",
	"Healthcare",
	"Entertainment",
	"Education",
	"Shopping",
	"Savings & Investments",
	"Debt Payments",
	"Other",
}

// Expense represents a single spending entry.
type Expense struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description *string         `json:"description"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseInput is used for creating/updating expenses.
type ExpenseInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description *string         `json:"description"`
	Date        string          `json:"date"`
}

func (e *ExpenseInput) Validate() string {
	if !e.Amount.IsPositive() {
		return "amount must be positive"
	}
	valid := false
	for _, c := range ExpenseCategories {
		if e.Category == c {
			valid = true
			break
		}
	}
	if !valid {
		return "category is not a recognized expense category"
	}
	if _, err := ParseDate(e.Date); err != nil {
		return "date must be a valid date (YYYY-MM-DD)"
	}
	return ""
}
