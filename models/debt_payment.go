package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtPayment is a payment posted against a debt. Payments are immutable
// once created; deleting one restores the owning debt's balance.
type DebtPayment struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"-"`
	DebtID      int64           `json:"debt_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	// Computed fields
	DebtName *string `json:"debt_name,omitempty"`
	DebtType *string `json:"debt_type,omitempty"`
}

// DebtPaymentInput is used for posting a payment. There is no update path.
type DebtPaymentInput struct {
	DebtID      int64           `json:"debt_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	Description *string         `json:"description"`
}

func (p *DebtPaymentInput) Validate() string {
	if p.DebtID <= 0 {
		return "debt_id is required"
	}
	if !p.Amount.IsPositive() {
		return "amount must be positive"
	}
	if p.PaymentDate != "" {
		if _, err := ParseDate(p.PaymentDate); err != nil {
			return "payment_date must be a valid date (YYYY-MM-DD)"
		}
	}
	return ""
}
