// Package amortize computes payoff metrics for a debt under fixed-payment
// amortization. Both functions are pure and total: inputs that have no
// numeric answer map to explicit outcomes, never errors or panics.
package amortize

import (
	"math"

	"github.com/shopspring/decimal"
)

// Outcome classifies a payoff estimate.
type Outcome int

const (
	// OutcomeMonths means a finite month count was computed.
	OutcomeMonths Outcome = iota
	// OutcomeNever means the payment does not cover accruing interest.
	OutcomeNever
	// OutcomeNoPayment means no minimum payment is configured, so no
	// estimate exists. Distinct from OutcomeNever on purpose.
	OutcomeNoPayment
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNever:
		return "never"
	case OutcomeNoPayment:
		return "undefined"
	default:
		return "months"
	}
}

// Estimate is the result of MonthsToPayoff. Months is meaningful only when
// Outcome is OutcomeMonths.
type Estimate struct {
	Outcome Outcome
	Months  int
}

var twelveHundred = decimal.NewFromInt(1200)

// ProgressPercent returns how much of the original principal has been paid
// off, as a percentage. A zero total is defined as 0 rather than a division
// by zero. Callers clamp to [0, 100] for display.
func ProgressPercent(total, balance decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	pct, _ := total.Sub(balance).Div(total).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// MonthsToPayoff estimates how many months of fixed payments clear the
// balance, given an annual interest rate in percent.
func MonthsToPayoff(balance, annualRatePct, payment decimal.Decimal) Estimate {
	if !payment.IsPositive() {
		return Estimate{Outcome: OutcomeNoPayment}
	}
	if !balance.IsPositive() {
		return Estimate{Outcome: OutcomeMonths, Months: 0}
	}

	// monthlyRate = annualRatePct / 100 / 12
	monthlyInterest := balance.Mul(annualRatePct).Div(twelveHundred)

	if annualRatePct.IsZero() {
		months := balance.Div(payment).Ceil().IntPart()
		return Estimate{Outcome: OutcomeMonths, Months: int(months)}
	}

	if payment.Cmp(monthlyInterest) <= 0 {
		return Estimate{Outcome: OutcomeNever}
	}

	// Closed form: ceil(-ln(1 - B*r/P) / ln(1 + r))
	rate, _ := annualRatePct.Div(twelveHundred).Float64()
	ratio, _ := monthlyInterest.Div(payment).Float64()
	months := -math.Log(1-ratio) / math.Log(1+rate)
	return Estimate{Outcome: OutcomeMonths, Months: int(math.Ceil(months))}
}
