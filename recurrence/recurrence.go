// Package recurrence materializes future bill instances from a recurring
// template. Expansion is best-effort and idempotent: re-running it for the
// same template and date produces no duplicate rows.
package recurrence

import (
	"context"
	"fmt"
	"time"

	"github.com/satheeshds/homefinance/models"
)

// Horizon of generated instances per cadence.
const (
	monthsAhead = 12
	yearsAhead  = 4
)

// Store is the persistence capability the expander needs. Exists checks the
// dedup key (user_id, name, due_date, is_recurring); InsertBatch persists all
// staged instances in one call and must tolerate a concurrent expansion
// having inserted the same key (the schema's unique index backs this).
type Store interface {
	Exists(ctx context.Context, userID int64, name, dueDate string, isRecurring bool) (bool, error)
	InsertBatch(ctx context.Context, bills []models.Bill) error
}

// Expander generates future instances of recurring bills.
type Expander struct {
	store Store
	now   func() time.Time
}

// NewExpander returns an Expander. now may be nil, in which case time.Now
// is used; tests inject a fixed clock.
func NewExpander(store Store, now func() time.Time) *Expander {
	if now == nil {
		now = time.Now
	}
	return &Expander{store: store, now: now}
}

// Candidates returns the future due dates a template should expand to:
// offsets 1..12 months for monthly bills, 1..4 years for yearly bills, using
// calendar arithmetic. Dates not strictly after now are dropped. An unknown
// cadence yields no candidates; an unparseable due date is an error.
func Candidates(tmpl models.Bill, now time.Time) ([]string, error) {
	origin, err := models.ParseDate(tmpl.DueDate)
	if err != nil {
		return nil, fmt.Errorf("parsing due date %q: %w", tmpl.DueDate, err)
	}

	var dates []string
	switch tmpl.RecurrenceType {
	case models.RecurrenceMonthly:
		for month := 1; month <= monthsAhead; month++ {
			if d := origin.AddDate(0, month, 0); d.After(now) {
				dates = append(dates, d.Format(models.DateFormat))
			}
		}
	case models.RecurrenceYearly:
		for year := 1; year <= yearsAhead; year++ {
			if d := origin.AddDate(year, 0, 0); d.After(now) {
				dates = append(dates, d.Format(models.DateFormat))
			}
		}
	}
	return dates, nil
}

// Expand stages and inserts every missing future instance of tmpl, returning
// how many rows were staged. Instances copy all template fields except the
// due date (replaced per candidate) and the paid flag (always false).
func (e *Expander) Expand(ctx context.Context, tmpl models.Bill) (int, error) {
	if !tmpl.IsRecurring {
		return 0, nil
	}

	dates, err := Candidates(tmpl, e.now())
	if err != nil {
		return 0, err
	}

	var staged []models.Bill
	for _, due := range dates {
		exists, err := e.store.Exists(ctx, tmpl.UserID, tmpl.Name, due, true)
		if err != nil {
			return 0, fmt.Errorf("checking existing instance: %w", err)
		}
		if exists {
			continue
		}
		instance := tmpl
		instance.ID = 0
		instance.DueDate = due
		instance.IsPaid = false
		staged = append(staged, instance)
	}

	if len(staged) == 0 {
		return 0, nil
	}
	if err := e.store.InsertBatch(ctx, staged); err != nil {
		return 0, fmt.Errorf("inserting %d instances: %w", len(staged), err)
	}
	return len(staged), nil
}
