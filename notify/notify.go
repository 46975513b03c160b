// Package notify records notifications for a user's enabled channels and
// hands them to pluggable transports. Email/SMS/push delivery itself is an
// external collaborator; a nil transport leaves the record pending for a
// later delivery worker.
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/satheeshds/homefinance/models"
)

// Transport delivers a single message over one channel.
type Transport interface {
	Send(ctx context.Context, to, title, message string) error
}

// Dispatcher fans a domain event out to the user's enabled channels.
type Dispatcher interface {
	BillReminder(ctx context.Context, user models.User, bill models.Bill) error
	BudgetAlert(ctx context.Context, user models.User, budget models.Budget) error
}

// Recorder is the store-backed Dispatcher. Every enabled channel gets its
// own notification row carrying the delivery status.
type Recorder struct {
	db    *sql.DB
	email Transport
	sms   Transport
}

// NewRecorder creates a Recorder. email and sms may be nil.
func NewRecorder(db *sql.DB, email, sms Transport) *Recorder {
	return &Recorder{db: db, email: email, sms: sms}
}

// BillReminder records a due-date reminder for every enabled channel.
func (r *Recorder) BillReminder(ctx context.Context, user models.User, bill models.Bill) error {
	title := fmt.Sprintf("Bill Reminder: %s", bill.Name)
	message := fmt.Sprintf("Your bill %s is due on %s", bill.Name, bill.DueDate)
	return r.dispatch(ctx, user, models.NotificationBillReminder, title, message)
}

// BudgetAlert records a threshold-crossing alert for every enabled channel.
func (r *Recorder) BudgetAlert(ctx context.Context, user models.User, budget models.Budget) error {
	title := fmt.Sprintf("Budget Alert: %s", budget.Category)
	message := fmt.Sprintf("You've used %.1f%% of your %s budget", budget.PercentUsed, budget.Category)
	return r.dispatch(ctx, user, models.NotificationBudgetAlert, title, message)
}

func (r *Recorder) dispatch(ctx context.Context, user models.User, kind, title, message string) error {
	if user.NotifyEmail {
		if err := r.record(ctx, user, kind, models.ChannelEmail, title, message, r.email, user.Email); err != nil {
			return err
		}
	}
	if user.NotifySMS && user.PhoneNumber != "" {
		if err := r.record(ctx, user, kind, models.ChannelSMS, title, message, r.sms, user.PhoneNumber); err != nil {
			return err
		}
	}
	if user.NotifyPush {
		// Push delivery is handled by a separate worker; record only.
		if err := r.record(ctx, user, kind, models.ChannelPush, title, message, nil, ""); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) record(ctx context.Context, user models.User, kind, channel, title, message string, transport Transport, to string) error {
	status := "pending"
	var sentAt *time.Time
	if transport != nil {
		if err := transport.Send(ctx, to, title, message); err != nil {
			slog.Warn("notification delivery failed", "channel", channel, "user_id", user.ID, "err", err)
			status = "failed"
		} else {
			status = "sent"
			now := time.Now().UTC()
			sentAt = &now
		}
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO notifications (user_id, type, channel, title, message, status, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, kind, channel, title, message, status, sentAt)
	if err != nil {
		return fmt.Errorf("recording %s notification: %w", channel, err)
	}
	return nil
}
