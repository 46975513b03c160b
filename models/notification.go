package models

import "time"

// Notification types and channels.
const (
	NotificationBillReminder = "bill_reminder"
	NotificationBudgetAlert  = "budget_alert"

	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// Notification is a delivery record for a single channel. The transport
// itself (email/SMS/push) lives behind notify.Dispatcher.
type Notification struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"-"`
	Type      string     `json:"type"`
	Channel   string     `json:"channel"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Status    string     `json:"status"` // pending, sent, failed
	SentAt    *time.Time `json:"sent_at"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
}
