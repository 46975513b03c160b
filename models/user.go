package models

import (
	"strings"
	"time"
)

// User is an account holder. All other rows are scoped to a user id.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Currency     string    `json:"currency"`
	PhoneNumber  string    `json:"phone_number"`
	NotifyEmail  bool      `json:"notify_email"`
	NotifySMS    bool      `json:"notify_sms"`
	NotifyPush   bool      `json:"notify_push"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterInput is used for creating a new account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterInput) Validate() string {
	if r.Name == "" {
		return "name is required"
	}
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return "a valid email is required"
	}
	if len(r.Password) < 6 {
		return "password must be at least 6 characters"
	}
	return ""
}

// LoginInput is used for authenticating.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l *LoginInput) Validate() string {
	if l.Email == "" || l.Password == "" {
		return "email and password are required"
	}
	return ""
}

// SettingsInput updates profile preferences. Name, email and password have
// their own flows and are deliberately not patchable here.
type SettingsInput struct {
	Currency    string `json:"currency"`
	PhoneNumber string `json:"phone_number"`
	NotifyEmail bool   `json:"notify_email"`
	NotifySMS   bool   `json:"notify_sms"`
	NotifyPush  bool   `json:"notify_push"`
}

func (s *SettingsInput) Validate() string {
	if s.Currency == "" {
		s.Currency = "USD"
	}
	if len(s.Currency) != 3 {
		return "currency must be a 3-letter ISO code"
	}
	s.Currency = strings.ToUpper(s.Currency)
	return ""
}
