package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/satheeshds/homefinance/auth"
	"github.com/satheeshds/homefinance/models"
)

// LoginResponse carries the session token and the profile it belongs to.
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func getUserByID(id int64) (models.User, error) {
	var u models.User
	err := DB.QueryRow(`SELECT id, name, email, password_hash, currency, phone_number,
		notify_email, notify_sms, notify_push, created_at
		FROM users WHERE id = ?`, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Currency, &u.PhoneNumber, &u.NotifyEmail, &u.NotifySMS, &u.NotifyPush, &u.CreatedAt)
	return u, err
}

// Register creates a new account
// @Summary      Register
// @Description  Create a new user account and return a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user  body      models.RegisterInput  true  "Account details"
// @Success      201   {object}  Response{data=LoginResponse}
// @Failure      400   {object}  Response{error=string}
// @Router       /auth/register [post]
func Register(w http.ResponseWriter, r *http.Request) {
	var input models.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	var id int64
	err = DB.QueryRow(`INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?) RETURNING id`,
		input.Name, input.Email, hash).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			writeError(w, http.StatusBadRequest, "email is already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := Tokens.Generate(id, input.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	user, err := getUserByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created user: "+err.Error())
		return
	}
	slog.Info("user registered", "user_id", id)
	writeJSON(w, http.StatusCreated, LoginResponse{Token: token, User: user})
}

// Login authenticates a user
// @Summary      Login
// @Description  Exchange email and password for a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      models.LoginInput  true  "Credentials"
// @Success      200          {object}  Response{data=LoginResponse}
// @Failure      401          {object}  Response{error=string}
// @Router       /auth/login [post]
func Login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var u models.User
	err := DB.QueryRow(`SELECT id, name, email, password_hash, currency, phone_number,
		notify_email, notify_sms, notify_push, created_at
		FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(input.Email))).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Currency, &u.PhoneNumber,
			&u.NotifyEmail, &u.NotifySMS, &u.NotifyPush, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if !auth.CheckPassword(u.PasswordHash, input.Password) {
		slog.Warn("login failed", "user_id", u.ID)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := Tokens.Generate(u.ID, u.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: u})
}

// Me returns the authenticated user's profile
// @Summary      Get profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Response{data=models.User}
// @Router       /auth/me [get]
// @Security     BearerAuth
func Me(w http.ResponseWriter, r *http.Request) {
	user, err := getUserByID(userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateSettings updates profile preferences
// @Summary      Update settings
// @Description  Update currency, phone number and notification preferences.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        settings  body      models.SettingsInput  true  "Preferences"
// @Success      200       {object}  Response{data=models.User}
// @Failure      400       {object}  Response{error=string}
// @Router       /auth/settings [put]
// @Security     BearerAuth
func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var input models.SettingsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	_, err := DB.Exec(`UPDATE users SET currency = ?, phone_number = ?,
		notify_email = ?, notify_sms = ?, notify_push = ? WHERE id = ?`,
		input.Currency, input.PhoneNumber, input.NotifyEmail, input.NotifySMS, input.NotifyPush, userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	user, err := getUserByID(userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}
