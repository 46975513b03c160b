package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/satheeshds/homefinance/auth"
	"github.com/satheeshds/homefinance/notify"
	"github.com/satheeshds/homefinance/recurrence"
)

// Response is the standard JSON envelope for all API responses.
type Response struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// Shared dependencies, set once from main before the router starts.
var (
	// DB is the shared database connection used by all handlers.
	DB *sql.DB
	// Tokens signs and validates session tokens.
	Tokens *auth.JWTManager
	// Expander materializes future instances of recurring bills.
	Expander *recurrence.Expander
	// Notifier records reminder and alert notifications.
	Notifier notify.Dispatcher
	// Clock is injectable so date-window logic is testable.
	Clock = time.Now
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: msg})
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

// userID returns the authenticated caller's id.
func userID(r *http.Request) int64 {
	return auth.UserID(r.Context())
}
