// Package testutil provides shared helpers for handler tests: an in-memory
// database, a fully wired router, and a registered user with a valid token.
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/satheeshds/homefinance/auth"
	"github.com/satheeshds/homefinance/db"
	"github.com/satheeshds/homefinance/handlers"
	"github.com/satheeshds/homefinance/models"
	"github.com/satheeshds/homefinance/notify"
	"github.com/satheeshds/homefinance/recurrence"
)

// TestEnv holds the components needed for running handler tests.
type TestEnv struct {
	DB      *sql.DB
	Handler http.Handler
	Token   string
	UserID  int64
	User    models.User
}

// SetupTestEnvironment opens an in-memory database, runs migrations, wires the
// shared handler dependencies, and registers a test user. The database is
// closed automatically when the test finishes.
func SetupTestEnvironment(t *testing.T) *TestEnv {
	t.Helper()

	database, err := db.OpenInMemory()
	require.NoError(t, err, "open in-memory database")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.Migrate(database), "run migrations")

	tokens := auth.NewJWTManager("test-secret", time.Hour)
	handlers.DB = database
	handlers.Tokens = tokens
	handlers.Expander = recurrence.NewExpander(&handlers.BillStore{DB: database}, nil)
	handlers.Notifier = notify.NewRecorder(database, nil, nil)
	handlers.Clock = time.Now
	t.Cleanup(func() { handlers.Clock = time.Now })

	env := &TestEnv{DB: database, Handler: newRouter(tokens)}

	rr := ExecuteRequest(t, env.Handler, NewRequest(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "secret123",
	}))
	require.Equal(t, http.StatusCreated, rr.Code, "register test user: %s", rr.Body.String())

	var login handlers.LoginResponse
	DecodeData(t, rr, &login)
	env.Token = login.Token
	env.UserID = login.User.ID
	env.User = login.User
	return env
}

// RegisterUser creates an additional account and returns its token and id.
func (env *TestEnv) RegisterUser(t *testing.T, name, email string) (string, int64) {
	t.Helper()
	rr := ExecuteRequest(t, env.Handler, NewRequest(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "secret123",
	}))
	require.Equal(t, http.StatusCreated, rr.Code, "register %s: %s", email, rr.Body.String())
	var login handlers.LoginResponse
	DecodeData(t, rr, &login)
	return login.Token, login.User.ID
}

// newRouter mirrors the API route table wired in main.go, without the
// logging, metrics, and swagger surfaces that tests do not exercise.
func newRouter(tokens *auth.JWTManager) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens))

			r.Get("/auth/me", handlers.Me)
			r.Put("/auth/settings", handlers.UpdateSettings)

			r.Get("/bills", handlers.ListBills)
			r.Post("/bills", handlers.CreateBill)
			r.Get("/bills/{id}", handlers.GetBill)
			r.Put("/bills/{id}", handlers.UpdateBill)
			r.Delete("/bills/{id}", handlers.DeleteBill)

			r.Get("/debts", handlers.ListDebts)
			r.Post("/debts", handlers.CreateDebt)
			r.Get("/debts/{id}", handlers.GetDebt)
			r.Put("/debts/{id}", handlers.UpdateDebt)
			r.Delete("/debts/{id}", handlers.DeleteDebt)

			r.Get("/debt-payments", handlers.ListDebtPayments)
			r.Post("/debt-payments", handlers.CreateDebtPayment)
			r.Get("/debt-payments/debt/{debtId}", handlers.ListDebtPaymentsByDebt)
			r.Delete("/debt-payments/{id}", handlers.DeleteDebtPayment)

			r.Get("/income", handlers.ListIncome)
			r.Post("/income", handlers.CreateIncome)
			r.Get("/income/{id}", handlers.GetIncome)
			r.Put("/income/{id}", handlers.UpdateIncome)
			r.Delete("/income/{id}", handlers.DeleteIncome)

			r.Get("/expenses", handlers.ListExpenses)
			r.Post("/expenses", handlers.CreateExpense)
			r.Get("/expenses/{id}", handlers.GetExpense)
			r.Put("/expenses/{id}", handlers.UpdateExpense)
			r.Delete("/expenses/{id}", handlers.DeleteExpense)

			r.Get("/budgets", handlers.ListBudgets)
			r.Post("/budgets", handlers.CreateBudget)
			r.Get("/budgets/{id}", handlers.GetBudget)
			r.Put("/budgets/{id}", handlers.UpdateBudget)
			r.Delete("/budgets/{id}", handlers.DeleteBudget)

			r.Get("/goals", handlers.ListGoals)
			r.Post("/goals", handlers.CreateGoal)
			r.Get("/goals/{id}", handlers.GetGoal)
			r.Put("/goals/{id}", handlers.UpdateGoal)
			r.Delete("/goals/{id}", handlers.DeleteGoal)

			r.Get("/notifications", handlers.ListNotifications)
			r.Post("/notifications/check", handlers.RunNotificationChecks)
			r.Put("/notifications/read-all", handlers.MarkAllNotificationsRead)
			r.Put("/notifications/{id}/read", handlers.MarkNotificationRead)
			r.Delete("/notifications/{id}", handlers.DeleteNotification)

			r.Get("/dashboard/summary", handlers.GetDashboardSummary)
		})
	})
	return r
}

// NewRequest builds an HTTP request with an optional bearer token and an
// optional JSON body.
func NewRequest(t *testing.T, method, target, token string, body any) *http.Request {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "marshal request body")
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// ExecuteRequest runs the request against the handler and records the response.
func ExecuteRequest(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// DecodeData unmarshals the data field of the response envelope into out.
func DecodeData(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope), "decode response envelope: %s", rr.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out), "decode data field: %s", rr.Body.String())
}

// ErrorMessage returns the error field of the response envelope.
func ErrorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope), "decode response envelope: %s", rr.Body.String())
	return envelope.Error
}
