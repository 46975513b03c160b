package main

//go:generate swag init

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/satheeshds/homefinance/auth"
	"github.com/satheeshds/homefinance/config"
	"github.com/satheeshds/homefinance/db"
	_ "github.com/satheeshds/homefinance/docs"
	"github.com/satheeshds/homefinance/handlers"
	"github.com/satheeshds/homefinance/logging"
	"github.com/satheeshds/homefinance/metrics"
	"github.com/satheeshds/homefinance/notify"
	"github.com/satheeshds/homefinance/recurrence"
)

// @title           Home Finance API
// @version         1.0.0
// @description     API for tracking income, expenses, budgets, bills, debts, savings goals, and notifications.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in              header
// @name            Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Shared handler dependencies
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	handlers.DB = database
	handlers.Tokens = tokens
	handlers.Expander = recurrence.NewExpander(&handlers.BillStore{DB: database}, nil)
	handlers.Notifier = notify.NewRecorder(database, nil, nil)

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens))

			r.Get("/auth/me", handlers.Me)
			r.Put("/auth/settings", handlers.UpdateSettings)

			// Bills
			r.Get("/bills", handlers.ListBills)
			r.Post("/bills", handlers.CreateBill)
			r.Get("/bills/{id}", handlers.GetBill)
			r.Put("/bills/{id}", handlers.UpdateBill)
			r.Delete("/bills/{id}", handlers.DeleteBill)

			// Debts
			r.Get("/debts", handlers.ListDebts)
			r.Post("/debts", handlers.CreateDebt)
			r.Get("/debts/{id}", handlers.GetDebt)
			r.Put("/debts/{id}", handlers.UpdateDebt)
			r.Delete("/debts/{id}", handlers.DeleteDebt)

			// Debt payments
			r.Get("/debt-payments", handlers.ListDebtPayments)
			r.Post("/debt-payments", handlers.CreateDebtPayment)
			r.Get("/debt-payments/debt/{debtId}", handlers.ListDebtPaymentsByDebt)
			r.Delete("/debt-payments/{id}", handlers.DeleteDebtPayment)

			// Income
			r.Get("/income", handlers.ListIncome)
			r.Post("/income", handlers.CreateIncome)
			r.Get("/income/{id}", handlers.GetIncome)
			r.Put("/income/{id}", handlers.UpdateIncome)
			r.Delete("/income/{id}", handlers.DeleteIncome)

			// Expenses
			r.Get("/expenses", handlers.ListExpenses)
			r.Post("/expenses", handlers.CreateExpense)
			r.Get("/expenses/{id}", handlers.GetExpense)
			r.Put("/expenses/{id}", handlers.UpdateExpense)
			r.Delete("/expenses/{id}", handlers.DeleteExpense)

			// Budgets
			r.Get("/budgets", handlers.ListBudgets)
			r.Post("/budgets", handlers.CreateBudget)
			r.Get("/budgets/{id}", handlers.GetBudget)
			r.Put("/budgets/{id}", handlers.UpdateBudget)
			r.Delete("/budgets/{id}", handlers.DeleteBudget)

			// Savings goals
			r.Get("/goals", handlers.ListGoals)
			r.Post("/goals", handlers.CreateGoal)
			r.Get("/goals/{id}", handlers.GetGoal)
			r.Put("/goals/{id}", handlers.UpdateGoal)
			r.Delete("/goals/{id}", handlers.DeleteGoal)

			// Notifications
			r.Get("/notifications", handlers.ListNotifications)
			r.Post("/notifications/check", handlers.RunNotificationChecks)
			r.Put("/notifications/read-all", handlers.MarkAllNotificationsRead)
			r.Put("/notifications/{id}/read", handlers.MarkNotificationRead)
			r.Delete("/notifications/{id}", handlers.DeleteNotification)

			// Dashboard
			r.Get("/dashboard/summary", handlers.GetDashboardSummary)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Start server
	addr := ":" + cfg.Port
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
