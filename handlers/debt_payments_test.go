package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satheeshds/homefinance/models"
	"github.com/satheeshds/homefinance/testutil"
)

func listDebtPayments(t *testing.T, env *testutil.TestEnv, token string) []models.DebtPayment {
	t.Helper()
	rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodGet, "/api/v1/debt-payments", token, nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var payments []models.DebtPayment
	testutil.DecodeData(t, rr, &payments)
	return payments
}

func TestCreateDebtPayment(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	debt := createDebt(t, env, models.DebtInput{
		Name:           "Visa",
		Type:           "Credit Card",
		TotalAmount:    decimal.NewFromInt(5000),
		CurrentBalance: decimal.NewFromInt(5000),
		InterestRate:   decimal.NewFromInt(24),
		MinimumPayment: decimal.NewFromInt(90),
	})

	rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodPost, "/api/v1/debt-payments", env.Token, models.DebtPaymentInput{
		DebtID:      debt.ID,
		Amount:      decimal.NewFromInt(90),
		PaymentDate: "2026-08-01",
	}))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var p models.DebtPayment
	testutil.DecodeData(t, rr, &p)
	assert.Equal(t, debt.ID, p.DebtID)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, "2026-08-01", p.PaymentDate)
	require.NotNil(t, p.DebtName)
	assert.Equal(t, "Visa", *p.DebtName)
	require.NotNil(t, p.DebtType)
	assert.Equal(t, "Credit Card", *p.DebtType)

	// The balance decrement lands with the payment.
	assert.True(t, getDebt(t, env, debt.ID).CurrentBalance.Equal(decimal.NewFromInt(4910)))
}

func TestCreateDebtPayment_DefaultsToToday(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	debt := createDebt(t, env, models.DebtInput{
		Name:           "Visa",
		Type:           "Credit Card",
		TotalAmount:    decimal.NewFromInt(1000),
		CurrentBalance: decimal.NewFromInt(1000),
	})

	rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodPost, "/api/v1/debt-payments", env.Token, models.DebtPaymentInput{
		DebtID: debt.ID,
		Amount: decimal.NewFromInt(50),
	}))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var p models.DebtPayment
	testutil.DecodeData(t, rr, &p)
	assert.Equal(t, time.Now().Format(models.DateFormat), p.PaymentDate)
}

func TestCreateDebtPayment_ExceedsBalance(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	debt := createDebt(t, env, models.DebtInput{
		Name:           "Car Loan",
		Type:           "Car Loan",
		TotalAmount:    decimal.NewFromInt(8000),
		CurrentBalance: decimal.NewFromInt(100),
	})

	rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodPost, "/api/v1/debt-payments", env.Token, models.DebtPaymentInput{
		DebtID: debt.ID,
		Amount: decimal.NewFromInt(150),
	}))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "payment amount exceeds current balance", testutil.ErrorMessage(t, rr))

	// A rejected payment leaves the ledger untouched.
	assert.True(t, getDebt(t, env, debt.ID).CurrentBalance.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, listDebtPayments(t, env, env.Token))
}

func TestCreateDebtPayment_UnknownDebt(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodPost, "/api/v1/debt-payments", env.Token, models.DebtPaymentInput{
		DebtID: 999,
		Amount: decimal.NewFromInt(10),
	}))
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "debt not found", testutil.ErrorMessage(t, rr))
}

func TestCreateDebtPayment_OtherUsersDebt(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)
	otherToken, _ := env.RegisterUser(t, "Other User", "other@example.com")

	debt := createDebt(t, env, models.DebtInput{
		Name:           "Mortgage",
		Type:           "Mortgage",
		TotalAmount:    decimal.NewFromInt(200000),
		CurrentBalance: decimal.NewFromInt(150000),
	})

	rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodPost, "/api/v1/debt-payments", otherToken, models.DebtPaymentInput{
		DebtID: debt.ID,
		Amount: decimal.NewFromInt(100),
	}))
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.True(t, getDebt(t, env, debt.ID).CurrentBalance.Equal(decimal.NewFromInt(150000)))
}

func TestDeleteDebtPayment_RestoresBalance(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	debt := createDebt(t, env, models.DebtInput{
		Name:           "Visa",
		Type:           "Credit Card",
		TotalAmount:    decimal.NewFromInt(5000),
		CurrentBalance: decimal.NewFromInt(5000),
	})

	rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodPost, "/api/v1/debt-payments", env.Token, models.DebtPaymentInput{
		DebtID: debt.ID,
		Amount: decimal.RequireFromString("249.50"),
	}))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var p models.DebtPayment
	testutil.DecodeData(t, rr, &p)
	assert.True(t, getDebt(t, env, debt.ID).CurrentBalance.Equal(decimal.RequireFromString("4750.50")))

	rr = testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodDelete, fmt.Sprintf("/api/v1/debt-payments/%d", p.ID), env.Token, nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.True(t, getDebt(t, env, debt.ID).CurrentBalance.Equal(decimal.NewFromInt(5000)))
	assert.Empty(t, listDebtPayments(t, env, env.Token))
}

func TestListDebtPaymentsByDebt(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	visa := createDebt(t, env, models.DebtInput{
		Name: "Visa", Type: "Credit Card",
		TotalAmount: decimal.NewFromInt(5000), CurrentBalance: decimal.NewFromInt(5000),
	})
	carLoan := createDebt(t, env, models.DebtInput{
		Name: "Car Loan", Type: "Car Loan",
		TotalAmount: decimal.NewFromInt(9000), CurrentBalance: decimal.NewFromInt(9000),
	})

	for i, debtID := range []int64{visa.ID, visa.ID, carLoan.ID} {
		rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodPost, "/api/v1/debt-payments", env.Token, models.DebtPaymentInput{
			DebtID:      debtID,
			Amount:      decimal.NewFromInt(100),
			PaymentDate: fmt.Sprintf("2026-0%d-01", i+1),
		}))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	require.Len(t, listDebtPayments(t, env, env.Token), 3)

	rr := testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/debt-payments/debt/%d", visa.ID), env.Token, nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var payments []models.DebtPayment
	testutil.DecodeData(t, rr, &payments)
	require.Len(t, payments, 2)
	// Newest first.
	assert.Equal(t, "2026-02-01", payments[0].PaymentDate)
	assert.Equal(t, "2026-01-01", payments[1].PaymentDate)
}
