package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satheeshds/homefinance/models"
	"github.com/satheeshds/homefinance/testutil"
)

func createDebt(t *testing.T, env *testutil.TestEnv, input models.DebtInput) models.Debt {
	t.Helper()
	rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodPost, "/api/v1/debts", env.Token, input))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var d models.Debt
	testutil.DecodeData(t, rr, &d)
	return d
}

func getDebt(t *testing.T, env *testutil.TestEnv, id int64) models.Debt {
	t.Helper()
	rr := testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/debts/%d", id), env.Token, nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var d models.Debt
	testutil.DecodeData(t, rr, &d)
	return d
}

func TestDebtPayoffMetrics(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	t.Run("AmortizedEstimate", func(t *testing.T) {
		d := createDebt(t, env, models.DebtInput{
			Name:           "Car Loan",
			Type:           "Car Loan",
			TotalAmount:    decimal.NewFromInt(5000),
			CurrentBalance: decimal.NewFromInt(2000),
			InterestRate:   decimal.NewFromInt(12),
			MinimumPayment: decimal.NewFromInt(200),
		})
		assert.InDelta(t, 60.0, d.PayoffProgressPercent, 0.001)
		assert.Equal(t, "months", d.PayoffEstimate)
		require.NotNil(t, d.EstimatedPayoffMonths)
		assert.Equal(t, 11, *d.EstimatedPayoffMonths)
	})

	t.Run("PaymentBelowInterest", func(t *testing.T) {
		d := createDebt(t, env, models.DebtInput{
			Name:           "Store Card",
			Type:           "Credit Card",
			TotalAmount:    decimal.NewFromInt(5000),
			CurrentBalance: decimal.NewFromInt(5000),
			InterestRate:   decimal.NewFromInt(24),
			MinimumPayment: decimal.NewFromInt(90),
		})
		assert.Equal(t, "never", d.PayoffEstimate)
		assert.Nil(t, d.EstimatedPayoffMonths)
		assert.InDelta(t, 0.0, d.PayoffProgressPercent, 0.001)
	})

	t.Run("NoMinimumPayment", func(t *testing.T) {
		d := createDebt(t, env, models.DebtInput{
			Name:           "Family Loan",
			Type:           "Other",
			TotalAmount:    decimal.NewFromInt(1000),
			CurrentBalance: decimal.NewFromInt(800),
		})
		assert.Equal(t, "undefined", d.PayoffEstimate)
		assert.Nil(t, d.EstimatedPayoffMonths)
	})

	t.Run("ZeroInterest", func(t *testing.T) {
		d := createDebt(t, env, models.DebtInput{
			Name:           "Laptop Plan",
			Type:           "Personal Loan",
			TotalAmount:    decimal.NewFromInt(1200),
			CurrentBalance: decimal.NewFromInt(1000),
			MinimumPayment: decimal.NewFromInt(300),
		})
		assert.Equal(t, "months", d.PayoffEstimate)
		require.NotNil(t, d.EstimatedPayoffMonths)
		assert.Equal(t, 4, *d.EstimatedPayoffMonths)
	})
}

func TestDebtValidation(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodPost, "/api/v1/debts", env.Token, models.DebtInput{
		Name:           "Mystery",
		Type:           "Payday Loan",
		TotalAmount:    decimal.NewFromInt(100),
		CurrentBalance: decimal.NewFromInt(100),
	}))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, testutil.ErrorMessage(t, rr), "type must be one of")
}

func TestUpdateDebt(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	d := createDebt(t, env, models.DebtInput{
		Name:           "Student Loan",
		Type:           "Student Loan",
		TotalAmount:    decimal.NewFromInt(20000),
		CurrentBalance: decimal.NewFromInt(15000),
		InterestRate:   decimal.NewFromInt(4),
		MinimumPayment: decimal.NewFromInt(250),
	})

	rr := testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodPut, fmt.Sprintf("/api/v1/debts/%d", d.ID), env.Token, models.DebtInput{
			Name:           "Student Loan",
			Type:           "Student Loan",
			TotalAmount:    decimal.NewFromInt(20000),
			CurrentBalance: decimal.NewFromInt(10000),
			InterestRate:   decimal.NewFromInt(4),
			MinimumPayment: decimal.NewFromInt(250),
		}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var updated models.Debt
	testutil.DecodeData(t, rr, &updated)
	assert.True(t, updated.CurrentBalance.Equal(decimal.NewFromInt(10000)))
	assert.InDelta(t, 50.0, updated.PayoffProgressPercent, 0.001)
}

func TestDebts_ScopedToOwner(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)
	otherToken, _ := env.RegisterUser(t, "Other User", "other@example.com")

	d := createDebt(t, env, models.DebtInput{
		Name:           "Visa",
		Type:           "Credit Card",
		TotalAmount:    decimal.NewFromInt(3000),
		CurrentBalance: decimal.NewFromInt(1500),
	})

	rr := testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/debts/%d", d.ID), otherToken, nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
