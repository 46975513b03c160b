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

func TestExpenseCRUD(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	desc := "groceries"
	e := createExpense(t, env, models.ExpenseInput{
		Amount:      decimal.RequireFromString("54.20"),
		Category:    "Food",
		Description: &desc,
		Date:        "2025-06-10",
	})
	assert.True(t, e.Amount.Equal(decimal.RequireFromString("54.20")))
	require.NotNil(t, e.Description)
	assert.Equal(t, "groceries", *e.Description)

	rr := testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodPut, fmt.Sprintf("/api/v1/expenses/%d", e.ID), env.Token, models.ExpenseInput{
			Amount:   decimal.NewFromInt(60),
			Category: "Food",
			Date:     "2025-06-11",
		}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated models.Expense
	testutil.DecodeData(t, rr, &updated)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "2025-06-11", updated.Date)
	assert.Nil(t, updated.Description)

	rr = testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodDelete, fmt.Sprintf("/api/v1/expenses/%d", e.ID), env.Token, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/expenses/%d", e.ID), env.Token, nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListExpenses_CategoryFilter(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	createExpense(t, env, models.ExpenseInput{Amount: decimal.NewFromInt(20), Category: "Food", Date: "2025-06-01"})
	createExpense(t, env, models.ExpenseInput{Amount: decimal.NewFromInt(30), Category: "Food", Date: "2025-06-02"})
	createExpense(t, env, models.ExpenseInput{Amount: decimal.NewFromInt(15), Category: "Transportation", Date: "2025-06-03"})

	rr := testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodGet, "/api/v1/expenses?category=Food", env.Token, nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var expenses []models.Expense
	testutil.DecodeData(t, rr, &expenses)
	require.Len(t, expenses, 2)
	for _, e := range expenses {
		assert.Equal(t, "Food", e.Category)
	}
}

func TestCreateExpense_UnknownCategory(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodPost, "/api/v1/expenses", env.Token, models.ExpenseInput{
		Amount:   decimal.NewFromInt(20),
		Category: "Gambling",
		Date:     "2025-06-01",
	}))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "category is not a recognized expense category", testutil.ErrorMessage(t, rr))
}
