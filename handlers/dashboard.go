package handlers

import (
	"net/http"
	"sort"

	"github.com/satheeshds/homefinance/models"
	"github.com/shopspring/decimal"
)

// CategoryTotal is one slice of the expenses-by-category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type dashboardSummary struct {
	TotalIncome        decimal.Decimal  `json:"total_income"`
	TotalExpenses      decimal.Decimal  `json:"total_expenses"`
	Balance            decimal.Decimal  `json:"balance"`
	ExpensesByCategory []CategoryTotal  `json:"expenses_by_category"`
	RecentIncomes      []models.Income  `json:"recent_incomes"`
	RecentExpenses     []models.Expense `json:"recent_expenses"`
}

// sumAmounts totals one amount column in Go so decimals stay exact.
func sumAmounts(query string, args ...any) (decimal.Decimal, error) {
	rows, err := DB.Query(query, args...)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}
	return total, rows.Err()
}

// dateWindow appends optional start/end date conditions.
func dateWindow(r *http.Request, query string, args []any) (string, []any) {
	if start := r.URL.Query().Get("start_date"); start != "" {
		query += " AND date >= ?"
		args = append(args, start)
	}
	if end := r.URL.Query().Get("end_date"); end != "" {
		query += " AND date <= ?"
		args = append(args, end)
	}
	return query, args
}

// GetDashboardSummary retrieves dashboard summary statistics
// @Summary      Get dashboard summary
// @Description  Totals for income and expenses over an optional date range, a category breakdown, and recent entries.
// @Tags         dashboard
// @Produce      json
// @Param        start_date  query     string  false  "Window start (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Window end (YYYY-MM-DD)"
// @Success      200         {object}  Response{data=dashboardSummary}
// @Router       /dashboard/summary [get]
// @Security     BearerAuth
func GetDashboardSummary(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	var s dashboardSummary
	var err error

	incomeQuery, incomeArgs := dateWindow(r, "SELECT amount FROM incomes WHERE user_id = ?", []any{uid})
	if s.TotalIncome, err = sumAmounts(incomeQuery, incomeArgs...); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	expenseQuery, expenseArgs := dateWindow(r, "SELECT amount FROM expenses WHERE user_id = ?", []any{uid})
	if s.TotalExpenses, err = sumAmounts(expenseQuery, expenseArgs...); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)

	// Per-category totals, largest first.
	catQuery, catArgs := dateWindow(r, "SELECT category, amount FROM expenses WHERE user_id = ?", []any{uid})
	rows, err := DB.Query(catQuery, catArgs...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	byCategory := map[string]decimal.Decimal{}
	for rows.Next() {
		var category string
		var amount decimal.Decimal
		if err := rows.Scan(&category, &amount); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		byCategory[category] = byCategory[category].Add(amount)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.ExpensesByCategory = make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		s.ExpensesByCategory = append(s.ExpensesByCategory, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(s.ExpensesByCategory, func(i, j int) bool {
		return s.ExpensesByCategory[i].Total.GreaterThan(s.ExpensesByCategory[j].Total)
	})

	recentIncomeQuery, recentIncomeArgs := dateWindow(r, incomeSelectQuery+" WHERE user_id = ?", []any{uid})
	incomeRows, err := DB.Query(recentIncomeQuery+" ORDER BY date DESC LIMIT 5", recentIncomeArgs...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer incomeRows.Close()
	s.RecentIncomes = []models.Income{}
	for incomeRows.Next() {
		entry, err := scanIncome(incomeRows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.RecentIncomes = append(s.RecentIncomes, entry)
	}

	recentExpenseQuery, recentExpenseArgs := dateWindow(r, expenseSelectQuery+" WHERE user_id = ?", []any{uid})
	expenseRows, err := DB.Query(recentExpenseQuery+" ORDER BY date DESC LIMIT 5", recentExpenseArgs...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer expenseRows.Close()
	s.RecentExpenses = []models.Expense{}
	for expenseRows.Next() {
		entry, err := scanExpense(expenseRows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.RecentExpenses = append(s.RecentExpenses, entry)
	}

	writeJSON(w, http.StatusOK, s)
}
