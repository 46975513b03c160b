package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/satheeshds/homefinance/models"
	"github.com/shopspring/decimal"
)

const budgetSelectQuery = `SELECT id, user_id, category, amount, period, alert_threshold,
	created_at, updated_at FROM budgets`

// periodStart returns the first day of the current budget window.
func periodStart(period string, now time.Time) time.Time {
	switch period {
	case "weekly":
		// Weeks start on Monday.
		offset := (int(now.Weekday()) + 6) % 7
		return time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())
	case "yearly":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

// budgetSpent sums the category's expenses since the window start. Summing
// happens in Go so decimal amounts stay exact.
func budgetSpent(uid int64, category, period string) (decimal.Decimal, error) {
	start := periodStart(period, Clock()).Format(models.DateFormat)
	rows, err := DB.Query(`SELECT amount FROM expenses WHERE user_id = ? AND category = ? AND date >= ?`,
		uid, category, start)
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

func scanBudget(scanner interface{ Scan(...any) error }) (models.Budget, error) {
	var b models.Budget
	err := scanner.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Period,
		&b.AlertThreshold, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func decorateBudget(b *models.Budget) error {
	spent, err := budgetSpent(b.UserID, b.Category, b.Period)
	if err != nil {
		return err
	}
	b.Spent = spent
	if b.Amount.IsPositive() {
		pct, _ := spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Float64()
		b.PercentUsed = pct
	}
	return nil
}

func getBudgetByID(uid, id int64) (models.Budget, error) {
	b, err := scanBudget(DB.QueryRow(budgetSelectQuery+" WHERE id = ? AND user_id = ?", id, uid))
	if err != nil {
		return b, err
	}
	return b, decorateBudget(&b)
}

// ListBudgets lists all budgets
// @Summary      List budgets
// @Description  Get the caller's budgets with spent totals for the current period.
// @Tags         budgets
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Budget}
// @Router       /budgets [get]
// @Security     BearerAuth
func ListBudgets(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(budgetSelectQuery+" WHERE user_id = ? ORDER BY created_at DESC", userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for i := range budgets {
		if err := decorateBudget(&budgets[i]); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

// GetBudget retrieves a single budget by ID
// @Summary      Get budget
// @Tags         budgets
// @Produce      json
// @Param        id   path      int  true  "Budget ID"
// @Success      200  {object}  Response{data=models.Budget}
// @Failure      404  {object}  Response{error=string}
// @Router       /budgets/{id} [get]
// @Security     BearerAuth
func GetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := getBudgetByID(userID(r), idParam(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "budget not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// CreateBudget creates a new budget
// @Summary      Create budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        budget  body      models.BudgetInput  true  "Budget contents"
// @Success      201     {object}  Response{data=models.Budget}
// @Failure      400     {object}  Response{error=string}
// @Router       /budgets [post]
// @Security     BearerAuth
func CreateBudget(w http.ResponseWriter, r *http.Request) {
	var input models.BudgetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int64
	err := DB.QueryRow(`INSERT INTO budgets (user_id, category, amount, period, alert_threshold)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		userID(r), input.Category, input.Amount, input.Period, input.AlertThreshold).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	b, err := getBudgetByID(userID(r), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created budget: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// UpdateBudget updates an existing budget
// @Summary      Update budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id      path      int                 true  "Budget ID"
// @Param        budget  body      models.BudgetInput  true  "Updated budget contents"
// @Success      200     {object}  Response{data=models.Budget}
// @Failure      400     {object}  Response{error=string}
// @Failure      404     {object}  Response{error=string}
// @Router       /budgets/{id} [put]
// @Security     BearerAuth
func UpdateBudget(w http.ResponseWriter, r *http.Request) {
	var input models.BudgetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE budgets SET category = ?, amount = ?, period = ?, alert_threshold = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		input.Category, input.Amount, input.Period, input.AlertThreshold, idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "budget not found")
		return
	}

	b, err := getBudgetByID(userID(r), idParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated budget: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// DeleteBudget deletes a budget
// @Summary      Delete budget
// @Tags         budgets
// @Produce      json
// @Param        id   path      int  true  "Budget ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /budgets/{id} [delete]
// @Security     BearerAuth
func DeleteBudget(w http.ResponseWriter, r *http.Request) {
	res, err := DB.Exec("DELETE FROM budgets WHERE id = ? AND user_id = ?", idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "budget not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
