package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/satheeshds/homefinance/models"
)

const expenseSelectQuery = `SELECT id, user_id, amount, category, description, date, created_at FROM expenses`

func scanExpense(scanner interface{ Scan(...any) error }) (models.Expense, error) {
	var e models.Expense
	err := scanner.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.Date, &e.CreatedAt)
	return e, err
}

func getExpenseByID(uid, id int64) (models.Expense, error) {
	return scanExpense(DB.QueryRow(expenseSelectQuery+" WHERE id = ? AND user_id = ?", id, uid))
}

// ListExpenses lists all expenses
// @Summary      List expenses
// @Description  Get the caller's expenses, newest first. Optional category filter.
// @Tags         expenses
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Success      200       {object}  Response{data=[]models.Expense}
// @Router       /expenses [get]
// @Security     BearerAuth
func ListExpenses(w http.ResponseWriter, r *http.Request) {
	query := expenseSelectQuery + " WHERE user_id = ?"
	args := []any{userID(r)}
	if c := r.URL.Query().Get("category"); c != "" {
		query += " AND category = ?"
		args = append(args, c)
	}
	query += " ORDER BY date DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		expenses = append(expenses, e)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

// GetExpense retrieves a single expense by ID
// @Summary      Get expense
// @Tags         expenses
// @Produce      json
// @Param        id   path      int  true  "Expense ID"
// @Success      200  {object}  Response{data=models.Expense}
// @Failure      404  {object}  Response{error=string}
// @Router       /expenses/{id} [get]
// @Security     BearerAuth
func GetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := getExpenseByID(userID(r), idParam(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "expense not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// CreateExpense creates a new expense
// @Summary      Create expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        expense  body      models.ExpenseInput  true  "Expense contents"
// @Success      201      {object}  Response{data=models.Expense}
// @Failure      400      {object}  Response{error=string}
// @Router       /expenses [post]
// @Security     BearerAuth
func CreateExpense(w http.ResponseWriter, r *http.Request) {
	var input models.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int64
	err := DB.QueryRow(`INSERT INTO expenses (user_id, amount, category, description, date)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		userID(r), input.Amount, input.Category, input.Description, input.Date).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	e, err := getExpenseByID(userID(r), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created expense: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// UpdateExpense updates an existing expense
// @Summary      Update expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Expense ID"
// @Param        expense  body      models.ExpenseInput  true  "Updated expense contents"
// @Success      200      {object}  Response{data=models.Expense}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /expenses/{id} [put]
// @Security     BearerAuth
func UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var input models.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE expenses SET amount = ?, category = ?, description = ?, date = ?
		WHERE id = ? AND user_id = ?`,
		input.Amount, input.Category, input.Description, input.Date, idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}

	e, err := getExpenseByID(userID(r), idParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated expense: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteExpense deletes an expense
// @Summary      Delete expense
// @Tags         expenses
// @Produce      json
// @Param        id   path      int  true  "Expense ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /expenses/{id} [delete]
// @Security     BearerAuth
func DeleteExpense(w http.ResponseWriter, r *http.Request) {
	res, err := DB.Exec("DELETE FROM expenses WHERE id = ? AND user_id = ?", idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
