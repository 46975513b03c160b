package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/satheeshds/homefinance/models"
)

const incomeSelectQuery = `SELECT id, user_id, amount, category, source, description, date,
	is_recurring, recurring_frequency, created_at FROM incomes`

func scanIncome(scanner interface{ Scan(...any) error }) (models.Income, error) {
	var i models.Income
	err := scanner.Scan(&i.ID, &i.UserID, &i.Amount, &i.Category, &i.Source, &i.Description,
		&i.Date, &i.IsRecurring, &i.RecurringFrequency, &i.CreatedAt)
	return i, err
}

func getIncomeByID(uid, id int64) (models.Income, error) {
	return scanIncome(DB.QueryRow(incomeSelectQuery+" WHERE id = ? AND user_id = ?", id, uid))
}

// ListIncome lists all income entries
// @Summary      List income
// @Tags         income
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Income}
// @Router       /income [get]
// @Security     BearerAuth
func ListIncome(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(incomeSelectQuery+" WHERE user_id = ? ORDER BY date DESC", userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var entries []models.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		entries = append(entries, i)
	}
	if entries == nil {
		entries = []models.Income{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetIncome retrieves a single income entry by ID
// @Summary      Get income entry
// @Tags         income
// @Produce      json
// @Param        id   path      int  true  "Income ID"
// @Success      200  {object}  Response{data=models.Income}
// @Failure      404  {object}  Response{error=string}
// @Router       /income/{id} [get]
// @Security     BearerAuth
func GetIncome(w http.ResponseWriter, r *http.Request) {
	i, err := getIncomeByID(userID(r), idParam(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "income entry not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, i)
}

// CreateIncome creates a new income entry
// @Summary      Create income entry
// @Tags         income
// @Accept       json
// @Produce      json
// @Param        income  body      models.IncomeInput  true  "Income contents"
// @Success      201     {object}  Response{data=models.Income}
// @Failure      400     {object}  Response{error=string}
// @Router       /income [post]
// @Security     BearerAuth
func CreateIncome(w http.ResponseWriter, r *http.Request) {
	var input models.IncomeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int64
	err := DB.QueryRow(`INSERT INTO incomes (user_id, amount, category, source, description, date, is_recurring, recurring_frequency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		userID(r), input.Amount, input.Category, input.Source, input.Description,
		input.Date, input.IsRecurring, input.RecurringFrequency).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	i, err := getIncomeByID(userID(r), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created income: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, i)
}

// UpdateIncome updates an existing income entry
// @Summary      Update income entry
// @Tags         income
// @Accept       json
// @Produce      json
// @Param        id      path      int                 true  "Income ID"
// @Param        income  body      models.IncomeInput  true  "Updated income contents"
// @Success      200     {object}  Response{data=models.Income}
// @Failure      400     {object}  Response{error=string}
// @Failure      404     {object}  Response{error=string}
// @Router       /income/{id} [put]
// @Security     BearerAuth
func UpdateIncome(w http.ResponseWriter, r *http.Request) {
	var input models.IncomeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE incomes SET amount = ?, category = ?, source = ?, description = ?,
		date = ?, is_recurring = ?, recurring_frequency = ? WHERE id = ? AND user_id = ?`,
		input.Amount, input.Category, input.Source, input.Description, input.Date,
		input.IsRecurring, input.RecurringFrequency, idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "income entry not found")
		return
	}

	i, err := getIncomeByID(userID(r), idParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated income: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, i)
}

// DeleteIncome deletes an income entry
// @Summary      Delete income entry
// @Tags         income
// @Produce      json
// @Param        id   path      int  true  "Income ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /income/{id} [delete]
// @Security     BearerAuth
func DeleteIncome(w http.ResponseWriter, r *http.Request) {
	res, err := DB.Exec("DELETE FROM incomes WHERE id = ? AND user_id = ?", idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "income entry not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
