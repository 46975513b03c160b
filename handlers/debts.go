package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/satheeshds/homefinance/amortize"
	"github.com/satheeshds/homefinance/models"
)

const debtSelectQuery = `SELECT id, user_id, name, type, total_amount, current_balance,
	interest_rate, minimum_payment, due_date_day, notes, created_at, updated_at
	FROM debts`

func scanDebt(scanner interface{ Scan(...any) error }) (models.Debt, error) {
	var d models.Debt
	err := scanner.Scan(&d.ID, &d.UserID, &d.Name, &d.Type, &d.TotalAmount, &d.CurrentBalance,
		&d.InterestRate, &d.MinimumPayment, &d.DueDateDay, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err == nil {
		decorateDebt(&d)
	}
	return d, err
}

// decorateDebt fills the read-only payoff metrics.
func decorateDebt(d *models.Debt) {
	pct := amortize.ProgressPercent(d.TotalAmount, d.CurrentBalance)
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	d.PayoffProgressPercent = pct

	est := amortize.MonthsToPayoff(d.CurrentBalance, d.InterestRate, d.MinimumPayment)
	d.PayoffEstimate = est.Outcome.String()
	if est.Outcome == amortize.OutcomeMonths {
		months := est.Months
		d.EstimatedPayoffMonths = &months
	}
}

func getDebtByID(uid, id int64) (models.Debt, error) {
	return scanDebt(DB.QueryRow(debtSelectQuery+" WHERE id = ? AND user_id = ?", id, uid))
}

// ListDebts lists all debts
// @Summary      List debts
// @Description  Get the caller's debts, newest first, with payoff progress and months-to-payoff estimates.
// @Tags         debts
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Debt}
// @Router       /debts [get]
// @Security     BearerAuth
func ListDebts(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(debtSelectQuery+" WHERE user_id = ? ORDER BY created_at DESC", userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		debts = append(debts, d)
	}
	if debts == nil {
		debts = []models.Debt{}
	}
	writeJSON(w, http.StatusOK, debts)
}

// GetDebt retrieves a single debt by ID
// @Summary      Get debt
// @Tags         debts
// @Produce      json
// @Param        id   path      int  true  "Debt ID"
// @Success      200  {object}  Response{data=models.Debt}
// @Failure      404  {object}  Response{error=string}
// @Router       /debts/{id} [get]
// @Security     BearerAuth
func GetDebt(w http.ResponseWriter, r *http.Request) {
	d, err := getDebtByID(userID(r), idParam(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "debt not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CreateDebt creates a new debt
// @Summary      Create debt
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        debt  body      models.DebtInput  true  "Debt contents"
// @Success      201   {object}  Response{data=models.Debt}
// @Failure      400   {object}  Response{error=string}
// @Router       /debts [post]
// @Security     BearerAuth
func CreateDebt(w http.ResponseWriter, r *http.Request) {
	var input models.DebtInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int64
	err := DB.QueryRow(`INSERT INTO debts (user_id, name, type, total_amount, current_balance, interest_rate, minimum_payment, due_date_day, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		userID(r), input.Name, input.Type, input.TotalAmount, input.CurrentBalance,
		input.InterestRate, input.MinimumPayment, input.DueDateDay, input.Notes).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	d, err := getDebtByID(userID(r), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created debt: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// UpdateDebt updates an existing debt
// @Summary      Update debt
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Debt ID"
// @Param        debt  body      models.DebtInput  true  "Updated debt contents"
// @Success      200   {object}  Response{data=models.Debt}
// @Failure      400   {object}  Response{error=string}
// @Failure      404   {object}  Response{error=string}
// @Router       /debts/{id} [put]
// @Security     BearerAuth
func UpdateDebt(w http.ResponseWriter, r *http.Request) {
	var input models.DebtInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE debts SET name = ?, type = ?, total_amount = ?, current_balance = ?,
		interest_rate = ?, minimum_payment = ?, due_date_day = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		input.Name, input.Type, input.TotalAmount, input.CurrentBalance, input.InterestRate,
		input.MinimumPayment, input.DueDateDay, input.Notes, idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "debt not found")
		return
	}

	d, err := getDebtByID(userID(r), idParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated debt: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteDebt deletes a debt and its payment history
// @Summary      Delete debt
// @Tags         debts
// @Produce      json
// @Param        id   path      int  true  "Debt ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /debts/{id} [delete]
// @Security     BearerAuth
func DeleteDebt(w http.ResponseWriter, r *http.Request) {
	res, err := DB.Exec("DELETE FROM debts WHERE id = ? AND user_id = ?", idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "debt not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
