package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/satheeshds/homefinance/models"
	"github.com/shopspring/decimal"
)

const paymentSelectQuery = `SELECT p.id, p.user_id, p.debt_id, p.amount, p.payment_date, p.description, p.created_at,
	d.name, d.type
	FROM debt_payments p
	JOIN debts d ON p.debt_id = d.id`

func scanPayment(scanner interface{ Scan(...any) error }) (models.DebtPayment, error) {
	var p models.DebtPayment
	err := scanner.Scan(&p.ID, &p.UserID, &p.DebtID, &p.Amount, &p.PaymentDate,
		&p.Description, &p.CreatedAt, &p.DebtName, &p.DebtType)
	return p, err
}

func listPayments(w http.ResponseWriter, query string, args ...any) {
	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var payments []models.DebtPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		payments = append(payments, p)
	}
	if payments == nil {
		payments = []models.DebtPayment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

// ListDebtPayments lists all debt payments
// @Summary      List debt payments
// @Description  Get the caller's debt payments, newest first, with debt name and type.
// @Tags         debt-payments
// @Produce      json
// @Success      200  {object}  Response{data=[]models.DebtPayment}
// @Router       /debt-payments [get]
// @Security     BearerAuth
func ListDebtPayments(w http.ResponseWriter, r *http.Request) {
	listPayments(w, paymentSelectQuery+" WHERE p.user_id = ? ORDER BY p.payment_date DESC", userID(r))
}

// ListDebtPaymentsByDebt lists payments for one debt
// @Summary      List payments for a debt
// @Tags         debt-payments
// @Produce      json
// @Param        debtId  path      int  true  "Debt ID"
// @Success      200     {object}  Response{data=[]models.DebtPayment}
// @Router       /debt-payments/debt/{debtId} [get]
// @Security     BearerAuth
func ListDebtPaymentsByDebt(w http.ResponseWriter, r *http.Request) {
	debtID, _ := strconv.ParseInt(chi.URLParam(r, "debtId"), 10, 64)
	listPayments(w, paymentSelectQuery+" WHERE p.user_id = ? AND p.debt_id = ? ORDER BY p.payment_date DESC",
		userID(r), debtID)
}

// CreateDebtPayment posts a payment against a debt
// @Summary      Post debt payment
// @Description  Record a payment and decrement the debt balance in one transaction. The payment must not exceed the current balance.
// @Tags         debt-payments
// @Accept       json
// @Produce      json
// @Param        payment  body      models.DebtPaymentInput  true  "Payment contents"
// @Success      201      {object}  Response{data=models.DebtPayment}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Failure      409      {object}  Response{error=string}
// @Router       /debt-payments [post]
// @Security     BearerAuth
func CreateDebtPayment(w http.ResponseWriter, r *http.Request) {
	var input models.DebtPaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if input.PaymentDate == "" {
		input.PaymentDate = Clock().Format(models.DateFormat)
	}

	uid := userID(r)
	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	// Read the balance inside the transaction; the later compare-and-swap
	// update keeps two concurrent postings from losing one of them.
	var rawBalance string
	err = tx.QueryRow(`SELECT current_balance FROM debts WHERE id = ? AND user_id = ?`,
		input.DebtID, uid).Scan(&rawBalance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "debt not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	balance, err := decimal.NewFromString(rawBalance)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "corrupt balance on debt: "+err.Error())
		return
	}
	if input.Amount.GreaterThan(balance) {
		writeError(w, http.StatusBadRequest, "payment amount exceeds current balance")
		return
	}

	res, err := tx.Exec(`UPDATE debts SET current_balance = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ? AND current_balance = ?`,
		balance.Sub(input.Amount), input.DebtID, uid, rawBalance)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusConflict, "debt balance changed concurrently, retry the payment")
		return
	}

	var id int64
	err = tx.QueryRow(`INSERT INTO debt_payments (user_id, debt_id, amount, payment_date, description)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		uid, input.DebtID, input.Amount, input.PaymentDate, input.Description).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The payment row and the balance decrement land together or not at all.
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, "payment not recorded: "+err.Error())
		return
	}

	p, err := scanPayment(DB.QueryRow(paymentSelectQuery+" WHERE p.id = ? AND p.user_id = ?", id, uid))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created payment: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// DeleteDebtPayment deletes a payment and restores the debt balance
// @Summary      Delete debt payment
// @Description  Remove a payment and add its amount back to the debt balance in one transaction.
// @Tags         debt-payments
// @Produce      json
// @Param        id   path      int  true  "Payment ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /debt-payments/{id} [delete]
// @Security     BearerAuth
func DeleteDebtPayment(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	var debtID int64
	var amount decimal.Decimal
	err = tx.QueryRow(`SELECT debt_id, amount FROM debt_payments WHERE id = ? AND user_id = ?`,
		idParam(r), uid).Scan(&debtID, &amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "payment not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	var rawBalance string
	err = tx.QueryRow(`SELECT current_balance FROM debts WHERE id = ? AND user_id = ?`,
		debtID, uid).Scan(&rawBalance)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	balance, err := decimal.NewFromString(rawBalance)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "corrupt balance on debt: "+err.Error())
		return
	}

	res, err := tx.Exec(`UPDATE debts SET current_balance = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ? AND current_balance = ?`,
		balance.Add(amount), debtID, uid, rawBalance)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusConflict, "debt balance changed concurrently, retry the deletion")
		return
	}

	if _, err := tx.Exec(`DELETE FROM debt_payments WHERE id = ? AND user_id = ?`, idParam(r), uid); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, "payment not deleted: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
