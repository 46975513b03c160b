package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/satheeshds/homefinance/models"
)

const billSelectQuery = `SELECT id, user_id, name, category, amount, due_date, is_auto_paid,
	is_paid, notes, reminder_days, is_recurring, recurrence_type, created_at, updated_at
	FROM bills`

func scanBill(scanner interface{ Scan(...any) error }) (models.Bill, error) {
	var b models.Bill
	err := scanner.Scan(&b.ID, &b.UserID, &b.Name, &b.Category, &b.Amount, &b.DueDate,
		&b.IsAutoPaid, &b.IsPaid, &b.Notes, &b.ReminderDays, &b.IsRecurring,
		&b.RecurrenceType, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func getBillByID(uid, id int64) (models.Bill, error) {
	return scanBill(DB.QueryRow(billSelectQuery+" WHERE id = ? AND user_id = ?", id, uid))
}

// BillStore adapts the bills table to the recurrence expander.
type BillStore struct {
	DB *sql.DB
}

// Exists reports whether a bill row with the dedup key already exists.
func (s *BillStore) Exists(ctx context.Context, uid int64, name, dueDate string, recurring bool) (bool, error) {
	var one int
	err := s.DB.QueryRowContext(ctx,
		`SELECT 1 FROM bills WHERE user_id = ? AND name = ? AND due_date = ? AND is_recurring = ?`,
		uid, name, dueDate, recurring).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// InsertBatch persists generated instances in one transaction. INSERT OR
// IGNORE lets a concurrent expansion of the same template win the race on
// the unique dedup index without failing the batch.
func (s *BillStore) InsertBatch(ctx context.Context, bills []models.Bill) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning batch insert: %w", err)
	}
	defer tx.Rollback()

	for _, b := range bills {
		_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO bills
			(user_id, name, category, amount, due_date, is_auto_paid, is_paid, notes, reminder_days, is_recurring, recurrence_type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.UserID, b.Name, b.Category, b.Amount, b.DueDate, b.IsAutoPaid, b.IsPaid,
			b.Notes, b.ReminderDays, b.IsRecurring, b.RecurrenceType)
		if err != nil {
			return fmt.Errorf("inserting instance due %s: %w", b.DueDate, err)
		}
	}
	return tx.Commit()
}

// expandRecurring is a best-effort enrichment after a bill write: failures
// are logged and never fail the triggering request.
func expandRecurring(ctx context.Context, bill models.Bill) {
	if !bill.IsRecurring {
		return
	}
	n, err := Expander.Expand(ctx, bill)
	if err != nil {
		slog.Error("recurring bill expansion failed", "bill_id", bill.ID, "err", err)
		return
	}
	if n > 0 {
		slog.Info("generated recurring bill instances", "bill", bill.Name, "count", n)
	}
}

// ListBills lists all bills
// @Summary      List bills
// @Description  Get the caller's bills ordered by due date.
// @Tags         bills
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Bill}
// @Router       /bills [get]
// @Security     BearerAuth
func ListBills(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(billSelectQuery+" WHERE user_id = ? ORDER BY due_date ASC", userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		bills = append(bills, b)
	}
	if bills == nil {
		bills = []models.Bill{}
	}
	writeJSON(w, http.StatusOK, bills)
}

// GetBill retrieves a single bill by ID
// @Summary      Get bill
// @Tags         bills
// @Produce      json
// @Param        id   path      int  true  "Bill ID"
// @Success      200  {object}  Response{data=models.Bill}
// @Failure      404  {object}  Response{error=string}
// @Router       /bills/{id} [get]
// @Security     BearerAuth
func GetBill(w http.ResponseWriter, r *http.Request) {
	b, err := getBillByID(userID(r), idParam(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "bill not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// CreateBill creates a new bill
// @Summary      Create bill
// @Description  Create a bill. Recurring bills also get their future instances generated, best-effort.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        bill  body      models.BillInput  true  "Bill contents"
// @Success      201   {object}  Response{data=models.Bill}
// @Failure      400   {object}  Response{error=string}
// @Router       /bills [post]
// @Security     BearerAuth
func CreateBill(w http.ResponseWriter, r *http.Request) {
	var input models.BillInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int64
	err := DB.QueryRow(`INSERT INTO bills (user_id, name, category, amount, due_date, is_auto_paid, is_paid, notes, reminder_days, is_recurring, recurrence_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		userID(r), input.Name, input.Category, input.Amount, input.DueDate, input.IsAutoPaid,
		input.IsPaid, input.Notes, input.ReminderDays, input.IsRecurring, input.RecurrenceType).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			writeError(w, http.StatusBadRequest, "a recurring bill with this name and due date already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	b, err := getBillByID(userID(r), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created bill: "+err.Error())
		return
	}

	expandRecurring(r.Context(), b)
	writeJSON(w, http.StatusCreated, b)
}

// UpdateBill updates an existing bill
// @Summary      Update bill
// @Description  Update a bill. A still-recurring bill re-runs instance generation, which is idempotent.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Bill ID"
// @Param        bill  body      models.BillInput  true  "Updated bill contents"
// @Success      200   {object}  Response{data=models.Bill}
// @Failure      400   {object}  Response{error=string}
// @Failure      404   {object}  Response{error=string}
// @Router       /bills/{id} [put]
// @Security     BearerAuth
func UpdateBill(w http.ResponseWriter, r *http.Request) {
	var input models.BillInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE bills SET name = ?, category = ?, amount = ?, due_date = ?,
		is_auto_paid = ?, is_paid = ?, notes = ?, reminder_days = ?, is_recurring = ?, recurrence_type = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		input.Name, input.Category, input.Amount, input.DueDate, input.IsAutoPaid, input.IsPaid,
		input.Notes, input.ReminderDays, input.IsRecurring, input.RecurrenceType, idParam(r), userID(r))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			writeError(w, http.StatusBadRequest, "a recurring bill with this name and due date already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "bill not found")
		return
	}

	b, err := getBillByID(userID(r), idParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated bill: "+err.Error())
		return
	}

	expandRecurring(r.Context(), b)
	writeJSON(w, http.StatusOK, b)
}

// DeleteBill deletes a bill
// @Summary      Delete bill
// @Tags         bills
// @Produce      json
// @Param        id   path      int  true  "Bill ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /bills/{id} [delete]
// @Security     BearerAuth
func DeleteBill(w http.ResponseWriter, r *http.Request) {
	res, err := DB.Exec("DELETE FROM bills WHERE id = ? AND user_id = ?", idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "bill not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
