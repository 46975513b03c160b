package handlers

import (
	"log/slog"
	"net/http"

	"github.com/satheeshds/homefinance/models"
)

const notificationSelectQuery = `SELECT id, user_id, type, channel, title, message, status,
	sent_at, read, created_at FROM notifications`

func scanNotification(scanner interface{ Scan(...any) error }) (models.Notification, error) {
	var n models.Notification
	err := scanner.Scan(&n.ID, &n.UserID, &n.Type, &n.Channel, &n.Title, &n.Message,
		&n.Status, &n.SentAt, &n.Read, &n.CreatedAt)
	return n, err
}

// ListNotifications lists all notifications
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Notification}
// @Router       /notifications [get]
// @Security     BearerAuth
func ListNotifications(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(notificationSelectQuery+" WHERE user_id = ? ORDER BY created_at DESC", userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		notifications = append(notifications, n)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkNotificationRead marks one notification as read
// @Summary      Mark notification read
// @Tags         notifications
// @Produce      json
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  Response{data=models.Notification}
// @Failure      404  {object}  Response{error=string}
// @Router       /notifications/{id}/read [put]
// @Security     BearerAuth
func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	res, err := DB.Exec("UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ?", idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}

	n, err := scanNotification(DB.QueryRow(notificationSelectQuery+" WHERE id = ? AND user_id = ?", idParam(r), userID(r)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// MarkAllNotificationsRead marks every notification as read
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  Response{data=map[string]int64}
// @Router       /notifications/read-all [put]
// @Security     BearerAuth
func MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	res, err := DB.Exec("UPDATE notifications SET read = 1 WHERE user_id = ? AND read = 0", userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	count, _ := res.RowsAffected()
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// DeleteNotification deletes a notification
// @Summary      Delete notification
// @Tags         notifications
// @Produce      json
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /notifications/{id} [delete]
// @Security     BearerAuth
func DeleteNotification(w http.ResponseWriter, r *http.Request) {
	res, err := DB.Exec("DELETE FROM notifications WHERE id = ? AND user_id = ?", idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// RunNotificationChecks evaluates reminders and alerts now
// @Summary      Run notification checks
// @Description  Scan the caller's upcoming bills and budget usage and record any due reminders or threshold alerts. Clients call this on refresh.
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  Response{data=map[string]int}
// @Router       /notifications/check [post]
// @Security     BearerAuth
func RunNotificationChecks(w http.ResponseWriter, r *http.Request) {
	user, err := getUserByID(userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	created := 0
	// created_at rows are stamped in UTC by the database, so the
	// once-per-day dedup below must compare against the UTC date or the
	// window misaligns around local midnight.
	today := Clock().UTC().Format(models.DateFormat)

	// Unpaid, manually paid bills inside their reminder window that have not
	// been reminded about today.
	rows, err := DB.Query(billSelectQuery+` WHERE user_id = ? AND is_paid = 0 AND is_auto_paid = 0
		AND due_date >= ? AND due_date <= date(?, '+' || reminder_days || ' days')
		AND NOT EXISTS (SELECT 1 FROM notifications n WHERE n.user_id = bills.user_id
			AND n.type = 'bill_reminder' AND n.title = 'Bill Reminder: ' || bills.name
			AND date(n.created_at) = ?)`,
		user.ID, today, today, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var dueBills []models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		dueBills = append(dueBills, b)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, b := range dueBills {
		if err := Notifier.BillReminder(r.Context(), user, b); err != nil {
			slog.Error("recording bill reminder failed", "bill_id", b.ID, "err", err)
			continue
		}
		created++
	}

	// Budgets past their alert threshold, once per day.
	budgetRows, err := DB.Query(budgetSelectQuery+` WHERE user_id = ?
		AND NOT EXISTS (SELECT 1 FROM notifications n WHERE n.user_id = budgets.user_id
			AND n.type = 'budget_alert' AND n.title = 'Budget Alert: ' || budgets.category
			AND date(n.created_at) = ?)`, user.ID, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer budgetRows.Close()

	var budgets []models.Budget
	for budgetRows.Next() {
		b, err := scanBudget(budgetRows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		budgets = append(budgets, b)
	}
	if err := budgetRows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for i := range budgets {
		if err := decorateBudget(&budgets[i]); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if budgets[i].PercentUsed < float64(budgets[i].AlertThreshold) {
			continue
		}
		if err := Notifier.BudgetAlert(r.Context(), user, budgets[i]); err != nil {
			slog.Error("recording budget alert failed", "budget_id", budgets[i].ID, "err", err)
			continue
		}
		created++
	}

	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}
