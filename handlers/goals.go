package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/satheeshds/homefinance/models"
)

const goalSelectQuery = `SELECT id, user_id, name, target_amount, current_amount, target_date,
	monthly_contribution, description, icon, is_completed, created_at FROM savings_goals`

func scanGoal(scanner interface{ Scan(...any) error }) (models.SavingsGoal, error) {
	var g models.SavingsGoal
	err := scanner.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.TargetDate, &g.MonthlyContribution, &g.Description, &g.Icon, &g.IsCompleted, &g.CreatedAt)
	return g, err
}

func getGoalByID(uid, id int64) (models.SavingsGoal, error) {
	return scanGoal(DB.QueryRow(goalSelectQuery+" WHERE id = ? AND user_id = ?", id, uid))
}

// ListGoals lists all savings goals
// @Summary      List savings goals
// @Tags         goals
// @Produce      json
// @Success      200  {object}  Response{data=[]models.SavingsGoal}
// @Router       /goals [get]
// @Security     BearerAuth
func ListGoals(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(goalSelectQuery+" WHERE user_id = ? ORDER BY created_at DESC", userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var goals []models.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		goals = append(goals, g)
	}
	if goals == nil {
		goals = []models.SavingsGoal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

// GetGoal retrieves a single savings goal by ID
// @Summary      Get savings goal
// @Tags         goals
// @Produce      json
// @Param        id   path      int  true  "Goal ID"
// @Success      200  {object}  Response{data=models.SavingsGoal}
// @Failure      404  {object}  Response{error=string}
// @Router       /goals/{id} [get]
// @Security     BearerAuth
func GetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := getGoalByID(userID(r), idParam(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "goal not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// CreateGoal creates a new savings goal
// @Summary      Create savings goal
// @Tags         goals
// @Accept       json
// @Produce      json
// @Param        goal  body      models.SavingsGoalInput  true  "Goal contents"
// @Success      201   {object}  Response{data=models.SavingsGoal}
// @Failure      400   {object}  Response{error=string}
// @Router       /goals [post]
// @Security     BearerAuth
func CreateGoal(w http.ResponseWriter, r *http.Request) {
	var input models.SavingsGoalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int64
	err := DB.QueryRow(`INSERT INTO savings_goals (user_id, name, target_amount, current_amount, target_date, monthly_contribution, description, icon, is_completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		userID(r), input.Name, input.TargetAmount, input.CurrentAmount, input.TargetDate,
		input.MonthlyContribution, input.Description, input.Icon, input.IsCompleted).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	g, err := getGoalByID(userID(r), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created goal: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// UpdateGoal updates an existing savings goal
// @Summary      Update savings goal
// @Tags         goals
// @Accept       json
// @Produce      json
// @Param        id    path      int                      true  "Goal ID"
// @Param        goal  body      models.SavingsGoalInput  true  "Updated goal contents"
// @Success      200   {object}  Response{data=models.SavingsGoal}
// @Failure      400   {object}  Response{error=string}
// @Failure      404   {object}  Response{error=string}
// @Router       /goals/{id} [put]
// @Security     BearerAuth
func UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var input models.SavingsGoalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE savings_goals SET name = ?, target_amount = ?, current_amount = ?,
		target_date = ?, monthly_contribution = ?, description = ?, icon = ?, is_completed = ?
		WHERE id = ? AND user_id = ?`,
		input.Name, input.TargetAmount, input.CurrentAmount, input.TargetDate,
		input.MonthlyContribution, input.Description, input.Icon, input.IsCompleted,
		idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	g, err := getGoalByID(userID(r), idParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated goal: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// DeleteGoal deletes a savings goal
// @Summary      Delete savings goal
// @Tags         goals
// @Produce      json
// @Param        id   path      int  true  "Goal ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /goals/{id} [delete]
// @Security     BearerAuth
func DeleteGoal(w http.ResponseWriter, r *http.Request) {
	res, err := DB.Exec("DELETE FROM savings_goals WHERE id = ? AND user_id = ?", idParam(r), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
