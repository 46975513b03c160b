package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satheeshds/homefinance/handlers"
	"github.com/satheeshds/homefinance/models"
	"github.com/satheeshds/homefinance/testutil"
)

func runChecks(t *testing.T, env *testutil.TestEnv) int {
	t.Helper()
	rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodPost, "/api/v1/notifications/check", env.Token, nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var result map[string]int
	testutil.DecodeData(t, rr, &result)
	return result["created"]
}

func listNotifications(t *testing.T, env *testutil.TestEnv) []models.Notification {
	t.Helper()
	rr := testutil.ExecuteRequest(t, env.Handler, testutil.NewRequest(t, http.MethodGet, "/api/v1/notifications", env.Token, nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var notifications []models.Notification
	testutil.DecodeData(t, rr, &notifications)
	return notifications
}

func TestBillReminderChecks(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)
	now := time.Now()

	// Due in two days with a seven-day reminder window: reminded.
	createBill(t, env, models.BillInput{
		Name:         "Electricity",
		Category:     "Utilities",
		Amount:       decimal.NewFromInt(85),
		DueDate:      now.AddDate(0, 0, 2).Format(models.DateFormat),
		ReminderDays: 7,
	})
	// Due far outside the window: not reminded.
	createBill(t, env, models.BillInput{
		Name:         "Property Tax",
		Category:     "Housing",
		Amount:       decimal.NewFromInt(4000),
		DueDate:      now.AddDate(0, 2, 0).Format(models.DateFormat),
		ReminderDays: 7,
	})
	// Auto-paid bills never get reminders.
	createBill(t, env, models.BillInput{
		Name:         "Streaming",
		Category:     "Entertainment",
		Amount:       decimal.NewFromInt(15),
		DueDate:      now.AddDate(0, 0, 1).Format(models.DateFormat),
		IsAutoPaid:   true,
		ReminderDays: 7,
	})
	// Already paid: nothing to remind about.
	createBill(t, env, models.BillInput{
		Name:         "Water",
		Category:     "Utilities",
		Amount:       decimal.NewFromInt(40),
		DueDate:      now.AddDate(0, 0, 3).Format(models.DateFormat),
		IsPaid:       true,
		ReminderDays: 7,
	})

	require.Equal(t, 1, runChecks(t, env))

	// New users default to email and push, so one reminder lands twice.
	notifications := listNotifications(t, env)
	require.Len(t, notifications, 2)
	channels := map[string]bool{}
	for _, n := range notifications {
		assert.Equal(t, models.NotificationBillReminder, n.Type)
		assert.Equal(t, "Bill Reminder: Electricity", n.Title)
		assert.Equal(t, "pending", n.Status)
		assert.False(t, n.Read)
		channels[n.Channel] = true
	}
	assert.True(t, channels[models.ChannelEmail])
	assert.True(t, channels[models.ChannelPush])

	// A second run on the same day creates nothing new.
	require.Equal(t, 0, runChecks(t, env))
	require.Len(t, listNotifications(t, env), 2)
}

func TestBudgetAlertChecks(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)
	today := time.Now().Format(models.DateFormat)

	createBudget(t, env, models.BudgetInput{
		Category: "Food",
		Amount:   decimal.NewFromInt(100),
	})
	createBudget(t, env, models.BudgetInput{
		Category: "Entertainment",
		Amount:   decimal.NewFromInt(100),
	})
	createExpense(t, env, models.ExpenseInput{Amount: decimal.NewFromInt(90), Category: "Food", Date: today})
	createExpense(t, env, models.ExpenseInput{Amount: decimal.NewFromInt(20), Category: "Entertainment", Date: today})

	// Food is at 90% of its 80% threshold; Entertainment is at 20%.
	require.Equal(t, 1, runChecks(t, env))

	notifications := listNotifications(t, env)
	require.NotEmpty(t, notifications)
	for _, n := range notifications {
		assert.Equal(t, models.NotificationBudgetAlert, n.Type)
		assert.Equal(t, "Budget Alert: Food", n.Title)
	}

	require.Equal(t, 0, runChecks(t, env), "alerts fire at most once per day")
}

func TestBillReminderChecks_NonUTCClock(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)

	// Notification rows are stamped in UTC by the database. With the server
	// clock in a zone far ahead of UTC the once-per-day dedup must still
	// hold, even when the local calendar date disagrees with the UTC one.
	handlers.Clock = func() time.Time {
		return time.Now().In(time.FixedZone("UTC+13", 13*3600))
	}

	createBill(t, env, models.BillInput{
		Name:         "Internet",
		Category:     "Utilities",
		Amount:       decimal.NewFromInt(60),
		DueDate:      time.Now().UTC().AddDate(0, 0, 2).Format(models.DateFormat),
		ReminderDays: 7,
	})

	require.Equal(t, 1, runChecks(t, env))
	require.Equal(t, 0, runChecks(t, env))
	require.Len(t, listNotifications(t, env), 2)
}

func TestNotificationReadFlow(t *testing.T) {
	env := testutil.SetupTestEnvironment(t)
	now := time.Now()

	createBill(t, env, models.BillInput{
		Name:         "Electricity",
		Category:     "Utilities",
		Amount:       decimal.NewFromInt(85),
		DueDate:      now.AddDate(0, 0, 2).Format(models.DateFormat),
		ReminderDays: 7,
	})
	require.Equal(t, 1, runChecks(t, env))

	notifications := listNotifications(t, env)
	require.Len(t, notifications, 2)

	rr := testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodPut, fmt.Sprintf("/api/v1/notifications/%d/read", notifications[0].ID), env.Token, nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var read models.Notification
	testutil.DecodeData(t, rr, &read)
	assert.True(t, read.Read)

	rr = testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodPut, "/api/v1/notifications/read-all", env.Token, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var counts map[string]int64
	testutil.DecodeData(t, rr, &counts)
	assert.Equal(t, int64(1), counts["count"], "only the remaining unread row is touched")

	for _, n := range listNotifications(t, env) {
		assert.True(t, n.Read)
	}

	rr = testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodDelete, fmt.Sprintf("/api/v1/notifications/%d", notifications[0].ID), env.Token, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, listNotifications(t, env), 1)

	rr = testutil.ExecuteRequest(t, env.Handler,
		testutil.NewRequest(t, http.MethodDelete, fmt.Sprintf("/api/v1/notifications/%d", notifications[0].ID), env.Token, nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
