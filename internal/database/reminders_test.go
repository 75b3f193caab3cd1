package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChat = "5213321082748@s.whatsapp.net"

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestCreateReminder_KindDerivedFromTrigger(t *testing.T) {
	db := NewTestDB(t)

	task, err := db.CreateReminder(testChat, "Revisar documentos", nil)
	require.NoError(t, err)
	assert.Equal(t, ReminderKindTask, task.Kind)
	assert.Nil(t, task.TriggerAt)
	assert.Equal(t, ReminderStatusPending, task.Status)

	at := time.Now().Add(2 * time.Hour)
	scheduled, err := db.CreateReminder(testChat, "Comprar leche", &at)
	require.NoError(t, err)
	assert.Equal(t, ReminderKindScheduled, scheduled.Kind)
	require.NotNil(t, scheduled.TriggerAt)
	assert.Equal(t, at.Unix(), scheduled.TriggerAt.Unix())
}

func TestGetDueReminders_SelectsOnlyDue(t *testing.T) {
	db := NewTestDB(t)
	now := time.Now()

	due, err := db.CreateReminder(testChat, "Ya venció", timePtr(now.Add(-10*time.Second)))
	require.NoError(t, err)

	_, err = db.CreateReminder(testChat, "Todavía no", timePtr(now.Add(time.Hour)))
	require.NoError(t, err)

	_, err = db.CreateReminder(testChat, "Tarea sin fecha", nil)
	require.NoError(t, err)

	dueReminders, err := db.GetDueReminders(now)
	require.NoError(t, err)
	require.Len(t, dueReminders, 1)
	assert.Equal(t, due.ID, dueReminders[0].ID)
}

func TestGetDueReminders_ExcludesCompleted(t *testing.T) {
	db := NewTestDB(t)
	now := time.Now()

	reminder, err := db.CreateReminder(testChat, "Pagar tarjeta", timePtr(now.Add(-time.Minute)))
	require.NoError(t, err)

	changed, err := db.CompleteReminder(reminder.ID, now)
	require.NoError(t, err)
	require.True(t, changed)

	dueReminders, err := db.GetDueReminders(now)
	require.NoError(t, err)
	assert.Empty(t, dueReminders)
}

func TestCompleteReminder_Idempotent(t *testing.T) {
	db := NewTestDB(t)

	reminder, err := db.CreateReminder(testChat, "Llamar al doctor", nil)
	require.NoError(t, err)

	first, err := db.CompleteReminder(reminder.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, first)

	second, err := db.CompleteReminder(reminder.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, second)

	// Status never regresses
	got, err := db.GetReminderByID(reminder.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ReminderStatusCompleted, got.Status)
}

func TestCancelReminder_HardDelete(t *testing.T) {
	db := NewTestDB(t)

	reminder, err := db.CreateReminder(testChat, "Borrarme", nil)
	require.NoError(t, err)

	deleted, err := db.CancelReminder(reminder.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := db.GetReminderByID(reminder.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	deletedAgain, err := db.CancelReminder(reminder.ID)
	require.NoError(t, err)
	assert.False(t, deletedAgain)
}

func TestSetTriggerDate_PromotesTask(t *testing.T) {
	db := NewTestDB(t)

	task, err := db.CreateReminder(testChat, "Revisar pendientes", nil)
	require.NoError(t, err)

	at := time.Now().Add(30 * time.Minute)
	changed, err := db.SetTriggerDate(task.ID, at)
	require.NoError(t, err)
	require.True(t, changed)

	got, err := db.GetReminderByID(task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ReminderKindScheduled, got.Kind)
	require.NotNil(t, got.TriggerAt)
	assert.Equal(t, at.Unix(), got.TriggerAt.Unix())
}

func TestSetTriggerDate_RejectsCompleted(t *testing.T) {
	db := NewTestDB(t)

	reminder, err := db.CreateReminder(testChat, "Ya pasó", timePtr(time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	_, err = db.CompleteReminder(reminder.ID, time.Now())
	require.NoError(t, err)

	changed, err := db.SetTriggerDate(reminder.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestGetRemindersForChat_Ordering(t *testing.T) {
	db := NewTestDB(t)
	now := time.Now()

	later, err := db.CreateReminder(testChat, "Más tarde", timePtr(now.Add(3*time.Hour)))
	require.NoError(t, err)
	soon, err := db.CreateReminder(testChat, "Pronto", timePtr(now.Add(time.Hour)))
	require.NoError(t, err)
	task, err := db.CreateReminder(testChat, "Sin fecha", nil)
	require.NoError(t, err)

	// A reminder for another chat must not leak in
	_, err = db.CreateReminder("otro@s.whatsapp.net", "Ajeno", nil)
	require.NoError(t, err)

	reminders, err := db.GetRemindersForChat(testChat, false)
	require.NoError(t, err)
	require.Len(t, reminders, 3)
	assert.Equal(t, soon.ID, reminders[0].ID)
	assert.Equal(t, later.ID, reminders[1].ID)
	assert.Equal(t, task.ID, reminders[2].ID)
}

func TestGetLastCompletedReminder_LookbackBoundary(t *testing.T) {
	db := NewTestDB(t)
	now := time.Now()

	stale, err := db.CreateReminder(testChat, "Viejo", timePtr(now.Add(-2*time.Hour)))
	require.NoError(t, err)
	_, err = db.CompleteReminder(stale.ID, now.Add(-31*time.Minute))
	require.NoError(t, err)

	since := now.Add(-30 * time.Minute)

	got, err := db.GetLastCompletedReminder(testChat, since)
	require.NoError(t, err)
	assert.Nil(t, got, "a reminder completed 31 minutes ago is outside the window")

	fresh, err := db.CreateReminder(testChat, "Reciente", timePtr(now.Add(-time.Hour)))
	require.NoError(t, err)
	_, err = db.CompleteReminder(fresh.ID, now.Add(-29*time.Minute))
	require.NoError(t, err)

	got, err = db.GetLastCompletedReminder(testChat, since)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, fresh.ID, got.ID)
}
