package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistente/internal/database"
	"asistente/internal/reminders"
	"asistente/internal/temporal"
)

const testChat = "5213321082748@s.whatsapp.net"

func newHandler(t *testing.T) (*Handler, *database.DB) {
	db := database.NewTestDB(t)
	svc := reminders.NewService(db, temporal.NewResolver())
	return NewHandler(db, svc, nil), db
}

func TestHandleIgnoresPlainText(t *testing.T) {
	h, _ := newHandler(t)

	_, handled := h.Handle(context.Background(), testChat, "hola, ¿cómo estás?")
	assert.False(t, handled)
}

func TestRecordarCreatesScheduledReminder(t *testing.T) {
	h, db := newHandler(t)

	reply, handled := h.Handle(context.Background(), testChat, "/recordar comprar leche en 2 horas")
	require.True(t, handled)
	assert.Contains(t, reply, "Te aviso")

	all, err := db.GetRemindersForChat(testChat, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, database.ReminderKindScheduled, all[0].Kind)
	assert.Equal(t, "comprar leche", all[0].Message)
}

func TestRecordarWithoutDateFallsBackToTask(t *testing.T) {
	h, db := newHandler(t)

	reply, handled := h.Handle(context.Background(), testChat, "/recordar llamar a mamá")
	require.True(t, handled)
	assert.Contains(t, reply, "sin fecha")

	all, err := db.GetRemindersForChat(testChat, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, database.ReminderKindTask, all[0].Kind)
}

func TestCompletarAndCancelar(t *testing.T) {
	h, db := newHandler(t)

	r, err := db.CreateReminder(testChat, "Pagar la renta", nil)
	require.NoError(t, err)

	reply, handled := h.Handle(context.Background(), testChat, "/completar 1")
	require.True(t, handled)
	assert.Contains(t, reply, "hecho")

	got, err := db.GetReminderByID(r.ID)
	require.NoError(t, err)
	assert.Equal(t, database.ReminderStatusCompleted, got.Status)

	reply, handled = h.Handle(context.Background(), testChat, "/completar 1")
	require.True(t, handled)
	assert.Contains(t, reply, "No encontré")
}

func TestFuzzyCommandMatching(t *testing.T) {
	h, _ := newHandler(t)

	// "recordatorois" is one transposition away from "recordatorios".
	reply, handled := h.Handle(context.Background(), testChat, "/recordatorois")
	require.True(t, handled)
	assert.Contains(t, reply, "No tienes recordatorios")

	reply, handled = h.Handle(context.Background(), testChat, "/pendientes")
	require.True(t, handled)
	assert.Contains(t, reply, "No tienes recordatorios")
}

func TestUnknownCommand(t *testing.T) {
	h, _ := newHandler(t)

	reply, handled := h.Handle(context.Background(), testChat, "/abracadabra")
	require.True(t, handled)
	assert.Contains(t, reply, "No conozco el comando")
}

func TestNombreRoundTrip(t *testing.T) {
	h, db := newHandler(t)

	reply, handled := h.Handle(context.Background(), testChat, "/nombre Jarvis")
	require.True(t, handled)
	assert.Contains(t, reply, "Jarvis")

	name, err := db.GetConfig(database.ConfigKeyName)
	require.NoError(t, err)
	assert.Equal(t, "Jarvis", name)
}

func TestWhitelistCommands(t *testing.T) {
	h, db := newHandler(t)

	reply, handled := h.Handle(context.Background(), testChat, "/whitelist agregar 5213321082748")
	require.True(t, handled)
	assert.Contains(t, reply, "agregado")

	ok, err := db.IsWhitelisted("5213321082748")
	require.NoError(t, err)
	assert.True(t, ok)

	reply, _ = h.Handle(context.Background(), testChat, "/whitelist")
	assert.Contains(t, reply, "5213321082748")
}

func TestMemoriaAndOlvidar(t *testing.T) {
	h, _ := newHandler(t)

	reply, handled := h.Handle(context.Background(), testChat, "/memoria mi esposa se llama Ana")
	require.True(t, handled)
	assert.Contains(t, reply, "recordar")

	reply, _ = h.Handle(context.Background(), testChat, "/memoria")
	assert.Contains(t, reply, "Ana")

	reply, _ = h.Handle(context.Background(), testChat, "/olvidar 1")
	assert.Contains(t, reply, "Olvidado")
}
