package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistente/internal/database"
	"asistente/internal/gcal"
	"asistente/internal/reminders"
	"asistente/internal/temporal"
)

const testChat = "5213321082748@s.whatsapp.net"

type fakeCalendar struct {
	events []gcal.Event
	added  []string
	authed bool
}

func (f *fakeCalendar) IsAuthenticated() bool { return f.authed }

func (f *fakeCalendar) ListEventsInRange(from, to time.Time) ([]gcal.Event, error) {
	return f.events, nil
}

func (f *fakeCalendar) QuickAdd(text string) (*gcal.Event, error) {
	f.added = append(f.added, text)
	return &gcal.Event{Summary: text, StartTime: time.Now().Add(time.Hour)}, nil
}

func newDispatcher(t *testing.T, cal Calendar) (*Dispatcher, *database.DB) {
	db := database.NewTestDB(t)
	svc := reminders.NewService(db, temporal.NewResolver())
	return NewDispatcher(svc, cal), db
}

func TestTryDispatchIgnoresProse(t *testing.T) {
	d, _ := newDispatcher(t, nil)

	_, handled := d.TryDispatch(context.Background(), testChat, "Claro, te ayudo con eso.")
	assert.False(t, handled)
}

func TestTryDispatchCreateReminder(t *testing.T) {
	d, db := newDispatcher(t, nil)

	reply, handled := d.TryDispatch(context.Background(), testChat,
		`{"tool": "crear_recordatorio", "args": {"texto": "comprar leche en 2 horas"}}`)
	require.True(t, handled)
	assert.Contains(t, reply, "Te aviso")

	all, err := db.GetRemindersForChat(testChat, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "comprar leche", all[0].Message)
}

func TestTryDispatchRepairsBrokenJSON(t *testing.T) {
	d, _ := newDispatcher(t, nil)

	// Single quotes and a trailing comma, the way small models emit JSON.
	reply, handled := d.TryDispatch(context.Background(), testChat,
		`{'tool': 'listar_recordatorios', 'args': {},}`)
	require.True(t, handled)
	assert.Contains(t, reply, "No tienes recordatorios")
}

func TestTryDispatchToolCallWrappedInProse(t *testing.T) {
	d, _ := newDispatcher(t, nil)

	reply, handled := d.TryDispatch(context.Background(), testChat,
		"Déjame revisar: {\"tool\": \"listar_recordatorios\", \"args\": {}}")
	require.True(t, handled)
	assert.Contains(t, reply, "No tienes recordatorios")
}

func TestTryDispatchCalendarNotConnected(t *testing.T) {
	d, _ := newDispatcher(t, nil)

	reply, handled := d.TryDispatch(context.Background(), testChat,
		`{"tool": "listar_eventos", "args": {"rango": "hoy"}}`)
	require.True(t, handled)
	assert.Contains(t, reply, "no está conectado")
}

func TestTryDispatchListEvents(t *testing.T) {
	cal := &fakeCalendar{
		authed: true,
		events: []gcal.Event{
			{Summary: "Dentista", StartTime: time.Now().Add(2 * time.Hour)},
		},
	}
	d, _ := newDispatcher(t, cal)

	reply, handled := d.TryDispatch(context.Background(), testChat,
		`{"tool": "listar_eventos", "args": {"rango": "hoy"}}`)
	require.True(t, handled)
	assert.Contains(t, reply, "Dentista")
}

func TestTryDispatchQuickAdd(t *testing.T) {
	cal := &fakeCalendar{authed: true}
	d, _ := newDispatcher(t, cal)

	reply, handled := d.TryDispatch(context.Background(), testChat,
		`{"tool": "crear_evento", "args": {"texto": "cena con Ana el viernes 8pm"}}`)
	require.True(t, handled)
	assert.Contains(t, reply, "Evento creado")
	require.Len(t, cal.added, 1)
}
