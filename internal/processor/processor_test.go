package processor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistente/internal/commands"
	"asistente/internal/database"
	"asistente/internal/intent"
	"asistente/internal/reminders"
	"asistente/internal/temporal"
	"asistente/internal/tools"
	"asistente/internal/whatsapp"
)

const (
	testPhone = "5213321082748"
	testChat  = testPhone + "@s.whatsapp.net"
)

type fakeTransport struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeTransport) SendText(ctx context.Context, chatID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeTransport) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

func newProcessor(t *testing.T) (*Processor, *database.DB, *fakeTransport) {
	db := database.NewTestDB(t)
	resolver := temporal.NewResolver()
	svc := reminders.NewService(db, resolver)
	transport := &fakeTransport{}

	p := New(
		db,
		commands.NewHandler(db, svc, nil),
		intent.NewRegexExtractor(resolver),
		svc,
		reminders.NewPostponeResolver(db, resolver, nil),
		nil,
		tools.NewDispatcher(svc, nil),
		transport,
		nil,
	)
	return p, db, transport
}

func message(text string) whatsapp.Message {
	return whatsapp.Message{
		ChatID:    testChat,
		Sender:    testPhone,
		Text:      text,
		Timestamp: time.Now(),
	}
}

func TestNonWhitelistedIsIgnored(t *testing.T) {
	p, _, transport := newProcessor(t)

	p.HandleMessage(context.Background(), message("hola"))
	assert.Empty(t, transport.sent)
}

func TestCommandGoesThroughPipeline(t *testing.T) {
	p, db, transport := newProcessor(t)
	_, err := db.AddToWhitelist(testPhone)
	require.NoError(t, err)

	p.HandleMessage(context.Background(), message("/recordatorios"))
	assert.Contains(t, transport.last(), "No tienes recordatorios")
}

func TestReminderIntentCreatesAndConfirms(t *testing.T) {
	p, db, transport := newProcessor(t)
	_, err := db.AddToWhitelist(testPhone)
	require.NoError(t, err)

	p.HandleMessage(context.Background(), message("Recuérdame comprar leche en 10 minutos"))
	assert.Contains(t, transport.last(), "Te aviso")

	all, err := db.GetRemindersForChat(testChat, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "comprar leche", all[0].Message)
	assert.Equal(t, database.ReminderKindScheduled, all[0].Kind)
}

func TestPostponementRunsBeforeIntent(t *testing.T) {
	p, db, transport := newProcessor(t)
	_, err := db.AddToWhitelist(testPhone)
	require.NoError(t, err)

	now := time.Now()
	past := now.Add(-time.Minute)
	r, err := db.CreateReminder(testChat, "Sacar la basura", &past)
	require.NoError(t, err)
	_, err = db.CompleteReminder(r.ID, now)
	require.NoError(t, err)

	p.HandleMessage(context.Background(), message("recuérdame otra vez en 15 minutos"))
	assert.Contains(t, transport.last(), "Va de nuevo")

	all, err := db.GetRemindersForChat(testChat, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Sacar la basura", all[0].Message)
}

func TestNewReminderRightAfterDeliveryIsNotPostponed(t *testing.T) {
	p, db, transport := newProcessor(t)
	_, err := db.AddToWhitelist(testPhone)
	require.NoError(t, err)

	now := time.Now()
	past := now.Add(-time.Minute)
	r, err := db.CreateReminder(testChat, "Sacar la basura", &past)
	require.NoError(t, err)
	_, err = db.CompleteReminder(r.ID, now)
	require.NoError(t, err)

	// A different task named minutes after a delivery must create that
	// task, not resurrect the delivered reminder.
	p.HandleMessage(context.Background(), message("Recuérdame llamar a mamá en 1 hora"))
	require.NotEmpty(t, transport.sent)

	all, err := db.GetRemindersForChat(testChat, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "llamar a mamá", all[0].Message)
}

func TestConversationHistorySaved(t *testing.T) {
	p, db, transport := newProcessor(t)
	_, err := db.AddToWhitelist(testPhone)
	require.NoError(t, err)

	p.HandleMessage(context.Background(), message("/tarea lavar el coche"))
	require.NotEmpty(t, transport.sent)

	history, err := db.GetRecentMessages(testChat, 8)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
}

func TestImportantContextSuggestion(t *testing.T) {
	p, db, transport := newProcessor(t)
	_, err := db.AddToWhitelist(testPhone)
	require.NoError(t, err)

	p.HandleMessage(context.Background(), message("El martes tengo cita con el dentista"))
	assert.Contains(t, transport.last(), "¿Quieres que te lo recuerde?")
}

func TestLooksImportant(t *testing.T) {
	assert.True(t, LooksImportant("tengo cita con el doctor el viernes"))
	assert.True(t, LooksImportant("el pago de la renta es el 15/3"))
	assert.False(t, LooksImportant("me gusta el café"))
	assert.False(t, LooksImportant("la cita estuvo bien"))
}
