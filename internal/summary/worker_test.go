package summary

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistente/internal/database"
	"asistente/internal/gcal"
)

const testPhone = "5213321082748"

type fakeSender struct {
	mu   sync.Mutex
	sent map[string][]string
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(map[string][]string)}
}

func (f *fakeSender) SendText(ctx context.Context, chatID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[chatID] = append(f.sent[chatID], text)
	return nil
}

type fakeCalendar struct {
	events []gcal.Event
}

func (f *fakeCalendar) IsAuthenticated() bool { return true }

func (f *fakeCalendar) ListEventsInRange(from, to time.Time) ([]gcal.Event, error) {
	var out []gcal.Event
	for _, ev := range f.events {
		if !ev.StartTime.Before(from) && ev.StartTime.Before(to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func TestTickSendsAtPreferredTimeOnce(t *testing.T) {
	db := database.NewTestDB(t)
	_, err := db.AddToWhitelist(testPhone)
	require.NoError(t, err)

	now := time.Date(2026, time.March, 13, 7, 0, 0, 0, time.Local)
	cal := &fakeCalendar{events: []gcal.Event{
		{Summary: "Dentista", StartTime: now.Add(3 * time.Hour)},
	}}
	sender := newFakeSender()
	w := NewWorker(db, cal, sender)

	w.Tick(now)

	chatID := testPhone + "@s.whatsapp.net"
	require.Len(t, sender.sent[chatID], 1)
	assert.Contains(t, sender.sent[chatID][0], "Dentista")

	// Same minute again: no duplicate.
	w.Tick(now)
	assert.Len(t, sender.sent[chatID], 1)
}

func TestTickSkipsOtherTimes(t *testing.T) {
	db := database.NewTestDB(t)
	_, err := db.AddToWhitelist(testPhone)
	require.NoError(t, err)

	sender := newFakeSender()
	w := NewWorker(db, &fakeCalendar{}, sender)

	w.Tick(time.Date(2026, time.March, 13, 9, 30, 0, 0, time.Local))
	assert.Empty(t, sender.sent)
}

func TestTickHonorsUserSetting(t *testing.T) {
	db := database.NewTestDB(t)
	_, err := db.AddToWhitelist(testPhone)
	require.NoError(t, err)

	chatID := testPhone + "@s.whatsapp.net"
	require.NoError(t, db.SetUserSetting(chatID, settingKey, "21:15"))

	sender := newFakeSender()
	w := NewWorker(db, &fakeCalendar{}, sender)

	w.Tick(time.Date(2026, time.March, 13, 7, 0, 0, 0, time.Local))
	assert.Empty(t, sender.sent)

	w.Tick(time.Date(2026, time.March, 13, 21, 15, 0, 0, time.Local))
	assert.Len(t, sender.sent[chatID], 1)
}
