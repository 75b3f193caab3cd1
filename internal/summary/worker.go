package summary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"asistente/internal/database"
	"asistente/internal/gcal"
	"asistente/internal/tools"
)

const (
	defaultSendTime = "07:00"
	settingKey      = "resumen_hora"
	stopWaitTimeout = 5 * time.Second
)

// Sender delivers a text message to a chat.
type Sender interface {
	SendText(ctx context.Context, chatID, text string) error
}

// Calendar is the slice of the Google Calendar client the summary needs.
type Calendar interface {
	IsAuthenticated() bool
	ListEventsInRange(from, to time.Time) ([]gcal.Event, error)
}

// Worker sends each whitelisted user their agenda once a day at their
// preferred time. It ticks every minute and fires when the clock matches.
type Worker struct {
	db     *database.DB
	cal    Calendar
	sender Sender

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	lastSent map[string]string // chatID -> YYYY-MM-DD already summarized
}

func NewWorker(db *database.DB, cal Calendar, sender Sender) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		db:       db,
		cal:      cal,
		sender:   sender,
		ctx:      ctx,
		cancel:   cancel,
		lastSent: make(map[string]string),
	}
}

// Start begins the per-minute loop.
func (w *Worker) Start() {
	fmt.Println("Daily summary worker: starting")
	w.wg.Add(1)
	go w.loop()
}

// Stop cancels the loop and waits for an in-flight send to finish.
func (w *Worker) Stop() {
	fmt.Println("Daily summary worker: stopping...")
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		fmt.Println("Daily summary worker: stopped")
	case <-time.After(stopWaitTimeout):
		fmt.Printf("Daily summary worker: stop timed out after %v; continuing shutdown\n", stopWaitTimeout)
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.Tick(time.Now())
		}
	}
}

// Tick sends summaries to every user whose preferred time matches now.
func (w *Worker) Tick(now time.Time) {
	entries, err := w.db.GetWhitelist()
	if err != nil {
		fmt.Printf("Daily summary worker: failed to read whitelist: %v\n", err)
		return
	}

	clock := now.Format("15:04")
	day := now.Format("2006-01-02")

	for _, e := range entries {
		chatID := e.PhoneNumber + "@s.whatsapp.net"

		preferred, err := w.db.GetUserSetting(chatID, settingKey, defaultSendTime)
		if err != nil {
			fmt.Printf("Daily summary worker: failed to read setting for %s: %v\n", chatID, err)
			continue
		}
		if clock != preferred {
			continue
		}

		w.mu.Lock()
		already := w.lastSent[chatID] == day
		if !already {
			w.lastSent[chatID] = day
		}
		w.mu.Unlock()
		if already {
			continue
		}

		w.send(chatID, now)
	}
}

func (w *Worker) send(chatID string, now time.Time) {
	text := w.build(chatID, now)
	if text == "" {
		return
	}
	if err := w.sender.SendText(w.ctx, chatID, text); err != nil {
		fmt.Printf("Daily summary worker: failed to send summary to %s: %v\n", chatID, err)
	}
}

// build assembles the morning message: today's calendar, the rest of the
// week, and today's scheduled reminders.
func (w *Worker) build(chatID string, now time.Time) string {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	parts := []string{"☀️ *Buenos días!*"}

	if w.cal != nil && w.cal.IsAuthenticated() {
		today, err := w.cal.ListEventsInRange(startOfDay, endOfDay)
		if err != nil {
			fmt.Printf("Daily summary worker: failed to list today's events: %v\n", err)
		} else {
			parts = append(parts, tools.FormatAgenda("hoy", today))
		}

		week, err := w.cal.ListEventsInRange(endOfDay, startOfDay.AddDate(0, 0, 7))
		if err == nil && len(week) > 0 {
			parts = append(parts, tools.FormatAgenda("resto de la semana", week))
		}
	}

	due, err := w.db.GetRemindersForChat(chatID, false)
	if err == nil {
		var todays []string
		for _, r := range due {
			if r.TriggerAt != nil && r.TriggerAt.Before(endOfDay) && r.TriggerAt.After(startOfDay) {
				todays = append(todays, fmt.Sprintf("- %s (%02d:%02d)", r.Message, r.TriggerAt.Hour(), r.TriggerAt.Minute()))
			}
		}
		if len(todays) > 0 {
			list := "⏰ *Recordatorios de hoy:*\n"
			for _, line := range todays {
				list += line + "\n"
			}
			parts = append(parts, list)
		}
	}

	if len(parts) == 1 {
		// Nothing on the agenda and no calendar connected: stay quiet.
		if w.cal == nil || !w.cal.IsAuthenticated() {
			return ""
		}
	}

	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n"
		}
		out += p + "\n"
	}
	return out
}
