package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"asistente/internal/database"
	"asistente/internal/ollama"
)

const (
	stopWaitTimeout = 5 * time.Second
	deliverTimeout  = 2 * time.Minute
)

// Sender delivers a text message to a chat.
type Sender interface {
	SendText(ctx context.Context, chatID, text string) error
}

// Notifier receives a copy of every delivered reminder, e.g. by email.
// Optional; a nil Notifier disables copies.
type Notifier interface {
	ReminderDelivered(ctx context.Context, chatID, text string) error
}

// SchedulerConfig contains configuration for the delivery scheduler.
type SchedulerConfig struct {
	PollIntervalSeconds int
}

// Scheduler is the delivery loop: every tick it picks up due reminders,
// sends each one and marks it completed. Delivery is at-most-once: a send
// failure is logged but the reminder is still completed, trading silent
// loss against duplicate notifications.
type Scheduler struct {
	store    Store
	db       *database.DB
	llm      *ollama.Client
	sender   Sender
	notifier Notifier

	pollInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	ticking bool
}

// NewScheduler creates the delivery scheduler. llm and notifier may be nil;
// without an llm due reminders go out with the fixed template.
func NewScheduler(store Store, db *database.DB, llm *ollama.Client, sender Sender, notifier Notifier, config SchedulerConfig) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	pollInterval := time.Duration(config.PollIntervalSeconds) * time.Second
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}

	return &Scheduler{
		store:        store,
		db:           db,
		llm:          llm,
		sender:       sender,
		notifier:     notifier,
		pollInterval: pollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins the polling loop.
func (s *Scheduler) Start() {
	fmt.Printf("Reminder scheduler: starting with %v poll interval\n", s.pollInterval)
	s.wg.Add(1)
	go s.pollLoop()
}

// Stop cancels the loop and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	fmt.Println("Reminder scheduler: stopping...")
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		fmt.Println("Reminder scheduler: stopped")
	case <-time.After(stopWaitTimeout):
		fmt.Printf("Reminder scheduler: stop timed out after %v; continuing shutdown\n", stopWaitTimeout)
	}
}

func (s *Scheduler) pollLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.Tick(time.Now())

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.Tick(time.Now())
		}
	}
}

// Tick runs one delivery pass. A tick that is still running when the next
// interval fires makes the new one a no-op, so slow sends never stack.
func (s *Scheduler) Tick(now time.Time) {
	s.mu.Lock()
	if s.ticking {
		s.mu.Unlock()
		return
	}
	s.ticking = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.ticking = false
		s.mu.Unlock()
	}()

	due, err := s.store.GetDueReminders(now)
	if err != nil {
		fmt.Printf("Reminder scheduler: failed to query due reminders: %v\n", err)
		return
	}

	for i := range due {
		s.deliver(&due[i])
	}
}

func (s *Scheduler) deliver(r *database.Reminder) {
	// A reminder picked up by a tick gets its own deadline, detached from
	// s.ctx. Stop() only ends the loop; it never aborts a send in progress.
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	text := s.render(ctx, r)

	if err := s.sender.SendText(ctx, r.ChatID, text); err != nil {
		// Accepted loss: the reminder is completed below regardless, so a
		// transport failure means this notification is gone for good.
		fmt.Printf("Reminder scheduler: delivery of reminder %d failed: %v\n", r.ID, err)
	}

	if _, err := s.store.CompleteReminder(r.ID, time.Now()); err != nil {
		fmt.Printf("Reminder scheduler: failed to complete reminder %d: %v\n", r.ID, err)
	}

	if s.notifier != nil {
		if err := s.notifier.ReminderDelivered(ctx, r.ChatID, text); err != nil {
			fmt.Printf("Reminder scheduler: notifier copy for reminder %d failed: %v\n", r.ID, err)
		}
	}
}

// render turns the stored message into the outgoing notification, through
// the humanizer when a model is available.
func (s *Scheduler) render(ctx context.Context, r *database.Reminder) string {
	if s.llm == nil {
		return FallbackNotification(r.Message)
	}

	name, _ := s.db.GetConfig(database.ConfigKeyName)
	personality, _ := s.db.GetConfig(database.ConfigKeyPersonality)

	humanizeCtx, cancelCtx := context.WithTimeout(ctx, 30*time.Second)
	defer cancelCtx()

	text, err := s.llm.Humanize(humanizeCtx, name, personality, r.Message)
	if err != nil {
		fmt.Printf("Reminder scheduler: humanizer failed for reminder %d, using template: %v\n", r.ID, err)
		return FallbackNotification(r.Message)
	}
	return text
}
