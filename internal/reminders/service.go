package reminders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"asistente/internal/database"
	"asistente/internal/temporal"
)

// Store defines the persistence operations the reminder layer needs.
type Store interface {
	CreateReminder(chatID, message string, triggerAt *time.Time) (*database.Reminder, error)
	GetReminderByID(id int64) (*database.Reminder, error)
	GetDueReminders(now time.Time) ([]database.Reminder, error)
	GetRemindersForChat(chatID string, includeCompleted bool) ([]database.Reminder, error)
	CompleteReminder(id int64, completedAt time.Time) (bool, error)
	CancelReminder(id int64) (bool, error)
	SetTriggerDate(id int64, triggerAt time.Time) (bool, error)
	GetLastCompletedReminder(chatID string, since time.Time) (*database.Reminder, error)
}

// User-facing failures. These surface verbatim in the chat, so they carry
// the message in Spanish with a usage hint.
var (
	ErrUnresolvableTime = errors.New("No pude entender la fecha u hora. Prueba con algo como \"en 10 minutos\" o \"mañana a las 9am\".")
	ErrReminderNotFound = errors.New("No encontré ese recordatorio. Usa /pendientes para ver los números.")
)

// Service orchestrates the reminder lifecycle: creation, trigger-date edits,
// completion, cancellation and listing.
type Service struct {
	store    Store
	resolver *temporal.Resolver
}

func NewService(store Store, resolver *temporal.Resolver) *Service {
	return &Service{store: store, resolver: resolver}
}

// Create makes a new reminder. With a time expression it becomes scheduled;
// without one it is an undated task. An expression that cannot be resolved
// is a user-facing error, never a silently undated task.
func (s *Service) Create(chatID, message, timeExpression string) (*database.Reminder, error) {
	if timeExpression == "" {
		return s.store.CreateReminder(chatID, message, nil)
	}

	res, err := s.resolver.Resolve(timeExpression, time.Now())
	if err != nil {
		if errors.Is(err, temporal.ErrNoTimeExpression) {
			return nil, ErrUnresolvableTime
		}
		return nil, fmt.Errorf("failed to resolve time expression: %w", err)
	}
	return s.store.CreateReminder(chatID, message, &res.Time)
}

// CreateAt makes a reminder with an already-resolved trigger time, for
// callers that ran extraction themselves. triggerAt may be nil.
func (s *Service) CreateAt(chatID, message string, triggerAt *time.Time) (*database.Reminder, error) {
	return s.store.CreateReminder(chatID, message, triggerAt)
}

// CreateFromText takes free text that may carry its own time expression
// ("comprar leche en 2 horas"), strips the expression out of the stored
// message and schedules accordingly. Text without any expression becomes
// an undated task.
func (s *Service) CreateFromText(chatID, text string) (*database.Reminder, error) {
	res, err := s.resolver.Resolve(text, time.Now())
	if err != nil {
		if errors.Is(err, temporal.ErrNoTimeExpression) {
			return s.store.CreateReminder(chatID, text, nil)
		}
		return nil, fmt.Errorf("failed to resolve time expression: %w", err)
	}

	message := strings.TrimSpace(text[:res.Index] + " " + text[res.Index+len(res.Text):])
	message = strings.Trim(message, " ,.")
	if message == "" {
		message = text
	}
	return s.store.CreateReminder(chatID, message, &res.Time)
}

// ListPending returns the chat's pending reminders formatted for WhatsApp,
// scheduled ones first by trigger time, then undated tasks by recency.
func (s *Service) ListPending(chatID string) (string, error) {
	all, err := s.store.GetRemindersForChat(chatID, false)
	if err != nil {
		return "", fmt.Errorf("failed to list reminders: %w", err)
	}

	var scheduled, tasks []database.Reminder
	for _, r := range all {
		if r.TriggerAt != nil {
			scheduled = append(scheduled, r)
		} else {
			tasks = append(tasks, r)
		}
	}
	return FormatListing(scheduled, tasks), nil
}

// Complete marks a reminder done. Returns false when the id does not exist
// or the reminder already left the pending state.
func (s *Service) Complete(id int64) (bool, error) {
	return s.store.CompleteReminder(id, time.Now())
}

// Cancel removes a reminder entirely.
func (s *Service) Cancel(id int64) (bool, error) {
	return s.store.CancelReminder(id)
}

// AttachOrReplaceDate resolves the expression and sets the reminder's
// trigger time, promoting an undated task to scheduled or moving an
// already-scheduled one.
func (s *Service) AttachOrReplaceDate(id int64, timeExpression string) (time.Time, error) {
	res, err := s.resolver.Resolve(timeExpression, time.Now())
	if err != nil {
		if errors.Is(err, temporal.ErrNoTimeExpression) {
			return time.Time{}, ErrUnresolvableTime
		}
		return time.Time{}, fmt.Errorf("failed to resolve time expression: %w", err)
	}

	ok, err := s.store.SetTriggerDate(id, res.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to set trigger date: %w", err)
	}
	if !ok {
		return time.Time{}, ErrReminderNotFound
	}
	return res.Time, nil
}
