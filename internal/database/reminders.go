package database

import (
	"database/sql"
	"fmt"
	"time"
)

// ReminderStatus represents the status of a reminder
type ReminderStatus string

const (
	ReminderStatusPending   ReminderStatus = "pending"
	ReminderStatusCompleted ReminderStatus = "completed"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

// ReminderKind distinguishes dated reminders from undated tasks
type ReminderKind string

const (
	ReminderKindScheduled ReminderKind = "scheduled"
	ReminderKindTask      ReminderKind = "task"
)

// Reminder represents a persisted reminder or undated task.
// TriggerAt is nil exactly when Kind is ReminderKindTask.
type Reminder struct {
	ID          int64          `json:"id"`
	ChatID      string         `json:"chat_id"`
	Message     string         `json:"message"`
	TriggerAt   *time.Time     `json:"trigger_at,omitempty"`
	Kind        ReminderKind   `json:"kind"`
	Status      ReminderStatus `json:"status"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CreateReminder inserts a new pending reminder. The kind is derived from
// triggerAt: nil creates an undated task, non-nil a scheduled reminder.
func (d *DB) CreateReminder(chatID, message string, triggerAt *time.Time) (*Reminder, error) {
	kind := ReminderKindTask
	var triggerEpoch sql.NullInt64
	if triggerAt != nil {
		kind = ReminderKindScheduled
		triggerEpoch = sql.NullInt64{Int64: triggerAt.Unix(), Valid: true}
	}

	result, err := d.Exec(`
		INSERT INTO reminders (chat_id, message, trigger_at, kind, status)
		VALUES (?, ?, ?, ?, ?)
	`, chatID, message, triggerEpoch, kind, ReminderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder id: %w", err)
	}

	return d.GetReminderByID(id)
}

type reminderScanner interface {
	Scan(dest ...any) error
}

func scanReminder(scanner reminderScanner) (*Reminder, error) {
	var reminder Reminder
	var triggerEpoch sql.NullInt64
	var completedEpoch sql.NullInt64
	var createdEpoch int64

	err := scanner.Scan(
		&reminder.ID, &reminder.ChatID, &reminder.Message,
		&triggerEpoch, &reminder.Kind, &reminder.Status,
		&completedEpoch, &createdEpoch,
	)
	if err != nil {
		return nil, err
	}

	if triggerEpoch.Valid {
		t := time.Unix(triggerEpoch.Int64, 0)
		reminder.TriggerAt = &t
	}
	if completedEpoch.Valid {
		t := time.Unix(completedEpoch.Int64, 0)
		reminder.CompletedAt = &t
	}
	reminder.CreatedAt = time.Unix(createdEpoch, 0)

	return &reminder, nil
}

const reminderColumns = `id, chat_id, message, trigger_at, kind, status, completed_at, created_at`

// GetReminderByID retrieves a reminder by its ID
func (d *DB) GetReminderByID(id int64) (*Reminder, error) {
	reminder, err := scanReminder(d.QueryRow(
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return reminder, nil
}

// GetDueReminders retrieves all pending scheduled reminders whose trigger
// time has been reached, ordered by trigger time ascending.
func (d *DB) GetDueReminders(now time.Time) ([]Reminder, error) {
	rows, err := d.Query(`
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE status = ?
		  AND kind = ?
		  AND trigger_at IS NOT NULL
		  AND trigger_at <= ?
		ORDER BY trigger_at ASC
	`, ReminderStatusPending, ReminderKindScheduled, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to get due reminders: %w", err)
	}
	defer rows.Close()

	return collectReminders(rows)
}

// GetRemindersForChat retrieves a chat's reminders. Without includeCompleted
// only pending ones are returned. Scheduled reminders come first ordered by
// trigger time, undated tasks after them ordered by recency.
func (d *DB) GetRemindersForChat(chatID string, includeCompleted bool) ([]Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE chat_id = ?`
	args := []any{chatID}

	if !includeCompleted {
		query += ` AND status = ?`
		args = append(args, ReminderStatusPending)
	}

	query += `
		ORDER BY
			(trigger_at IS NULL) ASC,
			trigger_at ASC,
			created_at DESC
	`

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	return collectReminders(rows)
}

// CompleteReminder marks a pending reminder completed. Returns true only
// when this call changed the row, so completing twice yields true then false.
func (d *DB) CompleteReminder(id int64, completedAt time.Time) (bool, error) {
	result, err := d.Exec(`
		UPDATE reminders
		SET status = ?, completed_at = ?
		WHERE id = ? AND status = ?
	`, ReminderStatusCompleted, completedAt.Unix(), id, ReminderStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to complete reminder: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// CancelReminder removes a reminder entirely. Cancellation is a hard delete,
// matching the user-visible behavior of /cancelar: a cancelled reminder never
// shows up again, not even in listings that include completed ones.
func (d *DB) CancelReminder(id int64) (bool, error) {
	result, err := d.Exec(`DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to cancel reminder: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// SetTriggerDate attaches or replaces the trigger time of a pending reminder,
// promoting an undated task to scheduled. Completed and cancelled reminders
// are never touched.
func (d *DB) SetTriggerDate(id int64, triggerAt time.Time) (bool, error) {
	result, err := d.Exec(`
		UPDATE reminders
		SET trigger_at = ?, kind = ?
		WHERE id = ? AND status = ?
	`, triggerAt.Unix(), ReminderKindScheduled, id, ReminderStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to set trigger date: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// GetLastCompletedReminder returns the most recently completed reminder for
// a chat, but only if it completed at or after since. Used by the
// postponement flow, which must not resurrect stale reminders.
func (d *DB) GetLastCompletedReminder(chatID string, since time.Time) (*Reminder, error) {
	reminder, err := scanReminder(d.QueryRow(`
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE chat_id = ? AND status = ? AND completed_at >= ?
		ORDER BY completed_at DESC
		LIMIT 1
	`, chatID, ReminderStatusCompleted, since.Unix()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last completed reminder: %w", err)
	}
	return reminder, nil
}

// CountPendingReminders returns the number of pending reminders across all chats
func (d *DB) CountPendingReminders() (int, error) {
	var count int
	err := d.QueryRow(`SELECT COUNT(*) FROM reminders WHERE status = ?`, ReminderStatusPending).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending reminders: %w", err)
	}
	return count, nil
}

func collectReminders(rows *sql.Rows) ([]Reminder, error) {
	var reminders []Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, *reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}

	return reminders, nil
}
