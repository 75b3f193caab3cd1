package reminders

import (
	"fmt"
	"strings"
	"time"

	"asistente/internal/database"
)

var spanishDays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var spanishMonths = [...]string{"", "enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// FormatDate renders a trigger time the way it reads naturally in chat:
// "hoy a las 15:30", "mañana a las 09:00", "viernes 20 de marzo a las 10:00".
func FormatDate(t time.Time, now time.Time) string {
	clock := fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())

	switch {
	case sameDay(t, now):
		return "hoy a las " + clock
	case sameDay(t, now.AddDate(0, 0, 1)):
		return "mañana a las " + clock
	case t.Sub(now) < 7*24*time.Hour && t.After(now):
		return fmt.Sprintf("el %s a las %s", spanishDays[t.Weekday()], clock)
	default:
		return fmt.Sprintf("el %s %d de %s a las %s",
			spanishDays[t.Weekday()], t.Day(), spanishMonths[t.Month()], clock)
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// FormatListing renders the pending reminders, scheduled first, each entry
// with its id so follow-up commands can target it.
func FormatListing(scheduled, tasks []database.Reminder) string {
	if len(scheduled) == 0 && len(tasks) == 0 {
		return "No tienes recordatorios pendientes. 🎉"
	}

	now := time.Now()
	var b strings.Builder

	if len(scheduled) > 0 {
		b.WriteString("⏰ *Con fecha:*\n")
		for _, r := range scheduled {
			fmt.Fprintf(&b, "%d. %s — %s\n", r.ID, r.Message, FormatDate(*r.TriggerAt, now))
		}
	}
	if len(tasks) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("📝 *Tareas pendientes:*\n")
		for _, r := range tasks {
			fmt.Fprintf(&b, "%d. %s\n", r.ID, r.Message)
		}
	}

	b.WriteString("\nPuedes decir por ejemplo \"lista 3 para mañana\" o usar /hecho N y /cancelar N.")
	return b.String()
}

// notificationTemplate is the fixed fallback when the humanizer is
// unavailable or fails.
const notificationTemplate = "🔔 *RECORDATORIO*\n\n%s"

// FallbackNotification wraps a raw reminder message in the fixed template.
func FallbackNotification(message string) string {
	return fmt.Sprintf(notificationTemplate, message)
}
