package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"asistente/internal/gcal"
	"asistente/internal/reminders"
)

// PromptBlock is appended to the chat system prompt so the model can invoke
// tools by answering with a JSON object instead of prose.
const PromptBlock = `
Tienes herramientas. Para usar una, responde ÚNICAMENTE con un objeto JSON:
{"tool": "<nombre>", "args": {...}}
Herramientas disponibles:
- {"tool": "crear_recordatorio", "args": {"texto": "qué y cuándo"}}
- {"tool": "listar_recordatorios", "args": {}}
- {"tool": "listar_eventos", "args": {"rango": "hoy" o "semana"}}
- {"tool": "crear_evento", "args": {"texto": "descripción del evento con fecha y hora"}}
Si no necesitas herramientas, responde normal en texto.`

// Calendar is the slice of the Google Calendar client the tools need.
type Calendar interface {
	IsAuthenticated() bool
	ListEventsInRange(from, to time.Time) ([]gcal.Event, error)
	QuickAdd(text string) (*gcal.Event, error)
}

type toolCall struct {
	Tool string            `json:"tool"`
	Args map[string]string `json:"args"`
}

// Dispatcher executes tool calls found in model replies.
type Dispatcher struct {
	svc *reminders.Service
	cal Calendar
}

// NewDispatcher creates the dispatcher. cal may be nil when Google Calendar
// is not configured; calendar tools then report that to the user.
func NewDispatcher(svc *reminders.Service, cal Calendar) *Dispatcher {
	return &Dispatcher{svc: svc, cal: cal}
}

// TryDispatch checks whether reply is a tool call and runs it. The second
// return is false when the reply is plain prose and should go out as-is.
func (d *Dispatcher) TryDispatch(ctx context.Context, chatID, reply string) (string, bool) {
	call, ok := parseToolCall(reply)
	if !ok {
		return "", false
	}

	out, err := d.run(ctx, chatID, call)
	if err != nil {
		fmt.Printf("Tool %s failed: %v\n", call.Tool, err)
		return "No pude completar esa acción, intenta de nuevo.", true
	}
	return out, true
}

// parseToolCall extracts a {"tool": ...} object from the reply, tolerating
// surrounding prose and slightly broken JSON.
func parseToolCall(reply string) (*toolCall, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	raw := reply[start : end+1]

	var call toolCall
	if err := json.Unmarshal([]byte(raw), &call); err != nil {
		repaired, repErr := jsonrepair.JSONRepair(raw)
		if repErr != nil {
			return nil, false
		}
		if err := json.Unmarshal([]byte(repaired), &call); err != nil {
			return nil, false
		}
	}
	if call.Tool == "" {
		return nil, false
	}
	return &call, true
}

func (d *Dispatcher) run(ctx context.Context, chatID string, call *toolCall) (string, error) {
	switch call.Tool {
	case "crear_recordatorio":
		return d.createReminder(chatID, call.Args["texto"])
	case "listar_recordatorios":
		return d.svc.ListPending(chatID)
	case "listar_eventos":
		return d.listEvents(call.Args["rango"])
	case "crear_evento":
		return d.createEvent(call.Args["texto"])
	default:
		return "", fmt.Errorf("unknown tool %q", call.Tool)
	}
}

func (d *Dispatcher) createReminder(chatID, text string) (string, error) {
	if text == "" {
		return "¿Qué quieres que te recuerde?", nil
	}
	r, err := d.svc.CreateFromText(chatID, text)
	if err != nil {
		return "", err
	}
	if r.TriggerAt != nil {
		return fmt.Sprintf("Anotado ✅ Te aviso %s.", reminders.FormatDate(*r.TriggerAt, time.Now())), nil
	}
	return "Anotado como tarea sin fecha ✅", nil
}

func (d *Dispatcher) listEvents(rango string) (string, error) {
	if d.cal == nil || !d.cal.IsAuthenticated() {
		return "Google Calendar no está conectado.", nil
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)
	label := "hoy"
	if strings.Contains(strings.ToLower(rango), "semana") {
		to = from.AddDate(0, 0, 7)
		label = "esta semana"
	}

	events, err := d.cal.ListEventsInRange(from, to)
	if err != nil {
		return "", err
	}
	return FormatAgenda(label, events), nil
}

func (d *Dispatcher) createEvent(text string) (string, error) {
	if d.cal == nil || !d.cal.IsAuthenticated() {
		return "Google Calendar no está conectado.", nil
	}
	if text == "" {
		return "¿Qué evento quieres crear?", nil
	}

	ev, err := d.cal.QuickAdd(text)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Evento creado 📅 %s, %s.", ev.Summary, reminders.FormatDate(ev.StartTime, time.Now())), nil
}

// FormatAgenda renders a list of calendar events for chat.
func FormatAgenda(label string, events []gcal.Event) string {
	if len(events) == 0 {
		return fmt.Sprintf("No tienes eventos %s. 🎉", label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 *Agenda %s:*\n", label)
	for _, ev := range events {
		if ev.AllDay {
			fmt.Fprintf(&b, "- %s (todo el día, %02d/%02d)\n", ev.Summary, ev.StartTime.Day(), int(ev.StartTime.Month()))
			continue
		}
		fmt.Fprintf(&b, "- %s, %s\n", ev.Summary, reminders.FormatDate(ev.StartTime, time.Now()))
	}
	return b.String()
}
