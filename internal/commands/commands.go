package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"asistente/internal/database"
	"asistente/internal/ollama"
	"asistente/internal/reminders"
)

// Handler owns the slash-command surface. Commands tolerate typos: an
// unknown command close enough to a real one runs the real one.
type Handler struct {
	db  *database.DB
	svc *reminders.Service
	llm *ollama.Client
}

func NewHandler(db *database.DB, svc *reminders.Service, llm *ollama.Client) *Handler {
	return &Handler{db: db, svc: svc, llm: llm}
}

// Handle runs text as a command when it starts with "/". The second return
// is false when the text is not a command at all.
func (h *Handler) Handle(ctx context.Context, chatID, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}

	parts := strings.Fields(text[1:])
	if len(parts) == 0 {
		return "", false
	}

	name, ok := matchCommand(parts[0])
	if !ok {
		return fmt.Sprintf("No conozco el comando /%s. Usa /ayuda para ver la lista.", parts[0]), true
	}
	args := strings.TrimSpace(strings.TrimPrefix(text[1:], parts[0]))

	reply, err := h.run(ctx, chatID, name, args)
	if err != nil {
		if isUserError(err) {
			return err.Error(), true
		}
		fmt.Printf("Command /%s failed: %v\n", name, err)
		return "Algo salió mal con ese comando. Intenta de nuevo.", true
	}
	return reply, true
}

func isUserError(err error) bool {
	return errors.Is(err, reminders.ErrUnresolvableTime) || errors.Is(err, reminders.ErrReminderNotFound)
}

func (h *Handler) run(ctx context.Context, chatID, name, args string) (string, error) {
	switch name {
	case "ayuda":
		return helpText, nil
	case "nombre":
		return h.setConfig(database.ConfigKeyName, args, "Listo, ahora me llamo *%s*.")
	case "personalidad":
		return h.setConfig(database.ConfigKeyPersonality, args, "Personalidad actualizada: %s")
	case "refinar":
		return h.refinePersonality(ctx, args)
	case "modelo":
		return h.setModel(args)
	case "recordar":
		return h.createReminder(chatID, args)
	case "tarea":
		return h.createTask(chatID, args)
	case "recordatorios":
		return h.svc.ListPending(chatID)
	case "completar":
		return h.complete(args)
	case "cancelar":
		return h.cancel(args)
	case "fecha":
		return h.attachDate(args)
	case "limpiar":
		return h.clearConversation(chatID)
	case "memoria":
		return h.memory(chatID, args)
	case "olvidar":
		return h.forget(chatID, args)
	case "whitelist":
		return h.whitelist(args)
	case "stats":
		return h.stats()
	default:
		return "", fmt.Errorf("unhandled command %q", name)
	}
}

func (h *Handler) setConfig(key, value, okFormat string) (string, error) {
	if value == "" {
		current, err := h.db.GetConfig(key)
		if err != nil {
			return "", err
		}
		if current == "" {
			return "No está configurado todavía.", nil
		}
		return current, nil
	}
	if err := h.db.SetConfig(key, value); err != nil {
		return "", err
	}
	return fmt.Sprintf(okFormat, value), nil
}

// refinePersonality asks the model to rewrite the stored personality with
// the user's adjustment folded in.
func (h *Handler) refinePersonality(ctx context.Context, adjustment string) (string, error) {
	if adjustment == "" {
		return "Dime qué quieres ajustar, por ejemplo: /refinar sé más directo", nil
	}
	if h.llm == nil {
		return "No hay modelo configurado para refinar la personalidad.", nil
	}

	current, err := h.db.GetConfig(database.ConfigKeyPersonality)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"Personalidad actual del asistente: %q\nAjuste pedido por el usuario: %q\n"+
			"Escribe la nueva descripción de personalidad en un párrafo corto, en segunda persona. Solo el párrafo.",
		current, adjustment,
	)
	revised, err := h.llm.Chat(ctx, "", []ollama.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", fmt.Errorf("failed to refine personality: %w", err)
	}
	revised = strings.TrimSpace(revised)
	if revised == "" {
		return "El modelo no devolvió nada, dejo la personalidad como estaba.", nil
	}
	if err := h.db.SetConfig(database.ConfigKeyPersonality, revised); err != nil {
		return "", err
	}
	return "Personalidad actualizada: " + revised, nil
}

func (h *Handler) setModel(args string) (string, error) {
	if h.llm == nil {
		return "No hay modelo de Ollama configurado.", nil
	}
	if args == "" {
		return "Modelo actual: " + h.llm.Model(), nil
	}
	if err := h.db.SetConfig(database.ConfigKeyModel, args); err != nil {
		return "", err
	}
	h.llm.SetModel(args)
	return "Modelo cambiado a *" + args + "*.", nil
}

func (h *Handler) createReminder(chatID, args string) (string, error) {
	if args == "" {
		return "Dime qué recordarte, por ejemplo: /recordar comprar leche en 2 horas", nil
	}
	r, err := h.svc.CreateFromText(chatID, args)
	if err != nil {
		return "", err
	}
	if r.TriggerAt != nil {
		return fmt.Sprintf("Anotado ✅ Te aviso %s.", reminders.FormatDate(*r.TriggerAt, time.Now())), nil
	}
	return "Anotado como tarea sin fecha ✅ Usa /fecha " + strconv.FormatInt(r.ID, 10) + " <cuándo> para programarla.", nil
}

func (h *Handler) createTask(chatID, args string) (string, error) {
	if args == "" {
		return "Dime la tarea, por ejemplo: /tarea lavar el coche", nil
	}
	r, err := h.svc.Create(chatID, args, "")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Tarea %d anotada ✅", r.ID), nil
}

func (h *Handler) complete(args string) (string, error) {
	id, err := parseID(args)
	if err != nil {
		return "Dime el número, por ejemplo: /completar 3", nil
	}
	ok, err := h.svc.Complete(id)
	if err != nil {
		return "", err
	}
	if !ok {
		return reminders.ErrReminderNotFound.Error(), nil
	}
	return "Marcado como hecho ✅", nil
}

func (h *Handler) cancel(args string) (string, error) {
	id, err := parseID(args)
	if err != nil {
		return "Dime el número, por ejemplo: /cancelar 3", nil
	}
	ok, err := h.svc.Cancel(id)
	if err != nil {
		return "", err
	}
	if !ok {
		return reminders.ErrReminderNotFound.Error(), nil
	}
	return "Recordatorio cancelado 🗑️", nil
}

func (h *Handler) attachDate(args string) (string, error) {
	fields := strings.SplitN(args, " ", 2)
	if len(fields) < 2 {
		return "Úsalo así: /fecha 3 mañana a las 9am", nil
	}
	id, err := parseID(fields[0])
	if err != nil {
		return "Úsalo así: /fecha 3 mañana a las 9am", nil
	}
	when, err := h.svc.AttachOrReplaceDate(id, fields[1])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Listo, te aviso %s.", reminders.FormatDate(when, time.Now())), nil
}

func (h *Handler) clearConversation(chatID string) (string, error) {
	n, err := h.db.ClearConversation(chatID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Historial borrado (%d mensajes). Empezamos de cero. 🧹", n), nil
}

func (h *Handler) memory(chatID, args string) (string, error) {
	if args != "" {
		if _, err := h.db.SaveMemory(chatID, args, "manual", 100); err != nil {
			return "", err
		}
		return "Lo voy a recordar 🧠", nil
	}

	mems, err := h.db.GetMemories(chatID, 0)
	if err != nil {
		return "", err
	}
	if len(mems) == 0 {
		return "No tengo nada guardado sobre ti todavía.", nil
	}
	var b strings.Builder
	b.WriteString("🧠 *Lo que sé de ti:*\n")
	for _, m := range mems {
		fmt.Fprintf(&b, "%d. %s\n", m.ID, m.Content)
	}
	b.WriteString("\nUsa /olvidar N para borrar una.")
	return b.String(), nil
}

func (h *Handler) forget(chatID, args string) (string, error) {
	id, err := parseID(args)
	if err != nil {
		return "Dime el número, por ejemplo: /olvidar 2", nil
	}
	ok, err := h.db.DeleteMemory(id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "No encontré esa memoria. Usa /memoria para ver la lista.", nil
	}
	return "Olvidado 👌", nil
}

func (h *Handler) whitelist(args string) (string, error) {
	fields := strings.Fields(args)
	switch {
	case len(fields) == 0:
		entries, err := h.db.GetWhitelist()
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "La whitelist está vacía.", nil
		}
		var b strings.Builder
		b.WriteString("📱 *Whitelist:*\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "- %s\n", e.PhoneNumber)
		}
		return b.String(), nil
	case len(fields) == 2 && (fields[0] == "add" || fields[0] == "agregar"):
		added, err := h.db.AddToWhitelist(fields[1])
		if err != nil {
			return "", err
		}
		if !added {
			return "Ese número ya estaba en la whitelist.", nil
		}
		return "Número agregado ✅", nil
	case len(fields) == 2 && (fields[0] == "remove" || fields[0] == "quitar"):
		removed, err := h.db.RemoveFromWhitelist(fields[1])
		if err != nil {
			return "", err
		}
		if !removed {
			return "Ese número no estaba en la whitelist.", nil
		}
		return "Número quitado 🗑️", nil
	default:
		return "Úsalo así: /whitelist, /whitelist agregar 521333... o /whitelist quitar 521333...", nil
	}
}

func (h *Handler) stats() (string, error) {
	st, err := h.db.GetStats()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"📊 *Stats*\nMensajes: %d\nRecordatorios pendientes: %d\nNúmeros en whitelist: %d\nMemorias: %d",
		st.TotalMessages, st.PendingReminders, st.WhitelistCount, st.TotalMemories,
	), nil
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

const helpText = `🤖 *Comandos*
/recordar <texto con fecha> — crear recordatorio
/tarea <texto> — tarea sin fecha
/recordatorios — ver pendientes
/completar N — marcar hecho
/cancelar N — borrar
/fecha N <cuándo> — poner o mover fecha
/nombre <nombre> — cambiar mi nombre
/personalidad <texto> — cambiar mi personalidad
/refinar <ajuste> — refinar personalidad con el modelo
/modelo <nombre> — cambiar modelo de Ollama
/memoria [texto] — guardar o ver memorias
/olvidar N — borrar una memoria
/limpiar — borrar historial de conversación
/stats — estadísticas

También me puedes escribir normal: "recuérdame X en 10 minutos".`
