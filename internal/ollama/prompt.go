package ollama

import (
	"context"
	"fmt"
	"strings"
)

// BuildSystemPrompt assembles the assistant persona. Name and personality
// come from the runtime config table so the user can change them by chatting.
func BuildSystemPrompt(name, personality string, memories []string) string {
	var b strings.Builder

	if name == "" {
		name = "Asistente"
	}
	fmt.Fprintf(&b, "Eres %s, un asistente personal que conversa por WhatsApp.\n", name)
	b.WriteString("Respondes siempre en español, de forma breve y natural, como en un chat.\n")
	b.WriteString("No uses formato markdown salvo *negritas* ocasionales.\n")

	if personality != "" {
		fmt.Fprintf(&b, "\nPersonalidad: %s\n", personality)
	}

	if len(memories) > 0 {
		b.WriteString("\nCosas que sabes sobre el usuario:\n")
		for _, m := range memories {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}

	return b.String()
}

// Humanize rewrites a due reminder as a short friendly WhatsApp nudge. Any
// failure falls back on the caller side to a fixed template, so errors here
// never block delivery.
func (c *Client) Humanize(ctx context.Context, name, personality, reminderText string) (string, error) {
	system := BuildSystemPrompt(name, personality, nil)
	prompt := fmt.Sprintf(
		"Llegó la hora de este recordatorio del usuario: %q.\n"+
			"Escribe UN solo mensaje corto de WhatsApp avisándole. "+
			"Menciona lo que tenía que hacer. Sin saludos largos ni explicaciones.",
		reminderText,
	)

	reply, err := c.Chat(ctx, system, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("empty humanized reminder")
	}
	return reply, nil
}
