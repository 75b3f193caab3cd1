package intent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"asistente/internal/ollama"
	"asistente/internal/temporal"
)

const extractSystemPrompt = `Eres un analizador de mensajes de WhatsApp en español.
Decide si el mensaje pide crear un recordatorio y sepáralo en sus partes.
Responde SOLO con un objeto JSON con esta forma exacta:
{"es_recordatorio": true|false, "texto": "la tarea sin la parte de tiempo", "expresion_tiempo": "la frase de tiempo tal cual o cadena vacía"}`

type aiExtraction struct {
	EsRecordatorio  bool   `json:"es_recordatorio"`
	Texto           string `json:"texto"`
	ExpresionTiempo string `json:"expresion_tiempo"`
}

// AIExtractor asks the language model to do the split, then resolves the
// returned time phrase deterministically. A malformed or failed model call
// degrades to the regex extractor so a flaky model never blocks reminders.
type AIExtractor struct {
	llm      *ollama.Client
	resolver *temporal.Resolver
	fallback *RegexExtractor
}

func NewAIExtractor(llm *ollama.Client, resolver *temporal.Resolver) *AIExtractor {
	return &AIExtractor{
		llm:      llm,
		resolver: resolver,
		fallback: NewRegexExtractor(resolver),
	}
}

func (e *AIExtractor) Extract(ctx context.Context, text string, ref time.Time) (*Extraction, error) {
	var parsed aiExtraction
	prompt := fmt.Sprintf("Mensaje: %q", text)
	if err := e.llm.GenerateJSON(ctx, extractSystemPrompt, prompt, &parsed); err != nil {
		fmt.Printf("AI extraction failed, using regex extractor: %v\n", err)
		return e.fallback.Extract(ctx, text, ref)
	}

	if !parsed.EsRecordatorio {
		return &Extraction{}, nil
	}

	message := strings.TrimSpace(parsed.Texto)
	if message == "" {
		return e.fallback.Extract(ctx, text, ref)
	}

	out := &Extraction{Found: true, Message: message}
	expr := strings.TrimSpace(parsed.ExpresionTiempo)
	if expr != "" {
		res, err := e.resolver.Resolve(expr, ref)
		if err != nil {
			// The model saw a time phrase the resolver cannot place.
			// Better a dated reminder missed than a wrong date: keep it
			// as an undated task and let the user attach a date.
			fmt.Printf("AI time expression %q did not resolve: %v\n", expr, err)
		} else {
			out.TimeExpression = expr
			out.TriggerAt = &res.Time
		}
	}
	return out, nil
}
