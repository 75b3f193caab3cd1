package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"asistente/internal/database"
	"asistente/internal/ollama"
	"asistente/internal/temporal"
)

// postponeLookback bounds how far back a completed reminder stays eligible
// for postponement. Older completions are stale and ignored.
const postponeLookback = 30 * time.Minute

const postponeSystemPrompt = `Un recordatorio acaba de sonar y el usuario respondió algo.
Decide si la respuesta pide posponer ese mismo recordatorio para más tarde.
Responde SOLO con JSON de esta forma exacta:
{"es_posponer": true|false, "nueva_fecha": "YYYY-MM-DD HH:MM"}
Si no es posponer, usa "nueva_fecha": "".
Frases vagas tienen valores concretos: "en un rato" es una hora después,
"más tarde" son dos horas después, "mañana temprano" es mañana a las 07:00.`

type postponeAnswer struct {
	EsPosponer bool   `json:"es_posponer"`
	NuevaFecha string `json:"nueva_fecha"`
}

// postponeCues are phrasings that explicitly point back at the reminder
// that just fired. "recuérdame X" is NOT a cue: without the clitic or a
// re-trigger word it is a fresh reminder request and belongs to the
// extractor, even right after a delivery.
var postponeCues = []string{
	"pospon", "más tarde", "mas tarde", "luego", "despu", "al rato",
	"en un rato", "otra vez", "de nuevo", "todavía no", "todavia no",
	"aún no", "aun no", "recuérdamelo", "recuerdamelo", "avísamelo",
	"avisamelo",
}

// postponeMinLength is the rune count past which a cue-free utterance is
// still handed to the model. Long replies tend to carry the intent in
// free-form wording the cue list cannot anticipate.
const postponeMinLength = 60

// PostponeResolver turns "recuérdame otra vez en 10 minutos" said right
// after a delivered reminder into a fresh reminder carrying the same task.
type PostponeResolver struct {
	store    Store
	resolver *temporal.Resolver
	llm      *ollama.Client
}

func NewPostponeResolver(store Store, resolver *temporal.Resolver, llm *ollama.Client) *PostponeResolver {
	return &PostponeResolver{store: store, resolver: resolver, llm: llm}
}

// Resolve checks whether utterance postpones the chat's most recently
// delivered reminder. Returns (nil, false, nil) when it does not; the
// original reminder stays completed either way, postponing creates a new
// one with the same message.
func (p *PostponeResolver) Resolve(ctx context.Context, chatID, utterance string, now time.Time) (*database.Reminder, bool, error) {
	cued := hasPostponeCue(utterance)
	if !cued && utf8.RuneCountInString(utterance) < postponeMinLength {
		return nil, false, nil
	}

	last, err := p.store.GetLastCompletedReminder(chatID, now.Add(-postponeLookback))
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up last completed reminder: %w", err)
	}
	if last == nil {
		return nil, false, nil
	}

	// Deterministic path: an explicit re-trigger cue plus a parseable time
	// needs no model. The cue is what makes this a postponement; a parseable
	// time alone could just as well be a brand-new reminder request.
	if cued {
		if res, rerr := p.resolver.Resolve(utterance, now); rerr == nil && res.Time.After(now) {
			r, cerr := p.store.CreateReminder(chatID, last.Message, &res.Time)
			if cerr != nil {
				return nil, false, fmt.Errorf("failed to create postponed reminder: %w", cerr)
			}
			return r, true, nil
		}
	}

	if p.llm == nil {
		return nil, false, nil
	}

	newTime, ok := p.askModel(ctx, last.Message, utterance, now)
	if !ok {
		return nil, false, nil
	}

	r, err := p.store.CreateReminder(chatID, last.Message, &newTime)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create postponed reminder: %w", err)
	}
	return r, true, nil
}

func hasPostponeCue(utterance string) bool {
	lower := strings.ToLower(utterance)
	for _, cue := range postponeCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// askModel lets the LLM judge vaguer phrasings ("todavía no, al rato").
// Malformed output or a date that is not in the future degrades to "not a
// postponement", never an error.
func (p *PostponeResolver) askModel(ctx context.Context, originalMessage, utterance string, now time.Time) (time.Time, bool) {
	prompt := fmt.Sprintf(
		"Recordatorio que sonó: %q\nRespuesta del usuario: %q\nFecha y hora actual: %s",
		originalMessage, utterance, now.Format("2006-01-02 15:04"),
	)

	var answer postponeAnswer
	if err := p.llm.GenerateJSON(ctx, postponeSystemPrompt, prompt, &answer); err != nil {
		fmt.Printf("Postponement: model call failed: %v\n", err)
		return time.Time{}, false
	}
	if !answer.EsPosponer || answer.NuevaFecha == "" {
		return time.Time{}, false
	}

	t, err := time.ParseInLocation("2006-01-02 15:04", answer.NuevaFecha, now.Location())
	if err != nil {
		fmt.Printf("Postponement: model returned unparseable date %q\n", answer.NuevaFecha)
		return time.Time{}, false
	}
	if !t.After(now) {
		return time.Time{}, false
	}
	return t, true
}
