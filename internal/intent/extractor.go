package intent

import (
	"context"
	"regexp"
	"strings"
	"time"

	"asistente/internal/temporal"
)

// Extraction is the result of looking at a raw message for reminder intent.
// Found=false is the normal "just chat" outcome, not an error.
type Extraction struct {
	Found          bool
	Message        string
	TimeExpression string
	TriggerAt      *time.Time
}

// Extractor recognizes reminder-creation utterances and splits them into a
// task description plus an optional resolved trigger time.
type Extractor interface {
	Extract(ctx context.Context, text string, ref time.Time) (*Extraction, error)
}

var (
	triggerRe = regexp.MustCompile(`(?i)\b(?:recu[ée]rdame(?:lo)?|recordarme|recu[ée]rdame|av[íi]same|ponme\s+un\s+recordatorio|no\s+(?:me\s+dejes\s+)?olvid(?:es|ar)|que\s+no\s+se\s+me\s+olvide)\b`)

	obligationRe = regexp.MustCompile(`(?i)\b(?:tengo\s+que|debo(?:\s+de)?|hay\s+que|necesito)\b`)

	bareDeadlineRe = regexp.MustCompile(`(?i)\b(?:en|dentro\s+de)\s+\d+\s+[a-záéíóúñ]+`)

	leadingFillerRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:hola|oye|hey|buenas(?:\s+(?:tardes|noches))?|buenos\s+d[íi]as)[\s,!.]+`),
		regexp.MustCompile(`(?i)^(?:por\s+favor[\s,]+)`),
		regexp.MustCompile(`(?i)^(?:recu[ée]rdame(?:lo)?|recordarme|recu[ée]rdame|av[íi]same|ponme\s+un\s+recordatorio(?:\s+de)?|no\s+(?:me\s+dejes\s+)?olvid(?:es|ar)(?:\s+de)?|que\s+no\s+se\s+me\s+olvide(?:\s+de)?)\b[\s,]*`),
		regexp.MustCompile(`(?i)^(?:tengo\s+que|debo(?:\s+de)?|hay\s+que|necesito)\b\s*`),
		regexp.MustCompile(`(?i)^que\b\s*`),
		regexp.MustCompile(`(?i)^de\b\s*`),
	}

	trailingConnectorRe = regexp.MustCompile(`(?i)(?:\s+(?:el|la|los|las|en|de|del|a|para|por|que|a\s+las?|de\s+la\s+(?:ma[ñn]ana|tarde|noche)))+[\s,.!]*$`)
)

// RegexExtractor is the deterministic extractor. It detects trigger phrasing
// with fixed patterns and delegates the temporal part to the resolver,
// removing the matched span from the task text afterwards.
type RegexExtractor struct {
	resolver *temporal.Resolver
}

func NewRegexExtractor(resolver *temporal.Resolver) *RegexExtractor {
	return &RegexExtractor{resolver: resolver}
}

func (e *RegexExtractor) Extract(ctx context.Context, text string, ref time.Time) (*Extraction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &Extraction{}, nil
	}

	res, resErr := e.resolver.Resolve(text, ref)
	hasTime := resErr == nil

	switch {
	case triggerRe.MatchString(text):
		// Explicit trigger verb wins, with or without a time clause.
	case obligationRe.MatchString(text) && hasTime:
		// "tengo que X en Y" counts only when a time clause is present.
	case hasTime && bareDeadlineRe.MatchString(text):
		// Bare "en N unidad" clause: everything else is the task.
	default:
		return &Extraction{}, nil
	}

	remainder := text
	out := &Extraction{Found: true}
	if hasTime {
		remainder = removeSpan(text, res.Index, len(res.Text))
		out.TimeExpression = res.Text
		out.TriggerAt = &res.Time
	}

	message := cleanup(remainder)
	if message == "" {
		// Over-aggressive cleanup: keep the original minus the time span.
		message = strings.TrimSpace(remainder)
	}
	out.Message = message
	return out, nil
}

func removeSpan(text string, index, length int) string {
	if index < 0 || index+length > len(text) {
		return text
	}
	return strings.TrimSpace(text[:index] + " " + text[index+length:])
}

// cleanup strips greetings, trigger verbs, obligation phrases and leftover
// time connectors, repeating until the text stops changing.
func cleanup(s string) string {
	s = strings.TrimSpace(s)
	for {
		before := s
		for _, re := range leadingFillerRes {
			s = strings.TrimSpace(re.ReplaceAllString(s, ""))
		}
		s = strings.TrimSpace(trailingConnectorRe.ReplaceAllString(s, ""))
		s = strings.Trim(s, " ,.!¡¿?")
		if s == before {
			return s
		}
	}
}
