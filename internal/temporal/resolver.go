package temporal

import (
	"errors"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"

	"asistente/internal/temporal/esrules"
)

// ErrNoTimeExpression reports that the text carries no recognizable time
// expression. Callers decide whether that means "task without date" or a
// user-facing error.
var ErrNoTimeExpression = errors.New("no time expression found")

// Resolution is a resolved time expression: the absolute moment it denotes
// and the span of the input that produced it, so the reminder text can be
// cleaned of it afterwards.
type Resolution struct {
	Time  time.Time
	Text  string
	Index int
}

// Resolver turns Spanish natural-language time expressions into absolute
// timestamps relative to a reference moment.
type Resolver struct {
	w *when.Parser
}

func NewResolver() *Resolver {
	w := when.New(&rules.Options{
		Distance:     10,
		MatchByOrder: true,
	})
	w.Add(esrules.All()...)
	return &Resolver{w: w}
}

// Resolve parses text against ref. Expressions always resolve forward: a
// clock time already past today lands on tomorrow, a weekday lands on its
// next occurrence. Returns ErrNoTimeExpression when nothing matched, after
// trying a typo-tolerant fallback for "en N <unidad>" phrases.
func (r *Resolver) Resolve(text string, ref time.Time) (*Resolution, error) {
	res, err := r.w.Parse(text, ref)
	if err != nil {
		return nil, err
	}
	if res == nil {
		if fr, ok := fuzzyResolve(text, ref); ok {
			return fr, nil
		}
		return nil, ErrNoTimeExpression
	}

	t := res.Time
	if t.Before(ref) {
		t = t.Add(24 * time.Hour)
	}

	// Rule regexps anchor on non-word boundaries, so the matched text can
	// carry surrounding spaces or punctuation. Trim them and keep the index
	// pointing at the real start of the expression.
	text, index := res.Text, res.Index
	trimmed := strings.TrimLeft(text, " \t,.;¡!¿?")
	index += len(text) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t,.;¡!¿?")

	return &Resolution{
		Time:  t,
		Text:  trimmed,
		Index: index,
	}, nil
}
