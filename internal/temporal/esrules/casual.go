package esrules

import (
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when/rules"
)

// CasualDate handles hoy, mañana, pasado mañana, esta tarde/noche, ahora.
// "mañana" preceded by "de la" / "por la" / "en la" means the morning of an
// already-chosen day, so that form is left for the clock-time rule.
func CasualDate(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:\W|^)((?:de|por|en)\s+la\s+)?(pasado\s+ma[ñn]ana|ma[ñn]ana|esta\s+noche|esta\s+tarde|hoy|ahorita|ahora)(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			if strings.TrimSpace(m.Captures[0]) != "" {
				// "de la mañana" is a meridiem, not a day
				return false, nil
			}

			word := normalize(m.Captures[1])
			switch {
			case strings.HasPrefix(word, "pasado"):
				c.Duration += 48 * time.Hour
			case word == "manana":
				c.Duration += 24 * time.Hour
			case word == "esta noche":
				if c.Hour == nil && s != rules.Skip {
					c.Hour = intPtr(22)
					c.Minute = intPtr(0)
				}
			case word == "esta tarde":
				if c.Hour == nil && s != rules.Skip {
					c.Hour = intPtr(16)
					c.Minute = intPtr(0)
				}
			case word == "hoy", word == "ahora", word == "ahorita":
				// Anchor on the reference day; nothing to adjust.
			default:
				return false, nil
			}

			return true, nil
		},
	}
}

// normalize lowercases and strips the accents that show up in Spanish
// temporal words, collapsing inner whitespace.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	)
	s = replacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
