package esrules

import (
	"regexp"
	"strconv"
	"time"

	"github.com/olebedev/when/rules"
)

// Deadline resolves relative amounts: "en 10 minutos", "dentro de 2 horas",
// "en una semana", "en media hora". The "en"/"dentro de" prefix is optional
// so "recuérdame 5 minutos antes de salir" style phrasings still match.
func Deadline(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:\W|^)(?:(?:en|dentro\s+de)\s+)?(\d+|una?|media)\s+(segundos?|minutos?|horas?|d[ií]as?|semanas?)(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			amountStr := normalize(m.Captures[0])
			unit := normalize(m.Captures[1])

			var amount float64
			switch amountStr {
			case "un", "una":
				amount = 1
			case "media":
				amount = 0.5
			default:
				n, err := strconv.Atoi(amountStr)
				if err != nil {
					return false, nil
				}
				amount = float64(n)
			}

			var base time.Duration
			switch unit[0] {
			case 's':
				if unit[:3] == "seg" {
					base = time.Second
				} else {
					base = 7 * 24 * time.Hour // semanas
				}
			case 'm':
				base = time.Minute
			case 'h':
				base = time.Hour
			case 'd':
				base = 24 * time.Hour
			default:
				return false, nil
			}

			c.Duration += time.Duration(amount * float64(base))
			return true, nil
		},
	}
}
