package esrules

import (
	"regexp"
	"time"

	"github.com/olebedev/when/rules"
)

var weekdays = map[string]time.Weekday{
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"domingo":   time.Sunday,
}

// Weekday resolves "el viernes", "próximo martes", "este sábado" to the next
// occurrence of that weekday. When the reference day already is that weekday
// the match jumps a full week ahead: a reminder for "el viernes" asked on a
// Friday means the coming one, not right now.
func Weekday(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:\W|^)(?:(este|el|pr[oó]ximo|siguiente)\s+)?(lunes|martes|mi[eé]rcoles|jueves|viernes|s[aá]bado|domingo)(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			target, ok := weekdays[normalize(m.Captures[1])]
			if !ok {
				return false, nil
			}

			diff := (int(target) - int(ref.Weekday()) + 7) % 7
			if diff == 0 {
				diff = 7
			}

			c.Duration += time.Duration(diff) * 24 * time.Hour
			return true, nil
		},
	}
}
