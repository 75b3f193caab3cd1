package esrules

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when/rules"
)

// ClockTime resolves "a las 7", "a las 7:30 pm", "a la 1 de la tarde",
// "9am". A bare number with no "a la(s)" prefix, no minutes and no meridiem
// never matches, so amounts like "en 10 minutos" pass through untouched.
func ClockTime(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:\W|^)(a\s+las?\s+)?(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.|de\s+la\s+ma[ñn]ana|de\s+la\s+tarde|de\s+la\s+noche)?(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			prefix := m.Captures[0]
			minutes := m.Captures[2]
			meridiem := normalize(m.Captures[3])

			if prefix == "" && minutes == "" && meridiem == "" {
				return false, nil
			}

			hour, err := strconv.Atoi(m.Captures[1])
			if err != nil || hour > 23 {
				return false, nil
			}

			min := 0
			if minutes != "" {
				min, err = strconv.Atoi(minutes)
				if err != nil || min > 59 {
					return false, nil
				}
			}

			switch {
			case strings.HasPrefix(meridiem, "p") || strings.Contains(meridiem, "tarde") || strings.Contains(meridiem, "noche"):
				if hour < 12 {
					hour += 12
				}
			case strings.HasPrefix(meridiem, "a") || strings.Contains(meridiem, "manana"):
				if hour == 12 {
					hour = 0
				}
			}

			c.Hour = intPtr(hour)
			c.Minute = intPtr(min)
			return true, nil
		},
	}
}
