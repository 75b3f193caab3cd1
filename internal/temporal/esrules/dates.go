package esrules

import (
	"regexp"
	"strconv"
	"time"

	"github.com/olebedev/when/rules"
)

var months = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// MonthDate resolves "el 15 de marzo" and "15 de marzo de 2026". Without an
// explicit year the date rolls into next year if it already passed.
func MonthDate(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:\W|^)(?:el\s+)?(\d{1,2})\s+de\s+(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre)(?:\s+de\s+(\d{4}))?(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			day, err := strconv.Atoi(m.Captures[0])
			if err != nil || day < 1 || day > 31 {
				return false, nil
			}
			month, ok := months[normalize(m.Captures[1])]
			if !ok {
				return false, nil
			}

			year := ref.Year()
			if m.Captures[2] != "" {
				y, err := strconv.Atoi(m.Captures[2])
				if err != nil {
					return false, nil
				}
				year = y
			} else {
				candidate := time.Date(year, month, day, 23, 59, 59, 0, ref.Location())
				if candidate.Before(ref) {
					year++
				}
			}

			c.Year = intPtr(year)
			c.Month = intPtr(int(month))
			c.Day = intPtr(day)
			return true, nil
		},
	}
}

// SlashDate resolves numeric dates "15/3" and "15/3/2026", day first.
func SlashDate(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:\W|^)(?:el\s+)?(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			day, err1 := strconv.Atoi(m.Captures[0])
			month, err2 := strconv.Atoi(m.Captures[1])
			if err1 != nil || err2 != nil || day < 1 || day > 31 || month < 1 || month > 12 {
				return false, nil
			}

			year := ref.Year()
			if m.Captures[2] != "" {
				y, err := strconv.Atoi(m.Captures[2])
				if err != nil {
					return false, nil
				}
				if y < 100 {
					y += 2000
				}
				year = y
			} else {
				candidate := time.Date(year, time.Month(month), day, 23, 59, 59, 0, ref.Location())
				if candidate.Before(ref) {
					year++
				}
			}

			c.Year = intPtr(year)
			c.Month = intPtr(month)
			c.Day = intPtr(day)
			return true, nil
		},
	}
}
