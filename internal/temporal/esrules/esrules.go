// Package esrules implements Spanish rules for the when natural-language
// date parser: casual day words, weekdays, relative amounts, clock times
// and calendar dates, with a future-date preference throughout.
package esrules

import (
	"github.com/olebedev/when/rules"
)

// All returns the full Spanish rule set in priority order.
func All() []rules.Rule {
	return []rules.Rule{
		CasualDate(rules.Override),
		Weekday(rules.Override),
		Deadline(rules.Override),
		MonthDate(rules.Override),
		SlashDate(rules.Override),
		ClockTime(rules.Override),
	}
}

func intPtr(v int) *int {
	return &v
}
