package temporal

import (
	"regexp"
	"strconv"
	"time"

	"github.com/agnivade/levenshtein"
)

// fuzzyAmountRe catches "en 10 mintos" style phrases where the unit came out
// of the keyboard mangled and none of the strict rules matched.
var fuzzyAmountRe = regexp.MustCompile(`(?i)(?:en|dentro\s+de)\s+(\d+)\s+([a-záéíóúñ]+)`)

var unitAliases = map[string]time.Duration{
	"s":    time.Second,
	"seg":  time.Second,
	"segs": time.Second,
	"min":  time.Minute,
	"mins": time.Minute,
	"m":    time.Minute,
	"h":    time.Hour,
	"hr":   time.Hour,
	"hrs":  time.Hour,
	"hs":   time.Hour,
	"d":    24 * time.Hour,
	"dia":  24 * time.Hour,
	"dias": 24 * time.Hour,
	"sem":  7 * 24 * time.Hour,
}

var canonicalUnits = []struct {
	name string
	dur  time.Duration
}{
	{"segundos", time.Second},
	{"minutos", time.Minute},
	{"horas", time.Hour},
	{"dias", 24 * time.Hour},
	{"semanas", 7 * 24 * time.Hour},
}

// fuzzyResolve is the last-resort pass: a literal "en N <algo>" where <algo>
// is either a known abbreviation or within edit distance of a real unit.
func fuzzyResolve(text string, ref time.Time) (*Resolution, bool) {
	loc := fuzzyAmountRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil, false
	}

	match := text[loc[0]:loc[1]]
	amount, err := strconv.Atoi(text[loc[2]:loc[3]])
	if err != nil || amount <= 0 {
		return nil, false
	}
	unit := normalizeUnit(text[loc[4]:loc[5]])

	dur, ok := unitAliases[unit]
	if !ok {
		dur, ok = closestUnit(unit)
	}
	if !ok {
		return nil, false
	}

	return &Resolution{
		Time:  ref.Add(time.Duration(amount) * dur),
		Text:  match,
		Index: loc[0],
	}, true
}

func closestUnit(unit string) (time.Duration, bool) {
	// Singular forms compare better against the canonical plurals with a
	// trailing s appended.
	if len(unit) > 0 && unit[len(unit)-1] != 's' {
		unit += "s"
	}
	maxDist := 1
	if len(unit) > 5 {
		maxDist = 2
	}
	for _, cu := range canonicalUnits {
		if unit[0] != cu.name[0] {
			continue
		}
		if levenshtein.ComputeDistance(unit, cu.name) <= maxDist {
			return cu.dur, true
		}
	}
	return 0, false
}

var accentReplacer = map[rune]rune{
	'á': 'a', 'é': 'e', 'í': 'i', 'ó': 'o', 'ú': 'u', 'ü': 'u', 'ñ': 'n',
}

func normalizeUnit(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if rep, ok := accentReplacer[r]; ok {
			r = rep
		}
		out = append(out, r)
	}
	return string(out)
}
