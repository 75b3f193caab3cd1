package processor

import (
	"regexp"
	"strings"
)

// importantKeywords mark messages that probably describe a commitment the
// user would want to be reminded of.
var importantKeywords = []string{
	"cita", "doctor", "dentista", "reunión", "reunion", "junta", "vuelo",
	"pago", "pagar", "renta", "cumpleaños", "cumpleanos", "aniversario",
	"entrega", "examen", "entrevista",
}

var datePatternRe = regexp.MustCompile(`(?i)\b(?:\d{1,2}/\d{1,2}|\d{1,2}\s+de\s+\w+|lunes|martes|mi[ée]rcoles|jueves|viernes|s[áa]bado|domingo|ma[ñn]ana|a\s+las?\s+\d)`)

// LooksImportant reports whether free text mentions a commitment together
// with some date-like phrasing, worth offering a reminder for.
func LooksImportant(text string) bool {
	lower := strings.ToLower(text)

	hasKeyword := false
	for _, kw := range importantKeywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}
	return hasKeyword && datePatternRe.MatchString(text)
}
