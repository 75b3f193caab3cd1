package commands

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

var commandNames = []string{
	"ayuda", "nombre", "personalidad", "refinar", "modelo", "whitelist",
	"recordar", "tarea", "recordatorios", "completar", "cancelar", "fecha",
	"limpiar", "memoria", "olvidar", "stats",
}

// aliases map alternative spellings straight to a canonical command.
var aliases = map[string]string{
	"pendientes": "recordatorios",
	"lista":      "recordatorios",
	"hecho":      "completar",
	"help":       "ayuda",
	"recuerdame": "recordar",
}

// matchCommand finds the canonical command for a typed name, tolerating
// small typos ("recordatorois", "cancelr"). Short names only allow one
// edit so /fecha never swallows an unrelated word.
func matchCommand(typed string) (string, bool) {
	typed = strings.ToLower(typed)

	if alias, ok := aliases[typed]; ok {
		return alias, true
	}
	for _, name := range commandNames {
		if typed == name {
			return name, true
		}
	}

	maxDist := 1
	if len(typed) > 6 {
		maxDist = 2
	}

	best, bestDist := "", maxDist+1
	for _, name := range commandNames {
		d := levenshtein.ComputeDistance(typed, name)
		if d < bestDist {
			best, bestDist = name, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
