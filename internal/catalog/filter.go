package catalog

import (
	"strings"

	"github.com/claude/fittrack/internal/program"
)

// Query narrows a catalog list. Empty fields match everything.
type Query struct {
	Name      string
	Muscle    string
	Equipment string
}

// Filter returns the items matching q, in their original order. Name matches as a
// case-insensitive substring; muscle and equipment must match in full, ignoring case.
func Filter(items []program.CatalogExercise, q Query) []program.CatalogExercise {
	name := strings.ToLower(strings.TrimSpace(q.Name))
	muscle := strings.TrimSpace(q.Muscle)
	equipment := strings.TrimSpace(q.Equipment)

	out := make([]program.CatalogExercise, 0, len(items))
	for _, it := range items {
		if name != "" && !strings.Contains(strings.ToLower(it.Name), name) {
			continue
		}
		if muscle != "" && !strings.EqualFold(it.Muscle, muscle) {
			continue
		}
		if equipment != "" && !strings.EqualFold(it.Equipment, equipment) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Find returns the first item whose name equals name, ignoring case.
func Find(items []program.CatalogExercise, name string) (program.CatalogExercise, bool) {
	for _, it := range items {
		if strings.EqualFold(it.Name, strings.TrimSpace(name)) {
			return it, true
		}
	}
	return program.CatalogExercise{}, false
}
