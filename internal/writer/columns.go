package writer

import (
	"sort"

	"github.com/insightdelivered/statement-parser/internal/models"
)

// Columns returns the union of keys across rows in discovery order. When
// preferred is given, keys it names are sorted by their position in it and
// every other key follows, keeping discovery order among themselves.
func Columns(rows []models.Row, preferred []string) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, row := range rows {
		for _, f := range row {
			if !seen[f.Key] {
				seen[f.Key] = true
				cols = append(cols, f.Key)
			}
		}
	}
	if len(preferred) == 0 {
		return cols
	}

	rank := make(map[string]int, len(preferred))
	for i, key := range preferred {
		if _, ok := rank[key]; !ok {
			rank[key] = i
		}
	}
	position := func(key string) int {
		if i, ok := rank[key]; ok {
			return i
		}
		return len(preferred)
	}
	sort.SliceStable(cols, func(i, j int) bool {
		return position(cols[i]) < position(cols[j])
	})
	return cols
}
