package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/hogwarts/internal/models"
)

// Normalize trims s and lowercases it. Search terms and house names go
// through this before use.
func Normalize(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// FilterByName keeps the characters whose name contains query, ignoring
// case. Order is preserved. A blank query returns base unchanged.
func FilterByName(base []models.Character, query string) []models.Character {
	query = Normalize(query)
	if query == "" {
		return base
	}
	lower := cases.Lower(language.Und)

	filtered := make([]models.Character, 0, len(base))
	for _, c := range base {
		if c.Name == "" {
			continue
		}
		if strings.Contains(lower.String(c.Name), query) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// window returns the [from, to) bounds of page within total items.
func window(page, total int) (int, int) {
	from := total
	if page-1 < total/PageSize+1 {
		from = min((page-1)*PageSize, total)
	}
	to := min(from+PageSize, total)
	return from, to
}
