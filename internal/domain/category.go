package domain

import "strings"

// Categories is the closed category list, known at build time and never
// server-driven. Index 0 ("Tout") is reserved: it bypasses subject matching.
var Categories = []string{
	"Tout",
	"Mathematiques",
	"Physique",
	"SVT",
	"Sciences Naturelles",
	"Français",
}

// CategoryAll is the index of the catch-all category.
const CategoryAll = 0

// CategoryLabel returns the label for a category index, or "" when the index
// is out of range.
func CategoryLabel(index int) string {
	if index < 0 || index >= len(Categories) {
		return ""
	}
	return Categories[index]
}

// MatchesCategory reports whether the course belongs to the category with the
// given label. Matching is case-insensitive on the trimmed subject; a course
// without a subject matches no category (it only shows under "Tout").
func (c *Course) MatchesCategory(label string) bool {
	subject := strings.TrimSpace(c.Subject)
	if subject == "" {
		return false
	}
	return strings.EqualFold(subject, strings.TrimSpace(label))
}
