package catalog

import (
	"strings"

	"madrasti/elearning-app/internal/domain"
)

// Filter derives the visible course list from the full catalog, a selected
// category and a free-text query. Every recompute starts from the original
// unfiltered collection; chaining onto a previous result would make filters
// compound when the user changes category after searching.
type Filter struct {
	all        []domain.Course
	category   int
	searchText string
}

// NewFilter creates a filter over the given catalog snapshot. The slice is
// copied so later recomputes cannot observe caller mutations.
func NewFilter(courses []domain.Course) *Filter {
	all := make([]domain.Course, len(courses))
	copy(all, courses)
	return &Filter{all: all, category: domain.CategoryAll}
}

// SetCategory selects a category by position in domain.Categories.
// Out-of-range indexes fall back to "Tout" rather than erroring: the UI's
// category row cannot produce them, so they only appear on malformed input.
func (f *Filter) SetCategory(index int) {
	if index < 0 || index >= len(domain.Categories) {
		index = domain.CategoryAll
	}
	f.category = index
}

// SetSearchText sets the free-text query, applied in addition to the category.
func (f *Filter) SetSearchText(text string) {
	f.searchText = text
}

// Category returns the currently selected category index.
func (f *Filter) Category() int { return f.category }

// Visible recomputes the filtered view from the unfiltered catalog.
func (f *Filter) Visible() []domain.Course {
	return Recompute(f.all, f.category, f.searchText)
}

// Recompute is the pure filter: (allCourses, categoryIndex, searchText) →
// filtered courses, in catalog order. Category 0 ("Tout") bypasses subject
// matching entirely. The search matches when the lowercased title, professor
// last name OR subject contains the lowercased trimmed query.
func Recompute(all []domain.Course, categoryIndex int, searchText string) []domain.Course {
	filtered := make([]domain.Course, 0, len(all))
	filtered = append(filtered, all...)

	if categoryIndex != domain.CategoryAll {
		label := domain.CategoryLabel(categoryIndex)
		kept := filtered[:0]
		for _, course := range filtered {
			if course.MatchesCategory(label) {
				kept = append(kept, course)
			}
		}
		filtered = kept
	}

	query := strings.ToLower(strings.TrimSpace(searchText))
	if query != "" {
		kept := filtered[:0]
		for _, course := range filtered {
			if matchesQuery(&course, query) {
				kept = append(kept, course)
			}
		}
		filtered = kept
	}

	return filtered
}

func matchesQuery(course *domain.Course, query string) bool {
	if strings.Contains(strings.ToLower(course.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(course.Professor.LastName), query) {
		return true
	}
	return strings.Contains(strings.ToLower(course.Subject), query)
}
