package catalog

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"madrasti/elearning-app/internal/domain"
)

// Placeholder course data, served when the real catalog cannot be loaded so
// the app stays exercisable offline and in development. Responses built from
// it are flagged so a client can show a notice instead of passing the data
// off as live.

var placeholderProfessors = []domain.ProfessorRef{
	{ID: mustObjectID("64f000000000000000000a01"), LastName: "Arddour", Specialisation: "Mathematiques"},
	{ID: mustObjectID("64f000000000000000000a02"), LastName: "Laaouani", Specialisation: "Physique"},
}

// PlaceholderCourses returns a fresh copy of the fallback dataset. IDs are
// stable across calls so navigation against placeholder data still works.
func PlaceholderCourses() []domain.Course {
	courses := []domain.Course{
		{
			ID:              mustObjectID("64f000000000000000000c01"),
			Title:           "2 BAC SM BIOF Mathematiques",
			Subject:         "Mathematiques",
			Professor:       placeholderProfessors[0],
			Price:           300,
			Rating:          5.0,
			NumberOfReviews: 1200,
			Description:     "Formation complète de mathématiques pour la filière Sciences Mathématiques option BIOF.",
			Dates: []domain.CourseDate{
				{Day: "Lundi", Time: "18h30 – 21h00"},
				{Day: "Mercredi", Time: "18h30 – 21h00"},
			},
		},
		{
			ID:              mustObjectID("64f000000000000000000c02"),
			Title:           "2 BAC SM BIOF Physique",
			Subject:         "Physique",
			Professor:       placeholderProfessors[1],
			Price:           300,
			Rating:          4.3,
			NumberOfReviews: 1200,
			Description:     "Plongez au cœur des ondes lumineuses à travers une formation complète et interactive.",
			Dates: []domain.CourseDate{
				{Day: "Lundi", Time: "18h30 – 21h00"},
				{Day: "Vendredi", Time: "18h30 – 21h00"},
			},
		},
		{
			ID:              mustObjectID("64f000000000000000000c03"),
			Title:           "1 BAC SE Français",
			Subject:         "Français",
			Professor:       domain.ProfessorRef{ID: mustObjectID("64f000000000000000000a03"), LastName: "Bennani", Specialisation: "Français"},
			Price:           250,
			Rating:          4.7,
			NumberOfReviews: 860,
		},
	}
	return courses
}

func mustObjectID(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic("catalog: bad placeholder object id: " + hex)
	}
	return id
}
