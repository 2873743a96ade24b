package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"madrasti/elearning-app/internal/domain"
)

func course(title, subject, profLastName string) domain.Course {
	return domain.Course{
		ID:      primitive.NewObjectID(),
		Title:   title,
		Subject: subject,
		Professor: domain.ProfessorRef{
			ID:       primitive.NewObjectID(),
			LastName: profLastName,
		},
	}
}

func categoryIndex(t *testing.T, label string) int {
	t.Helper()
	for i, cat := range domain.Categories {
		if cat == label {
			return i
		}
	}
	t.Fatalf("category %q not in closed list", label)
	return -1
}

func TestRecomputeIsIdempotent(t *testing.T) {
	all := []domain.Course{
		course("Calcul Intégral", "Mathematiques", "Adrdour"),
		course("Ondes lumineuses", "Physique", "Laaouani"),
	}

	first := Recompute(all, categoryIndex(t, "Mathematiques"), "calcul")
	second := Recompute(all, categoryIndex(t, "Mathematiques"), "calcul")

	assert.Equal(t, first, second)
}

func TestCategoryAllNeverExcludesBySubject(t *testing.T) {
	all := []domain.Course{
		course("Calcul Intégral", "Mathematiques", "Adrdour"),
		course("Ondes lumineuses", "Physique", "Laaouani"),
		course("Cours sans matière", "", "Bennani"),
	}

	got := Recompute(all, domain.CategoryAll, "")

	assert.Equal(t, all, got)
}

func TestCategoryMatchIsCaseInsensitive(t *testing.T) {
	all := []domain.Course{
		course("Calcul Intégral", "MATHEMATIQUES", "Adrdour"),
		course("Ondes lumineuses", "Physique", "Laaouani"),
	}

	got := Recompute(all, categoryIndex(t, "Mathematiques"), "")

	require.Len(t, got, 1)
	assert.Equal(t, "Calcul Intégral", got[0].Title)
}

func TestCourseWithoutSubjectOnlyShowsUnderTout(t *testing.T) {
	unfilterable := course("Cours orphelin", "", "Bennani")
	all := []domain.Course{
		course("Calcul Intégral", "Mathematiques", "Adrdour"),
		unfilterable,
	}

	underMath := Recompute(all, categoryIndex(t, "Mathematiques"), "")
	require.Len(t, underMath, 1)
	assert.NotEqual(t, unfilterable.ID, underMath[0].ID)

	underAll := Recompute(all, domain.CategoryAll, "")
	assert.Len(t, underAll, 2)
}

func TestSearchMatchesAnyOfTitleProfessorSubject(t *testing.T) {
	all := []domain.Course{
		course("Calcul Intégral", "Mathematiques", "Adrdour"),
		course("Ondes lumineuses", "Physique", "Laaouani"),
	}

	// "adrdour" appears in neither title nor subject; the professor field
	// alone must be enough.
	got := Recompute(all, domain.CategoryAll, "adrdour")

	require.Len(t, got, 1)
	assert.Equal(t, "Adrdour", got[0].Professor.LastName)
}

func TestSearchTrimsAndLowercasesQuery(t *testing.T) {
	all := []domain.Course{
		course("Calcul Intégral", "Mathematiques", "Adrdour"),
	}

	got := Recompute(all, domain.CategoryAll, "  CALCUL  ")

	require.Len(t, got, 1)
}

func TestCategorySwitchDoesNotCompound(t *testing.T) {
	all := []domain.Course{
		course("Calcul Intégral", "Mathematiques", "Adrdour"),
		course("Ondes lumineuses", "Physique", "Laaouani"),
		course("Grammaire avancée", "Français", "Bennani"),
	}

	f := NewFilter(all)
	f.SetCategory(categoryIndex(t, "Mathematiques"))
	_ = f.Visible()
	f.SetCategory(categoryIndex(t, "Physique"))
	chained := f.Visible()

	direct := Recompute(all, categoryIndex(t, "Physique"), "")

	assert.Equal(t, direct, chained)
}

func TestSearchThenCategoryChangeStartsFromFullSet(t *testing.T) {
	all := []domain.Course{
		course("Calcul Intégral", "Mathematiques", "Adrdour"),
		course("Calcul des ondes", "Physique", "Laaouani"),
	}

	f := NewFilter(all)
	f.SetSearchText("calcul")
	f.SetCategory(categoryIndex(t, "Physique"))
	_ = f.Visible()

	// Clearing the search must bring back everything in the category, not
	// just what survived the previous recompute.
	f.SetSearchText("")
	f.SetCategory(domain.CategoryAll)
	assert.Len(t, f.Visible(), 2)
}

func TestEmptyResultIsValid(t *testing.T) {
	all := []domain.Course{
		course("Calcul Intégral", "Mathematiques", "Adrdour"),
	}

	got := Recompute(all, domain.CategoryAll, "introuvable")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestOutOfRangeCategoryFallsBackToTout(t *testing.T) {
	all := []domain.Course{
		course("Calcul Intégral", "Mathematiques", "Adrdour"),
	}

	f := NewFilter(all)
	f.SetCategory(42)
	assert.Equal(t, domain.CategoryAll, f.Category())
	assert.Len(t, f.Visible(), 1)
}

func TestPhysiqueThenProfessorSearchScenario(t *testing.T) {
	var all []domain.Course
	for i := 0; i < 7; i++ {
		all = append(all, course(fmt.Sprintf("Maths %d", i), "Mathematiques", "Adrdour"))
	}
	all = append(all,
		course("Ondes lumineuses", "Physique", "Laaouani"),
		course("Mécanique", "Physique", "Bennani"),
		course("Électricité", "Physique", "Tazi"),
	)
	require.Len(t, all, 10)

	f := NewFilter(all)
	f.SetCategory(categoryIndex(t, "Physique"))
	assert.Len(t, f.Visible(), 3)

	f.SetSearchText("laaouani")
	got := f.Visible()
	require.Len(t, got, 1)
	assert.Equal(t, "Laaouani", got[0].Professor.LastName)
}

func TestRecomputeDoesNotMutateSource(t *testing.T) {
	all := []domain.Course{
		course("Calcul Intégral", "Mathematiques", "Adrdour"),
		course("Ondes lumineuses", "Physique", "Laaouani"),
	}
	snapshot := make([]domain.Course, len(all))
	copy(snapshot, all)

	_ = Recompute(all, categoryIndex(t, "Physique"), "laaouani")

	assert.Equal(t, snapshot, all)
}

func TestPlaceholderCoursesAreStableAndIndependent(t *testing.T) {
	first := PlaceholderCourses()
	second := PlaceholderCourses()

	require.Equal(t, first, second)

	first[0].Title = "mutated"
	assert.NotEqual(t, first[0].Title, PlaceholderCourses()[0].Title)
}
