package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasti/elearning-app/internal/domain"
)

func TestListCoursesFiltersByCategoryAndSearch(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.add(domain.Course{Title: "Analyse", Subject: "Mathematiques", Professor: domain.ProfessorRef{LastName: "Arddour"}})
	repo.add(domain.Course{Title: "Mécanique", Subject: "Physique", Professor: domain.ProfessorRef{LastName: "Laaouani"}})
	repo.add(domain.Course{Title: "Génétique", Subject: "SVT", Professor: domain.ProfessorRef{LastName: "Bennani"}})

	svc := NewCatalogService(repo, &fakeStorage{})

	listing, err := svc.ListCourses(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Len(t, listing.Courses, 3)
	assert.False(t, listing.Placeholder)
	assert.Empty(t, listing.EmptyMessage)

	listing, err = svc.ListCourses(context.Background(), 2, "") // Physique
	require.NoError(t, err)
	require.Len(t, listing.Courses, 1)
	assert.Equal(t, "Mécanique", listing.Courses[0].Title)

	listing, err = svc.ListCourses(context.Background(), 0, "bennani")
	require.NoError(t, err)
	require.Len(t, listing.Courses, 1)
	assert.Equal(t, "Génétique", listing.Courses[0].Title)
}

func TestListCoursesEmptyResultCarriesMessage(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.add(domain.Course{Title: "Analyse", Subject: "Mathematiques"})

	svc := NewCatalogService(repo, &fakeStorage{})

	listing, err := svc.ListCourses(context.Background(), 0, "astrophysique")
	require.NoError(t, err)
	assert.Empty(t, listing.Courses)
	assert.Equal(t, "Aucun cours ne correspond à votre recherche", listing.EmptyMessage)
}

func TestListCoursesFallsBackToPlaceholderOnRepositoryError(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.listErr = fmt.Errorf("connection refused")

	svc := NewCatalogService(repo, &fakeStorage{})

	listing, err := svc.ListCourses(context.Background(), 0, "")
	require.NoError(t, err)
	assert.True(t, listing.Placeholder)
	assert.NotEmpty(t, listing.Courses)

	// The filter still applies to the fallback data.
	listing, err = svc.ListCourses(context.Background(), 0, "arddour")
	require.NoError(t, err)
	assert.True(t, listing.Placeholder)
	for _, c := range listing.Courses {
		assert.Equal(t, "Arddour", c.Professor.LastName)
	}
	assert.NotEmpty(t, listing.Courses)
}

func TestListCoursesPresignsThumbnails(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.add(domain.Course{Title: "Analyse", Subject: "Mathematiques", ThumbnailKey: "thumbnails/abc.png"})
	repo.add(domain.Course{Title: "Algèbre", Subject: "Mathematiques"})

	svc := NewCatalogService(repo, &fakeStorage{})

	listing, err := svc.ListCourses(context.Background(), 0, "")
	require.NoError(t, err)
	require.Len(t, listing.Courses, 2)
	for _, c := range listing.Courses {
		if c.ThumbnailKey != "" {
			assert.Equal(t, "https://storage.test/get/thumbnails/abc.png", c.ThumbnailURL)
		} else {
			assert.Empty(t, c.ThumbnailURL)
		}
	}
}

func TestListCoursesSurvivesPresignFailure(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.add(domain.Course{Title: "Analyse", Subject: "Mathematiques", ThumbnailKey: "thumbnails/abc.png"})

	svc := NewCatalogService(repo, &fakeStorage{failAll: true})

	listing, err := svc.ListCourses(context.Background(), 0, "")
	require.NoError(t, err)
	require.Len(t, listing.Courses, 1)
	assert.Empty(t, listing.Courses[0].ThumbnailURL)
}
