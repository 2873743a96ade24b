package service

import (
	"context"
	"log"

	"madrasti/elearning-app/internal/catalog"
	"madrasti/elearning-app/internal/domain"
	"madrasti/elearning-app/internal/repository"
	"madrasti/elearning-app/internal/storage"
)

// Copy the course list screen shows when a filter matches nothing.
const noResultsMessage = "Aucun cours ne correspond à votre recherche"

// CourseListing is the browsable catalog view. Placeholder marks responses
// built from the offline fallback dataset so clients can show a notice
// instead of presenting the data as live.
type CourseListing struct {
	Courses      []domain.Course `json:"courses"`
	Placeholder  bool            `json:"placeholder"`
	EmptyMessage string          `json:"emptyMessage,omitempty"`
}

type CatalogService interface {
	// ListCourses returns the filtered catalog for the given category index
	// (position in domain.Categories, 0 = Tout) and free-text query.
	ListCourses(ctx context.Context, categoryIndex int, searchText string) (*CourseListing, error)
}

// catalogService implements the CatalogService interface.
type catalogService struct {
	courseRepo  repository.CourseRepository
	fileStorage storage.FileStorage
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(courseRepo repository.CourseRepository, fileStorage storage.FileStorage) CatalogService {
	return &catalogService{
		courseRepo:  courseRepo,
		fileStorage: fileStorage,
	}
}

// ListCourses loads the full catalog and applies the filter in memory. A
// failed load substitutes the placeholder dataset instead of surfacing a
// hard error, so browsing stays usable when the database is unreachable.
func (s *catalogService) ListCourses(ctx context.Context, categoryIndex int, searchText string) (*CourseListing, error) {
	placeholder := false
	all, err := s.courseRepo.List(ctx)
	if err != nil {
		log.Printf("WARN: course list unavailable, serving placeholder data: %v", err)
		all = catalog.PlaceholderCourses()
		placeholder = true
	}

	filtered := catalog.Recompute(all, categoryIndex, searchText)

	// Thumbnails are stored as object keys; resolve them to short-lived
	// URLs for display. Failures degrade to a missing image, not an error.
	for i := range filtered {
		if filtered[i].ThumbnailKey == "" {
			continue
		}
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, filtered[i].ThumbnailKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			log.Printf("WARN: failed to presign thumbnail for course %s: %v", filtered[i].ID.Hex(), err)
			continue
		}
		filtered[i].ThumbnailURL = url
	}

	listing := &CourseListing{
		Courses:     filtered,
		Placeholder: placeholder,
	}
	if len(filtered) == 0 {
		listing.EmptyMessage = noResultsMessage
	}
	return listing, nil
}
