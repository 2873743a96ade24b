package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"madrasti/elearning-app/internal/domain"
	"madrasti/elearning-app/internal/service"
)

// CatalogHandler serves the browsable course catalog.
type CatalogHandler struct {
	catalogService service.CatalogService
	studentService service.StudentService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService, studentService service.StudentService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		studentService: studentService,
	}
}

// --- Request/Response Structs ---

// ListCoursesQuery carries the two catalog filters. Both are optional and
// both are applied against the full catalog on every request.
type ListCoursesQuery struct {
	Category int    `form:"category,default=0"` // index into the category row, 0 = Tout
	Q        string `form:"q"`                  // free-text search
}

// --- Handler Methods ---

// ListCourses godoc
// @Summary List courses
// @Description Returns the catalog filtered by category index and search text.
// @Tags Catalog
// @Produce json
// @Param category query int false "Category index (0 = Tout)"
// @Param q query string false "Search text (title, professor name or subject)"
// @Success 200 {object} service.CourseListing
// @Failure 400 {object} gin.H "Invalid query parameters"
// @Router /courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	var query ListCoursesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid query: %v", err))
		return
	}

	listing, err := h.catalogService.ListCourses(c.Request.Context(), query.Category, query.Q)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load courses")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Categories godoc
// @Summary List catalog categories
// @Description Returns the category row in display order.
// @Tags Catalog
// @Produce json
// @Success 200 {object} gin.H
// @Router /categories [get]
func (h *CatalogHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": domain.Categories})
}

// GetCourse godoc
// @Summary Get course detail
// @Description Returns a course with its séances and their supports. Open to
// @Description anonymous viewers; séance and support content stays gated.
// @Tags Catalog
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} service.CourseDetail
// @Failure 400 {object} gin.H "Malformed ID"
// @Failure 404 {object} gin.H "Course not found"
// @Router /courses/{id} [get]
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	courseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	detail, err := h.studentService.GetCourseDetail(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load course")
		}
		return
	}
	c.JSON(http.StatusOK, detail)
}
