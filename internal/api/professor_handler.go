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

// ProfessorHandler serves the professor side: formations, séances, supports,
// file uploads and the dashboard. All routes require the professor role.
type ProfessorHandler struct {
	professorService service.ProfessorService
}

// NewProfessorHandler creates a new ProfessorHandler.
func NewProfessorHandler(professorService service.ProfessorService) *ProfessorHandler {
	return &ProfessorHandler{professorService: professorService}
}

// --- Request/Response Structs ---

type FormationRequest struct {
	Title       string              `json:"title" binding:"required"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Price       float64             `json:"price" binding:"gte=0"`
	Dates       []domain.CourseDate `json:"dates"`
}

type SessionRequest struct {
	Title    string `json:"title" binding:"required"`
	Date     string `json:"date"`
	Duration string `json:"duration"`
}

type DocumentRequest struct {
	Title string              `json:"title" binding:"required"`
	Type  domain.DocumentType `json:"type" binding:"required,oneof=pdf doc ppt description"`
}

type UploadURLRequest struct {
	Kind        domain.UploadKind `json:"kind" binding:"required,oneof=thumbnail video document"`
	ContentType string            `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	Kind        domain.UploadKind `json:"kind" binding:"required,oneof=thumbnail video document"`
	ObjectKey   string            `json:"objectKey" binding:"required"`
	FileName    string            `json:"fileName" binding:"required"`
	ContentType string            `json:"contentType"`
	Size        int64             `json:"size"`
	CourseID    string            `json:"courseId,omitempty"`   // thumbnail target
	SessionID   string            `json:"sessionId,omitempty"`  // video target
	DocumentID  string            `json:"documentId,omitempty"` // document target
}

// --- Handler Methods ---

// CreateFormation godoc
// @Summary Create a formation
// @Tags Professor
// @Accept json
// @Produce json
// @Param formation body FormationRequest true "Formation details"
// @Success 201 {object} domain.Course
// @Failure 400 {object} gin.H "Validation error"
// @Router /professor/formations [post]
func (h *ProfessorHandler) CreateFormation(c *gin.Context) {
	professorID, ok := h.professorID(c)
	if !ok {
		return
	}

	var req FormationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	course, err := h.professorService.CreateFormation(c.Request.Context(), professorID, service.FormationInput{
		Title:       req.Title,
		Subject:     req.Subject,
		Description: req.Description,
		Price:       req.Price,
		Dates:       req.Dates,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// GetMyFormations godoc
// @Summary List my formations
// @Tags Professor
// @Produce json
// @Success 200 {array} domain.Course
// @Router /professor/formations [get]
func (h *ProfessorHandler) GetMyFormations(c *gin.Context) {
	professorID, ok := h.professorID(c)
	if !ok {
		return
	}

	courses, err := h.professorService.GetMyFormations(c.Request.Context(), professorID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	c.JSON(http.StatusOK, courses)
}

// UpdateFormation godoc
// @Summary Update a formation
// @Tags Professor
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param formation body FormationRequest true "Formation details"
// @Success 200 {object} domain.Course
// @Failure 403 {object} gin.H "Not the course owner"
// @Failure 404 {object} gin.H "Course not found"
// @Router /professor/formations/{id} [put]
func (h *ProfessorHandler) UpdateFormation(c *gin.Context) {
	professorID, ok := h.professorID(c)
	if !ok {
		return
	}
	courseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	var req FormationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	course, err := h.professorService.UpdateFormation(c.Request.Context(), professorID, courseID, service.FormationInput{
		Title:       req.Title,
		Subject:     req.Subject,
		Description: req.Description,
		Price:       req.Price,
		Dates:       req.Dates,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteFormation godoc
// @Summary Delete a formation
// @Tags Professor
// @Param id path string true "Course ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Course not found"
// @Router /professor/formations/{id} [delete]
func (h *ProfessorHandler) DeleteFormation(c *gin.Context) {
	professorID, ok := h.professorID(c)
	if !ok {
		return
	}
	courseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	if err := h.professorService.DeleteFormation(c.Request.Context(), professorID, courseID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSession godoc
// @Summary Add a séance to a formation
// @Tags Professor
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param session body SessionRequest true "Séance details"
// @Success 201 {object} domain.Session
// @Failure 403 {object} gin.H "Not the course owner"
// @Router /professor/formations/{id}/seances [post]
func (h *ProfessorHandler) AddSession(c *gin.Context) {
	professorID, ok := h.professorID(c)
	if !ok {
		return
	}
	courseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.professorService.AddSession(c.Request.Context(), professorID, courseID, service.SessionInput{
		Title:    req.Title,
		Date:     req.Date,
		Duration: req.Duration,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// AddDocument godoc
// @Summary Add a support de cours to a séance
// @Description Creates the document record. The file itself is uploaded
// @Description separately via the upload URL flow.
// @Tags Professor
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param document body DocumentRequest true "Document details"
// @Success 201 {object} domain.Document
// @Failure 403 {object} gin.H "Not the course owner"
// @Router /professor/seances/{id}/supports [post]
func (h *ProfessorHandler) AddDocument(c *gin.Context) {
	professorID, ok := h.professorID(c)
	if !ok {
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	doc, err := h.professorService.AddDocument(c.Request.Context(), professorID, sessionID, req.Title, req.Type)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// RequestUploadURL godoc
// @Summary Request a presigned upload URL
// @Description Returns a short-lived PUT URL and the object key to report
// @Description back on confirm.
// @Tags Professor
// @Accept json
// @Produce json
// @Param upload body UploadURLRequest true "Upload kind and content type"
// @Success 200 {object} service.UploadURLResponse
// @Failure 400 {object} gin.H "Unsupported content type for this kind"
// @Router /professor/uploads/url [post]
func (h *ProfessorHandler) RequestUploadURL(c *gin.Context) {
	professorID, ok := h.professorID(c)
	if !ok {
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.professorService.RequestUploadURL(c.Request.Context(), professorID, req.Kind, req.ContentType)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload godoc
// @Summary Confirm a finished upload
// @Description Attaches the uploaded object to its record (course thumbnail,
// @Description séance video or support file) and stores the metadata.
// @Tags Professor
// @Accept json
// @Produce json
// @Param upload body ConfirmUploadRequest true "Uploaded object details"
// @Success 200 {object} domain.Upload
// @Failure 403 {object} gin.H "Not the course owner"
// @Failure 404 {object} gin.H "Target record not found"
// @Router /professor/uploads/confirm [post]
func (h *ProfessorHandler) ConfirmUpload(c *gin.Context) {
	professorID, ok := h.professorID(c)
	if !ok {
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	target, err := uploadTarget(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	upload, err := h.professorService.ConfirmUpload(c.Request.Context(), professorID, target, req.ObjectKey, req.FileName, req.Size, req.ContentType)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// GetDashboard godoc
// @Summary Professor dashboard
// @Description Aggregate counts: formations, active students, séances.
// @Tags Professor
// @Produce json
// @Success 200 {object} service.DashboardStats
// @Router /professor/dashboard [get]
func (h *ProfessorHandler) GetDashboard(c *gin.Context) {
	professorID, ok := h.professorID(c)
	if !ok {
		return
	}

	stats, err := h.professorService.GetDashboard(c.Request.Context(), professorID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// --- Helpers ---

func (h *ProfessorHandler) professorID(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID in token")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// uploadTarget validates that the right target ID was supplied for the kind.
func uploadTarget(req ConfirmUploadRequest) (service.UploadTarget, error) {
	target := service.UploadTarget{Kind: req.Kind}
	var (
		idHex string
		dst   *primitive.ObjectID
	)

	switch req.Kind {
	case domain.UploadThumbnail:
		idHex, dst = req.CourseID, &target.CourseID
	case domain.UploadVideo:
		idHex, dst = req.SessionID, &target.SessionID
	case domain.UploadDocument:
		idHex, dst = req.DocumentID, &target.DocumentID
	default:
		return target, fmt.Errorf("unsupported upload kind %q", req.Kind)
	}

	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return target, fmt.Errorf("missing or invalid target ID for kind %q", req.Kind)
	}
	*dst = oid
	return target, nil
}

// writeError maps professor service errors to HTTP statuses.
func (h *ProfessorHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidationFailed), errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidContentType):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotCourseOwner), errors.Is(err, service.ErrUserNotProfessor):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrDocumentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
