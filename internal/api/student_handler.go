package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"madrasti/elearning-app/internal/access"
	"madrasti/elearning-app/internal/service"
)

// StudentHandler serves gated navigation: opening séances and supports,
// entering checkout, and replaying a pending intent after login or payment.
type StudentHandler struct {
	studentService service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// --- Request/Response Structs ---

// DecisionResponse is the wire form of an access decision. On "allowed" only
// Navigation is set; on the two remediation states the prompt and the intent
// to replay are included.
type DecisionResponse struct {
	State      string             `json:"state"`
	Reason     string             `json:"reason,omitempty"`
	Prompt     string             `json:"prompt,omitempty"`
	Intent     *access.Intent     `json:"intent,omitempty"`
	Navigation *access.Navigation `json:"navigation,omitempty"`
}

// ResumeIntentRequest replays a previously returned intent after the client
// completed login or checkout.
type ResumeIntentRequest struct {
	Intent access.Intent `json:"intent" binding:"required"`
}

// --- Handler Methods ---

// OpenSession godoc
// @Summary Open a séance
// @Description Runs the access gate for one séance. Subscribers receive the
// @Description player navigation with a presigned video URL.
// @Tags Student
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} DecisionResponse "Allowed"
// @Failure 401 {object} DecisionResponse "Login required (intent included)"
// @Failure 403 {object} DecisionResponse "Subscription required (intent included)"
// @Failure 404 {object} gin.H "Session not found"
// @Router /seances/{id}/open [post]
func (h *StudentHandler) OpenSession(c *gin.Context) {
	h.gated(c, func(viewer *access.Viewer, id primitive.ObjectID) (access.Decision, error) {
		return h.studentService.OpenSession(c.Request.Context(), viewer, id)
	}, service.ErrSessionNotFound)
}

// OpenDocument godoc
// @Summary Open a support de cours
// @Description Runs the access gate for one document. Subscribers receive the
// @Description viewer navigation with a presigned file URL.
// @Tags Student
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} DecisionResponse "Allowed"
// @Failure 401 {object} DecisionResponse "Login required (intent included)"
// @Failure 403 {object} DecisionResponse "Subscription required (intent included)"
// @Failure 404 {object} gin.H "Document not found"
// @Router /supports/{id}/open [post]
func (h *StudentHandler) OpenDocument(c *gin.Context) {
	h.gated(c, func(viewer *access.Viewer, id primitive.ObjectID) (access.Decision, error) {
		return h.studentService.OpenDocument(c.Request.Context(), viewer, id)
	}, service.ErrDocumentNotFound)
}

// StartSubscription godoc
// @Summary Enter checkout for a course
// @Description Gates the subscribe action. Any authenticated viewer passes;
// @Description anonymous viewers get a login prompt with a replayable intent.
// @Tags Student
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} DecisionResponse "Allowed, navigation to checkout"
// @Failure 401 {object} DecisionResponse "Login required (intent included)"
// @Failure 404 {object} gin.H "Course not found"
// @Router /courses/{id}/subscribe [post]
func (h *StudentHandler) StartSubscription(c *gin.Context) {
	h.gated(c, func(viewer *access.Viewer, id primitive.ObjectID) (access.Decision, error) {
		return h.studentService.StartSubscription(c.Request.Context(), viewer, id)
	}, service.ErrCourseNotFound)
}

// ResumeIntent godoc
// @Summary Replay a pending navigation intent
// @Description Called after login or checkout completed. Resolves the intent
// @Description against current data and returns the original navigation
// @Description without prompting again.
// @Tags Student
// @Accept json
// @Produce json
// @Param intent body ResumeIntentRequest true "The intent returned by an earlier gate decision"
// @Success 200 {object} access.Navigation
// @Failure 400 {object} gin.H "Invalid or stale intent"
// @Failure 404 {object} gin.H "Intent target no longer exists"
// @Router /intents/resume [post]
func (h *StudentHandler) ResumeIntent(c *gin.Context) {
	var req ResumeIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	viewer, err := h.buildViewer(c)
	if err != nil {
		return // response already written
	}
	viewer.PendingIntent = &req.Intent

	nav, err := h.studentService.ResumeIntent(c.Request.Context(), viewer)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrIntentMismatch):
			abortWithError(c, http.StatusBadRequest, "Intent no longer matches any resource")
		case errors.Is(err, service.ErrCourseNotFound),
			errors.Is(err, service.ErrSessionNotFound),
			errors.Is(err, service.ErrDocumentNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidID):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to resume navigation")
		}
		return
	}
	c.JSON(http.StatusOK, nav)
}

// gated runs one gate operation and writes the decision with the HTTP status
// its state maps to.
func (h *StudentHandler) gated(c *gin.Context, op func(*access.Viewer, primitive.ObjectID) (access.Decision, error), notFound error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid resource ID format")
		return
	}

	viewer, err := h.buildViewer(c)
	if err != nil {
		return // response already written
	}

	decision, err := op(viewer, id)
	if err != nil {
		if errors.Is(err, notFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to evaluate access")
		}
		return
	}

	c.JSON(statusForDecision(decision), mapDecision(decision))
}

func (h *StudentHandler) buildViewer(c *gin.Context) (*access.Viewer, error) {
	viewer, err := h.studentService.BuildViewer(c.Request.Context(), optionalUserIDFromContext(c))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load viewer context")
		return nil, err
	}
	return viewer, nil
}

func statusForDecision(d access.Decision) int {
	switch d.State {
	case access.Allowed:
		return http.StatusOK
	case access.RequiresLogin:
		return http.StatusUnauthorized
	case access.RequiresSubscription:
		return http.StatusForbidden
	default:
		return http.StatusNotFound
	}
}

func mapDecision(d access.Decision) DecisionResponse {
	return DecisionResponse{
		State:      d.State.String(),
		Reason:     string(d.Reason),
		Prompt:     d.Prompt,
		Intent:     d.Intent,
		Navigation: d.Navigation,
	}
}
