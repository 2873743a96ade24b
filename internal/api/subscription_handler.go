package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"madrasti/elearning-app/internal/domain"
	"madrasti/elearning-app/internal/service"
)

// SubscriptionHandler serves the checkout flow for students.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// --- Request/Response Structs ---

// SubscriptionResponse is the wire form of a subscription.
type SubscriptionResponse struct {
	ID        string  `json:"id"`
	CourseID  string  `json:"courseId"`
	Status    string  `json:"status"`
	Price     float64 `json:"price"`
	StartedAt string  `json:"startedAt,omitempty"`
}

// --- Handler Methods ---

// Checkout godoc
// @Summary Start checkout for a course
// @Description Opens a pending subscription and returns the payment-sheet
// @Description client secret.
// @Tags Subscription
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} service.CheckoutSession
// @Failure 400 {object} gin.H "Malformed ID"
// @Failure 404 {object} gin.H "Course not found"
// @Failure 409 {object} gin.H "Already subscribed"
// @Router /subscriptions/checkout/{courseId} [post]
func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	session, err := h.subscriptionService.Checkout(c.Request.Context(), studentID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadySubscribed):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to start checkout")
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// Confirm godoc
// @Summary Confirm a paid checkout
// @Description Verifies payment and activates the subscription. Idempotent
// @Description for already-active subscriptions.
// @Tags Subscription
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} SubscriptionResponse
// @Failure 402 {object} gin.H "Payment not completed"
// @Failure 404 {object} gin.H "Subscription not found"
// @Router /subscriptions/{id}/confirm [post]
func (h *SubscriptionHandler) Confirm(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	subID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid subscription ID format")
		return
	}

	sub, err := h.subscriptionService.Confirm(c.Request.Context(), studentID, subID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound), errors.Is(err, service.ErrSubscriptionNotOwned):
			abortWithError(c, http.StatusNotFound, "Subscription not found")
		case errors.Is(err, service.ErrPaymentNotCompleted):
			abortWithError(c, http.StatusPaymentRequired, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to confirm subscription")
		}
		return
	}
	c.JSON(http.StatusOK, mapSubscription(sub))
}

// CancelCheckout godoc
// @Summary Abandon a pending checkout
// @Description Marks a pending checkout as canceled, for a dismissed payment
// @Description sheet.
// @Tags Subscription
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 204 "Cancelled"
// @Failure 404 {object} gin.H "Subscription not found"
// @Failure 409 {object} gin.H "Checkout is not pending"
// @Router /subscriptions/{id} [delete]
func (h *SubscriptionHandler) CancelCheckout(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	subID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid subscription ID format")
		return
	}

	err = h.subscriptionService.CancelCheckout(c.Request.Context(), studentID, subID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound), errors.Is(err, service.ErrSubscriptionNotOwned):
			abortWithError(c, http.StatusNotFound, "Subscription not found")
		case errors.Is(err, service.ErrCheckoutNotCancellable):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to cancel checkout")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// Status godoc
// @Summary Subscription status for a course
// @Tags Subscription
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} SubscriptionResponse
// @Failure 404 {object} gin.H "No subscription for this course"
// @Router /subscriptions/status/{courseId} [get]
func (h *SubscriptionHandler) Status(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	sub, err := h.subscriptionService.Status(c.Request.Context(), studentID, courseID)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load subscription")
		}
		return
	}
	c.JSON(http.StatusOK, mapSubscription(sub))
}

func (h *SubscriptionHandler) studentID(c *gin.Context) (primitive.ObjectID, bool) {
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

func mapSubscription(sub *domain.Subscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:       sub.ID.Hex(),
		CourseID: sub.CourseID.Hex(),
		Status:   string(sub.Status),
		Price:    sub.Price,
	}
	if sub.StartedAt != nil {
		resp.StartedAt = sub.StartedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}
