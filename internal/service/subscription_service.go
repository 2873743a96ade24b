package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"madrasti/elearning-app/internal/domain"
	"madrasti/elearning-app/internal/payment"
	"madrasti/elearning-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrAlreadySubscribed      = errors.New("student already subscribed to this course")
	ErrSubscriptionNotFound   = errors.New("subscription not found")
	ErrSubscriptionNotOwned   = errors.New("subscription does not belong to this student")
	ErrPaymentNotCompleted    = errors.New("payment has not completed")
	ErrCheckoutNotCancellable = errors.New("only a pending checkout can be cancelled")
)

// CheckoutSession is what the app needs to present the payment sheet.
type CheckoutSession struct {
	SubscriptionID string  `json:"subscriptionId"`
	ClientSecret   string  `json:"clientSecret"`
	CourseTitle    string  `json:"courseTitle"`
	Amount         float64 `json:"amount"` // MAD per month
}

type SubscriptionService interface {
	// Checkout opens a pending subscription and returns the payment-sheet
	// client secret for the course price.
	Checkout(ctx context.Context, studentID, courseID primitive.ObjectID) (*CheckoutSession, error)

	// Confirm verifies the payment succeeded and activates the
	// subscription, unlocking the course for the student.
	Confirm(ctx context.Context, studentID, subscriptionID primitive.ObjectID) (*domain.Subscription, error)

	// CancelCheckout abandons a pending checkout (payment sheet dismissed).
	CancelCheckout(ctx context.Context, studentID, subscriptionID primitive.ObjectID) error

	// Status returns the student's newest subscription for a course.
	Status(ctx context.Context, studentID, courseID primitive.ObjectID) (*domain.Subscription, error)
}

// subscriptionService implements the SubscriptionService interface.
type subscriptionService struct {
	subRepo    repository.SubscriptionRepository
	courseRepo repository.CourseRepository
	userRepo   repository.UserRepository
	provider   payment.Provider
}

// NewSubscriptionService creates a new instance of subscriptionService.
func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	provider payment.Provider,
) SubscriptionService {
	return &subscriptionService{
		subRepo:    subRepo,
		courseRepo: courseRepo,
		userRepo:   userRepo,
		provider:   provider,
	}
}

// Checkout starts the payment flow for one course.
func (s *subscriptionService) Checkout(ctx context.Context, studentID, courseID primitive.ObjectID) (*CheckoutSession, error) {
	if studentID == primitive.NilObjectID || courseID == primitive.NilObjectID {
		return nil, ErrInvalidID
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	existing, err := s.subRepo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsActive() {
		return nil, ErrAlreadySubscribed
	}

	sub := &domain.Subscription{
		StudentID:   studentID,
		CourseID:    courseID,
		ProfessorID: course.Professor.ID,
		Status:      domain.SubscriptionPending,
		Price:       course.Price,
	}
	subID, err := s.subRepo.Create(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = subID

	intent, err := s.provider.CreateIntent(ctx, course.Price,
		fmt.Sprintf("Abonnement: %s", course.Title),
		map[string]string{
			"subscriptionId": subID.Hex(),
			"courseId":       courseID.Hex(),
			"studentId":      studentID.Hex(),
		})
	if err != nil {
		// Leave the pending record; a retry creates a fresh intent.
		return nil, err
	}

	sub.PaymentIntentID = intent.ID
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	return &CheckoutSession{
		SubscriptionID: subID.Hex(),
		ClientSecret:   intent.ClientSecret,
		CourseTitle:    course.Title,
		Amount:         course.Price,
	}, nil
}

// Confirm activates the subscription once the provider reports success.
func (s *subscriptionService) Confirm(ctx context.Context, studentID, subscriptionID primitive.ObjectID) (*domain.Subscription, error) {
	sub, err := s.getOwned(ctx, studentID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.IsActive() {
		return sub, nil // Confirm is idempotent
	}

	intent, err := s.provider.GetIntent(ctx, sub.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if !intent.Succeeded {
		return nil, ErrPaymentNotCompleted
	}

	now := time.Now().UTC()
	sub.Status = domain.SubscriptionActive
	sub.StartedAt = &now
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	// Denormalize onto the student document for cheap viewer construction.
	// Subscription state already changed; a failure here only delays the
	// denormalized copy, so log and move on.
	if err := s.userRepo.AddSubscribedCourse(ctx, studentID, sub.CourseID); err != nil {
		log.Printf("WARN: failed to denormalize subscription %s onto student %s: %v",
			sub.ID.Hex(), studentID.Hex(), err)
	}

	return sub, nil
}

// CancelCheckout marks a pending checkout as canceled.
func (s *subscriptionService) CancelCheckout(ctx context.Context, studentID, subscriptionID primitive.ObjectID) error {
	sub, err := s.getOwned(ctx, studentID, subscriptionID)
	if err != nil {
		return err
	}
	if sub.Status != domain.SubscriptionPending {
		return ErrCheckoutNotCancellable
	}

	sub.Status = domain.SubscriptionCanceled
	return s.subRepo.Update(ctx, sub)
}

// Status returns the newest subscription the student holds for the course.
func (s *subscriptionService) Status(ctx context.Context, studentID, courseID primitive.ObjectID) (*domain.Subscription, error) {
	sub, err := s.subRepo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) getOwned(ctx context.Context, studentID, subscriptionID primitive.ObjectID) (*domain.Subscription, error) {
	sub, err := s.subRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	if sub.StudentID != studentID {
		return nil, ErrSubscriptionNotOwned
	}
	return sub, nil
}
