package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"madrasti/elearning-app/internal/domain"
)

func newCheckoutFixture(t *testing.T) (*subscriptionFixture, primitive.ObjectID, primitive.ObjectID) {
	t.Helper()
	f := &subscriptionFixture{
		subRepo:    newFakeSubscriptionRepo(),
		courseRepo: newFakeCourseRepo(),
		userRepo:   newFakeUserRepo(),
		provider:   newFakePaymentProvider(),
	}
	f.svc = NewSubscriptionService(f.subRepo, f.courseRepo, f.userRepo, f.provider)

	studentID, err := f.userRepo.Create(context.Background(), &domain.User{
		LastName: "Alaoui",
		Email:    "student@example.com",
		Role:     domain.RoleStudent,
	})
	require.NoError(t, err)

	courseID := f.courseRepo.add(domain.Course{
		Title: "Physique Tronc Commun",
		Price: 99,
		Professor: domain.ProfessorRef{
			ID:       primitive.NewObjectID(),
			LastName: "Laaouani",
		},
	})
	return f, studentID, courseID
}

type subscriptionFixture struct {
	subRepo    *fakeSubscriptionRepo
	courseRepo *fakeCourseRepo
	userRepo   *fakeUserRepo
	provider   *fakePaymentProvider
	svc        SubscriptionService
}

func TestCheckoutOpensPendingSubscription(t *testing.T) {
	f, studentID, courseID := newCheckoutFixture(t)

	session, err := f.svc.Checkout(context.Background(), studentID, courseID)
	require.NoError(t, err)
	assert.Equal(t, "Physique Tronc Commun", session.CourseTitle)
	assert.Equal(t, 99.0, session.Amount)
	assert.NotEmpty(t, session.ClientSecret)

	subID, err := primitive.ObjectIDFromHex(session.SubscriptionID)
	require.NoError(t, err)
	sub, err := f.subRepo.GetByID(context.Background(), subID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionPending, sub.Status)
	assert.NotEmpty(t, sub.PaymentIntentID)
}

func TestCheckoutRejectsActiveSubscriber(t *testing.T) {
	f, studentID, courseID := newCheckoutFixture(t)

	f.subRepo.add(domain.Subscription{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    domain.SubscriptionActive,
	})

	_, err := f.svc.Checkout(context.Background(), studentID, courseID)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
}

func TestCheckoutUnknownCourse(t *testing.T) {
	f, studentID, _ := newCheckoutFixture(t)

	_, err := f.svc.Checkout(context.Background(), studentID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestConfirmActivatesPaidSubscription(t *testing.T) {
	f, studentID, courseID := newCheckoutFixture(t)

	session, err := f.svc.Checkout(context.Background(), studentID, courseID)
	require.NoError(t, err)
	subID, _ := primitive.ObjectIDFromHex(session.SubscriptionID)

	// Not paid yet.
	_, err = f.svc.Confirm(context.Background(), studentID, subID)
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)

	// Pay, then confirm.
	stored, err := f.subRepo.GetByID(context.Background(), subID)
	require.NoError(t, err)
	f.provider.paid[stored.PaymentIntentID] = true

	sub, err := f.svc.Confirm(context.Background(), studentID, subID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, sub.Status)
	require.NotNil(t, sub.StartedAt)

	// The course is denormalized onto the student.
	student, err := f.userRepo.GetByID(context.Background(), studentID)
	require.NoError(t, err)
	assert.Contains(t, student.SubscribedCourseIDs, courseID)

	// Confirm again: idempotent.
	again, err := f.svc.Confirm(context.Background(), studentID, subID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, again.Status)
}

func TestConfirmRejectsForeignSubscription(t *testing.T) {
	f, studentID, courseID := newCheckoutFixture(t)

	session, err := f.svc.Checkout(context.Background(), studentID, courseID)
	require.NoError(t, err)
	subID, _ := primitive.ObjectIDFromHex(session.SubscriptionID)

	_, err = f.svc.Confirm(context.Background(), primitive.NewObjectID(), subID)
	assert.ErrorIs(t, err, ErrSubscriptionNotOwned)
}

func TestCancelCheckoutOnlyWhilePending(t *testing.T) {
	f, studentID, courseID := newCheckoutFixture(t)

	session, err := f.svc.Checkout(context.Background(), studentID, courseID)
	require.NoError(t, err)
	subID, _ := primitive.ObjectIDFromHex(session.SubscriptionID)

	require.NoError(t, f.svc.CancelCheckout(context.Background(), studentID, subID))

	sub, err := f.subRepo.GetByID(context.Background(), subID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionCanceled, sub.Status)

	// A canceled checkout cannot be canceled twice.
	err = f.svc.CancelCheckout(context.Background(), studentID, subID)
	assert.ErrorIs(t, err, ErrCheckoutNotCancellable)
}

func TestStatusReportsSubscription(t *testing.T) {
	f, studentID, courseID := newCheckoutFixture(t)

	_, err := f.svc.Status(context.Background(), studentID, courseID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)

	f.subRepo.add(domain.Subscription{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    domain.SubscriptionActive,
	})

	sub, err := f.svc.Status(context.Background(), studentID, courseID)
	require.NoError(t, err)
	assert.True(t, sub.IsActive())
}
