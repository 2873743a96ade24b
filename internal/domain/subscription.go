package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionStatus type for subscription lifecycle
type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "pending"  // Checkout started, payment not confirmed
	SubscriptionActive   SubscriptionStatus = "active"   // Payment succeeded, content unlocked
	SubscriptionCanceled SubscriptionStatus = "canceled" // Payment canceled or subscription ended
)

// Subscription links a student to a course they paid for. Access to a
// course's sessions and documents is scoped to exactly that course:
// subscribing to course A never unlocks course B.
type Subscription struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID   primitive.ObjectID `bson:"studentId" json:"studentId"`
	CourseID    primitive.ObjectID `bson:"courseId" json:"courseId"`
	ProfessorID primitive.ObjectID `bson:"professorId" json:"professorId"` // Denormalized for dashboard aggregates
	Status      SubscriptionStatus `bson:"status" json:"status"`
	Price       float64            `bson:"price" json:"price"` // MAD, captured at checkout time
	// PaymentIntentID ties the subscription to the payment provider object
	// whose client secret the app used to present the payment sheet.
	PaymentIntentID string     `bson:"paymentIntentId,omitempty" json:"-"`
	StartedAt       *time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the subscription currently unlocks content.
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionActive
}
