package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

// User represents a user in the system (either a Student or a Professor).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Professor-specific ---
	// Subject the professor teaches, e.g. "Mathematiques", "Physique".
	Specialisation string `bson:"specialisation,omitempty" json:"specialisation,omitempty"`

	// --- Student-specific ---
	// Course IDs the student holds an active subscription for.
	// Denormalized from the subscriptions collection for cheap access checks.
	SubscribedCourseIDs []primitive.ObjectID `bson:"subscribedCourseIds,omitempty" json:"subscribedCourseIds,omitempty"`
}

func (u *User) IsProfessor() bool {
	return u.Role == RoleProfessor
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}
