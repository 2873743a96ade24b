package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session represents a séance: one scheduled lesson inside a course,
// carrying a video and its supports de cours (documents).
type Session struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID primitive.ObjectID `bson:"courseId" json:"courseId"`
	Title    string             `bson:"title" json:"title"`
	Date     string             `bson:"date" json:"date"`         // Display date, e.g. "13/9/2024"
	Duration string             `bson:"duration" json:"duration"` // Display duration, e.g. "23:00"
	// VideoKey is empty until the professor's upload is confirmed.
	VideoKey  string    `bson:"videoKey,omitempty" json:"-"`
	VideoURL  string    `bson:"-" json:"videoUrl,omitempty"` // Presigned on read, only for subscribers
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	// Documents are joined in from the documents collection when building
	// the course detail view; they are not stored inside the session.
	Documents []Document `bson:"-" json:"documents,omitempty"`
}

// HasVideo reports whether a playable video has been uploaded yet.
func (s *Session) HasVideo() bool {
	return s.VideoKey != ""
}
