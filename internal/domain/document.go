package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentType enumerates the supported support de cours formats.
type DocumentType string

const (
	DocumentPDF DocumentType = "pdf"
	DocumentDoc DocumentType = "doc"
	DocumentPPT DocumentType = "ppt"
	// DocumentOther covers anything the viewer renders as a plain description.
	DocumentOther DocumentType = "description"
)

// Document is a course material attached to a session. An empty ObjectKey is
// a valid state: the document record exists but the file has not been
// uploaded yet, and viewers must render it as unavailable rather than fail.
type Document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	CourseID  primitive.ObjectID `bson:"courseId" json:"courseId"` // Denormalized for access checks
	Title     string             `bson:"title" json:"title"`
	Type      DocumentType       `bson:"type" json:"type"`
	ObjectKey string             `bson:"objectKey,omitempty" json:"-"`
	URL       string             `bson:"-" json:"url,omitempty"` // Presigned on read, only for subscribers
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsUploaded reports whether the underlying file exists in storage.
func (d *Document) IsUploaded() bool {
	return d.ObjectKey != ""
}
