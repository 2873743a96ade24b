package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadKind says what a stored file is used for.
type UploadKind string

const (
	UploadThumbnail UploadKind = "thumbnail"
	UploadVideo     UploadKind = "video"
	UploadDocument  UploadKind = "document"
)

// Upload stores metadata about a file uploaded by a professor
// (course thumbnail, session video, or support de cours).
// The actual file resides in S3.
type Upload struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProfessorID primitive.ObjectID `bson:"professorId" json:"professorId"`
	CourseID    primitive.ObjectID `bson:"courseId,omitempty" json:"courseId,omitempty"`
	Kind        UploadKind         `bson:"kind" json:"kind"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"` // Internal use, presigned URLs only
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
