package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"madrasti/elearning-app/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddSubscribedCourse(ctx context.Context, studentID, courseID primitive.ObjectID) error
}

// CourseRepository defines the interface for interacting with course
// (formation) data.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	GetByProfessorID(ctx context.Context, professorID primitive.ObjectID) ([]domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id, professorID primitive.ObjectID) error // Ensure professor owns the course
}

// SessionRepository defines the interface for interacting with séance data.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	GetByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.Session, error)
	SetVideoKey(ctx context.Context, id primitive.ObjectID, videoKey string) error
	CountByCourseIDs(ctx context.Context, courseIDs []primitive.ObjectID) (int64, error)
}

// DocumentRepository defines the interface for interacting with support de
// cours metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Document, error)
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Document, error)
	GetByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.Document, error)
	SetObjectKey(ctx context.Context, id primitive.ObjectID, objectKey string) error
}

// SubscriptionRepository defines the interface for interacting with
// subscription data.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Subscription, error)
	GetByStudentAndCourse(ctx context.Context, studentID, courseID primitive.ObjectID) (*domain.Subscription, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Subscription, error)
	ActiveCourseIDsByStudent(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error)
	Update(ctx context.Context, sub *domain.Subscription) error
	CountActiveByProfessor(ctx context.Context, professorID primitive.ObjectID) (int64, error)
}

// UploadRepository defines the interface for interacting with upload metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Upload, error)
}
