package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"madrasti/elearning-app/internal/domain"
	"madrasti/elearning-app/internal/repository"
	"madrasti/elearning-app/internal/storage"
)

// --- Error Definitions ---
var (
	ErrNotCourseOwner           = errors.New("course does not belong to this professor")
	ErrUserNotProfessor         = errors.New("user is not a professor")
	ErrInvalidContentType       = errors.New("invalid or missing content type for this upload kind")
	ErrUploadURLError           = errors.New("failed to generate upload URL")
	ErrUploadConfirmationFailed = errors.New("failed to confirm upload")
	ErrValidationFailed         = errors.New("formation validation failed")
)

// FormationInput is the create/update payload for a course.
type FormationInput struct {
	Title       string
	Subject     string
	Description string
	Price       float64
	Dates       []domain.CourseDate
}

// SessionInput is the create payload for a séance.
type SessionInput struct {
	Title    string
	Date     string
	Duration string
}

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key the client reports back on confirm
}

// UploadTarget says which record a confirmed upload attaches to.
type UploadTarget struct {
	Kind       domain.UploadKind
	CourseID   primitive.ObjectID // thumbnail
	SessionID  primitive.ObjectID // video
	DocumentID primitive.ObjectID // document
}

// DashboardStats are the professor dashboard aggregates.
type DashboardStats struct {
	TotalFormations int64 `json:"totalFormations"`
	TotalStudents   int64 `json:"totalStudents"`
	TotalActivities int64 `json:"totalActivities"` // séances across all formations
}

type ProfessorService interface {
	CreateFormation(ctx context.Context, professorID primitive.ObjectID, input FormationInput) (*domain.Course, error)
	GetMyFormations(ctx context.Context, professorID primitive.ObjectID) ([]domain.Course, error)
	UpdateFormation(ctx context.Context, professorID, courseID primitive.ObjectID, input FormationInput) (*domain.Course, error)
	DeleteFormation(ctx context.Context, professorID, courseID primitive.ObjectID) error

	AddSession(ctx context.Context, professorID, courseID primitive.ObjectID, input SessionInput) (*domain.Session, error)
	AddDocument(ctx context.Context, professorID, sessionID primitive.ObjectID, title string, docType domain.DocumentType) (*domain.Document, error)

	// Upload flow: request a presigned PUT URL, upload directly to storage,
	// then confirm so the key is attached to its record.
	RequestUploadURL(ctx context.Context, professorID primitive.ObjectID, kind domain.UploadKind, contentType string) (*UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, professorID primitive.ObjectID, target UploadTarget, objectKey, fileName string, fileSize int64, contentType string) (*domain.Upload, error)

	GetDashboard(ctx context.Context, professorID primitive.ObjectID) (*DashboardStats, error)
}

// professorService implements the ProfessorService interface.
type professorService struct {
	userRepo     repository.UserRepository
	courseRepo   repository.CourseRepository
	sessionRepo  repository.SessionRepository
	documentRepo repository.DocumentRepository
	subRepo      repository.SubscriptionRepository
	uploadRepo   repository.UploadRepository
	fileStorage  storage.FileStorage
}

// NewProfessorService creates a new instance of professorService.
func NewProfessorService(
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	sessionRepo repository.SessionRepository,
	documentRepo repository.DocumentRepository,
	subRepo repository.SubscriptionRepository,
	uploadRepo repository.UploadRepository,
	fileStorage storage.FileStorage,
) ProfessorService {
	return &professorService{
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		sessionRepo:  sessionRepo,
		documentRepo: documentRepo,
		subRepo:      subRepo,
		uploadRepo:   uploadRepo,
		fileStorage:  fileStorage,
	}
}

// CreateFormation creates a course owned by the professor.
func (s *professorService) CreateFormation(ctx context.Context, professorID primitive.ObjectID, input FormationInput) (*domain.Course, error) {
	if input.Title == "" {
		return nil, ErrValidationFailed
	}
	if professorID == primitive.NilObjectID {
		return nil, ErrInvalidID
	}

	professor, err := s.userRepo.GetByID(ctx, professorID)
	if err != nil {
		return nil, err
	}
	if !professor.IsProfessor() {
		return nil, ErrUserNotProfessor
	}

	course := &domain.Course{
		Title:       input.Title,
		Subject:     input.Subject,
		Description: input.Description,
		Price:       input.Price,
		Dates:       input.Dates,
		Professor: domain.ProfessorRef{
			ID:             professor.ID,
			LastName:       professor.LastName,
			Specialisation: professor.Specialisation,
		},
	}

	courseID, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	return s.courseRepo.GetByID(ctx, courseID)
}

// GetMyFormations lists the professor's courses.
func (s *professorService) GetMyFormations(ctx context.Context, professorID primitive.ObjectID) ([]domain.Course, error) {
	if professorID == primitive.NilObjectID {
		return nil, ErrInvalidID
	}
	return s.courseRepo.GetByProfessorID(ctx, professorID)
}

// UpdateFormation updates a course, enforcing ownership.
func (s *professorService) UpdateFormation(ctx context.Context, professorID, courseID primitive.ObjectID, input FormationInput) (*domain.Course, error) {
	if input.Title == "" {
		return nil, ErrValidationFailed
	}

	course, err := s.ownedCourse(ctx, professorID, courseID)
	if err != nil {
		return nil, err
	}

	course.Title = input.Title
	course.Subject = input.Subject
	course.Description = input.Description
	course.Price = input.Price
	course.Dates = input.Dates

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteFormation removes a course. The repository filter enforces
// ownership at the DB level.
func (s *professorService) DeleteFormation(ctx context.Context, professorID, courseID primitive.ObjectID) error {
	err := s.courseRepo.Delete(ctx, courseID, professorID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCourseNotFound
	}
	return err
}

// AddSession creates a séance inside one of the professor's courses.
func (s *professorService) AddSession(ctx context.Context, professorID, courseID primitive.ObjectID, input SessionInput) (*domain.Session, error) {
	if input.Title == "" {
		return nil, ErrValidationFailed
	}
	if _, err := s.ownedCourse(ctx, professorID, courseID); err != nil {
		return nil, err
	}

	session := &domain.Session{
		CourseID: courseID,
		Title:    input.Title,
		Date:     input.Date,
		Duration: input.Duration,
	}
	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, sessionID)
}

// AddDocument registers a support de cours on a séance. The record starts
// without an object key: it exists, but the file is not uploaded yet.
func (s *professorService) AddDocument(ctx context.Context, professorID, sessionID primitive.ObjectID, title string, docType domain.DocumentType) (*domain.Document, error) {
	if title == "" {
		return nil, ErrValidationFailed
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if _, err := s.ownedCourse(ctx, professorID, session.CourseID); err != nil {
		return nil, err
	}

	doc := &domain.Document{
		SessionID: sessionID,
		CourseID:  session.CourseID,
		Title:     title,
		Type:      docType,
	}
	docID, err := s.documentRepo.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	return s.documentRepo.GetByID(ctx, docID)
}

// RequestUploadURL generates a presigned PUT URL for one file.
func (s *professorService) RequestUploadURL(ctx context.Context, professorID primitive.ObjectID, kind domain.UploadKind, contentType string) (*UploadURLResponse, error) {
	if professorID == primitive.NilObjectID {
		return nil, ErrInvalidID
	}
	if !contentTypeAllowed(kind, contentType) {
		return nil, ErrInvalidContentType
	}

	uniqueID := uuid.NewString()
	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join(string(kind)+"s", professorID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmUpload records the upload metadata and attaches the object key to
// the target record. Called AFTER the file landed in storage via the
// presigned URL.
func (s *professorService) ConfirmUpload(ctx context.Context, professorID primitive.ObjectID, target UploadTarget, objectKey, fileName string, fileSize int64, contentType string) (*domain.Upload, error) {
	if professorID == primitive.NilObjectID || objectKey == "" {
		return nil, ErrInvalidID
	}

	courseID, err := s.attachUpload(ctx, professorID, target, objectKey)
	if err != nil {
		return nil, err
	}

	upload := &domain.Upload{
		ProfessorID: professorID,
		CourseID:    courseID,
		Kind:        target.Kind,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        fileSize,
	}
	uploadID, err := s.uploadRepo.Create(ctx, upload)
	if err != nil {
		// The key is already attached; metadata is best-effort bookkeeping.
		return nil, ErrUploadConfirmationFailed
	}
	upload.ID = uploadID
	return upload, nil
}

// attachUpload wires the object key onto the record the upload belongs to
// and returns the owning course ID for the metadata record.
func (s *professorService) attachUpload(ctx context.Context, professorID primitive.ObjectID, target UploadTarget, objectKey string) (primitive.ObjectID, error) {
	switch target.Kind {
	case domain.UploadThumbnail:
		course, err := s.ownedCourse(ctx, professorID, target.CourseID)
		if err != nil {
			return primitive.NilObjectID, err
		}
		course.ThumbnailKey = objectKey
		if err := s.courseRepo.Update(ctx, course); err != nil {
			return primitive.NilObjectID, ErrUploadConfirmationFailed
		}
		return course.ID, nil

	case domain.UploadVideo:
		session, err := s.sessionRepo.GetByID(ctx, target.SessionID)
		if err != nil {
			return primitive.NilObjectID, ErrSessionNotFound
		}
		if _, err := s.ownedCourse(ctx, professorID, session.CourseID); err != nil {
			return primitive.NilObjectID, err
		}
		if err := s.sessionRepo.SetVideoKey(ctx, session.ID, objectKey); err != nil {
			return primitive.NilObjectID, ErrUploadConfirmationFailed
		}
		return session.CourseID, nil

	case domain.UploadDocument:
		doc, err := s.documentRepo.GetByID(ctx, target.DocumentID)
		if err != nil {
			return primitive.NilObjectID, ErrDocumentNotFound
		}
		if _, err := s.ownedCourse(ctx, professorID, doc.CourseID); err != nil {
			return primitive.NilObjectID, err
		}
		if err := s.documentRepo.SetObjectKey(ctx, doc.ID, objectKey); err != nil {
			return primitive.NilObjectID, ErrUploadConfirmationFailed
		}
		return doc.CourseID, nil

	default:
		return primitive.NilObjectID, ErrInvalidContentType
	}
}

// GetDashboard computes the professor dashboard aggregates.
func (s *professorService) GetDashboard(ctx context.Context, professorID primitive.ObjectID) (*DashboardStats, error) {
	courses, err := s.courseRepo.GetByProfessorID(ctx, professorID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]primitive.ObjectID, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.ID)
	}

	activities, err := s.sessionRepo.CountByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	students, err := s.subRepo.CountActiveByProfessor(ctx, professorID)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalFormations: int64(len(courses)),
		TotalStudents:   students,
		TotalActivities: activities,
	}, nil
}

func (s *professorService) ownedCourse(ctx context.Context, professorID, courseID primitive.ObjectID) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.Professor.ID != professorID {
		return nil, ErrNotCourseOwner
	}
	return course, nil
}

func contentTypeAllowed(kind domain.UploadKind, contentType string) bool {
	ct := strings.ToLower(contentType)
	switch kind {
	case domain.UploadThumbnail:
		return strings.HasPrefix(ct, "image/")
	case domain.UploadVideo:
		return strings.HasPrefix(ct, "video/")
	case domain.UploadDocument:
		switch ct {
		case "application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-powerpoint",
			"application/vnd.openxmlformats-officedocument.presentationml.presentation":
			return true
		}
		return false
	default:
		return false
	}
}
