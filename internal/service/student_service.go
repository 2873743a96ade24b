package service

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"madrasti/elearning-app/internal/access"
	"madrasti/elearning-app/internal/domain"
	"madrasti/elearning-app/internal/repository"
	"madrasti/elearning-app/internal/storage"
)

// --- Error Definitions ---
var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidID        = errors.New("invalid resource identifier")
)

// CourseDetail is the course screen payload: the course plus its séances,
// each enriched with its documents (the seances+supports join). Video and
// document URLs are withheld here; they are only handed out by the gated
// Open* operations.
type CourseDetail struct {
	Course  domain.Course    `json:"course"`
	Seances []domain.Session `json:"seances"`
}

type StudentService interface {
	// BuildViewer assembles the access context for a request: anonymous
	// when userID is empty, otherwise authenticated with the student's
	// active per-course subscriptions.
	BuildViewer(ctx context.Context, userID string) (*access.Viewer, error)

	GetCourseDetail(ctx context.Context, courseID primitive.ObjectID) (*CourseDetail, error)

	// Gated navigation. Each returns the gate's decision; on Allowed the
	// navigation params carry a presigned URL where one exists.
	OpenSession(ctx context.Context, viewer *access.Viewer, sessionID primitive.ObjectID) (access.Decision, error)
	OpenDocument(ctx context.Context, viewer *access.Viewer, documentID primitive.ObjectID) (access.Decision, error)
	StartSubscription(ctx context.Context, viewer *access.Viewer, courseID primitive.ObjectID) (access.Decision, error)

	// ResumeIntent replays the viewer's pending navigation after login or
	// subscription completed.
	ResumeIntent(ctx context.Context, viewer *access.Viewer) (access.Navigation, error)
}

// studentService implements the StudentService interface.
type studentService struct {
	courseRepo   repository.CourseRepository
	sessionRepo  repository.SessionRepository
	documentRepo repository.DocumentRepository
	subRepo      repository.SubscriptionRepository
	fileStorage  storage.FileStorage
}

// NewStudentService creates a new instance of studentService.
func NewStudentService(
	courseRepo repository.CourseRepository,
	sessionRepo repository.SessionRepository,
	documentRepo repository.DocumentRepository,
	subRepo repository.SubscriptionRepository,
	fileStorage storage.FileStorage,
) StudentService {
	return &studentService{
		courseRepo:   courseRepo,
		sessionRepo:  sessionRepo,
		documentRepo: documentRepo,
		subRepo:      subRepo,
		fileStorage:  fileStorage,
	}
}

// BuildViewer loads the per-course subscription set for authenticated users.
func (s *studentService) BuildViewer(ctx context.Context, userID string) (*access.Viewer, error) {
	if userID == "" {
		return access.NewViewer(false, "", nil), nil
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidID
	}

	courseIDs, err := s.subRepo.ActiveCourseIDsByStudent(ctx, oid)
	if err != nil {
		return nil, err
	}

	subscribed := make([]string, 0, len(courseIDs))
	for _, id := range courseIDs {
		subscribed = append(subscribed, id.Hex())
	}
	return access.NewViewer(true, userID, subscribed), nil
}

// GetCourseDetail builds the course screen payload.
func (s *studentService) GetCourseDetail(ctx context.Context, courseID primitive.ObjectID) (*CourseDetail, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if course.ThumbnailKey != "" {
		if url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, course.ThumbnailKey, storage.DefaultPresignedURLExpiry); err == nil {
			course.ThumbnailURL = url
		}
	}

	seances, err := s.sessionRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	// Join documents onto their séance.
	bySession := make(map[primitive.ObjectID][]domain.Document, len(seances))
	for _, doc := range docs {
		bySession[doc.SessionID] = append(bySession[doc.SessionID], doc)
	}
	for i := range seances {
		seances[i].Documents = bySession[seances[i].ID]
	}

	return &CourseDetail{Course: *course, Seances: seances}, nil
}

// OpenSession gates access to a séance and, when allowed, resolves its video
// to a presigned URL.
func (s *studentService) OpenSession(ctx context.Context, viewer *access.Viewer, sessionID primitive.ObjectID) (access.Decision, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return access.Decision{}, ErrSessionNotFound
		}
		return access.Decision{}, err
	}

	res := s.sessionResource(session)
	decision := access.Evaluate(viewer, res)
	if decision.State != access.Allowed {
		return decision, nil
	}

	if session.HasVideo() {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, session.VideoKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			log.Printf("WARN: failed to presign video for session %s: %v", sessionID.Hex(), err)
		} else {
			res.VideoURL = url
		}
	}
	nav := access.NavigationFor(access.ScreenSeance, res)
	decision.Navigation = &nav
	return decision, nil
}

// OpenDocument gates access to a support de cours. A document whose file has
// not been uploaded yet still navigates, with an empty URL the viewer shows
// as unavailable.
func (s *studentService) OpenDocument(ctx context.Context, viewer *access.Viewer, documentID primitive.ObjectID) (access.Decision, error) {
	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return access.Decision{}, ErrDocumentNotFound
		}
		return access.Decision{}, err
	}

	res := s.documentResource(doc)
	decision := access.Evaluate(viewer, res)
	if decision.State != access.Allowed {
		return decision, nil
	}

	if doc.IsUploaded() {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, doc.ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			log.Printf("WARN: failed to presign document %s: %v", documentID.Hex(), err)
		} else {
			res.URL = url
		}
	}
	nav := access.NavigationFor(access.ScreenPDFViewer, res)
	decision.Navigation = &nav
	return decision, nil
}

// StartSubscription gates the subscribe action itself: reachable for any
// authenticated viewer, login-prompted otherwise.
func (s *studentService) StartSubscription(ctx context.Context, viewer *access.Viewer, courseID primitive.ObjectID) (access.Decision, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return access.Decision{}, ErrCourseNotFound
		}
		return access.Decision{}, err
	}

	return access.Evaluate(viewer, s.subscriptionResource(ctx, course)), nil
}

// ResumeIntent resolves the pending intent against current data and replays
// the original navigation.
func (s *studentService) ResumeIntent(ctx context.Context, viewer *access.Viewer) (access.Navigation, error) {
	var resolveErr error
	nav, err := access.Replay(viewer, func(intent access.Intent) (access.Resource, bool) {
		res, err := s.resolveResource(ctx, viewer, intent)
		if err != nil {
			resolveErr = err
			return access.Resource{}, false
		}
		return res, true
	})
	if resolveErr != nil {
		return access.Navigation{}, resolveErr
	}
	return nav, err
}

func (s *studentService) resolveResource(ctx context.Context, viewer *access.Viewer, intent access.Intent) (access.Resource, error) {
	oid, err := primitive.ObjectIDFromHex(intent.ResourceID)
	if err != nil {
		return access.Resource{}, ErrInvalidID
	}

	switch intent.ResourceType {
	case access.ResourceSession:
		session, err := s.sessionRepo.GetByID(ctx, oid)
		if err != nil {
			return access.Resource{}, ErrSessionNotFound
		}
		res := s.sessionResource(session)
		// Presign only for subscribers; the replayed screen otherwise
		// shows the séance locked.
		if session.HasVideo() && viewer.IsSubscribedTo(session.CourseID.Hex()) {
			if url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, session.VideoKey, storage.DefaultPresignedURLExpiry); err == nil {
				res.VideoURL = url
			}
		}
		return res, nil

	case access.ResourceDocument:
		doc, err := s.documentRepo.GetByID(ctx, oid)
		if err != nil {
			return access.Resource{}, ErrDocumentNotFound
		}
		res := s.documentResource(doc)
		if doc.IsUploaded() && viewer.IsSubscribedTo(doc.CourseID.Hex()) {
			if url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, doc.ObjectKey, storage.DefaultPresignedURLExpiry); err == nil {
				res.URL = url
			}
		}
		return res, nil

	case access.ResourceSubscription, access.ResourceCourse:
		course, err := s.courseRepo.GetByID(ctx, oid)
		if err != nil {
			return access.Resource{}, ErrCourseNotFound
		}
		if intent.ResourceType == access.ResourceSubscription {
			return s.subscriptionResource(ctx, course), nil
		}
		return access.Resource{
			Type:     access.ResourceCourse,
			ID:       course.ID.Hex(),
			CourseID: course.ID.Hex(),
			Title:    course.Title,
		}, nil

	default:
		return access.Resource{}, ErrInvalidID
	}
}

func (s *studentService) sessionResource(session *domain.Session) access.Resource {
	return access.Resource{
		Type:     access.ResourceSession,
		ID:       session.ID.Hex(),
		CourseID: session.CourseID.Hex(),
		Title:    session.Title,
		Date:     session.Date,
		Duration: session.Duration,
	}
}

func (s *studentService) documentResource(doc *domain.Document) access.Resource {
	return access.Resource{
		Type:     access.ResourceDocument,
		ID:       doc.ID.Hex(),
		CourseID: doc.CourseID.Hex(),
		Title:    doc.Title,
		DocType:  string(doc.Type),
	}
}

func (s *studentService) subscriptionResource(ctx context.Context, course *domain.Course) access.Resource {
	thumbnail := ""
	if course.ThumbnailKey != "" {
		if url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, course.ThumbnailKey, storage.DefaultPresignedURLExpiry); err == nil {
			thumbnail = url
		}
	}
	return access.Resource{
		Type:      access.ResourceSubscription,
		ID:        course.ID.Hex(),
		CourseID:  course.ID.Hex(),
		Title:     course.Title,
		Price:     course.Price,
		Professor: course.Professor.LastName,
		Thumbnail: thumbnail,
	}
}
