package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"madrasti/elearning-app/internal/domain"
	"madrasti/elearning-app/internal/payment"
	"madrasti/elearning-app/internal/repository"
)

// In-memory repository fakes shared by the service tests. They keep the
// happy-path semantics of the mongo implementations (sentinel errors,
// generated IDs) without a database.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	r.users[id] = &stored
	return id, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (r *fakeUserRepo) AddSubscribedCourse(_ context.Context, studentID, courseID primitive.ObjectID) error {
	u, ok := r.users[studentID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, id := range u.SubscribedCourseIDs {
		if id == courseID {
			return nil
		}
	}
	u.SubscribedCourseIDs = append(u.SubscribedCourseIDs, courseID)
	return nil
}

type fakeCourseRepo struct {
	courses map[primitive.ObjectID]*domain.Course
	listErr error
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[primitive.ObjectID]*domain.Course)}
}

func (r *fakeCourseRepo) add(course domain.Course) primitive.ObjectID {
	if course.ID == primitive.NilObjectID {
		course.ID = primitive.NewObjectID()
	}
	r.courses[course.ID] = &course
	return course.ID
}

func (r *fakeCourseRepo) Create(_ context.Context, course *domain.Course) (primitive.ObjectID, error) {
	return r.add(*course), nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *c
	return &copy, nil
}

func (r *fakeCourseRepo) List(_ context.Context) ([]domain.Course, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCourseRepo) GetByProfessorID(_ context.Context, professorID primitive.ObjectID) ([]domain.Course, error) {
	var out []domain.Course
	for _, c := range r.courses {
		if c.Professor.ID == professorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *domain.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *course
	r.courses[course.ID] = &copy
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id, professorID primitive.ObjectID) error {
	c, ok := r.courses[id]
	if !ok || c.Professor.ID != professorID {
		return repository.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

type fakeSessionRepo struct {
	sessions map[primitive.ObjectID]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]*domain.Session)}
}

func (r *fakeSessionRepo) add(session domain.Session) primitive.ObjectID {
	if session.ID == primitive.NilObjectID {
		session.ID = primitive.NewObjectID()
	}
	r.sessions[session.ID] = &session
	return session.ID
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.Session) (primitive.ObjectID, error) {
	return r.add(*session), nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *s
	return &copy, nil
}

func (r *fakeSessionRepo) GetByCourseID(_ context.Context, courseID primitive.ObjectID) ([]domain.Session, error) {
	var out []domain.Session
	for _, s := range r.sessions {
		if s.CourseID == courseID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) SetVideoKey(_ context.Context, id primitive.ObjectID, videoKey string) error {
	s, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.VideoKey = videoKey
	return nil
}

func (r *fakeSessionRepo) CountByCourseIDs(_ context.Context, courseIDs []primitive.ObjectID) (int64, error) {
	wanted := make(map[primitive.ObjectID]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	var n int64
	for _, s := range r.sessions {
		if wanted[s.CourseID] {
			n++
		}
	}
	return n, nil
}

type fakeDocumentRepo struct {
	documents map[primitive.ObjectID]*domain.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{documents: make(map[primitive.ObjectID]*domain.Document)}
}

func (r *fakeDocumentRepo) add(doc domain.Document) primitive.ObjectID {
	if doc.ID == primitive.NilObjectID {
		doc.ID = primitive.NewObjectID()
	}
	r.documents[doc.ID] = &doc
	return doc.ID
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *domain.Document) (primitive.ObjectID, error) {
	return r.add(*doc), nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Document, error) {
	d, ok := r.documents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *d
	return &copy, nil
}

func (r *fakeDocumentRepo) GetBySessionID(_ context.Context, sessionID primitive.ObjectID) ([]domain.Document, error) {
	var out []domain.Document
	for _, d := range r.documents {
		if d.SessionID == sessionID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) GetByCourseID(_ context.Context, courseID primitive.ObjectID) ([]domain.Document, error) {
	var out []domain.Document
	for _, d := range r.documents {
		if d.CourseID == courseID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) SetObjectKey(_ context.Context, id primitive.ObjectID, objectKey string) error {
	d, ok := r.documents[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.ObjectKey = objectKey
	return nil
}

type fakeSubscriptionRepo struct {
	subs map[primitive.ObjectID]*domain.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[primitive.ObjectID]*domain.Subscription)}
}

func (r *fakeSubscriptionRepo) add(sub domain.Subscription) primitive.ObjectID {
	if sub.ID == primitive.NilObjectID {
		sub.ID = primitive.NewObjectID()
	}
	r.subs[sub.ID] = &sub
	return sub.ID
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *domain.Subscription) (primitive.ObjectID, error) {
	return r.add(*sub), nil
}

func (r *fakeSubscriptionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Subscription, error) {
	s, ok := r.subs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *s
	return &copy, nil
}

func (r *fakeSubscriptionRepo) GetByStudentAndCourse(_ context.Context, studentID, courseID primitive.ObjectID) (*domain.Subscription, error) {
	var newest *domain.Subscription
	for _, s := range r.subs {
		if s.StudentID == studentID && s.CourseID == courseID {
			if newest == nil || s.CreatedAt.After(newest.CreatedAt) {
				newest = s
			}
		}
	}
	if newest == nil {
		return nil, repository.ErrNotFound
	}
	copy := *newest
	return &copy, nil
}

func (r *fakeSubscriptionRepo) GetByPaymentIntentID(_ context.Context, paymentIntentID string) (*domain.Subscription, error) {
	for _, s := range r.subs {
		if s.PaymentIntentID == paymentIntentID {
			copy := *s
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSubscriptionRepo) ActiveCourseIDsByStudent(_ context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var out []primitive.ObjectID
	for _, s := range r.subs {
		if s.StudentID == studentID && s.IsActive() {
			out = append(out, s.CourseID)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) Update(_ context.Context, sub *domain.Subscription) error {
	if _, ok := r.subs[sub.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *sub
	r.subs[sub.ID] = &copy
	return nil
}

func (r *fakeSubscriptionRepo) CountActiveByProfessor(_ context.Context, professorID primitive.ObjectID) (int64, error) {
	var n int64
	for _, s := range r.subs {
		if s.ProfessorID == professorID && s.IsActive() {
			n++
		}
	}
	return n, nil
}

type fakeUploadRepo struct {
	uploads map[primitive.ObjectID]*domain.Upload
}

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{uploads: make(map[primitive.ObjectID]*domain.Upload)}
}

func (r *fakeUploadRepo) Create(_ context.Context, upload *domain.Upload) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *upload
	stored.ID = id
	stored.UploadedAt = time.Now().UTC()
	r.uploads[id] = &stored
	return id, nil
}

func (r *fakeUploadRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Upload, error) {
	u, ok := r.uploads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

// fakeStorage presigns deterministically so tests can assert on URLs.
type fakeStorage struct {
	failAll bool
}

func (s *fakeStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	if s.failAll {
		return "", fmt.Errorf("storage unavailable")
	}
	return "https://storage.test/upload/" + objectKey, nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if s.failAll {
		return "", fmt.Errorf("storage unavailable")
	}
	return "https://storage.test/get/" + objectKey, nil
}

func (s *fakeStorage) DeleteObject(context.Context, string) error {
	return nil
}

// fakePaymentProvider records created intents and lets tests decide whether
// each one has been paid.
type fakePaymentProvider struct {
	intents map[string]*payment.Intent
	paid    map[string]bool
}

func newFakePaymentProvider() *fakePaymentProvider {
	return &fakePaymentProvider{
		intents: make(map[string]*payment.Intent),
		paid:    make(map[string]bool),
	}
}

func (p *fakePaymentProvider) CreateIntent(_ context.Context, _ float64, _ string, _ map[string]string) (*payment.Intent, error) {
	id := fmt.Sprintf("pi_test_%d", len(p.intents)+1)
	intent := &payment.Intent{ID: id, ClientSecret: id + "_secret"}
	p.intents[id] = intent
	return intent, nil
}

func (p *fakePaymentProvider) GetIntent(_ context.Context, id string) (*payment.Intent, error) {
	intent, ok := p.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such intent %s", id)
	}
	return &payment.Intent{ID: intent.ID, ClientSecret: intent.ClientSecret, Succeeded: p.paid[id]}, nil
}
