package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"madrasti/elearning-app/internal/domain"
	"madrasti/elearning-app/internal/repository"
)

const subscriptionCollectionName = "subscriptions"

// mongoSubscriptionRepository implements repository.SubscriptionRepository using MongoDB.
type mongoSubscriptionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new instance of mongoSubscriptionRepository.
func NewMongoSubscriptionRepository(db *mongo.Database) repository.SubscriptionRepository {
	return &mongoSubscriptionRepository{
		collection: db.Collection(subscriptionCollectionName),
	}
}

// Create inserts a new subscription record (usually status pending).
func (r *mongoSubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) (primitive.ObjectID, error) {
	if sub.StudentID == primitive.NilObjectID || sub.CourseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("subscription student ID and course ID are required")
	}
	if sub.Status == "" {
		sub.Status = domain.SubscriptionPending
	}

	sub.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single subscription.
func (r *mongoSubscriptionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Subscription, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByStudentAndCourse retrieves the newest subscription a student holds for
// a course, regardless of status.
func (r *mongoSubscriptionRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID primitive.ObjectID) (*domain.Subscription, error) {
	var sub domain.Subscription
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{"studentId": studentID, "courseId": courseID}, opts).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// GetByPaymentIntentID retrieves the subscription tied to a payment intent.
func (r *mongoSubscriptionRepository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Subscription, error) {
	return r.findOne(ctx, bson.M{"paymentIntentId": paymentIntentID})
}

func (r *mongoSubscriptionRepository) findOne(ctx context.Context, filter bson.M) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.collection.FindOne(ctx, filter).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// ActiveCourseIDsByStudent lists the course IDs the student currently has
// active subscriptions for. Feeds the viewer's per-course access set.
func (r *mongoSubscriptionRepository) ActiveCourseIDsByStudent(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{"studentId": studentID, "status": domain.SubscriptionActive}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []domain.Subscription
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}

	courseIDs := make([]primitive.ObjectID, 0, len(subs))
	for _, sub := range subs {
		courseIDs = append(courseIDs, sub.CourseID)
	}
	return courseIDs, nil
}

// Update persists status/payment changes to an existing subscription.
func (r *mongoSubscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	sub.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"status":          sub.Status,
		"paymentIntentId": sub.PaymentIntentID,
		"startedAt":       sub.StartedAt,
		"updatedAt":       sub.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": sub.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountActiveByProfessor counts active subscriptions across a professor's
// courses (dashboard "students" aggregate).
func (r *mongoSubscriptionRepository) CountActiveByProfessor(ctx context.Context, professorID primitive.ObjectID) (int64, error) {
	filter := bson.M{"professorId": professorID, "status": domain.SubscriptionActive}
	return r.collection.CountDocuments(ctx, filter)
}

// EnsureSubscriptionIndexes creates necessary indexes for the subscriptions collection.
func EnsureSubscriptionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "courseId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "professorId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "paymentIntentId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
