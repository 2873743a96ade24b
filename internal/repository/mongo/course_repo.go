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

const courseCollectionName = "courses"

// mongoCourseRepository implements repository.CourseRepository using MongoDB.
type mongoCourseRepository struct {
	collection *mongo.Collection
}

// NewMongoCourseRepository creates a new instance of mongoCourseRepository.
func NewMongoCourseRepository(db *mongo.Database) repository.CourseRepository {
	return &mongoCourseRepository{
		collection: db.Collection(courseCollectionName),
	}
}

// Create inserts a new course into the database.
func (r *mongoCourseRepository) Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error) {
	if course.Title == "" || course.Professor.ID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("course title and professor are required")
	}

	course.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, course)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single course.
func (r *mongoCourseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error) {
	var course domain.Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// List returns the whole catalog, newest first. Filtering happens in memory
// in the catalog package, never in the query, so the filter semantics stay
// testable without a database.
func (r *mongoCourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []domain.Course
	if err = cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetByProfessorID retrieves all formations owned by a professor.
func (r *mongoCourseRepository) GetByProfessorID(ctx context.Context, professorID primitive.ObjectID) ([]domain.Course, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"professor.id": professorID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []domain.Course
	if err = cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Update replaces the mutable fields of an existing course.
func (r *mongoCourseRepository) Update(ctx context.Context, course *domain.Course) error {
	course.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": course.ID}
	update := bson.M{"$set": bson.M{
		"title":        course.Title,
		"subject":      course.Subject,
		"price":        course.Price,
		"description":  course.Description,
		"dates":        course.Dates,
		"thumbnailKey": course.ThumbnailKey,
		"updatedAt":    course.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a course, enforcing professor ownership at the DB level.
func (r *mongoCourseRepository) Delete(ctx context.Context, id, professorID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "professor.id": professorID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCourseIndexes creates necessary indexes for the courses collection.
func EnsureCourseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "professor.id", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "subject", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
