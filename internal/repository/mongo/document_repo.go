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

const documentCollectionName = "documents"

// mongoDocumentRepository implements repository.DocumentRepository using MongoDB.
type mongoDocumentRepository struct {
	collection *mongo.Collection
}

// NewMongoDocumentRepository creates a new instance of mongoDocumentRepository.
func NewMongoDocumentRepository(db *mongo.Database) repository.DocumentRepository {
	return &mongoDocumentRepository{
		collection: db.Collection(documentCollectionName),
	}
}

// Create inserts a new support de cours record. ObjectKey may legitimately be
// empty at this point: the record exists before the file upload is confirmed.
func (r *mongoDocumentRepository) Create(ctx context.Context, doc *domain.Document) (primitive.ObjectID, error) {
	if doc.SessionID == primitive.NilObjectID || doc.CourseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("document session ID and course ID are required")
	}
	if doc.Type == "" {
		doc.Type = domain.DocumentPDF
	}

	doc.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single document.
func (r *mongoDocumentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Document, error) {
	var doc domain.Document
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// GetBySessionID retrieves all documents attached to one séance.
func (r *mongoDocumentRepository) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Document, error) {
	return r.find(ctx, bson.M{"sessionId": sessionID})
}

// GetByCourseID retrieves every document of a course across its séances.
func (r *mongoDocumentRepository) GetByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.Document, error) {
	return r.find(ctx, bson.M{"courseId": courseID})
}

func (r *mongoDocumentRepository) find(ctx context.Context, filter bson.M) ([]domain.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []domain.Document
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// SetObjectKey stores the S3 key once the file upload is confirmed, moving
// the document out of its "not yet uploaded" state.
func (r *mongoDocumentRepository) SetObjectKey(ctx context.Context, id primitive.ObjectID, objectKey string) error {
	update := bson.M{"$set": bson.M{
		"objectKey": objectKey,
		"updatedAt": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDocumentIndexes creates necessary indexes for the documents collection.
func EnsureDocumentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "courseId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
