package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/loan-request-service/internal/domain/model"
)

// DefaultSubmissionQueryLimit caps ListByClient when no limit is given.
const DefaultSubmissionQueryLimit = 50

// SubmissionRepository stores one audit record per batch attempt.
type SubmissionRepository struct {
	collection *mongo.Collection
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *MongoDB) *SubmissionRepository {
	return &SubmissionRepository{collection: db.Submissions}
}

// Save inserts a record. Each (solicitud_uuid, attempt) pair is stored once.
func (r *SubmissionRepository) Save(ctx context.Context, record *model.SubmissionRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// FindByCorrelationID returns every attempt of a batch, oldest first.
func (r *SubmissionRepository) FindByCorrelationID(ctx context.Context, correlationID string) ([]model.SubmissionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "attempt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"solicitud_uuid": correlationID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	records := []model.SubmissionRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByClient returns the most recent records of a client, newest first.
func (r *SubmissionRepository) ListByClient(ctx context.Context, clientID string, limit int) ([]model.SubmissionRecord, error) {
	if limit <= 0 {
		limit = DefaultSubmissionQueryLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"client_id": clientID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	records := []model.SubmissionRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
