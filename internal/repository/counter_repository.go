package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounterDocument is one named counter.
type CounterDocument struct {
	Key       string    `bson:"_id"`
	Value     int64     `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// CounterRepository stores named integer counters.
type CounterRepository struct {
	collection *mongo.Collection
}

// NewCounterRepository creates a new counter repository.
func NewCounterRepository(db *MongoDB) *CounterRepository {
	return &CounterRepository{collection: db.Counters}
}

// Get returns the counter value, zero when it was never incremented.
func (r *CounterRepository) Get(ctx context.Context, key string) (int64, error) {
	var doc CounterDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.Value, nil
}

// Increment atomically adds one and returns the new value.
func (r *CounterRepository) Increment(ctx context.Context, key string) (int64, error) {
	update := bson.M{
		"$inc": bson.M{"value": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc CounterDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": key}, update, opts).Decode(&doc); err != nil {
		return 0, err
	}
	return doc.Value, nil
}
