package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CounterStore struct {
	collection *mongo.Collection
}

func NewCounterStore(db *mongo.Database) *CounterStore {
	return &CounterStore{collection: db.Collection(countersCollection)}
}

// Increment atomically bumps the named counter and returns the new value.
// A counter that does not exist yet is created so that the first value
// returned is first. The read and the write happen in one server-side update,
// so concurrent callers never see the same value.
func (s *CounterStore) Increment(ctx context.Context, name string, first int64) (int64, error) {
	filter := bson.M{"_id": name}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"seq": bson.M{"$add": bson.A{
				bson.M{"$ifNull": bson.A{"$seq", first - 1}},
				1,
			}},
		}}},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// two upserts raced to create the counter; the loser retries against the winner's document
		err = s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}
	return doc.Seq, nil
}
