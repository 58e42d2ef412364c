package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sequence names handed out by MongoCounterRepository
const (
	SeqUsers       = "users"
	SeqSeasons     = "gambling_seasons"
	SeqGamblers    = "gamblers"
	SeqParlays     = "parlays"
	SeqPicks       = "picks"
	SeqVetoes      = "vetoes"
	SeqVotes       = "votes"
	SeqPropTargets = "prop_bet_targets"
)

// MongoCounterRepository hands out monotonically increasing integer ids
type MongoCounterRepository struct {
	collection *mongo.Collection
}

func NewMongoCounterRepository(db *MongoDB) *MongoCounterRepository {
	return &MongoCounterRepository{collection: db.GetCollection(CountersCollection)}
}

// Next returns the next id in the named sequence, starting at 1
func (r *MongoCounterRepository) Next(ctx context.Context, name string) (int, error) {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc struct {
		Seq int `bson:"seq"`
	}
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", name, err)
	}
	return doc.Seq, nil
}
