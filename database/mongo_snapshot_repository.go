package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/GabeSucich/elmo-fire-bets-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSnapshotRepository stores standings snapshots taken by the scheduler
type MongoSnapshotRepository struct {
	collection *mongo.Collection
}

func NewMongoSnapshotRepository(db *MongoDB) *MongoSnapshotRepository {
	return &MongoSnapshotRepository{collection: db.GetCollection(SnapshotsCollection)}
}

func (r *MongoSnapshotRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := bounded(ctx, MediumTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "season_id", Value: 1}, {Key: "taken_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create snapshot index: %w", err)
	}
	return nil
}

func (r *MongoSnapshotRepository) Save(ctx context.Context, snapshot *models.StandingsSnapshot) error {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save standings snapshot for season %d: %w", snapshot.SeasonID, err)
	}
	return nil
}

// Latest returns the most recent snapshot for the season
func (r *MongoSnapshotRepository) Latest(ctx context.Context, seasonID int) (*models.StandingsSnapshot, error) {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "taken_at", Value: -1}})
	var snapshot models.StandingsSnapshot
	if err := r.collection.FindOne(ctx, bson.M{"season_id": seasonID}, opts).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot for season %d: %w", seasonID, translate(err))
	}
	return &snapshot, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
