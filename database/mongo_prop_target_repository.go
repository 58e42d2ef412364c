package database

import (
	"context"
	"fmt"

	"github.com/GabeSucich/elmo-fire-bets-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPropTargetRepository stores the players and teams picks refer to
type MongoPropTargetRepository struct {
	collection *mongo.Collection
	counters   *MongoCounterRepository
}

func NewMongoPropTargetRepository(db *MongoDB, counters *MongoCounterRepository) *MongoPropTargetRepository {
	return &MongoPropTargetRepository{
		collection: db.GetCollection(PropTargetsCollection),
		counters:   counters,
	}
}

func (r *MongoPropTargetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := bounded(ctx, MediumTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "identifier", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create prop target index: %w", err)
	}
	return nil
}

// GetOrCreate returns the stored target with the same identifier, creating
// it from target when none exists. A racing insert of the same identifier
// resolves to the stored row.
func (r *MongoPropTargetRepository) GetOrCreate(ctx context.Context, target models.PropBetTarget) (models.PropBetTarget, error) {
	if existing, err := r.getByIdentifier(ctx, target.Identifier); err == nil {
		return existing, nil
	} else if !isNotFound(err) {
		return models.PropBetTarget{}, err
	}

	id, err := r.counters.Next(ctx, SeqPropTargets)
	if err != nil {
		return models.PropBetTarget{}, err
	}
	target.ID = id

	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()
	if _, err := r.collection.InsertOne(ctx, target); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.getByIdentifier(ctx, target.Identifier)
		}
		return models.PropBetTarget{}, fmt.Errorf("failed to create prop target %q: %w", target.Identifier, err)
	}
	return target, nil
}

func (r *MongoPropTargetRepository) getByIdentifier(ctx context.Context, identifier string) (models.PropBetTarget, error) {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	var target models.PropBetTarget
	if err := r.collection.FindOne(ctx, bson.M{"identifier": identifier}).Decode(&target); err != nil {
		return models.PropBetTarget{}, fmt.Errorf("failed to get prop target %q: %w", identifier, translate(err))
	}
	return target, nil
}
