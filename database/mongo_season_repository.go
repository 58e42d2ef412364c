package database

import (
	"context"
	"fmt"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSeasonRepository stores gambling seasons with their embedded roster
type MongoSeasonRepository struct {
	collection *mongo.Collection
}

func NewMongoSeasonRepository(db *MongoDB) *MongoSeasonRepository {
	return &MongoSeasonRepository{collection: db.GetCollection(SeasonsCollection)}
}

// EnsureIndexes indexes roster lookups by user
func (r *MongoSeasonRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := bounded(ctx, MediumTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "gamblers.user_id", Value: 1}}},
		{Keys: bson.D{{Key: "gamblers.id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create season indexes: %w", err)
	}
	return nil
}

func (r *MongoSeasonRepository) Create(ctx context.Context, season *models.GamblingSeason) error {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	season.CreatedAt = time.Now()
	if season.Gamblers == nil {
		season.Gamblers = []models.Gambler{}
	}
	if _, err := r.collection.InsertOne(ctx, season); err != nil {
		return fmt.Errorf("failed to create season %d: %w", season.Year, translate(err))
	}
	return nil
}

func (r *MongoSeasonRepository) Get(ctx context.Context, id int) (*models.GamblingSeason, error) {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	var season models.GamblingSeason
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&season); err != nil {
		return nil, fmt.Errorf("failed to get season %d: %w", id, translate(err))
	}
	return &season, nil
}

// ListForUser returns every season the user holds a seat in, newest first
func (r *MongoSeasonRepository) ListForUser(ctx context.Context, userID int) ([]models.GamblingSeason, error) {
	return r.find(ctx, bson.M{"gamblers.user_id": userID})
}

// ListInProgress returns every season still accepting changes
func (r *MongoSeasonRepository) ListInProgress(ctx context.Context) ([]models.GamblingSeason, error) {
	return r.find(ctx, bson.M{"state": models.SeasonInProgress})
}

func (r *MongoSeasonRepository) find(ctx context.Context, filter bson.M) ([]models.GamblingSeason, error) {
	ctx, cancel := bounded(ctx, MediumTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "year", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	defer cursor.Close(ctx)

	seasons := []models.GamblingSeason{}
	if err := cursor.All(ctx, &seasons); err != nil {
		return nil, fmt.Errorf("failed to decode seasons: %w", err)
	}
	return seasons, nil
}

// AddGambler appends a roster entry unless the user already has a seat
func (r *MongoSeasonRepository) AddGambler(ctx context.Context, seasonID int, gambler models.Gambler) error {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	gambler.SeasonID = seasonID
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": seasonID, "gamblers.user_id": bson.M{"$ne": gambler.UserID}},
		bson.M{"$push": bson.M{"gamblers": gambler}},
	)
	if err != nil {
		return fmt.Errorf("failed to add gambler to season %d: %w", seasonID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("season %d missing or user %d already seated: %w", seasonID, gambler.UserID, ErrDuplicate)
	}
	return nil
}

func (r *MongoSeasonRepository) SetState(ctx context.Context, seasonID int, state models.GamblingSeasonState) error {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": seasonID}, bson.M{"$set": bson.M{"state": state}})
	if err != nil {
		return fmt.Errorf("failed to set season %d state: %w", seasonID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("season %d: %w", seasonID, ErrNotFound)
	}
	return nil
}
