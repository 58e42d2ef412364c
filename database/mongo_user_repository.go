package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/logging"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository stores login accounts
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *MongoDB) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.GetCollection(UsersCollection),
	}
}

// EnsureIndexes creates the unique username index
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := bounded(ctx, MediumTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logging.WithPrefix("MongoUserRepository").Warnf("Failed to create username index: %v", err)
	}
	return err
}

// GetByUsername looks a user up case-insensitively
func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": strings.ToLower(username)}).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, translate(err))
	}
	return &user, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, translate(err))
	}
	return &user, nil
}

// Create inserts a user. Usernames are stored lower-cased.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	now := time.Now()
	user.Username = strings.ToLower(user.Username)
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user %q: %w", user.Username, translate(err))
	}
	return nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := bounded(ctx, MediumTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}
