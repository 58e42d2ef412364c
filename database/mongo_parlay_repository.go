package database

import (
	"context"
	"fmt"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/logging"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ParlayFilter narrows a season parlay listing
type ParlayFilter struct {
	State  *models.ParlayState
	Desc   bool // newest order first
	Limit  int64
	Offset int64
}

func (f ParlayFilter) query(seasonID int) bson.M {
	q := bson.M{"season_id": seasonID}
	if f.State != nil {
		q["state"] = *f.State
	}
	return q
}

func (f ParlayFilter) findOptions() *options.FindOptions {
	dir := 1
	if f.Desc {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: dir}, {Key: "_id", Value: dir}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	if f.Offset > 0 {
		opts.SetSkip(f.Offset)
	}
	return opts
}

// MongoParlayRepository stores each parlay as one document embedding its
// picks, their vetoes and the votes on those vetoes. Writes are guarded by
// the document version, and (season_id, order) is unique.
type MongoParlayRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoParlayRepository(db *MongoDB) *MongoParlayRepository {
	return &MongoParlayRepository{
		client:     db.client,
		collection: db.GetCollection(ParlaysCollection),
		logger:     logging.WithPrefix("MongoParlayRepository"),
	}
}

func (r *MongoParlayRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := bounded(ctx, MediumTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "season_id", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("season_order_unique"),
		},
		{Keys: bson.D{{Key: "order", Value: -1}}},
		{Keys: bson.D{{Key: "picks.id", Value: 1}}},
		{Keys: bson.D{{Key: "picks.vetoes.id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create parlay indexes: %w", err)
	}
	return nil
}

// Create inserts a new parlay at version 1. An order already used in the
// season fails with ErrDuplicate.
func (r *MongoParlayRepository) Create(ctx context.Context, p *models.Parlay) error {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	now := time.Now()
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Picks == nil {
		p.Picks = []models.Pick{}
	}
	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create parlay: %w", translate(err))
	}
	return nil
}

func (r *MongoParlayRepository) Get(ctx context.Context, id int) (*models.Parlay, error) {
	return r.findOne(ctx, bson.M{"_id": id}, fmt.Sprintf("parlay %d", id))
}

// GetByPickID returns the parlay holding the pick
func (r *MongoParlayRepository) GetByPickID(ctx context.Context, pickID int) (*models.Parlay, error) {
	return r.findOne(ctx, bson.M{"picks.id": pickID}, fmt.Sprintf("parlay for pick %d", pickID))
}

// GetByVetoID returns the parlay holding the veto
func (r *MongoParlayRepository) GetByVetoID(ctx context.Context, vetoID int) (*models.Parlay, error) {
	return r.findOne(ctx, bson.M{"picks.vetoes.id": vetoID}, fmt.Sprintf("parlay for veto %d", vetoID))
}

func (r *MongoParlayRepository) findOne(ctx context.Context, filter bson.M, what string) (*models.Parlay, error) {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	var p models.Parlay
	if err := r.collection.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", what, translate(err))
	}
	return &p, nil
}

// ListBySeason returns one page of a season's parlays and the unpaged total
func (r *MongoParlayRepository) ListBySeason(ctx context.Context, seasonID int, filter ParlayFilter) ([]models.Parlay, int64, error) {
	ctx, cancel := bounded(ctx, MediumTimeout)
	defer cancel()

	query := filter.query(seasonID)
	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count parlays for season %d: %w", seasonID, err)
	}

	parlays, err := r.find(ctx, query, filter.findOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list parlays for season %d: %w", seasonID, err)
	}
	return parlays, total, nil
}

// AllForSeason returns every parlay in the season in ascending order
func (r *MongoParlayRepository) AllForSeason(ctx context.Context, seasonID int) ([]models.Parlay, error) {
	ctx, cancel := bounded(ctx, LongTimeout)
	defer cancel()

	parlays, err := r.find(ctx, bson.M{"season_id": seasonID}, ParlayFilter{}.findOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to load parlays for season %d: %w", seasonID, err)
	}
	return parlays, nil
}

func (r *MongoParlayRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Parlay, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	parlays := []models.Parlay{}
	if err := cursor.All(ctx, &parlays); err != nil {
		return nil, err
	}
	return parlays, nil
}

// NextOrder returns one past the highest order in use. When seasonScoped is
// false the maximum is taken across every season.
func (r *MongoParlayRepository) NextOrder(ctx context.Context, seasonID int, seasonScoped bool) (int, error) {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	filter := bson.M{}
	if seasonScoped {
		filter["season_id"] = seasonID
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "order", Value: -1}}).
		SetProjection(bson.M{"order": 1})

	var doc struct {
		Order int `bson:"order"`
	}
	err := r.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find max parlay order: %w", err)
	}
	return doc.Order + 1, nil
}

// Replace writes p if nobody else has written since it was loaded. On
// success p.Version is advanced to the stored version.
func (r *MongoParlayRepository) Replace(ctx context.Context, p *models.Parlay) error {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	loaded := p.Version
	next := *p
	next.Version = loaded + 1
	next.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ID, "version": loaded}, &next)
	if err != nil {
		return fmt.Errorf("failed to save parlay %d: %w", p.ID, translate(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("parlay %d at version %d: %w", p.ID, loaded, ErrVersionConflict)
	}
	p.Version = next.Version
	p.UpdatedAt = next.UpdatedAt
	return nil
}

// Delete removes the parlay if it is still at the loaded version
func (r *MongoParlayRepository) Delete(ctx context.Context, p *models.Parlay) error {
	ctx, cancel := bounded(ctx, ShortTimeout)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": p.ID, "version": p.Version})
	if err != nil {
		return fmt.Errorf("failed to delete parlay %d: %w", p.ID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("parlay %d at version %d: %w", p.ID, p.Version, ErrVersionConflict)
	}
	return nil
}

// parkingOrder is a slot no real parlay uses. Parlay ids are unique, so two
// concurrent swaps never park on the same value.
func parkingOrder(p *models.Parlay) int {
	return -p.ID
}

// SwapOrder exchanges the order of two parlays in one transaction. The unique
// (season_id, order) index is checked per write, so a is parked on an unused
// order while b takes its place. Either every write commits or none does.
func (r *MongoParlayRepository) SwapOrder(ctx context.Context, a, b *models.Parlay) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	aOrder, bOrder := a.Order, b.Order
	aVersion, bVersion := a.Version, b.Version
	restore := func() {
		a.Order, a.Version = aOrder, aVersion
		b.Order, b.Version = bOrder, bVersion
	}

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		restore()
		steps := []struct {
			p     *models.Parlay
			order int
		}{
			{a, parkingOrder(a)},
			{b, aOrder},
			{a, bOrder},
		}
		for _, step := range steps {
			step.p.Order = step.order
			if err := r.Replace(sc, step.p); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		restore()
		return fmt.Errorf("failed to swap order of parlays %d and %d: %w", a.ID, b.ID, err)
	}
	return nil
}
