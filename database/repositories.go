package database

import (
	"context"
	"fmt"
)

// Repositories bundles every ledger repository on one connection
type Repositories struct {
	Users       *MongoUserRepository
	Seasons     *MongoSeasonRepository
	Parlays     *MongoParlayRepository
	PropTargets *MongoPropTargetRepository
	Counters    *MongoCounterRepository
	Snapshots   *MongoSnapshotRepository
}

func NewRepositories(db *MongoDB) *Repositories {
	counters := NewMongoCounterRepository(db)
	return &Repositories{
		Users:       NewMongoUserRepository(db),
		Seasons:     NewMongoSeasonRepository(db),
		Parlays:     NewMongoParlayRepository(db),
		PropTargets: NewMongoPropTargetRepository(db, counters),
		Counters:    counters,
		Snapshots:   NewMongoSnapshotRepository(db),
	}
}

// EnsureIndexes creates the indexes every repository relies on
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	steps := []struct {
		name   string
		ensure func(context.Context) error
	}{
		{UsersCollection, r.Users.EnsureIndexes},
		{SeasonsCollection, r.Seasons.EnsureIndexes},
		{ParlaysCollection, r.Parlays.EnsureIndexes},
		{PropTargetsCollection, r.PropTargets.EnsureIndexes},
		{SnapshotsCollection, r.Snapshots.EnsureIndexes},
	}
	for _, step := range steps {
		if err := step.ensure(ctx); err != nil {
			return fmt.Errorf("failed to ensure %s indexes: %w", step.name, err)
		}
	}
	return nil
}
