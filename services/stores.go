package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/logging"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

var (
	// ErrForbidden is returned when the caller may not act on the resource
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for malformed input
	ErrValidation = errors.New("validation failed")

	// ErrSeasonClosed is returned for any mutation inside a Complete season
	ErrSeasonClosed = errors.New("gambling season is complete")

	// ErrInvalidCredentials is returned by login for an unknown user or a bad password
	ErrInvalidCredentials = errors.New("invalid username or password")
)

func forbidden(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ParlayStore persists whole parlay documents
type ParlayStore interface {
	Create(ctx context.Context, p *models.Parlay) error
	Get(ctx context.Context, id int) (*models.Parlay, error)
	GetByPickID(ctx context.Context, pickID int) (*models.Parlay, error)
	GetByVetoID(ctx context.Context, vetoID int) (*models.Parlay, error)
	ListBySeason(ctx context.Context, seasonID int, filter database.ParlayFilter) ([]models.Parlay, int64, error)
	AllForSeason(ctx context.Context, seasonID int) ([]models.Parlay, error)
	NextOrder(ctx context.Context, seasonID int, seasonScoped bool) (int, error)
	Replace(ctx context.Context, p *models.Parlay) error
	Delete(ctx context.Context, p *models.Parlay) error
	SwapOrder(ctx context.Context, a, b *models.Parlay) error
}

// SeasonStore persists gambling seasons and their rosters
type SeasonStore interface {
	Create(ctx context.Context, season *models.GamblingSeason) error
	Get(ctx context.Context, id int) (*models.GamblingSeason, error)
	ListForUser(ctx context.Context, userID int) ([]models.GamblingSeason, error)
	ListInProgress(ctx context.Context) ([]models.GamblingSeason, error)
	AddGambler(ctx context.Context, seasonID int, gambler models.Gambler) error
	SetState(ctx context.Context, seasonID int, state models.GamblingSeasonState) error
}

// UserStore persists login accounts
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
}

// IDSequence hands out integer ids per named sequence
type IDSequence interface {
	Next(ctx context.Context, name string) (int, error)
}

// PropTargetStore resolves prop targets by identifier
type PropTargetStore interface {
	GetOrCreate(ctx context.Context, target models.PropBetTarget) (models.PropBetTarget, error)
}

// SnapshotStore persists standings snapshots
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *models.StandingsSnapshot) error
	Latest(ctx context.Context, seasonID int) (*models.StandingsSnapshot, error)
}

const defaultWriteAttempts = 3

// retryOnConflict reruns fn while it keeps losing versioned write races
func retryOnConflict(logger *logging.Logger, attempts int, op string, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if !errors.Is(err, database.ErrVersionConflict) {
			return err
		}
		logger.Debugf("%s lost a write race (attempt %d/%d)", op, attempt, attempts)
	}
	return fmt.Errorf("%s: gave up after %d attempts: %w", op, attempts, err)
}

// parlayWriter runs load, mutate and save against one parlay document
type parlayWriter struct {
	parlays  ParlayStore
	seasons  SeasonStore
	cache    PerformanceCache
	attempts int
	logger   *logging.Logger
}

func newParlayWriter(parlays ParlayStore, seasons SeasonStore, cache PerformanceCache, attempts int, logger *logging.Logger) parlayWriter {
	if attempts < 1 {
		attempts = defaultWriteAttempts
	}
	return parlayWriter{parlays: parlays, seasons: seasons, cache: cache, attempts: attempts, logger: logger}
}

type parlayLoader func(ctx context.Context) (*models.Parlay, error)

// parlayMutation edits p in place. It sees the season the parlay belongs to,
// which is always In Progress.
type parlayMutation func(p *models.Parlay, season *models.GamblingSeason) error

// update reloads the parlay on every attempt so mutate always sees the
// latest stored version
func (w *parlayWriter) update(ctx context.Context, op string, load parlayLoader, mutate parlayMutation) (*models.Parlay, *models.GamblingSeason, error) {
	var (
		saved  *models.Parlay
		season *models.GamblingSeason
	)
	err := retryOnConflict(w.logger, w.attempts, op, func() error {
		p, s, err := w.load(ctx, load)
		if err != nil {
			return err
		}
		if err := mutate(p, s); err != nil {
			return err
		}
		if err := w.parlays.Replace(ctx, p); err != nil {
			return err
		}
		saved, season = p, s
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	w.invalidate(ctx, saved.SeasonID)
	return saved, season, nil
}

// invalidate drops cached analytics after a write. A failure only costs
// freshness until the cache TTL runs out.
func (w *parlayWriter) invalidate(ctx context.Context, seasonID int) {
	if w.cache == nil {
		return
	}
	if err := w.cache.Invalidate(ctx, seasonID); err != nil {
		w.logger.Warnf("Failed to invalidate analytics cache for season %d: %v", seasonID, err)
	}
}

// load fetches a parlay with its season and refuses closed seasons
func (w *parlayWriter) load(ctx context.Context, load parlayLoader) (*models.Parlay, *models.GamblingSeason, error) {
	p, err := load(ctx)
	if err != nil {
		return nil, nil, err
	}
	season, err := w.seasons.Get(ctx, p.SeasonID)
	if err != nil {
		return nil, nil, err
	}
	if err := requireInProgress(season); err != nil {
		return nil, nil, err
	}
	return p, season, nil
}
