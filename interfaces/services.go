package interfaces

import (
	"context"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/lifecycle"
	"github.com/GabeSucich/elmo-fire-bets-backend/metrics"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
	"github.com/GabeSucich/elmo-fire-bets-backend/scoring"
	"github.com/GabeSucich/elmo-fire-bets-backend/services"
)

// AuthService defines account and token operations used by handlers and middleware
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	GetUserFromToken(ctx context.Context, token string) (*models.User, error)
}

// ParlayService defines the parlay lifecycle operations
type ParlayService interface {
	Create(ctx context.Context, userID int, in services.CreateParlayInput) (*models.Parlay, error)
	Get(ctx context.Context, userID, id int) (*models.Parlay, error)
	ListForSeason(ctx context.Context, userID, seasonID int, filter database.ParlayFilter) (*services.ParlayPage, error)
	Update(ctx context.Context, userID, id int, in services.UpdateParlayInput) (*models.Parlay, error)
	Claim(ctx context.Context, userID, id, gamblerID int) (*models.Parlay, error)
	Lock(ctx context.Context, userID, id int, overrides map[int]services.PickChanges) (*models.Parlay, error)
	Unlock(ctx context.Context, userID, id int) (*models.Parlay, error)
	Preview(ctx context.Context, userID, id int) (*services.FinalizePreview, error)
	Close(ctx context.Context, userID, id int, result models.ParlayResult) (*models.Parlay, error)
	Reopen(ctx context.Context, userID, id int) (*models.Parlay, error)
	Delete(ctx context.Context, userID, id int) error
	SwapOrder(ctx context.Context, userID, firstID, secondID int) error
}

// PickService defines pick editing and adjudication
type PickService interface {
	Create(ctx context.Context, userID int, in services.CreatePickInput) (*models.Pick, error)
	Update(ctx context.Context, userID, pickID int, changes services.PickChanges) (*models.Pick, error)
	Override(ctx context.Context, userID, pickID int, changes services.PickChanges, deleteVeto bool) (*models.Pick, error)
	SetResult(ctx context.Context, userID, pickID int, result models.PickResult) (*models.Pick, error)
}

// VetoService defines veto raising and voting
type VetoService interface {
	Create(ctx context.Context, userID, pickID, gamblerID int) (*models.Veto, error)
	Vote(ctx context.Context, userID, vetoID, gamblerID int, affirmative bool) (lifecycle.VoteOutcome, error)
	Delete(ctx context.Context, userID, vetoID int) error
}

// SeasonService defines season reads and analytics
type SeasonService interface {
	ListForUser(ctx context.Context, userID int) ([]services.SeasonSummary, error)
	Get(ctx context.Context, userID, seasonID int) (*services.SeasonDetail, error)
	Performances(ctx context.Context, userID, seasonID int) (map[int]scoring.GamblerPerformance, error)
	GamblerMetrics(ctx context.Context, userID, seasonID, gamblerID int) (metrics.GamblerAdvancedMetrics, error)
	TimeSeries(ctx context.Context, userID, seasonID int) (map[int][]scoring.TimeSeriesDatum, error)
	TimeSeriesChart(ctx context.Context, userID, seasonID int) ([]byte, error)
	LatestSnapshot(ctx context.Context, seasonID int) (*models.StandingsSnapshot, error)
}

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}
