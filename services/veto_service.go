package services

import (
	"context"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/lifecycle"
	"github.com/GabeSucich/elmo-fire-bets-backend/logging"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// VetoService raises, votes on and withdraws vetoes
type VetoService struct {
	writer  parlayWriter
	parlays ParlayStore
	ids     IDSequence
	metrics *Metrics
	logger  *logging.Logger
}

func NewVetoService(
	parlays ParlayStore,
	seasons SeasonStore,
	ids IDSequence,
	cache PerformanceCache,
	metrics *Metrics,
	maxWriteRetries int,
) *VetoService {
	logger := logging.WithPrefix("VetoService")
	return &VetoService{
		writer:  newParlayWriter(parlays, seasons, cache, maxWriteRetries, logger),
		parlays: parlays,
		ids:     ids,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *VetoService) byVeto(vetoID int) parlayLoader {
	return func(ctx context.Context) (*models.Parlay, error) {
		return s.parlays.GetByVetoID(ctx, vetoID)
	}
}

// Create raises a veto on a pick on behalf of one of the user's gamblers
func (s *VetoService) Create(ctx context.Context, userID, pickID, gamblerID int) (*models.Veto, error) {
	vetoID, err := s.ids.Next(ctx, database.SeqVetoes)
	if err != nil {
		return nil, err
	}
	load := func(ctx context.Context) (*models.Parlay, error) {
		return s.parlays.GetByPickID(ctx, pickID)
	}
	p, _, err := s.writer.update(ctx, "raise veto", load, func(p *models.Parlay, season *models.GamblingSeason) error {
		if err := requireActingAs(season, userID, gamblerID); err != nil {
			return err
		}
		_, err := lifecycle.RaiseVeto(p, pickID, gamblerID, vetoID)
		return err
	})
	if err != nil {
		return nil, err
	}
	_, veto, _ := p.FindVeto(vetoID)
	s.logger.Infof("Gambler %d vetoed pick %d in parlay %d", gamblerID, pickID, p.ID)
	return veto, nil
}

// Vote records the gambler's vote and resolves the veto against the
// season's quorum
func (s *VetoService) Vote(ctx context.Context, userID, vetoID, gamblerID int, affirmative bool) (lifecycle.VoteOutcome, error) {
	voteID, err := s.ids.Next(ctx, database.SeqVotes)
	if err != nil {
		return lifecycle.VoteOutcome{}, err
	}

	var outcome lifecycle.VoteOutcome
	_, _, err = s.writer.update(ctx, "vote on veto", s.byVeto(vetoID), func(p *models.Parlay, season *models.GamblingSeason) error {
		if err := requireActingAs(season, userID, gamblerID); err != nil {
			return err
		}
		var err error
		outcome, err = lifecycle.SubmitVote(p, vetoID, gamblerID, voteID, affirmative, lifecycle.NewQuorum(len(season.Gamblers)))
		return err
	})
	if err != nil {
		return lifecycle.VoteOutcome{}, err
	}
	if outcome.Status != models.VetoPending {
		s.metrics.vetoResolved(string(outcome.Status))
		s.logger.Infof("Veto %d is now %s", vetoID, outcome.Status)
	}
	return outcome, nil
}

// Delete withdraws a veto before quorum settles it. Only the raiser may.
func (s *VetoService) Delete(ctx context.Context, userID, vetoID int) error {
	_, _, err := s.writer.update(ctx, "delete veto", s.byVeto(vetoID), func(p *models.Parlay, season *models.GamblingSeason) error {
		_, veto, ok := p.FindVeto(vetoID)
		if !ok {
			return database.ErrNotFound
		}
		if err := requireActingAs(season, userID, veto.GamblerID); err != nil {
			return err
		}
		return lifecycle.RemoveVeto(p, vetoID)
	})
	return err
}
