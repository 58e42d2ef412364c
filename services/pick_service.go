package services

import (
	"context"
	"strings"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/lifecycle"
	"github.com/GabeSucich/elmo-fire-bets-backend/logging"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// TargetInput names the player or team a pick is about
type TargetInput struct {
	Identifier string  `json:"identifier"`
	TeamName   string  `json:"team_name"`
	PlayerName *string `json:"player_name"`
}

func (in TargetInput) validate() error {
	if strings.TrimSpace(in.Identifier) == "" {
		return invalid("prop target identifier is required")
	}
	if strings.TrimSpace(in.TeamName) == "" {
		return invalid("prop target team name is required")
	}
	return nil
}

// PickChanges is a partial pick edit. Nil fields are left untouched.
type PickChanges struct {
	Target      *TargetInput             `json:"target"`
	PropType    *models.PropBetType      `json:"prop_type"`
	Direction   *models.PropBetDirection `json:"direction"`
	Line        *float64                 `json:"line"`
	SauceFactor *models.SauceFactor      `json:"sauce_factor"`
}

func (c PickChanges) validate() error {
	if c.Target != nil {
		if err := c.Target.validate(); err != nil {
			return err
		}
	}
	if c.PropType != nil && !c.PropType.Valid() {
		return invalid("unknown prop type %q", *c.PropType)
	}
	if c.Direction != nil && !c.Direction.Valid() {
		return invalid("unknown direction %q", *c.Direction)
	}
	if c.SauceFactor != nil && !c.SauceFactor.Valid() {
		return invalid("unknown sauce factor %q", *c.SauceFactor)
	}
	return nil
}

// resolvePickChanges validates changes and swaps the target for its stored row
func resolvePickChanges(ctx context.Context, targets PropTargetStore, c PickChanges) (lifecycle.PickUpdate, error) {
	if err := c.validate(); err != nil {
		return lifecycle.PickUpdate{}, err
	}
	upd := lifecycle.PickUpdate{
		PropType:    c.PropType,
		Direction:   c.Direction,
		Line:        c.Line,
		SauceFactor: c.SauceFactor,
	}
	if c.Target != nil {
		target, err := resolveTarget(ctx, targets, *c.Target)
		if err != nil {
			return lifecycle.PickUpdate{}, err
		}
		upd.Target = &target
	}
	return upd, nil
}

func resolveTarget(ctx context.Context, targets PropTargetStore, in TargetInput) (models.PropBetTarget, error) {
	if err := in.validate(); err != nil {
		return models.PropBetTarget{}, err
	}
	return targets.GetOrCreate(ctx, models.PropBetTarget{
		Identifier: strings.TrimSpace(in.Identifier),
		TeamName:   in.TeamName,
		PlayerName: in.PlayerName,
	})
}

// CreatePickInput adds a pick to a parlay
type CreatePickInput struct {
	ParlayID      int                     `json:"parlay_id"`
	GamblerID     int                     `json:"gambler_id"`
	Target        TargetInput             `json:"target"`
	PropType      models.PropBetType      `json:"prop_type"`
	Direction     models.PropBetDirection `json:"direction"`
	Line          float64                 `json:"line"`
	SauceFactor   *models.SauceFactor     `json:"sauce_factor"`
	CorrectedLine *float64                `json:"corrected_line"`
}

func (in CreatePickInput) validate() error {
	if !in.PropType.Valid() {
		return invalid("unknown prop type %q", in.PropType)
	}
	if !in.Direction.Valid() {
		return invalid("unknown direction %q", in.Direction)
	}
	if in.SauceFactor != nil && !in.SauceFactor.Valid() {
		return invalid("unknown sauce factor %q", *in.SauceFactor)
	}
	return in.Target.validate()
}

// PickService edits picks inside their parlay documents
type PickService struct {
	writer  parlayWriter
	parlays ParlayStore
	ids     IDSequence
	targets PropTargetStore
	metrics *Metrics
	logger  *logging.Logger
}

func NewPickService(
	parlays ParlayStore,
	seasons SeasonStore,
	ids IDSequence,
	targets PropTargetStore,
	cache PerformanceCache,
	metrics *Metrics,
	maxWriteRetries int,
) *PickService {
	logger := logging.WithPrefix("PickService")
	return &PickService{
		writer:  newParlayWriter(parlays, seasons, cache, maxWriteRetries, logger),
		parlays: parlays,
		ids:     ids,
		targets: targets,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *PickService) byPick(pickID int) parlayLoader {
	return func(ctx context.Context) (*models.Parlay, error) {
		return s.parlays.GetByPickID(ctx, pickID)
	}
}

// canEditPicks: anyone in the season while Building, only the owner after lock
func canEditPicks(season *models.GamblingSeason, p *models.Parlay, userID int) error {
	if _, err := requireMember(season, userID); err != nil {
		return err
	}
	if p.State != models.ParlayBuilding && !isOwner(season, p, userID) {
		return forbidden("after parlay %d is locked only the owner can change picks", p.ID)
	}
	return nil
}

func savedPick(p *models.Parlay, pickID int) *models.Pick {
	pick, _ := p.FindPick(pickID)
	return pick
}

// Create adds a new pick for a gambler in the parlay's season
func (s *PickService) Create(ctx context.Context, userID int, in CreatePickInput) (*models.Pick, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	target, err := resolveTarget(ctx, s.targets, in.Target)
	if err != nil {
		return nil, err
	}
	pickID, err := s.ids.Next(ctx, database.SeqPicks)
	if err != nil {
		return nil, err
	}

	load := func(ctx context.Context) (*models.Parlay, error) {
		return s.parlays.Get(ctx, in.ParlayID)
	}
	p, _, err := s.writer.update(ctx, "create pick", load, func(p *models.Parlay, season *models.GamblingSeason) error {
		if err := canEditPicks(season, p, userID); err != nil {
			return err
		}
		if !season.HasGambler(in.GamblerID) {
			return invalid("gambler %d is not in season %d", in.GamblerID, season.ID)
		}
		return lifecycle.AddPick(p, models.Pick{
			ID:            pickID,
			GamblerID:     in.GamblerID,
			Target:        target,
			PropType:      in.PropType,
			Direction:     in.Direction,
			Line:          in.Line,
			CorrectedLine: in.CorrectedLine,
			SauceFactor:   in.SauceFactor,
		})
	})
	if err != nil {
		return nil, err
	}
	return savedPick(p, pickID), nil
}

// Update edits a pick that has not been overridden
func (s *PickService) Update(ctx context.Context, userID, pickID int, changes PickChanges) (*models.Pick, error) {
	upd, err := resolvePickChanges(ctx, s.targets, changes)
	if err != nil {
		return nil, err
	}
	p, _, err := s.writer.update(ctx, "update pick", s.byPick(pickID), func(p *models.Parlay, season *models.GamblingSeason) error {
		if err := canEditPicks(season, p, userID); err != nil {
			return err
		}
		_, err := lifecycle.UpdatePick(p, pickID, upd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return savedPick(p, pickID), nil
}

// Override applies an owner correction, optionally dropping the pick's veto
func (s *PickService) Override(ctx context.Context, userID, pickID int, changes PickChanges, deleteVeto bool) (*models.Pick, error) {
	upd, err := resolvePickChanges(ctx, s.targets, changes)
	if err != nil {
		return nil, err
	}
	p, _, err := s.writer.update(ctx, "override pick", s.byPick(pickID), func(p *models.Parlay, season *models.GamblingSeason) error {
		if err := requireOwner(season, p, userID); err != nil {
			return err
		}
		_, err := lifecycle.OverridePick(p, pickID, upd, deleteVeto)
		return err
	})
	if err != nil {
		return nil, err
	}
	return savedPick(p, pickID), nil
}

// SetResult records a pick's outcome. Only the owner may change results
// once the parlay is Closed.
func (s *PickService) SetResult(ctx context.Context, userID, pickID int, result models.PickResult) (*models.Pick, error) {
	if !result.IsBasic() {
		return nil, invalid("result %q cannot be entered directly", result)
	}
	p, _, err := s.writer.update(ctx, "set pick result", s.byPick(pickID), func(p *models.Parlay, season *models.GamblingSeason) error {
		if _, err := requireMember(season, userID); err != nil {
			return err
		}
		if p.State == models.ParlayClosed && !isOwner(season, p, userID) {
			return forbidden("only the owner can change results after parlay %d is closed", p.ID)
		}
		_, err := lifecycle.SetPickResult(p, pickID, result)
		return err
	})
	s.metrics.transition("pick_result", err)
	if err != nil {
		return nil, err
	}
	return savedPick(p, pickID), nil
}
