package services

import (
	"context"
	"errors"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/lifecycle"
	"github.com/GabeSucich/elmo-fire-bets-backend/logging"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// ParlayOptions tunes ParlayService behavior from configuration
type ParlayOptions struct {
	// SeasonScopedOrder numbers parlays per season instead of globally
	SeasonScopedOrder bool
	MaxWriteRetries   int
}

// CreateParlayInput is a request to start a new Building parlay
type CreateParlayInput struct {
	SeasonID        int              `json:"gambling_season_id"`
	OwnerID         int              `json:"owner_id"`
	CompetitionDate string           `json:"competition_date"`
	SlateType       models.SlateType `json:"slate_type"`
	WagerPP         float64          `json:"wager_pp"`
}

func (in CreateParlayInput) validate() error {
	if _, err := models.ParseCompetitionDate(in.CompetitionDate); err != nil {
		return invalid("%v", err)
	}
	if !in.SlateType.Valid() {
		return invalid("unknown slate type %q", in.SlateType)
	}
	if in.WagerPP < 0 {
		return invalid("wager per person cannot be negative")
	}
	return nil
}

// UpdateParlayInput edits parlay metadata. Nil fields are left untouched.
type UpdateParlayInput struct {
	CompetitionDate *string           `json:"competition_date"`
	SlateType       *models.SlateType `json:"slate_type"`
	OwnerID         *int              `json:"owner_id"`
	WagerPP         *float64          `json:"wager_pp"`
	PayoutPP        *float64          `json:"payout_pp"`
}

func (in UpdateParlayInput) validate() error {
	if in.CompetitionDate != nil {
		if _, err := models.ParseCompetitionDate(*in.CompetitionDate); err != nil {
			return invalid("%v", err)
		}
	}
	if in.SlateType != nil && !in.SlateType.Valid() {
		return invalid("unknown slate type %q", *in.SlateType)
	}
	if in.WagerPP != nil && *in.WagerPP < 0 {
		return invalid("wager per person cannot be negative")
	}
	if in.PayoutPP != nil && *in.PayoutPP < 0 {
		return invalid("payout per person cannot be negative")
	}
	return nil
}

// ParlayPage is one page of a season's parlays
type ParlayPage struct {
	Parlays    []models.Parlay `json:"parlays"`
	NextOffset int64           `json:"next_offset"`
	Total      int64           `json:"total"`
}

// FinalizePreview is the parlay as a close would leave it, plus the results
// the owner may choose from
type FinalizePreview struct {
	Parlay          *models.Parlay        `json:"parlay"`
	PossibleResults []models.ParlayResult `json:"possible_results"`
}

// ParlayService runs the parlay lifecycle against stored parlays
type ParlayService struct {
	writer      parlayWriter
	parlays     ParlayStore
	seasons     SeasonStore
	ids         IDSequence
	targets     PropTargetStore
	metrics     *Metrics
	seasonOrder bool
	logger      *logging.Logger
}

func NewParlayService(
	parlays ParlayStore,
	seasons SeasonStore,
	ids IDSequence,
	targets PropTargetStore,
	cache PerformanceCache,
	metrics *Metrics,
	opts ParlayOptions,
) *ParlayService {
	logger := logging.WithPrefix("ParlayService")
	return &ParlayService{
		writer:      newParlayWriter(parlays, seasons, cache, opts.MaxWriteRetries, logger),
		parlays:     parlays,
		seasons:     seasons,
		ids:         ids,
		targets:     targets,
		metrics:     metrics,
		seasonOrder: opts.SeasonScopedOrder,
		logger:      logger,
	}
}

func (s *ParlayService) byID(id int) parlayLoader {
	return func(ctx context.Context) (*models.Parlay, error) {
		return s.parlays.Get(ctx, id)
	}
}

// Create starts a Building parlay at the end of the replay order
func (s *ParlayService) Create(ctx context.Context, userID int, in CreateParlayInput) (*models.Parlay, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	season, err := s.seasons.Get(ctx, in.SeasonID)
	if err != nil {
		return nil, err
	}
	if err := requireInProgress(season); err != nil {
		return nil, err
	}
	if _, err := requireMember(season, userID); err != nil {
		return nil, err
	}
	if !season.HasGambler(in.OwnerID) {
		return nil, forbidden("gambler %d is not in season %d", in.OwnerID, season.ID)
	}

	id, err := s.ids.Next(ctx, database.SeqParlays)
	if err != nil {
		return nil, err
	}
	p := &models.Parlay{
		ID:              id,
		SeasonID:        season.ID,
		OwnerID:         in.OwnerID,
		SlateType:       in.SlateType,
		CompetitionDate: in.CompetitionDate,
		WagerPP:         in.WagerPP,
		State:           models.ParlayBuilding,
		Picks:           []models.Pick{},
	}
	err = s.createAtNextOrder(ctx, p)
	s.metrics.transition("create", err)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Created parlay %d (order %d) in season %d", p.ID, p.Order, season.ID)
	return p, nil
}

// createAtNextOrder appends p to the replay order. Two creates can read the
// same maximum; the loser hits the unique order index and tries again.
func (s *ParlayService) createAtNextOrder(ctx context.Context, p *models.Parlay) error {
	for attempt := 1; ; attempt++ {
		order, err := s.parlays.NextOrder(ctx, p.SeasonID, s.seasonOrder)
		if err != nil {
			return err
		}
		p.Order = order
		err = s.parlays.Create(ctx, p)
		if err == nil || !errors.Is(err, database.ErrDuplicate) || attempt >= s.writer.attempts {
			return err
		}
		s.logger.Warnf("Order %d in season %d was taken, retrying create of parlay %d (attempt %d)", order, p.SeasonID, p.ID, attempt)
	}
}

// Get returns a parlay visible to the user
func (s *ParlayService) Get(ctx context.Context, userID, id int) (*models.Parlay, error) {
	p, err := s.parlays.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	season, err := s.seasons.Get(ctx, p.SeasonID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(season, userID); err != nil {
		return nil, err
	}
	return p, nil
}

// ListForSeason pages through a season's parlays
func (s *ParlayService) ListForSeason(ctx context.Context, userID, seasonID int, filter database.ParlayFilter) (*ParlayPage, error) {
	if filter.State != nil && !filter.State.Valid() {
		return nil, invalid("unknown parlay state %q", *filter.State)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, invalid("limit and offset cannot be negative")
	}
	season, err := s.seasons.Get(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(season, userID); err != nil {
		return nil, err
	}

	parlays, total, err := s.parlays.ListBySeason(ctx, seasonID, filter)
	if err != nil {
		return nil, err
	}
	return &ParlayPage{
		Parlays:    parlays,
		NextOffset: filter.Offset + int64(len(parlays)),
		Total:      total,
	}, nil
}

// Update edits parlay metadata
func (s *ParlayService) Update(ctx context.Context, userID, id int, in UpdateParlayInput) (*models.Parlay, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, _, err := s.writer.update(ctx, "update parlay", s.byID(id), func(p *models.Parlay, season *models.GamblingSeason) error {
		if _, err := requireMember(season, userID); err != nil {
			return err
		}
		if in.OwnerID != nil && !season.HasGambler(*in.OwnerID) {
			return invalid("gambler %d is not in season %d", *in.OwnerID, season.ID)
		}
		if in.CompetitionDate != nil {
			p.CompetitionDate = *in.CompetitionDate
		}
		if in.SlateType != nil {
			p.SlateType = *in.SlateType
		}
		if in.OwnerID != nil {
			p.OwnerID = *in.OwnerID
		}
		if in.WagerPP != nil {
			p.WagerPP = *in.WagerPP
		}
		if in.PayoutPP != nil {
			payout := *in.PayoutPP
			p.PayoutPP = &payout
		}
		return nil
	})
	return p, err
}

// Claim makes the given gambler, held by the user, the parlay owner
func (s *ParlayService) Claim(ctx context.Context, userID, id, gamblerID int) (*models.Parlay, error) {
	p, _, err := s.writer.update(ctx, "claim parlay", s.byID(id), func(p *models.Parlay, season *models.GamblingSeason) error {
		if err := requireActingAs(season, userID, gamblerID); err != nil {
			return err
		}
		p.OwnerID = gamblerID
		return nil
	})
	s.metrics.transition("claim", err)
	return p, err
}

// Lock applies the owner's pick overrides, forces every veto to a final
// status and opens the parlay
func (s *ParlayService) Lock(ctx context.Context, userID, id int, overrides map[int]PickChanges) (*models.Parlay, error) {
	resolved := make(map[int]lifecycle.PickOverride, len(overrides))
	for pickID, changes := range overrides {
		upd, err := resolvePickChanges(ctx, s.targets, changes)
		if err != nil {
			return nil, err
		}
		resolved[pickID] = lifecycle.PickOverride{
			Target:        upd.Target,
			PropType:      upd.PropType,
			Direction:     upd.Direction,
			SauceFactor:   upd.SauceFactor,
			CorrectedLine: upd.Line,
		}
	}

	var settled []models.VetoApprovalStatus
	p, _, err := s.writer.update(ctx, "lock parlay", s.byID(id), func(p *models.Parlay, season *models.GamblingSeason) error {
		if err := requireOwner(season, p, userID); err != nil {
			return err
		}
		before := vetoStatuses(p)
		if err := lifecycle.Lock(p, lifecycle.NewQuorum(len(season.Gamblers)), resolved); err != nil {
			return err
		}
		settled = changedStatuses(before, p)
		return nil
	})
	s.metrics.transition("lock", err)
	if err != nil {
		return nil, err
	}
	for _, status := range settled {
		s.metrics.vetoResolved(string(status))
	}
	s.logger.Infof("Locked parlay %d (%d vetoes settled)", p.ID, len(settled))
	return p, nil
}

// Unlock sends an Open parlay back to Building
func (s *ParlayService) Unlock(ctx context.Context, userID, id int) (*models.Parlay, error) {
	p, _, err := s.writer.update(ctx, "unlock parlay", s.byID(id), func(p *models.Parlay, season *models.GamblingSeason) error {
		if err := requireOwner(season, p, userID); err != nil {
			return err
		}
		return lifecycle.Unlock(p)
	})
	s.metrics.transition("unlock", err)
	return p, err
}

// Preview shows what closing the parlay would do. Nothing is stored.
func (s *ParlayService) Preview(ctx context.Context, userID, id int) (*FinalizePreview, error) {
	p, season, err := s.writer.load(ctx, s.byID(id))
	if err != nil {
		return nil, err
	}
	if err := requireOwner(season, p, userID); err != nil {
		return nil, err
	}
	outcome, err := lifecycle.Preview(p)
	if err != nil {
		return nil, err
	}
	outcome.Changes.Apply(p)
	return &FinalizePreview{Parlay: p, PossibleResults: outcome.PossibleResults}, nil
}

// Close commits the chosen result
func (s *ParlayService) Close(ctx context.Context, userID, id int, result models.ParlayResult) (*models.Parlay, error) {
	if !result.Valid() {
		return nil, invalid("unknown parlay result %q", result)
	}
	p, _, err := s.writer.update(ctx, "close parlay", s.byID(id), func(p *models.Parlay, season *models.GamblingSeason) error {
		if err := requireOwner(season, p, userID); err != nil {
			return err
		}
		_, err := lifecycle.Close(p, result)
		return err
	})
	s.metrics.transition("close", err)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Closed parlay %d as %s", p.ID, result)
	return p, nil
}

// Reopen clears the committed result
func (s *ParlayService) Reopen(ctx context.Context, userID, id int) (*models.Parlay, error) {
	p, _, err := s.writer.update(ctx, "reopen parlay", s.byID(id), func(p *models.Parlay, season *models.GamblingSeason) error {
		if err := requireOwner(season, p, userID); err != nil {
			return err
		}
		return lifecycle.Reopen(p)
	})
	s.metrics.transition("reopen", err)
	return p, err
}

// Delete removes a Building parlay
func (s *ParlayService) Delete(ctx context.Context, userID, id int) error {
	err := retryOnConflict(s.logger, s.writer.attempts, "delete parlay", func() error {
		p, season, err := s.writer.load(ctx, s.byID(id))
		if err != nil {
			return err
		}
		if _, err := requireMember(season, userID); err != nil {
			return err
		}
		if err := lifecycle.CanDelete(p); err != nil {
			return err
		}
		if err := s.parlays.Delete(ctx, p); err != nil {
			return err
		}
		s.writer.invalidate(ctx, p.SeasonID)
		return nil
	})
	s.metrics.transition("delete", err)
	return err
}

// SwapOrder exchanges the replay positions of two parlays in one season
func (s *ParlayService) SwapOrder(ctx context.Context, userID, firstID, secondID int) error {
	if firstID == secondID {
		return invalid("cannot swap parlay %d with itself", firstID)
	}
	err := retryOnConflict(s.logger, s.writer.attempts, "swap parlay order", func() error {
		first, season, err := s.writer.load(ctx, s.byID(firstID))
		if err != nil {
			return err
		}
		second, err := s.parlays.Get(ctx, secondID)
		if err != nil {
			return err
		}
		if first.SeasonID != second.SeasonID {
			return invalid("parlays %d and %d are in different seasons", firstID, secondID)
		}
		if _, err := requireMember(season, userID); err != nil {
			return err
		}
		if err := s.parlays.SwapOrder(ctx, first, second); err != nil {
			return err
		}
		s.writer.invalidate(ctx, season.ID)
		return nil
	})
	s.metrics.transition("swap_order", err)
	return err
}

func vetoStatuses(p *models.Parlay) map[int]models.VetoApprovalStatus {
	statuses := make(map[int]models.VetoApprovalStatus)
	for _, pick := range p.Picks {
		for _, veto := range pick.Vetoes {
			statuses[veto.ID] = veto.ApprovalStatus
		}
	}
	return statuses
}

func changedStatuses(before map[int]models.VetoApprovalStatus, p *models.Parlay) []models.VetoApprovalStatus {
	var changed []models.VetoApprovalStatus
	for _, pick := range p.Picks {
		for _, veto := range pick.Vetoes {
			if prev, ok := before[veto.ID]; ok && prev != veto.ApprovalStatus {
				changed = append(changed, veto.ApprovalStatus)
			}
		}
	}
	return changed
}
