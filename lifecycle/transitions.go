package lifecycle

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// PickOverride carries owner corrections applied to a pick.
// Nil fields are left untouched.
type PickOverride struct {
	Target        *models.PropBetTarget
	PropType      *models.PropBetType
	Direction     *models.PropBetDirection
	SauceFactor   *models.SauceFactor
	CorrectedLine *float64
}

func (o PickOverride) applyTo(pick *models.Pick) bool {
	changed := false
	if o.Target != nil {
		pick.Target = *o.Target
		changed = true
	}
	if o.PropType != nil {
		pick.PropType = *o.PropType
		changed = true
	}
	if o.Direction != nil {
		pick.Direction = *o.Direction
		changed = true
	}
	if o.SauceFactor != nil {
		sf := *o.SauceFactor
		pick.SauceFactor = &sf
		changed = true
	}
	if o.CorrectedLine != nil {
		line := *o.CorrectedLine
		pick.CorrectedLine = &line
		changed = true
	}
	return changed
}

// Lock moves a Building parlay to Open. Overrides keyed by pick id are
// applied first, then every veto is forced to a final status so an
// unresolved vote cannot hold the parlay hostage.
func Lock(p *models.Parlay, q Quorum, overrides map[int]PickOverride) error {
	if p.State != models.ParlayBuilding {
		return precondition("lock", "parlay %d is %s, not %s", p.ID, p.State, models.ParlayBuilding)
	}
	for pickID := range overrides {
		if _, ok := p.FindPick(pickID); !ok {
			return precondition("lock", "override references pick %d which is not in parlay %d", pickID, p.ID)
		}
	}

	for i := range p.Picks {
		if override, ok := overrides[p.Picks[i].ID]; ok {
			override.applyTo(&p.Picks[i])
		}
	}
	ResolveAll(p, q, true)
	p.State = models.ParlayOpen
	return nil
}

// Unlock returns an Open parlay to Building and wipes every result and
// corrected line so the parlay can be rebuilt from scratch.
func Unlock(p *models.Parlay) error {
	if p.State != models.ParlayOpen {
		return precondition("unlock", "parlay %d is %s, not %s", p.ID, p.State, models.ParlayOpen)
	}
	for i := range p.Picks {
		pick := &p.Picks[i]
		pick.CorrectedLine = nil
		pick.Result = nil
		for j := range pick.Vetoes {
			pick.Vetoes[j].Result = nil
		}
	}
	p.State = models.ParlayBuilding
	return nil
}

// Preview runs Finalize for a parlay that has left Building
func Preview(p *models.Parlay) (FinalizeOutcome, error) {
	if p.State == models.ParlayBuilding {
		return FinalizeOutcome{}, precondition("finalize", "parlay %d is still %s", p.ID, models.ParlayBuilding)
	}
	return Finalize(p)
}

// Close commits result on an Open parlay. The result must be one of the
// possible results from Finalize; the finalize changeset is applied too.
func Close(p *models.Parlay, result models.ParlayResult) (FinalizeOutcome, error) {
	if p.State != models.ParlayOpen {
		return FinalizeOutcome{}, precondition("close", "parlay %d is %s, not %s", p.ID, p.State, models.ParlayOpen)
	}
	outcome, err := Finalize(p)
	if err != nil {
		return FinalizeOutcome{}, err
	}
	if !outcome.Allows(result) {
		return FinalizeOutcome{}, precondition("close", "result %s is not one of %v", result, outcome.PossibleResults)
	}

	outcome.Changes.Apply(p)
	r := result
	p.Result = &r
	p.State = models.ParlayClosed
	return outcome, nil
}

// Reopen clears the committed result of a Closed parlay. Picks and vetoes keep their results.
func Reopen(p *models.Parlay) error {
	if p.State != models.ParlayClosed {
		return precondition("reopen", "parlay %d is %s, not %s", p.ID, p.State, models.ParlayClosed)
	}
	p.Result = nil
	p.State = models.ParlayOpen
	return nil
}

// CanDelete reports whether the parlay may be deleted
func CanDelete(p *models.Parlay) error {
	if p.State != models.ParlayBuilding {
		return precondition("delete", "parlay %d is %s; only %s parlays can be deleted", p.ID, p.State, models.ParlayBuilding)
	}
	return nil
}
