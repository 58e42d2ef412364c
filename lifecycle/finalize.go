package lifecycle

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// Changeset is the set of result rewrites produced by Finalize
type Changeset struct {
	PickResults map[int]models.PickResult `json:"pick_results"`
	VetoResults map[int]models.VetoResult `json:"veto_results"`
}

func newChangeset() Changeset {
	return Changeset{
		PickResults: make(map[int]models.PickResult),
		VetoResults: make(map[int]models.VetoResult),
	}
}

// Empty reports whether the changeset rewrites nothing
func (c Changeset) Empty() bool {
	return len(c.PickResults) == 0 && len(c.VetoResults) == 0
}

// Apply writes the changeset into the parlay graph. Unknown ids are ignored.
func (c Changeset) Apply(p *models.Parlay) {
	for i := range p.Picks {
		pick := &p.Picks[i]
		if result, ok := c.PickResults[pick.ID]; ok {
			r := result
			pick.Result = &r
		}
		for j := range pick.Vetoes {
			veto := &pick.Vetoes[j]
			if result, ok := c.VetoResults[veto.ID]; ok {
				r := result
				veto.Result = &r
			}
		}
	}
}

// FinalizeOutcome is what a close would commit
type FinalizeOutcome struct {
	PossibleResults []models.ParlayResult `json:"possible_results"`
	Changes         Changeset             `json:"changes"`
}

// Allows reports whether result may be committed on close
func (o FinalizeOutcome) Allows(result models.ParlayResult) bool {
	for _, r := range o.PossibleResults {
		if r == result {
			return true
		}
	}
	return false
}

// ApprovedVeto returns the single approved veto across the given picks, or
// nil when there is none. More than one is an invariant violation.
func ApprovedVeto(picks ...*models.Pick) (*models.Veto, error) {
	var found *models.Veto
	count := 0
	for _, pick := range picks {
		for _, veto := range pick.ApprovedVetoes() {
			found = veto
			count++
		}
	}
	if count > 1 {
		return nil, invariant("found %d approved vetoes where at most one is allowed", count)
	}
	return found, nil
}

// Finalize derives the possible parlay results from the pick results and any
// approved veto. It does not modify p; the returned changeset holds the
// BOZO / BOZO Saver reclassifications to apply when the parlay is closed.
//
//   - no incorrect picks: {Win}, or {BOZO} with the approved veto marked BOZO
//   - one incorrect pick: the pick becomes BOZO; {BOZO}, or {Win} with the
//     approved veto on that pick marked BOZO Saver
//   - two or more: {Loss}
func Finalize(p *models.Parlay) (FinalizeOutcome, error) {
	var incorrect []*models.Pick
	all := make([]*models.Pick, 0, len(p.Picks))
	for i := range p.Picks {
		pick := &p.Picks[i]
		if !pick.HasResult() {
			return FinalizeOutcome{}, precondition("finalize", "pick %d has no result", pick.ID)
		}
		all = append(all, pick)
		if pick.Result.IsIncorrect() {
			incorrect = append(incorrect, pick)
		}
	}

	changes := newChangeset()

	switch len(incorrect) {
	case 0:
		veto, err := ApprovedVeto(all...)
		if err != nil {
			return FinalizeOutcome{}, err
		}
		if veto == nil {
			return FinalizeOutcome{PossibleResults: []models.ParlayResult{models.ParlayWin}, Changes: changes}, nil
		}
		changes.VetoResults[veto.ID] = models.VetoBozo
		return FinalizeOutcome{PossibleResults: []models.ParlayResult{models.ParlayBozo}, Changes: changes}, nil

	case 1:
		bozoPick := incorrect[0]
		changes.PickResults[bozoPick.ID] = models.PickBozo
		veto, err := ApprovedVeto(bozoPick)
		if err != nil {
			return FinalizeOutcome{}, err
		}
		if veto == nil {
			return FinalizeOutcome{PossibleResults: []models.ParlayResult{models.ParlayBozo}, Changes: changes}, nil
		}
		changes.VetoResults[veto.ID] = models.VetoBozoSaver
		return FinalizeOutcome{PossibleResults: []models.ParlayResult{models.ParlayWin}, Changes: changes}, nil

	default:
		return FinalizeOutcome{PossibleResults: []models.ParlayResult{models.ParlayLoss}, Changes: changes}, nil
	}
}
