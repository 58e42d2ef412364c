package lifecycle

import (
	"fmt"

	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// PickUpdate is a partial edit of a pick. Nil fields are left untouched.
type PickUpdate struct {
	Target      *models.PropBetTarget
	PropType    *models.PropBetType
	Direction   *models.PropBetDirection
	Line        *float64
	SauceFactor *models.SauceFactor
}

// AddPick appends a new unresolved pick to the parlay
func AddPick(p *models.Parlay, pick models.Pick) error {
	if p.State == models.ParlayClosed {
		return precondition("add pick", "parlay %d is %s", p.ID, p.State)
	}
	if !pick.PropType.Valid() {
		return precondition("add pick", "unknown prop type %q", pick.PropType)
	}
	if !pick.Direction.Valid() {
		return precondition("add pick", "unknown direction %q", pick.Direction)
	}
	if _, exists := p.FindPick(pick.ID); exists {
		return invariant("pick id %d already present in parlay %d", pick.ID, p.ID)
	}
	pick.ParlayID = p.ID
	pick.Result = nil
	pick.Vetoes = nil
	p.Picks = append(p.Picks, pick)
	return nil
}

// UpdatePick edits a pick that has not been overridden. Changing the
// target, prop type or direction invalidates any veto on the pick.
func UpdatePick(p *models.Parlay, pickID int, upd PickUpdate) (*models.Pick, error) {
	pick, ok := p.FindPick(pickID)
	if !ok {
		return nil, precondition("update pick", "pick %d is not in parlay %d", pickID, p.ID)
	}
	if pick.CorrectedLine != nil {
		return nil, precondition("update pick", "pick %d has an override applied", pickID)
	}
	if upd.PropType != nil && !upd.PropType.Valid() {
		return nil, precondition("update pick", "unknown prop type %q", *upd.PropType)
	}
	if upd.Direction != nil && !upd.Direction.Valid() {
		return nil, precondition("update pick", "unknown direction %q", *upd.Direction)
	}

	material := false
	if upd.Target != nil && upd.Target.Identifier != pick.Target.Identifier {
		pick.Target = *upd.Target
		material = true
	}
	if upd.PropType != nil && *upd.PropType != pick.PropType {
		pick.PropType = *upd.PropType
		material = true
	}
	if upd.Direction != nil && *upd.Direction != pick.Direction {
		pick.Direction = *upd.Direction
		material = true
	}
	if upd.Line != nil {
		pick.Line = *upd.Line
	}
	if upd.SauceFactor != nil {
		sf := *upd.SauceFactor
		pick.SauceFactor = &sf
	}
	if material {
		pick.Vetoes = nil
	}
	return pick, nil
}

// OverridePick applies an owner correction. A new line is stored as the
// corrected line and the original line is kept.
func OverridePick(p *models.Parlay, pickID int, upd PickUpdate, deleteVeto bool) (*models.Pick, error) {
	pick, ok := p.FindPick(pickID)
	if !ok {
		return nil, precondition("override pick", "pick %d is not in parlay %d", pickID, p.ID)
	}
	override := PickOverride{
		Target:        upd.Target,
		PropType:      upd.PropType,
		Direction:     upd.Direction,
		SauceFactor:   upd.SauceFactor,
		CorrectedLine: upd.Line,
	}
	override.applyTo(pick)
	if deleteVeto {
		pick.Vetoes = nil
	}
	return pick, nil
}

// MapPickResult gives the veto result implied by the result of the vetoed pick
func MapPickResult(result models.PickResult) (models.VetoResult, error) {
	switch result {
	case models.PickWin:
		return models.VetoBad, nil
	case models.PickLoss:
		return models.VetoGood, nil
	case models.PickBozo:
		return models.VetoBozoSaver, nil
	case models.PickVoid:
		return models.VetoVoid, nil
	case models.PickPush:
		return models.VetoPush, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnmappedResult, result)
	}
}

// SetPickResult records an adjudicated result and carries it over to the
// approved veto on the pick, if there is one.
func SetPickResult(p *models.Parlay, pickID int, result models.PickResult) (*models.Pick, error) {
	if !result.IsBasic() {
		return nil, precondition("set pick result", "result %q cannot be entered directly", result)
	}
	if p.State == models.ParlayBuilding {
		return nil, precondition("set pick result", "parlay %d is still %s", p.ID, models.ParlayBuilding)
	}
	pick, ok := p.FindPick(pickID)
	if !ok {
		return nil, precondition("set pick result", "pick %d is not in parlay %d", pickID, p.ID)
	}

	vetoResult, err := MapPickResult(result)
	if err != nil {
		return nil, err
	}
	r := result
	pick.Result = &r
	for _, veto := range pick.ApprovedVetoes() {
		vr := vetoResult
		veto.Result = &vr
	}
	return pick, nil
}
