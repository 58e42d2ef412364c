package metrics

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

func floatPtr(f float64) *float64 { return &f }

func pickPair(r models.PickResult) Pair {
	return Pair{Pick: models.Pick{
		ID:        1,
		GamblerID: 1,
		Target:    models.PropBetTarget{ID: 1, Identifier: "t1", TeamName: "SF"},
		PropType:  models.PropRushYards,
		Direction: models.DirectionOver,
		Result:    &r,
	}}
}

func vetoPair(r models.PickResult, status models.VetoApprovalStatus, result *models.VetoResult) Pair {
	pair := pickPair(r)
	pair.Veto = &models.Veto{ID: 1, GamblerID: 1, ApprovalStatus: status, Result: result}
	return pair
}

type pickSpec struct {
	gambler   int
	target    int
	player    string
	propType  models.PropBetType
	direction models.PropBetDirection
	sauce     models.SauceFactor
	result    models.PickResult
}

// closedParlay builds a Closed parlay with the given picks. Pick ids are
// derived from the parlay id so they are unique across a season.
func closedParlay(id, order int, specs ...pickSpec) models.Parlay {
	result := models.ParlayWin
	p := models.Parlay{ID: id, SeasonID: 1, OwnerID: 1, State: models.ParlayClosed, Result: &result, Order: order}
	for i, s := range specs {
		pick := models.Pick{
			ID:        id*100 + i,
			ParlayID:  id,
			GamblerID: s.gambler,
			Target:    models.PropBetTarget{ID: s.target, Identifier: s.player, TeamName: "Team"},
			PropType:  s.propType,
			Direction: s.direction,
			Line:      1.5,
		}
		if s.player != "" {
			name := s.player
			pick.Target.PlayerName = &name
		}
		if s.sauce != "" {
			sf := s.sauce
			pick.SauceFactor = &sf
		}
		if s.result != "" {
			r := s.result
			pick.Result = &r
		}
		p.Picks = append(p.Picks, pick)
	}
	return p
}

func approve(p *models.Parlay, pickIdx, vetoID, raiser int, result models.VetoResult) {
	r := result
	p.Picks[pickIdx].Vetoes = append(p.Picks[pickIdx].Vetoes, models.Veto{
		ID:             vetoID,
		PickID:         p.Picks[pickIdx].ID,
		GamblerID:      raiser,
		ApprovalStatus: models.VetoApproved,
		Result:         &r,
	})
}
