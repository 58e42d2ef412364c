package lifecycle

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

func resultPtr(r models.PickResult) *models.PickResult { return &r }

func vetoResultPtr(r models.VetoResult) *models.VetoResult { return &r }

func floatPtr(f float64) *float64 { return &f }

// buildParlay creates an Open parlay with one pick per result. Pick ids
// start at 1 and pick i belongs to gambler 100+i.
func buildParlay(results ...models.PickResult) *models.Parlay {
	p := &models.Parlay{ID: 7, SeasonID: 1, OwnerID: 101, State: models.ParlayOpen, Order: 1}
	for i, r := range results {
		pick := models.Pick{
			ID:        i + 1,
			ParlayID:  p.ID,
			GamblerID: 100 + i + 1,
			Target:    models.PropBetTarget{ID: i + 1, Identifier: "target", TeamName: "SF"},
			PropType:  models.PropRushYards,
			Direction: models.DirectionOver,
			Line:      50.5,
		}
		if r != "" {
			pick.Result = resultPtr(r)
		}
		p.Picks = append(p.Picks, pick)
	}
	return p
}

func withVeto(p *models.Parlay, pickID, vetoID, raiser int, status models.VetoApprovalStatus) *models.Parlay {
	pick, _ := p.FindPick(pickID)
	pick.Vetoes = append(pick.Vetoes, models.Veto{
		ID:             vetoID,
		PickID:         pickID,
		GamblerID:      raiser,
		ApprovalStatus: status,
	})
	return p
}

func votes(affirmative, negative int) []models.Vote {
	var out []models.Vote
	id := 1
	for i := 0; i < affirmative; i++ {
		out = append(out, models.Vote{ID: id, GamblerID: 500 + id, Affirmative: true})
		id++
	}
	for i := 0; i < negative; i++ {
		out = append(out, models.Vote{ID: id, GamblerID: 500 + id, Affirmative: false})
		id++
	}
	return out
}
