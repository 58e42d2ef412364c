package handlers

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// Undecided vetoes carry no weight anywhere, so clients never see them

func visibleVetoes(vetoes []models.Veto) []models.Veto {
	out := make([]models.Veto, 0, len(vetoes))
	for _, v := range vetoes {
		if v.ApprovalStatus != models.VetoUndecided {
			out = append(out, v)
		}
	}
	return out
}

func pickView(p *models.Pick) *models.Pick {
	if p == nil {
		return nil
	}
	view := *p
	view.Vetoes = visibleVetoes(p.Vetoes)
	return &view
}

func parlayView(p *models.Parlay) *models.Parlay {
	if p == nil {
		return nil
	}
	view := *p
	view.Picks = make([]models.Pick, len(p.Picks))
	for i := range p.Picks {
		view.Picks[i] = *pickView(&p.Picks[i])
	}
	return &view
}

func parlayViews(parlays []models.Parlay) []models.Parlay {
	out := make([]models.Parlay, len(parlays))
	for i := range parlays {
		out[i] = *parlayView(&parlays[i])
	}
	return out
}
