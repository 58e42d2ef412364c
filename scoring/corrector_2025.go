package scoring

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/metrics"
)

const (
	MostBozosID         = "most-bozos"
	MostBitchLossesID   = "most-bitch-losses"
	MostSpicyHitsID     = "most-spicy-hits"
	penaltyPoints       = -2
	bonusPoints         = 2
	mostBozosName       = "Most bozos"
	mostBitchLossesName = "Most bitch losses"
	mostSpicyHitsName   = "Most spicy hits"
)

// Corrector2025 penalizes the gamblers with the most bozos and the most Bitch
// losses, and rewards the gamblers with the most Spicy wins. Every gambler
// tied for a maximum gets the full adjustment; a maximum of zero awards nothing.
type Corrector2025 struct{}

func (Corrector2025) Deductions(all map[int]metrics.GamblerBaseMetrics) GamblerCorrections {
	out := make(GamblerCorrections)
	award(out, all, MostBozosID, mostBozosName, penaltyPoints, func(m metrics.GamblerBaseMetrics) int {
		return m.Overall.Bozos
	})
	award(out, all, MostBitchLossesID, mostBitchLossesName, penaltyPoints, func(m metrics.GamblerBaseMetrics) int {
		return m.SauceFactor.Bitch.Losses
	})
	return out
}

func (Corrector2025) Augmentations(all map[int]metrics.GamblerBaseMetrics) GamblerCorrections {
	out := make(GamblerCorrections)
	award(out, all, MostSpicyHitsID, mostSpicyHitsName, bonusPoints, func(m metrics.GamblerBaseMetrics) int {
		return m.SauceFactor.Spicy.Wins
	})
	return out
}

// award gives adjustment to every gambler tied for the maximum of value
func award(out GamblerCorrections, all map[int]metrics.GamblerBaseMetrics, id, name string, adjustment float64, value func(metrics.GamblerBaseMetrics) int) {
	best := 0
	for _, m := range all {
		best = max(best, value(m))
	}
	if best == 0 {
		return
	}
	for gamblerID, m := range all {
		if value(m) == best {
			out.add(gamblerID, ScoreCorrection{
				Identifier:      id,
				Name:            name,
				AssociatedValue: float64(best),
				Adjustment:      adjustment,
			})
		}
	}
}
