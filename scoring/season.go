package scoring

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/metrics"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// GamblerPerformance is one gambler's standing in a season
type GamblerPerformance struct {
	GamblerID      int                        `json:"gambler_id" bson:"gambler_id"`
	CorrectedScore float64                    `json:"corrected_score" bson:"corrected_score"`
	Metrics        metrics.GamblerBaseMetrics `json:"metrics" bson:"metrics"`
	Deductions     CorrectionSet              `json:"deductions" bson:"deductions"`
	Augmentations  CorrectionSet              `json:"augmentations" bson:"augmentations"`
}

// CorrectedScore is win rate plus every adjustment, or 0 when the win rate
// is undefined.
func CorrectedScore(winRate *float64, deductions, augmentations CorrectionSet) float64 {
	if winRate == nil {
		return 0
	}
	return *winRate + deductions.Total() + augmentations.Total()
}

// CalculatePerformances scores every gambler from their base metrics
func CalculatePerformances(all map[int]metrics.GamblerBaseMetrics, corrector Corrector) map[int]GamblerPerformance {
	deductions := corrector.Deductions(all)
	augmentations := corrector.Augmentations(all)

	out := make(map[int]GamblerPerformance, len(all))
	for gamblerID, m := range all {
		d := deductions[gamblerID]
		if d == nil {
			d = CorrectionSet{}
		}
		a := augmentations[gamblerID]
		if a == nil {
			a = CorrectionSet{}
		}
		out[gamblerID] = GamblerPerformance{
			GamblerID:      gamblerID,
			CorrectedScore: CorrectedScore(m.Overall.WinRate, d, a),
			Metrics:        m,
			Deductions:     d,
			Augmentations:  a,
		}
	}
	return out
}

// PerformancesFromCalculators scores the current state of running calculators
func PerformancesFromCalculators(calcs map[int]*metrics.GamblerCalculator, corrector Corrector) map[int]GamblerPerformance {
	base := make(map[int]metrics.GamblerBaseMetrics, len(calcs))
	for id, calc := range calcs {
		base[id] = calc.BaseMetrics()
	}
	return CalculatePerformances(base, corrector)
}

// SeasonPerformances replays a season's parlays and scores every gambler
func SeasonPerformances(gamblerIDs []int, parlays []models.Parlay, corrector Corrector) map[int]GamblerPerformance {
	return PerformancesFromCalculators(metrics.CalculatorsFromParlays(gamblerIDs, parlays), corrector)
}
