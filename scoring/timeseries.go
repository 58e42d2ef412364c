package scoring

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/metrics"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// TimeSeriesDatum is a gambler's standing right after one parlay closed
type TimeSeriesDatum struct {
	GamblerID      int                        `json:"gambler_id"`
	ParlayOrder    int                        `json:"parlay_order"`
	ParlayID       int                        `json:"parlay_id"`
	Metrics        metrics.GamblerBaseMetrics `json:"metrics"`
	CorrectedScore float64                    `json:"corrected_score"`
}

// TimeSeries replays parlays by ascending order and records every gambler's
// standing after each closed, resulted parlay. Every gambler gets exactly one
// datum per such parlay, whether or not they had a pick in it.
func TimeSeries(gamblerIDs []int, parlays []models.Parlay, corrector Corrector) map[int][]TimeSeriesDatum {
	calcs := make(map[int]*metrics.GamblerCalculator, len(gamblerIDs))
	series := make(map[int][]TimeSeriesDatum, len(gamblerIDs))
	for _, id := range gamblerIDs {
		calcs[id] = metrics.NewGamblerCalculator()
		series[id] = []TimeSeriesDatum{}
	}

	for _, p := range metrics.OrderedReplayable(parlays) {
		for id, calc := range calcs {
			if pair, ok := metrics.PairForGambler(id, p); ok {
				calc.Process(pair)
			}
		}

		performances := PerformancesFromCalculators(calcs, corrector)
		for id := range calcs {
			perf := performances[id]
			series[id] = append(series[id], TimeSeriesDatum{
				GamblerID:      id,
				ParlayOrder:    p.Order,
				ParlayID:       p.ID,
				Metrics:        perf.Metrics,
				CorrectedScore: perf.CorrectedScore,
			})
		}
	}
	return series
}
