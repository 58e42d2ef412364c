// Package scoring turns metric trees into season standings: a season-keyed
// correction policy, the corrected score per gambler and the replayed score
// history.
package scoring

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/metrics"
)

// ScoreCorrection is one bonus or penalty applied to a gambler's score
type ScoreCorrection struct {
	Identifier      string  `json:"identifier" bson:"identifier"`
	Name            string  `json:"name" bson:"name"`
	AssociatedValue float64 `json:"associated_value" bson:"associated_value"`
	Adjustment      float64 `json:"adjustment" bson:"adjustment"`
}

// CorrectionSet maps correction identifier to correction
type CorrectionSet map[string]ScoreCorrection

// Total sums the adjustments in the set
func (s CorrectionSet) Total() float64 {
	total := 0.0
	for _, c := range s {
		total += c.Adjustment
	}
	return total
}

// GamblerCorrections maps gambler id to that gambler's corrections
type GamblerCorrections map[int]CorrectionSet

func (g GamblerCorrections) add(gamblerID int, c ScoreCorrection) {
	set, ok := g[gamblerID]
	if !ok {
		set = make(CorrectionSet)
		g[gamblerID] = set
	}
	set[c.Identifier] = c
}

// Corrector is a season scoring policy
type Corrector interface {
	Deductions(all map[int]metrics.GamblerBaseMetrics) GamblerCorrections
	Augmentations(all map[int]metrics.GamblerBaseMetrics) GamblerCorrections
}

// Registry is an immutable season year -> corrector lookup
type Registry struct {
	byYear   map[int]Corrector
	fallback Corrector
}

// NewRegistry builds a registry. fallback serves every year not in byYear.
func NewRegistry(fallback Corrector, byYear map[int]Corrector) *Registry {
	copied := make(map[int]Corrector, len(byYear))
	for year, c := range byYear {
		copied[year] = c
	}
	return &Registry{byYear: copied, fallback: fallback}
}

// DefaultRegistry holds every shipped policy
func DefaultRegistry() *Registry {
	c2025 := Corrector2025{}
	return NewRegistry(c2025, map[int]Corrector{2025: c2025})
}

// For returns the corrector for a season year
func (r *Registry) For(year int) Corrector {
	if c, ok := r.byYear[year]; ok {
		return c
	}
	return r.fallback
}
