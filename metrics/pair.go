// Package metrics folds a gambler's resolved picks and vetoes into nested
// streak and rate counters. Everything here is pure computation over parlay
// snapshots; nothing is persisted or logged.
package metrics

import (
	"sort"

	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// Pair is one gambler's contribution to one parlay: the pick they placed and
// the approved veto they raised in the same parlay, if any.
type Pair struct {
	Pick models.Pick
	Veto *models.Veto
}

// PairForGambler extracts the gambler's pair from a parlay. ok is false when
// the gambler placed no pick in it.
func PairForGambler(gamblerID int, p *models.Parlay) (Pair, bool) {
	pick := p.PickFor(gamblerID)
	if pick == nil {
		return Pair{}, false
	}
	pair := Pair{Pick: *pick}
	for i := range p.Picks {
		for j := range p.Picks[i].Vetoes {
			veto := p.Picks[i].Vetoes[j]
			if veto.GamblerID == gamblerID && veto.ApprovalStatus == models.VetoApproved {
				pair.Veto = &veto
				break
			}
		}
	}
	return pair, true
}

// OrderedReplayable returns the closed, resulted parlays sorted by ascending order.
// The input slice is not reordered.
func OrderedReplayable(parlays []models.Parlay) []*models.Parlay {
	out := make([]*models.Parlay, 0, len(parlays))
	for i := range parlays {
		if parlays[i].IsReplayable() {
			out = append(out, &parlays[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// PairsForGambler returns the gambler's pairs in replay order
func PairsForGambler(gamblerID int, parlays []models.Parlay) []Pair {
	var pairs []Pair
	for _, p := range OrderedReplayable(parlays) {
		if pair, ok := PairForGambler(gamblerID, p); ok {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

func (p Pair) hasResult() bool {
	return p.Pick.Result != nil
}

func (p Pair) pickResult() models.PickResult {
	if p.Pick.Result == nil {
		return ""
	}
	return *p.Pick.Result
}

// vetoResult returns the result of an approved, resulted veto
func (p Pair) vetoResult() (models.VetoResult, bool) {
	if p.Veto == nil || p.Veto.ApprovalStatus != models.VetoApproved || p.Veto.Result == nil {
		return "", false
	}
	return *p.Veto.Result, true
}
