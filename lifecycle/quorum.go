package lifecycle

import "github.com/GabeSucich/elmo-fire-bets-backend/models"

// Quorum holds the vote counts needed to settle a veto
type Quorum struct {
	Approvals  int
	Rejections int
}

// RequiredVotes is floor(gamblers / 2)
func RequiredVotes(gamblerCount int) int {
	return gamblerCount / 2
}

// NewQuorum builds the symmetric quorum for a season roster size
func NewQuorum(gamblerCount int) Quorum {
	required := RequiredVotes(gamblerCount)
	return Quorum{Approvals: required, Rejections: required}
}

// ResolveVeto turns the veto's current votes into an approval status.
//
// Approved, Rejected and Undecided are final and returned unchanged. When
// neither threshold is met the veto stays Pending unless demandTerminal is
// set, in which case it is forced to Undecided. approved is true only when
// this call moved the veto to Approved. The veto itself is not modified.
func ResolveVeto(veto models.Veto, q Quorum, demandTerminal bool) (status models.VetoApprovalStatus, approved bool) {
	if veto.ApprovalStatus.IsSettled() {
		return veto.ApprovalStatus, false
	}

	affirmative, negative := veto.Tally()
	switch {
	case affirmative >= q.Approvals:
		return models.VetoApproved, true
	case negative >= q.Rejections:
		return models.VetoRejected, false
	case demandTerminal:
		return models.VetoUndecided, false
	default:
		return models.VetoPending, false
	}
}

// ResolveAll applies ResolveVeto to every veto in the parlay and writes the
// new statuses back. It returns the ids of vetoes whose status changed.
func ResolveAll(p *models.Parlay, q Quorum, demandTerminal bool) []int {
	var changed []int
	for i := range p.Picks {
		for j := range p.Picks[i].Vetoes {
			veto := &p.Picks[i].Vetoes[j]
			status, _ := ResolveVeto(*veto, q, demandTerminal)
			if status != veto.ApprovalStatus {
				veto.ApprovalStatus = status
				changed = append(changed, veto.ID)
			}
		}
	}
	return changed
}
