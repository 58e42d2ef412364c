package lifecycle

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// RaiseVeto challenges a pick. A parlay carries at most one live veto at a
// time, and nobody may veto their own pick.
func RaiseVeto(p *models.Parlay, pickID, raiserID, vetoID int) (*models.Veto, error) {
	pick, ok := p.FindPick(pickID)
	if !ok {
		return nil, precondition("raise veto", "pick %d is not in parlay %d", pickID, p.ID)
	}
	for i := range p.Picks {
		if p.Picks[i].ActiveVeto() != nil {
			return nil, precondition("raise veto", "pick %d in this parlay has already been vetoed", p.Picks[i].ID)
		}
	}
	if pick.GamblerID == raiserID {
		return nil, precondition("raise veto", "a gambler cannot veto their own pick")
	}

	pick.Vetoes = append(pick.Vetoes, models.Veto{
		ID:             vetoID,
		PickID:         pickID,
		GamblerID:      raiserID,
		ApprovalStatus: models.VetoPending,
	})
	return &pick.Vetoes[len(pick.Vetoes)-1], nil
}

// VoteOutcome reports the vote as stored and the veto status after resolution
type VoteOutcome struct {
	Vote     models.Vote
	Status   models.VetoApprovalStatus
	Approved bool
}

// SubmitVote records or revises a gambler's vote on a Pending veto and then
// re-resolves the veto against q. voteID is used only when the gambler has
// not voted yet.
func SubmitVote(p *models.Parlay, vetoID, gamblerID, voteID int, affirmative bool, q Quorum) (VoteOutcome, error) {
	pick, veto, ok := p.FindVeto(vetoID)
	if !ok {
		return VoteOutcome{}, precondition("vote", "veto %d is not in parlay %d", vetoID, p.ID)
	}
	switch {
	case veto.GamblerID == gamblerID:
		return VoteOutcome{}, precondition("vote", "a gambler cannot vote on their own veto")
	case pick.GamblerID == gamblerID:
		return VoteOutcome{}, precondition("vote", "a gambler cannot vote on a veto of their own pick")
	case veto.ApprovalStatus != models.VetoPending:
		return VoteOutcome{}, precondition("vote", "veto %d is already %s", vetoID, veto.ApprovalStatus)
	}

	vote := veto.VoteBy(gamblerID)
	if vote != nil {
		vote.Affirmative = affirmative
	} else {
		veto.Votes = append(veto.Votes, models.Vote{
			ID:          voteID,
			VetoID:      vetoID,
			GamblerID:   gamblerID,
			Affirmative: affirmative,
		})
		vote = &veto.Votes[len(veto.Votes)-1]
	}

	status, approved := ResolveVeto(*veto, q, false)
	veto.ApprovalStatus = status
	return VoteOutcome{Vote: *vote, Status: status, Approved: approved}, nil
}

// RemoveVeto deletes a veto that quorum has not settled
func RemoveVeto(p *models.Parlay, vetoID int) error {
	pick, veto, ok := p.FindVeto(vetoID)
	if !ok {
		return precondition("delete veto", "veto %d is not in parlay %d", vetoID, p.ID)
	}
	if veto.ApprovalStatus == models.VetoApproved || veto.ApprovalStatus == models.VetoRejected {
		return precondition("delete veto", "veto %d has already been %s", vetoID, veto.ApprovalStatus)
	}
	for i := range pick.Vetoes {
		if pick.Vetoes[i].ID == vetoID {
			pick.Vetoes = append(pick.Vetoes[:i], pick.Vetoes[i+1:]...)
			break
		}
	}
	return nil
}
