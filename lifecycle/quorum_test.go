package lifecycle

import (
	"testing"

	"github.com/GabeSucich/elmo-fire-bets-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredVotes(t *testing.T) {
	tests := map[int]int{0: 0, 1: 0, 2: 1, 3: 1, 4: 2, 5: 2, 8: 4, 9: 4}
	for gamblers, want := range tests {
		assert.Equal(t, want, RequiredVotes(gamblers), "gamblers=%d", gamblers)
	}
}

func TestResolveVeto(t *testing.T) {
	tests := []struct {
		name           string
		status         models.VetoApprovalStatus
		affirmative    int
		negative       int
		gamblers       int
		demandTerminal bool
		wantStatus     models.VetoApprovalStatus
		wantApproved   bool
	}{
		{name: "approves at quorum", status: models.VetoPending, affirmative: 2, gamblers: 5, wantStatus: models.VetoApproved, wantApproved: true},
		{name: "approves above quorum", status: models.VetoPending, affirmative: 3, negative: 1, gamblers: 5, wantStatus: models.VetoApproved, wantApproved: true},
		{name: "rejects at quorum", status: models.VetoPending, affirmative: 1, negative: 2, gamblers: 5, wantStatus: models.VetoRejected},
		{name: "approval wins when both thresholds met", status: models.VetoPending, affirmative: 2, negative: 2, gamblers: 4, wantStatus: models.VetoApproved, wantApproved: true},
		{name: "stays pending below quorum", status: models.VetoPending, affirmative: 1, gamblers: 5, wantStatus: models.VetoPending},
		{name: "forced undecided when terminal demanded", status: models.VetoPending, affirmative: 1, gamblers: 5, demandTerminal: true, wantStatus: models.VetoUndecided},
		{name: "terminal demand still approves at quorum", status: models.VetoPending, affirmative: 2, gamblers: 5, demandTerminal: true, wantStatus: models.VetoApproved, wantApproved: true},
		{name: "approved is final", status: models.VetoApproved, negative: 4, gamblers: 5, wantStatus: models.VetoApproved},
		{name: "rejected is final", status: models.VetoRejected, affirmative: 4, gamblers: 5, wantStatus: models.VetoRejected},
		{name: "undecided is final", status: models.VetoUndecided, affirmative: 4, gamblers: 5, wantStatus: models.VetoUndecided},
		{name: "single gambler season approves with no votes", status: models.VetoPending, gamblers: 1, wantStatus: models.VetoApproved, wantApproved: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			veto := models.Veto{ID: 1, ApprovalStatus: tt.status, Votes: votes(tt.affirmative, tt.negative)}
			status, approved := ResolveVeto(veto, NewQuorum(tt.gamblers), tt.demandTerminal)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantApproved, approved)
			assert.Equal(t, tt.status, veto.ApprovalStatus, "input veto must not be modified")
		})
	}
}

func TestResolveVetoIsOrderIndependent(t *testing.T) {
	forward := models.Veto{ApprovalStatus: models.VetoPending, Votes: []models.Vote{
		{GamblerID: 1, Affirmative: true}, {GamblerID: 2, Affirmative: false}, {GamblerID: 3, Affirmative: true},
	}}
	backward := models.Veto{ApprovalStatus: models.VetoPending, Votes: []models.Vote{
		{GamblerID: 3, Affirmative: true}, {GamblerID: 2, Affirmative: false}, {GamblerID: 1, Affirmative: true},
	}}

	q := NewQuorum(4)
	s1, a1 := ResolveVeto(forward, q, false)
	s2, a2 := ResolveVeto(backward, q, false)
	assert.Equal(t, s1, s2)
	assert.Equal(t, a1, a2)
	assert.Equal(t, models.VetoApproved, s1)
}

func TestSubmitVoteFlipBeforeQuorum(t *testing.T) {
	p := withVeto(buildParlay("", "", ""), 1, 9, 102, models.VetoPending)
	q := NewQuorum(6) // 3 needed

	out, err := SubmitVote(p, 9, 103, 1, true, q)
	require.NoError(t, err)
	assert.Equal(t, models.VetoPending, out.Status)

	out, err = SubmitVote(p, 9, 104, 2, true, q)
	require.NoError(t, err)
	assert.Equal(t, models.VetoPending, out.Status)

	// 103 changes their mind; the revision replaces the original vote
	out, err = SubmitVote(p, 9, 103, 3, false, q)
	require.NoError(t, err)
	assert.Equal(t, models.VetoPending, out.Status)
	assert.Equal(t, 1, out.Vote.ID, "revised vote keeps its id")

	_, veto, _ := p.FindVeto(9)
	require.Len(t, veto.Votes, 2)
	aff, neg := veto.Tally()
	assert.Equal(t, 1, aff)
	assert.Equal(t, 1, neg)

	out, err = SubmitVote(p, 9, 105, 4, true, q)
	require.NoError(t, err)
	assert.Equal(t, models.VetoPending, out.Status)

	out, err = SubmitVote(p, 9, 106, 5, true, q)
	require.NoError(t, err)
	assert.Equal(t, models.VetoApproved, out.Status)
	assert.True(t, out.Approved)
	assert.Equal(t, models.VetoApproved, veto.ApprovalStatus)
}

func TestSubmitVoteRejections(t *testing.T) {
	tests := []struct {
		name    string
		status  models.VetoApprovalStatus
		voter   int
		vetoID  int
		wantErr error
	}{
		{name: "raiser cannot vote", status: models.VetoPending, voter: 102, vetoID: 9, wantErr: ErrPrecondition},
		{name: "pick owner cannot vote", status: models.VetoPending, voter: 101, vetoID: 9, wantErr: ErrPrecondition},
		{name: "settled veto cannot be voted on", status: models.VetoApproved, voter: 103, vetoID: 9, wantErr: ErrPrecondition},
		{name: "undecided veto cannot be voted on", status: models.VetoUndecided, voter: 103, vetoID: 9, wantErr: ErrPrecondition},
		{name: "unknown veto", status: models.VetoPending, voter: 103, vetoID: 99, wantErr: ErrPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := withVeto(buildParlay("", "", ""), 1, 9, 102, tt.status)
			_, err := SubmitVote(p, tt.vetoID, tt.voter, 1, true, NewQuorum(4))
			require.ErrorIs(t, err, tt.wantErr)
			_, veto, _ := p.FindVeto(9)
			assert.Empty(t, veto.Votes)
		})
	}
}

func TestResolveAllReportsChanges(t *testing.T) {
	p := buildParlay("", "", "")
	withVeto(p, 1, 10, 102, models.VetoPending)
	withVeto(p, 2, 11, 101, models.VetoRejected)
	pick, _ := p.FindPick(1)
	pick.Vetoes[0].Votes = votes(0, 1)

	changed := ResolveAll(p, NewQuorum(6), true)
	assert.Equal(t, []int{10}, changed)
	assert.Equal(t, models.VetoUndecided, pick.Vetoes[0].ApprovalStatus)
}
