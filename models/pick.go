package models

// PropBetTarget is the player or team a pick is about
type PropBetTarget struct {
	ID         int     `json:"id" bson:"_id"`
	Identifier string  `json:"identifier" bson:"identifier"`
	PlayerName *string `json:"player_name" bson:"player_name,omitempty"`
	TeamName   string  `json:"team_name" bson:"team_name"`
}

// DisplayName returns the player name, falling back to the team name
func (t PropBetTarget) DisplayName() string {
	if t.PlayerName != nil && *t.PlayerName != "" {
		return *t.PlayerName
	}
	return t.TeamName
}

// Pick is one prop-bet selection inside a parlay.
// Picks are embedded in their parlay document together with their vetoes.
type Pick struct {
	ID            int              `json:"id" bson:"id"`
	ParlayID      int              `json:"parlay_id" bson:"parlay_id"`
	GamblerID     int              `json:"gambler_id" bson:"gambler_id"`
	Target        PropBetTarget    `json:"prop_bet_target" bson:"target"`
	PropType      PropBetType      `json:"prop_type" bson:"prop_type"`
	Direction     PropBetDirection `json:"direction" bson:"direction"`
	Line          float64          `json:"line" bson:"line"`
	CorrectedLine *float64         `json:"corrected_line" bson:"corrected_line,omitempty"`
	SauceFactor   *SauceFactor     `json:"sauce_factor" bson:"sauce_factor,omitempty"`
	Result        *PickResult      `json:"result" bson:"result,omitempty"`
	Vetoes        []Veto           `json:"vetoes" bson:"vetoes"`
}

// HasResult reports whether the pick has been adjudicated
func (p *Pick) HasResult() bool {
	return p.Result != nil
}

// EffectiveLine is the corrected line when one was applied, else the original line
func (p *Pick) EffectiveLine() float64 {
	if p.CorrectedLine != nil {
		return *p.CorrectedLine
	}
	return p.Line
}

// IsSauce reports whether the pick carries the given sauce tag
func (p *Pick) IsSauce(s SauceFactor) bool {
	return p.SauceFactor != nil && *p.SauceFactor == s
}

// ActiveVeto returns the veto that still matters for this pick, if any.
// Rejected vetoes are kept for history only.
func (p *Pick) ActiveVeto() *Veto {
	for i := range p.Vetoes {
		if p.Vetoes[i].ApprovalStatus != VetoRejected {
			return &p.Vetoes[i]
		}
	}
	return nil
}

// ApprovedVetoes returns every approved veto on the pick
func (p *Pick) ApprovedVetoes() []*Veto {
	var approved []*Veto
	for i := range p.Vetoes {
		if p.Vetoes[i].ApprovalStatus == VetoApproved {
			approved = append(approved, &p.Vetoes[i])
		}
	}
	return approved
}

// Veto is a challenge against one pick, decided by quorum vote
type Veto struct {
	ID             int                `json:"id" bson:"id"`
	PickID         int                `json:"pick_id" bson:"pick_id"`
	GamblerID      int                `json:"gambler_id" bson:"gambler_id"`
	ApprovalStatus VetoApprovalStatus `json:"approval_status" bson:"approval_status"`
	Result         *VetoResult        `json:"result" bson:"result,omitempty"`
	Votes          []Vote             `json:"votes" bson:"votes"`
}

// Tally counts affirmative and negative votes
func (v *Veto) Tally() (affirmative, negative int) {
	for _, vote := range v.Votes {
		if vote.Affirmative {
			affirmative++
		} else {
			negative++
		}
	}
	return affirmative, negative
}

// VoteBy returns the vote cast by the gambler, if any
func (v *Veto) VoteBy(gamblerID int) *Vote {
	for i := range v.Votes {
		if v.Votes[i].GamblerID == gamblerID {
			return &v.Votes[i]
		}
	}
	return nil
}

// Vote is one gambler's stance on a veto
type Vote struct {
	ID          int  `json:"id" bson:"id"`
	VetoID      int  `json:"veto_id" bson:"veto_id"`
	GamblerID   int  `json:"gambler_id" bson:"gambler_id"`
	Affirmative bool `json:"affirmative" bson:"affirmative"`
}
