package models

import (
	"fmt"
	"time"
)

// CompetitionDateLayout is the wire and storage format of a parlay's competition date
const CompetitionDateLayout = "2006-01-02"

// Parlay is a dated bundle of picks owned by one gambler in one season.
// The whole graph (picks, vetoes, votes) is stored as a single document.
type Parlay struct {
	ID              int           `json:"id" bson:"_id"`
	SeasonID        int           `json:"gambling_season_id" bson:"season_id"`
	OwnerID         int           `json:"owner_id" bson:"owner_id"`
	SlateType       SlateType     `json:"slate_type" bson:"slate_type"`
	CompetitionDate string        `json:"competition_date" bson:"competition_date"`
	WagerPP         float64       `json:"wager_pp" bson:"wager_pp"`
	PayoutPP        *float64      `json:"payout_pp" bson:"payout_pp,omitempty"`
	State           ParlayState   `json:"state" bson:"state"`
	Result          *ParlayResult `json:"result" bson:"result,omitempty"`
	Order           int           `json:"order" bson:"order"`
	Picks           []Pick        `json:"picks" bson:"picks"`
	Version         int64         `json:"-" bson:"version"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

// IsReplayable reports whether the parlay counts toward metrics
func (p *Parlay) IsReplayable() bool {
	return p.State == ParlayClosed && p.Result != nil
}

// FindPick returns the pick with the given id
func (p *Parlay) FindPick(pickID int) (*Pick, bool) {
	for i := range p.Picks {
		if p.Picks[i].ID == pickID {
			return &p.Picks[i], true
		}
	}
	return nil, false
}

// FindVeto returns the veto with the given id along with the pick it challenges
func (p *Parlay) FindVeto(vetoID int) (*Pick, *Veto, bool) {
	for i := range p.Picks {
		for j := range p.Picks[i].Vetoes {
			if p.Picks[i].Vetoes[j].ID == vetoID {
				return &p.Picks[i], &p.Picks[i].Vetoes[j], true
			}
		}
	}
	return nil, nil, false
}

// PickFor returns the pick placed by the gambler, if any
func (p *Parlay) PickFor(gamblerID int) *Pick {
	var found *Pick
	for i := range p.Picks {
		if p.Picks[i].GamblerID == gamblerID {
			found = &p.Picks[i]
		}
	}
	return found
}

// ParseCompetitionDate validates a YYYY-MM-DD competition date
func ParseCompetitionDate(value string) (time.Time, error) {
	d, err := time.Parse(CompetitionDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid competition date %q: %w", value, err)
	}
	return d, nil
}
