package models

import "time"

// Gambler is a user's seat in one gambling season
type Gambler struct {
	ID        int    `json:"id" bson:"id"`
	UserID    int    `json:"user_id" bson:"user_id"`
	SeasonID  int    `json:"gambling_season_id" bson:"season_id"`
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name" bson:"last_name"`
}

// DisplayName returns the gambler's full name
func (g Gambler) DisplayName() string {
	if g.LastName == "" {
		return g.FirstName
	}
	return g.FirstName + " " + g.LastName
}

// GamblingSeason groups gamblers and their parlays for one year
type GamblingSeason struct {
	ID        int                 `json:"id" bson:"_id"`
	Year      int                 `json:"year" bson:"year"`
	Name      string              `json:"name" bson:"name"`
	State     GamblingSeasonState `json:"state" bson:"state"`
	Gamblers  []Gambler           `json:"gamblers" bson:"gamblers"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
}

// InProgress reports whether the season still accepts changes
func (s *GamblingSeason) InProgress() bool {
	return s.State == SeasonInProgress
}

// GamblerIDs returns the roster ids in roster order
func (s *GamblingSeason) GamblerIDs() []int {
	ids := make([]int, len(s.Gamblers))
	for i, g := range s.Gamblers {
		ids[i] = g.ID
	}
	return ids
}

// HasGambler reports whether the gambler belongs to the season
func (s *GamblingSeason) HasGambler(gamblerID int) bool {
	_, ok := s.Gambler(gamblerID)
	return ok
}

// Gambler looks up a roster entry by gambler id
func (s *GamblingSeason) Gambler(gamblerID int) (Gambler, bool) {
	for _, g := range s.Gamblers {
		if g.ID == gamblerID {
			return g, true
		}
	}
	return Gambler{}, false
}

// GamblerForUser returns the user's seat in the season
func (s *GamblingSeason) GamblerForUser(userID int) (Gambler, bool) {
	for _, g := range s.Gamblers {
		if g.UserID == userID {
			return g, true
		}
	}
	return Gambler{}, false
}

// GamblerNames maps gambler ids to display names
func (s *GamblingSeason) GamblerNames() map[int]string {
	names := make(map[int]string, len(s.Gamblers))
	for _, g := range s.Gamblers {
		names[g.ID] = g.DisplayName()
	}
	return names
}
