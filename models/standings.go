package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StandingEntry is one gambler's line in a standings snapshot
type StandingEntry struct {
	GamblerID      int      `json:"gambler_id" bson:"gambler_id"`
	Name           string   `json:"name" bson:"name"`
	CorrectedScore float64  `json:"corrected_score" bson:"corrected_score"`
	WinRate        *float64 `json:"win_rate" bson:"win_rate,omitempty"`
	Picks          int      `json:"picks" bson:"picks"`
}

// StandingsSnapshot is a point-in-time record of a season's leaderboard
type StandingsSnapshot struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SeasonID int                `json:"gambling_season_id" bson:"season_id"`
	Year     int                `json:"year" bson:"year"`
	Entries  []StandingEntry    `json:"entries" bson:"entries"`
	TakenAt  time.Time          `json:"taken_at" bson:"taken_at"`
}
