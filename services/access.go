package services

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// Season access checks shared by the services

func requireMember(season *models.GamblingSeason, userID int) (models.Gambler, error) {
	gambler, ok := season.GamblerForUser(userID)
	if !ok {
		return models.Gambler{}, forbidden("user %d is not a gambler in season %d", userID, season.ID)
	}
	return gambler, nil
}

// requireActingAs checks the user holds the given gambler seat
func requireActingAs(season *models.GamblingSeason, userID, gamblerID int) error {
	gambler, ok := season.Gambler(gamblerID)
	if !ok {
		return forbidden("gambler %d is not in season %d", gamblerID, season.ID)
	}
	if gambler.UserID != userID {
		return forbidden("user %d cannot act on behalf of gambler %d", userID, gamblerID)
	}
	return nil
}

// requireOwner checks the user holds the seat that owns the parlay
func requireOwner(season *models.GamblingSeason, p *models.Parlay, userID int) error {
	owner, ok := season.Gambler(p.OwnerID)
	if !ok || owner.UserID != userID {
		return forbidden("only the owner of parlay %d can do that", p.ID)
	}
	return nil
}

func isOwner(season *models.GamblingSeason, p *models.Parlay, userID int) bool {
	return requireOwner(season, p, userID) == nil
}

func requireInProgress(season *models.GamblingSeason) error {
	if !season.InProgress() {
		return ErrSeasonClosed
	}
	return nil
}
