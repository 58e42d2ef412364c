package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/interfaces"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

const (
	defaultPageSize = 25
	maxPageSize     = 200
)

// SeasonHandler serves season rosters, parlay listings and analytics
type SeasonHandler struct {
	seasons interfaces.SeasonService
	parlays interfaces.ParlayService
}

func NewSeasonHandler(seasons interfaces.SeasonService, parlays interfaces.ParlayService) *SeasonHandler {
	return &SeasonHandler{seasons: seasons, parlays: parlays}
}

func (h *SeasonHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	seasons, err := h.seasons.ListForUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seasons)
}

func (h *SeasonHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	seasonID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	season, err := h.seasons.Get(r.Context(), user.ID, seasonID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, season)
}

// parlayFilter reads limit, offset, state and sort (asc|desc) query params
func parlayFilter(r *http.Request) (database.ParlayFilter, error) {
	var filter database.ParlayFilter
	limit, err := queryInt64(r, "limit", defaultPageSize)
	if err != nil {
		return filter, err
	}
	filter.Limit = min(limit, maxPageSize)
	if filter.Offset, err = queryInt64(r, "offset", 0); err != nil {
		return filter, err
	}
	if state := r.URL.Query().Get("state"); state != "" {
		s := models.ParlayState(state)
		filter.State = &s
	}
	switch strings.ToLower(r.URL.Query().Get("sort")) {
	case "", "asc":
	case "desc":
		filter.Desc = true
	default:
		return filter, errSort
	}
	return filter, nil
}

var errSort = errors.New("sort must be asc or desc")

func (h *SeasonHandler) Parlays(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	seasonID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	filter, err := parlayFilter(r)
	if err != nil {
		badRequest(w, r, "%v", err)
		return
	}
	page, err := h.parlays.ListForSeason(r.Context(), user.ID, seasonID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page.Parlays = parlayViews(page.Parlays)
	writeJSON(w, http.StatusOK, page)
}

func (h *SeasonHandler) Performances(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	seasonID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	perf, err := h.seasons.Performances(r.Context(), user.ID, seasonID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, perf)
}

func (h *SeasonHandler) GamblerMetrics(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	seasonID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	gamblerID, ok := pathInt(w, r, "gamblerID")
	if !ok {
		return
	}
	m, err := h.seasons.GamblerMetrics(r.Context(), user.ID, seasonID, gamblerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *SeasonHandler) TimeSeries(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	seasonID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	series, err := h.seasons.TimeSeries(r.Context(), user.ID, seasonID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (h *SeasonHandler) TimeSeriesChart(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	seasonID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	png, err := h.seasons.TimeSeriesChart(r.Context(), user.ID, seasonID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// Standings returns the most recent stored standings snapshot
func (h *SeasonHandler) Standings(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	seasonID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	// membership check
	if _, err := h.seasons.Get(r.Context(), user.ID, seasonID); err != nil {
		writeError(w, r, err)
		return
	}
	snapshot, err := h.seasons.LatestSnapshot(r.Context(), seasonID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
