package handlers

import (
	"net/http"

	"github.com/GabeSucich/elmo-fire-bets-backend/interfaces"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
	"github.com/GabeSucich/elmo-fire-bets-backend/services"
)

// PickHandler edits and adjudicates picks
type PickHandler struct {
	picks interfaces.PickService
}

func NewPickHandler(picks interfaces.PickService) *PickHandler {
	return &PickHandler{picks: picks}
}

type overrideRequest struct {
	services.PickChanges
	DeleteVeto bool `json:"delete_veto"`
}

type resultRequest struct {
	Result models.PickResult `json:"result"`
}

func (h *PickHandler) pickAction(w http.ResponseWriter, r *http.Request, op func(userID, id int) (*models.Pick, error)) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	pick, err := op(user.ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pickView(pick))
}

func (h *PickHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.CreatePickInput
	if !decodeJSON(w, r, &in) {
		return
	}
	pick, err := h.picks.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pickView(pick))
}

func (h *PickHandler) Update(w http.ResponseWriter, r *http.Request) {
	var changes services.PickChanges
	if !decodeJSON(w, r, &changes) {
		return
	}
	h.pickAction(w, r, func(userID, id int) (*models.Pick, error) {
		return h.picks.Update(r.Context(), userID, id, changes)
	})
}

func (h *PickHandler) Override(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.pickAction(w, r, func(userID, id int) (*models.Pick, error) {
		return h.picks.Override(r.Context(), userID, id, req.PickChanges, req.DeleteVeto)
	})
}

func (h *PickHandler) SetResult(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.pickAction(w, r, func(userID, id int) (*models.Pick, error) {
		return h.picks.SetResult(r.Context(), userID, id, req.Result)
	})
}
