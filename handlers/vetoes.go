package handlers

import (
	"net/http"

	"github.com/GabeSucich/elmo-fire-bets-backend/interfaces"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// VetoHandler raises, votes on and withdraws vetoes
type VetoHandler struct {
	vetoes interfaces.VetoService
}

func NewVetoHandler(vetoes interfaces.VetoService) *VetoHandler {
	return &VetoHandler{vetoes: vetoes}
}

type createVetoRequest struct {
	PickID    int `json:"pick_id"`
	GamblerID int `json:"gambler_id"`
}

type voteRequest struct {
	GamblerID   int   `json:"gambler_id"`
	Affirmative *bool `json:"affirmative"`
}

type voteResponse struct {
	Vote           models.Vote               `json:"vote"`
	ApprovalStatus models.VetoApprovalStatus `json:"approval_status"`
	Approved       bool                      `json:"approved"`
}

func (h *VetoHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req createVetoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	veto, err := h.vetoes.Create(r.Context(), user.ID, req.PickID, req.GamblerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, veto)
}

func (h *VetoHandler) Vote(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	vetoID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req voteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Affirmative == nil {
		badRequest(w, r, "affirmative is required")
		return
	}
	outcome, err := h.vetoes.Vote(r.Context(), user.ID, vetoID, req.GamblerID, *req.Affirmative)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, voteResponse{
		Vote:           outcome.Vote,
		ApprovalStatus: outcome.Status,
		Approved:       outcome.Approved,
	})
}

func (h *VetoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	vetoID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.vetoes.Delete(r.Context(), user.ID, vetoID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
