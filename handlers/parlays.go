package handlers

import (
	"net/http"

	"github.com/GabeSucich/elmo-fire-bets-backend/interfaces"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
	"github.com/GabeSucich/elmo-fire-bets-backend/services"
)

// ParlayHandler exposes the parlay lifecycle
type ParlayHandler struct {
	parlays interfaces.ParlayService
}

func NewParlayHandler(parlays interfaces.ParlayService) *ParlayHandler {
	return &ParlayHandler{parlays: parlays}
}

type claimRequest struct {
	GamblerID int `json:"gambler_id"`
}

type lockRequest struct {
	Overrides map[int]services.PickChanges `json:"overrides"`
}

type closeRequest struct {
	Result models.ParlayResult `json:"result"`
}

type swapOrderRequest struct {
	FirstParlayID  int `json:"first_parlay_id"`
	SecondParlayID int `json:"second_parlay_id"`
}

// decodeOptionalJSON accepts an empty body for endpoints whose body is optional
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	return decodeJSON(w, r, dst)
}

// parlayAction runs a single-parlay operation and writes the resulting parlay
func (h *ParlayHandler) parlayAction(w http.ResponseWriter, r *http.Request, status int, op func(userID, id int) (*models.Parlay, error)) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	p, err := op(user.ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, parlayView(p))
}

func (h *ParlayHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.CreateParlayInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.parlays.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, parlayView(p))
}

func (h *ParlayHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.parlayAction(w, r, http.StatusOK, func(userID, id int) (*models.Parlay, error) {
		return h.parlays.Get(r.Context(), userID, id)
	})
}

func (h *ParlayHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateParlayInput
	if !decodeJSON(w, r, &in) {
		return
	}
	h.parlayAction(w, r, http.StatusOK, func(userID, id int) (*models.Parlay, error) {
		return h.parlays.Update(r.Context(), userID, id, in)
	})
}

func (h *ParlayHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.parlayAction(w, r, http.StatusOK, func(userID, id int) (*models.Parlay, error) {
		return h.parlays.Claim(r.Context(), userID, id, req.GamblerID)
	})
}

func (h *ParlayHandler) Lock(w http.ResponseWriter, r *http.Request) {
	var req lockRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	h.parlayAction(w, r, http.StatusOK, func(userID, id int) (*models.Parlay, error) {
		return h.parlays.Lock(r.Context(), userID, id, req.Overrides)
	})
}

func (h *ParlayHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	h.parlayAction(w, r, http.StatusOK, func(userID, id int) (*models.Parlay, error) {
		return h.parlays.Unlock(r.Context(), userID, id)
	})
}

// FinalizeResults previews the close without storing anything
func (h *ParlayHandler) FinalizeResults(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	preview, err := h.parlays.Preview(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	preview.Parlay = parlayView(preview.Parlay)
	writeJSON(w, http.StatusOK, preview)
}

func (h *ParlayHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.parlayAction(w, r, http.StatusOK, func(userID, id int) (*models.Parlay, error) {
		return h.parlays.Close(r.Context(), userID, id, req.Result)
	})
}

func (h *ParlayHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	h.parlayAction(w, r, http.StatusOK, func(userID, id int) (*models.Parlay, error) {
		return h.parlays.Reopen(r.Context(), userID, id)
	})
}

func (h *ParlayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.parlays.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ParlayHandler) SwapOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req swapOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.parlays.SwapOrder(r.Context(), user.ID, req.FirstParlayID, req.SecondParlayID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
