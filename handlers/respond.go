package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/lifecycle"
	"github.com/GabeSucich/elmo-fire-bets-backend/logging"
	"github.com/GabeSucich/elmo-fire-bets-backend/middleware"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
	"github.com/GabeSucich/elmo-fire-bets-backend/services"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

var errorLogger = logging.WithPrefix("Handlers")

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		errorLogger.Errorf("Failed to encode response: %v", err)
	}
}

// statusFor maps service and lifecycle errors onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lifecycle.ErrPrecondition),
		errors.Is(err, services.ErrSeasonClosed),
		errors.Is(err, database.ErrVersionConflict),
		errors.Is(err, database.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		errorLogger.With("request_id", middleware.RequestIDFrom(r.Context())).
			Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
		message = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: message, RequestID: middleware.RequestIDFrom(r.Context())})
}

func badRequest(w http.ResponseWriter, r *http.Request, format string, args ...interface{}) {
	writeError(w, r, fmt.Errorf("%w: %s", services.ErrValidation, fmt.Sprintf(format, args...)))
}

// decodeJSON reads a bounded JSON body and rejects unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		badRequest(w, r, "invalid JSON body: %v", err)
		return false
	}
	return true
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := mux.Vars(r)[name]
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		badRequest(w, r, "invalid %s %q", name, raw)
		return 0, false
	}
	return v, true
}

func queryInt64(r *http.Request, name string, fallback int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

// currentUser is only nil when a route skipped RequireAuth
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return nil, false
	}
	return user, true
}
