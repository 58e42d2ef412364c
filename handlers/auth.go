package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/interfaces"
	"github.com/GabeSucich/elmo-fire-bets-backend/logging"
	"github.com/GabeSucich/elmo-fire-bets-backend/middleware"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth         interfaces.AuthService
	tokenTTL     time.Duration
	cookieSecure bool
	logger       *logging.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(auth interfaces.AuthService, tokenTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		tokenTTL:     tokenTTL,
		cookieSecure: cookieSecure,
		logger:       logging.WithPrefix("AuthHandler"),
	}
}

// Login handles JSON login requests
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		badRequest(w, r, "username and password are required")
		return
	}

	resp, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Infof("Login failed for %s: %v", req.Username, err)
		writeError(w, r, err)
		return
	}

	h.setAuthCookie(w, resp.Token)
	h.logger.Infof("User %s logged in", resp.User.Username)
	writeJSON(w, http.StatusOK, resp)
}

// Register creates an account and logs it in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setAuthCookie(w, resp.Token)
	h.logger.Infof("Registered user %s (%d)", resp.User.Username, resp.User.ID)
	writeJSON(w, http.StatusCreated, resp)
}

// Logout clears the auth cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current user's information
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user.ToSafeUser())
}

// setAuthCookie mirrors the token into a cookie for browser clients
func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
