package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/lifecycle"
	"github.com/GabeSucich/elmo-fire-bets-backend/middleware"
	"github.com/GabeSucich/elmo-fire-bets-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	for _, token := range []string{"", "forged"} {
		rec := api.do("GET", "/gambling_seasons", "", token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "token %q", token)
	}

	rec := api.authed("GET", "/gambling_seasons", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCookieAuthentication(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: goodToken})
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "$2a$hash")
	assert.Contains(t, rec.Body.String(), `"username":"alex"`)
}

func TestLoginSetsCookie(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do("POST", "/auth/login", `{"username":"alex","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AuthCookieName, cookies[0].Name)
	assert.Equal(t, goodToken, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	api.auth.loginErr = services.ErrInvalidCredentials
	rec = api.do("POST", "/auth/login", `{"username":"alex","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do("POST", "/auth/login", `{"username":"  ","password":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterAndLogout(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do("POST", "/auth/register", `{"username":"blake","password":"pw","first_name":"Blake"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do("POST", "/auth/logout", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: bad line", services.ErrValidation), http.StatusBadRequest},
		{services.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("failed to get parlay: %w", database.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: parlay is closed", lifecycle.ErrPrecondition), http.StatusConflict},
		{services.ErrSeasonClosed, http.StatusConflict},
		{database.ErrVersionConflict, http.StatusConflict},
		{database.ErrDuplicate, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			api := newTestAPI(t)
			api.parlays.err = tc.err

			rec := api.authed("GET", "/parlays/5", "")
			assert.Equal(t, tc.status, rec.Code)

			var body errorResponse
			decodeBody(t, rec, &body)
			assert.Equal(t, tc.err.Error(), body.Error)
		})
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	api := newTestAPI(t)
	api.parlays.err = errors.New("mongo: connection refused to 10.0.0.4")

	rec := api.authed("GET", "/parlays/5", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "internal server error", body.Error)
	assert.NotEmpty(t, body.RequestID)
	assert.Equal(t, rec.Header().Get(middleware.RequestIDHeader), body.RequestID)
}

func TestRequestIDIsEchoed(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do("GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	api.health.err = errors.New("server selection timeout")
	rec = api.do("GET", "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unreachable")
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.parlays.parlay = openParlay()

	api.authed("GET", "/parlays/5", "")
	rec := api.do("GET", "/metrics", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ledger_http_requests_total{code="200",method="GET",route="/parlays/{id:[0-9]+}"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	rec := api.authed("GET", "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}
