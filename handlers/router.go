package handlers

import (
	"net/http"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/interfaces"
	"github.com/GabeSucich/elmo-fire-bets-backend/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps is everything the HTTP surface needs
type RouterDeps struct {
	Auth     interfaces.AuthService
	Parlays  interfaces.ParlayService
	Picks    interfaces.PickService
	Vetoes   interfaces.VetoService
	Seasons  interfaces.SeasonService
	Health   interfaces.HealthChecker
	Registry *prometheus.Registry

	TokenTTL     time.Duration
	CookieSecure bool
	BehindProxy  bool
}

// NewRouter wires every route. /auth, /health and /metrics are public and
// everything else requires a valid token.
func NewRouter(deps RouterDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(deps.BehindProxy))
	r.Use(middleware.NewHTTPMetrics(deps.Registry).Middleware)

	authHandler := NewAuthHandler(deps.Auth, deps.TokenTTL, deps.CookieSecure)
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	r.HandleFunc("/health", NewHealthHandler(deps.Health).Health).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})).Methods("GET")

	authMiddleware := middleware.NewAuthMiddleware(deps.Auth)
	api := r.NewRoute().Subrouter()
	api.Use(authMiddleware.RequireAuth)

	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	seasons := NewSeasonHandler(deps.Seasons, deps.Parlays)
	api.HandleFunc("/gambling_seasons", seasons.List).Methods("GET")
	api.HandleFunc("/gambling_seasons/{id:[0-9]+}", seasons.Get).Methods("GET")
	api.HandleFunc("/gambling_seasons/{id:[0-9]+}/parlays", seasons.Parlays).Methods("GET")
	api.HandleFunc("/gambling_seasons/{id:[0-9]+}/gambler_performances", seasons.Performances).Methods("GET")
	api.HandleFunc("/gambling_seasons/{id:[0-9]+}/gamblers/{gamblerID:[0-9]+}/metrics", seasons.GamblerMetrics).Methods("GET")
	api.HandleFunc("/gambling_seasons/{id:[0-9]+}/time_series", seasons.TimeSeries).Methods("GET")
	api.HandleFunc("/gambling_seasons/{id:[0-9]+}/time_series/chart.png", seasons.TimeSeriesChart).Methods("GET")
	api.HandleFunc("/gambling_seasons/{id:[0-9]+}/standings", seasons.Standings).Methods("GET")

	parlays := NewParlayHandler(deps.Parlays)
	api.HandleFunc("/parlays/swap_order", parlays.SwapOrder).Methods("POST")
	api.HandleFunc("/parlays", parlays.Create).Methods("POST")
	api.HandleFunc("/parlays/{id:[0-9]+}", parlays.Get).Methods("GET")
	api.HandleFunc("/parlays/{id:[0-9]+}", parlays.Update).Methods("PATCH")
	api.HandleFunc("/parlays/{id:[0-9]+}", parlays.Delete).Methods("DELETE")
	api.HandleFunc("/parlays/{id:[0-9]+}/claim", parlays.Claim).Methods("POST")
	api.HandleFunc("/parlays/{id:[0-9]+}/lock", parlays.Lock).Methods("POST")
	api.HandleFunc("/parlays/{id:[0-9]+}/unlock", parlays.Unlock).Methods("POST")
	api.HandleFunc("/parlays/{id:[0-9]+}/finalize_results", parlays.FinalizeResults).Methods("POST")
	api.HandleFunc("/parlays/{id:[0-9]+}/close", parlays.Close).Methods("POST")
	api.HandleFunc("/parlays/{id:[0-9]+}/reopen", parlays.Reopen).Methods("POST")

	picks := NewPickHandler(deps.Picks)
	api.HandleFunc("/picks", picks.Create).Methods("POST")
	api.HandleFunc("/picks/{id:[0-9]+}", picks.Update).Methods("PATCH")
	api.HandleFunc("/picks/{id:[0-9]+}/override", picks.Override).Methods("POST")
	api.HandleFunc("/picks/{id:[0-9]+}/result", picks.SetResult).Methods("POST")

	vetoes := NewVetoHandler(deps.Vetoes)
	api.HandleFunc("/vetoes", vetoes.Create).Methods("POST")
	api.HandleFunc("/vetoes/{id:[0-9]+}/vote", vetoes.Vote).Methods("POST")
	api.HandleFunc("/vetoes/{id:[0-9]+}", vetoes.Delete).Methods("DELETE")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	return r
}
