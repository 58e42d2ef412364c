package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/lifecycle"
	"github.com/GabeSucich/elmo-fire-bets-backend/metrics"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
	"github.com/GabeSucich/elmo-fire-bets-backend/scoring"
	"github.com/GabeSucich/elmo-fire-bets-backend/services"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

const goodToken = "good-token"

var testUser = models.User{ID: 1, Username: "alex", FirstName: "Alex", Password: "$2a$hash"}

type fakeAuth struct {
	loginErr error
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (*models.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.AuthResponse{User: testUser.ToSafeUser(), Token: goodToken}, nil
}

func (f *fakeAuth) Register(_ context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	user := models.User{ID: 2, Username: req.Username, FirstName: req.FirstName, LastName: req.LastName}
	return &models.AuthResponse{User: user, Token: goodToken}, nil
}

func (f *fakeAuth) GetUserFromToken(_ context.Context, token string) (*models.User, error) {
	if token != goodToken {
		return nil, services.ErrInvalidCredentials
	}
	user := testUser
	return &user, nil
}

// fakeParlays records the arguments of the last call and answers with
// parlay or err
type fakeParlays struct {
	parlay    *models.Parlay
	page      *services.ParlayPage
	err       error
	created   services.CreateParlayInput
	updated   services.UpdateParlayInput
	overrides map[int]services.PickChanges
	closed    models.ParlayResult
	claimedBy int
	swapped   [2]int
	filter    database.ParlayFilter
	calledID  int
}

func (f *fakeParlays) answer(id int) (*models.Parlay, error) {
	f.calledID = id
	return f.parlay, f.err
}

func (f *fakeParlays) Create(_ context.Context, _ int, in services.CreateParlayInput) (*models.Parlay, error) {
	f.created = in
	return f.answer(0)
}

func (f *fakeParlays) Get(_ context.Context, _, id int) (*models.Parlay, error) {
	return f.answer(id)
}

func (f *fakeParlays) ListForSeason(_ context.Context, _, _ int, filter database.ParlayFilter) (*services.ParlayPage, error) {
	f.filter = filter
	return f.page, f.err
}

func (f *fakeParlays) Update(_ context.Context, _, id int, in services.UpdateParlayInput) (*models.Parlay, error) {
	f.updated = in
	return f.answer(id)
}

func (f *fakeParlays) Claim(_ context.Context, _, id, gamblerID int) (*models.Parlay, error) {
	f.claimedBy = gamblerID
	return f.answer(id)
}

func (f *fakeParlays) Lock(_ context.Context, _, id int, overrides map[int]services.PickChanges) (*models.Parlay, error) {
	f.overrides = overrides
	return f.answer(id)
}

func (f *fakeParlays) Unlock(_ context.Context, _, id int) (*models.Parlay, error) {
	return f.answer(id)
}

func (f *fakeParlays) Preview(_ context.Context, _, id int) (*services.FinalizePreview, error) {
	p, err := f.answer(id)
	if err != nil {
		return nil, err
	}
	return &services.FinalizePreview{Parlay: p, PossibleResults: []models.ParlayResult{models.ParlayBozo}}, nil
}

func (f *fakeParlays) Close(_ context.Context, _, id int, result models.ParlayResult) (*models.Parlay, error) {
	f.closed = result
	return f.answer(id)
}

func (f *fakeParlays) Reopen(_ context.Context, _, id int) (*models.Parlay, error) {
	return f.answer(id)
}

func (f *fakeParlays) Delete(_ context.Context, _, id int) error {
	f.calledID = id
	return f.err
}

func (f *fakeParlays) SwapOrder(_ context.Context, _, firstID, secondID int) error {
	f.swapped = [2]int{firstID, secondID}
	return f.err
}

type fakePicks struct {
	pick       *models.Pick
	err        error
	changes    services.PickChanges
	deleteVeto bool
	result     models.PickResult
}

func (f *fakePicks) Create(_ context.Context, _ int, in services.CreatePickInput) (*models.Pick, error) {
	return f.pick, f.err
}

func (f *fakePicks) Update(_ context.Context, _, _ int, changes services.PickChanges) (*models.Pick, error) {
	f.changes = changes
	return f.pick, f.err
}

func (f *fakePicks) Override(_ context.Context, _, _ int, changes services.PickChanges, deleteVeto bool) (*models.Pick, error) {
	f.changes = changes
	f.deleteVeto = deleteVeto
	return f.pick, f.err
}

func (f *fakePicks) SetResult(_ context.Context, _, _ int, result models.PickResult) (*models.Pick, error) {
	f.result = result
	return f.pick, f.err
}

type fakeVetoes struct {
	outcome     lifecycle.VoteOutcome
	err         error
	affirmative bool
}

func (f *fakeVetoes) Create(_ context.Context, _, pickID, gamblerID int) (*models.Veto, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Veto{ID: 7, PickID: pickID, GamblerID: gamblerID, ApprovalStatus: models.VetoPending}, nil
}

func (f *fakeVetoes) Vote(_ context.Context, _, _, _ int, affirmative bool) (lifecycle.VoteOutcome, error) {
	f.affirmative = affirmative
	return f.outcome, f.err
}

func (f *fakeVetoes) Delete(_ context.Context, _, _ int) error {
	return f.err
}

type fakeSeasons struct {
	err      error
	snapshot *models.StandingsSnapshot
	chart    []byte
}

func (f *fakeSeasons) ListForUser(context.Context, int) ([]services.SeasonSummary, error) {
	return []services.SeasonSummary{{ID: 1, GamblerID: 11, Name: "2025 Season", Year: 2025}}, f.err
}

func (f *fakeSeasons) Get(_ context.Context, _, seasonID int) (*services.SeasonDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.SeasonDetail{ID: seasonID, GamblerID: 11, Name: "2025 Season", Year: 2025}, nil
}

func (f *fakeSeasons) Performances(context.Context, int, int) (map[int]scoring.GamblerPerformance, error) {
	return map[int]scoring.GamblerPerformance{}, f.err
}

func (f *fakeSeasons) GamblerMetrics(context.Context, int, int, int) (metrics.GamblerAdvancedMetrics, error) {
	return metrics.GamblerAdvancedMetrics{}, f.err
}

func (f *fakeSeasons) TimeSeries(context.Context, int, int) (map[int][]scoring.TimeSeriesDatum, error) {
	return map[int][]scoring.TimeSeriesDatum{}, f.err
}

func (f *fakeSeasons) TimeSeriesChart(context.Context, int, int) ([]byte, error) {
	return f.chart, f.err
}

func (f *fakeSeasons) LatestSnapshot(context.Context, int) (*models.StandingsSnapshot, error) {
	if f.snapshot == nil {
		return nil, database.ErrNotFound
	}
	return f.snapshot, nil
}

type fakeHealth struct {
	err error
}

func (f *fakeHealth) Ping(context.Context) error {
	return f.err
}

type testAPI struct {
	router  *mux.Router
	auth    *fakeAuth
	parlays *fakeParlays
	picks   *fakePicks
	vetoes  *fakeVetoes
	seasons *fakeSeasons
	health  *fakeHealth
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	api := &testAPI{
		auth:    &fakeAuth{},
		parlays: &fakeParlays{},
		picks:   &fakePicks{},
		vetoes:  &fakeVetoes{},
		seasons: &fakeSeasons{},
		health:  &fakeHealth{},
	}
	api.router = NewRouter(RouterDeps{
		Auth:     api.auth,
		Parlays:  api.parlays,
		Picks:    api.picks,
		Vetoes:   api.vetoes,
		Seasons:  api.seasons,
		Health:   api.health,
		Registry: prometheus.NewRegistry(),
		TokenTTL: time.Hour,
	})
	return api
}

// do sends an authenticated request unless token is empty
func (a *testAPI) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) authed(method, path, body string) *httptest.ResponseRecorder {
	return a.do(method, path, body, goodToken)
}

func openParlay() *models.Parlay {
	result := models.VetoGood
	return &models.Parlay{
		ID:              5,
		SeasonID:        1,
		OwnerID:         11,
		SlateType:       models.SlateSNF,
		CompetitionDate: "2025-09-14",
		State:           models.ParlayOpen,
		Order:           1,
		Picks: []models.Pick{{
			ID:        50,
			ParlayID:  5,
			GamblerID: 12,
			Line:      49.5,
			Vetoes: []models.Veto{
				{ID: 1, PickID: 50, GamblerID: 13, ApprovalStatus: models.VetoApproved, Result: &result},
				{ID: 2, PickID: 50, GamblerID: 14, ApprovalStatus: models.VetoUndecided},
			},
		}},
	}
}
