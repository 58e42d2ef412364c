package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
)

func cloneParlay(p *models.Parlay) *models.Parlay {
	out := *p
	out.Picks = make([]models.Pick, len(p.Picks))
	for i, pick := range p.Picks {
		pick.Vetoes = append([]models.Veto(nil), pick.Vetoes...)
		for j := range pick.Vetoes {
			pick.Vetoes[j].Votes = append([]models.Vote(nil), pick.Vetoes[j].Votes...)
		}
		out.Picks[i] = pick
	}
	return &out
}

// fakeParlayStore keeps versioned parlay documents in memory
type fakeParlayStore struct {
	mu        sync.Mutex
	parlays   map[int]*models.Parlay
	conflicts int
	loads     int
	replaces  int
	// afterLoad runs once AllForSeason has released the store
	afterLoad func()
	// staleOrders makes NextOrder return an order already in use, as if a
	// concurrent create had read the same maximum
	staleOrders int
}

func newFakeParlayStore(parlays ...*models.Parlay) *fakeParlayStore {
	s := &fakeParlayStore{parlays: make(map[int]*models.Parlay)}
	for _, p := range parlays {
		if p.Version == 0 {
			p.Version = 1
		}
		s.parlays[p.ID] = cloneParlay(p)
	}
	return s
}

func (s *fakeParlayStore) Create(_ context.Context, p *models.Parlay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.parlays[p.ID]; exists || s.orderTaken(p) {
		return database.ErrDuplicate
	}
	p.Version = 1
	s.parlays[p.ID] = cloneParlay(p)
	return nil
}

func (s *fakeParlayStore) Get(_ context.Context, id int) (*models.Parlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parlays[id]
	if !ok {
		return nil, fmt.Errorf("parlay %d: %w", id, database.ErrNotFound)
	}
	return cloneParlay(p), nil
}

func (s *fakeParlayStore) find(match func(*models.Parlay) bool) (*models.Parlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.parlays {
		if match(p) {
			return cloneParlay(p), nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *fakeParlayStore) GetByPickID(_ context.Context, pickID int) (*models.Parlay, error) {
	return s.find(func(p *models.Parlay) bool {
		_, ok := p.FindPick(pickID)
		return ok
	})
}

func (s *fakeParlayStore) GetByVetoID(_ context.Context, vetoID int) (*models.Parlay, error) {
	return s.find(func(p *models.Parlay) bool {
		_, _, ok := p.FindVeto(vetoID)
		return ok
	})
}

func (s *fakeParlayStore) sorted(seasonID int) []models.Parlay {
	var out []models.Parlay
	for _, p := range s.parlays {
		if p.SeasonID == seasonID {
			out = append(out, *cloneParlay(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *fakeParlayStore) ListBySeason(_ context.Context, seasonID int, filter database.ParlayFilter) ([]models.Parlay, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []models.Parlay
	for _, p := range s.sorted(seasonID) {
		if filter.State == nil || p.State == *filter.State {
			matched = append(matched, p)
		}
	}
	if filter.Desc {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}
	total := int64(len(matched))
	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return matched[start:end], total, nil
}

func (s *fakeParlayStore) AllForSeason(_ context.Context, seasonID int) ([]models.Parlay, error) {
	s.mu.Lock()
	s.loads++
	parlays := s.sorted(seasonID)
	hook := s.afterLoad
	s.afterLoad = nil
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return parlays, nil
}

func (s *fakeParlayStore) NextOrder(_ context.Context, seasonID int, seasonScoped bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	highest := 0
	for _, p := range s.parlays {
		if seasonScoped && p.SeasonID != seasonID {
			continue
		}
		highest = max(highest, p.Order)
	}
	if s.staleOrders > 0 && highest > 0 {
		s.staleOrders--
		return highest, nil
	}
	return highest + 1, nil
}

// orderTaken mirrors the unique (season_id, order) index
func (s *fakeParlayStore) orderTaken(p *models.Parlay) bool {
	for _, other := range s.parlays {
		if other.ID != p.ID && other.SeasonID == p.SeasonID && other.Order == p.Order {
			return true
		}
	}
	return false
}

func (s *fakeParlayStore) Replace(_ context.Context, p *models.Parlay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.parlays[p.ID]
	if !ok {
		return database.ErrNotFound
	}
	if s.conflicts > 0 {
		s.conflicts--
		stored.Version++
		return database.ErrVersionConflict
	}
	if stored.Version != p.Version {
		return database.ErrVersionConflict
	}
	if s.orderTaken(p) {
		return database.ErrDuplicate
	}
	p.Version++
	s.parlays[p.ID] = cloneParlay(p)
	s.replaces++
	return nil
}

func (s *fakeParlayStore) Delete(_ context.Context, p *models.Parlay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.parlays[p.ID]
	if !ok {
		return database.ErrNotFound
	}
	if stored.Version != p.Version {
		return database.ErrVersionConflict
	}
	delete(s.parlays, p.ID)
	return nil
}

// SwapOrder commits both documents or neither, like the transactional store
func (s *fakeParlayStore) SwapOrder(_ context.Context, a, b *models.Parlay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range []*models.Parlay{a, b} {
		stored, ok := s.parlays[p.ID]
		if !ok {
			return database.ErrNotFound
		}
		if s.conflicts > 0 {
			s.conflicts--
			stored.Version++
			return database.ErrVersionConflict
		}
		if stored.Version != p.Version {
			return database.ErrVersionConflict
		}
	}
	a.Order, b.Order = b.Order, a.Order
	for _, p := range []*models.Parlay{a, b} {
		p.Version++
		s.parlays[p.ID] = cloneParlay(p)
		s.replaces++
	}
	return nil
}

func (s *fakeParlayStore) stored(id int) *models.Parlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneParlay(s.parlays[id])
}

type fakeSeasonStore struct {
	mu      sync.Mutex
	seasons map[int]*models.GamblingSeason
}

func newFakeSeasonStore(seasons ...*models.GamblingSeason) *fakeSeasonStore {
	s := &fakeSeasonStore{seasons: make(map[int]*models.GamblingSeason)}
	for _, season := range seasons {
		s.seasons[season.ID] = season
	}
	return s
}

func (s *fakeSeasonStore) copyOf(season *models.GamblingSeason) *models.GamblingSeason {
	out := *season
	out.Gamblers = append([]models.Gambler(nil), season.Gamblers...)
	return &out
}

func (s *fakeSeasonStore) Create(_ context.Context, season *models.GamblingSeason) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seasons[season.ID] = s.copyOf(season)
	return nil
}

func (s *fakeSeasonStore) Get(_ context.Context, id int) (*models.GamblingSeason, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	season, ok := s.seasons[id]
	if !ok {
		return nil, fmt.Errorf("season %d: %w", id, database.ErrNotFound)
	}
	return s.copyOf(season), nil
}

func (s *fakeSeasonStore) ListForUser(_ context.Context, userID int) ([]models.GamblingSeason, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.GamblingSeason
	for _, season := range s.seasons {
		if _, ok := season.GamblerForUser(userID); ok {
			out = append(out, *s.copyOf(season))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeSeasonStore) ListInProgress(_ context.Context) ([]models.GamblingSeason, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.GamblingSeason
	for _, season := range s.seasons {
		if season.InProgress() {
			out = append(out, *s.copyOf(season))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeSeasonStore) AddGambler(_ context.Context, seasonID int, gambler models.Gambler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	season, ok := s.seasons[seasonID]
	if !ok {
		return database.ErrNotFound
	}
	season.Gamblers = append(season.Gamblers, gambler)
	return nil
}

func (s *fakeSeasonStore) SetState(_ context.Context, seasonID int, state models.GamblingSeasonState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	season, ok := s.seasons[seasonID]
	if !ok {
		return database.ErrNotFound
	}
	season.State = state
	return nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[int]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[int]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, user.Username) {
			return database.ErrDuplicate
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.ToSafeUser())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeSequence numbers every sequence from 1000 so ids never collide with fixtures
type fakeSequence struct {
	mu   sync.Mutex
	next map[string]int
}

func newFakeSequence() *fakeSequence {
	return &fakeSequence{next: make(map[string]int)}
}

func (s *fakeSequence) Next(_ context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next[name] == 0 {
		s.next[name] = 1000
	}
	s.next[name]++
	return s.next[name], nil
}

type fakeTargets struct {
	mu      sync.Mutex
	targets map[string]models.PropBetTarget
}

func newFakeTargets() *fakeTargets {
	return &fakeTargets{targets: make(map[string]models.PropBetTarget)}
}

func (f *fakeTargets) GetOrCreate(_ context.Context, target models.PropBetTarget) (models.PropBetTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.targets[target.Identifier]; ok {
		return existing, nil
	}
	target.ID = len(f.targets) + 1
	f.targets[target.Identifier] = target
	return target, nil
}

type fakeSnapshots struct {
	mu    sync.Mutex
	saved []models.StandingsSnapshot
}

func (f *fakeSnapshots) Save(_ context.Context, snapshot *models.StandingsSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, *snapshot)
	return nil
}

func (f *fakeSnapshots) Latest(_ context.Context, seasonID int) (*models.StandingsSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].SeasonID == seasonID {
			snapshot := f.saved[i]
			return &snapshot, nil
		}
	}
	return nil, database.ErrNotFound
}

// Fixture roster: season 1 has four gamblers. Gambler 11 belongs to user 1,
// 12 to user 2 and so on.
const (
	testSeasonID = 1
	outsiderID   = 99
)

func testSeason() *models.GamblingSeason {
	season := &models.GamblingSeason{
		ID:    testSeasonID,
		Year:  2025,
		Name:  "2025 Season",
		State: models.SeasonInProgress,
	}
	for _, name := range []string{"Alex", "Blake", "Casey", "Drew"} {
		n := len(season.Gamblers) + 1
		season.Gamblers = append(season.Gamblers, models.Gambler{
			ID:        10 + n,
			UserID:    n,
			SeasonID:  testSeasonID,
			FirstName: name,
		})
	}
	return season
}

func testPick(id, gamblerID int, result models.PickResult) models.Pick {
	pick := models.Pick{
		ID:        id,
		GamblerID: gamblerID,
		Target:    models.PropBetTarget{ID: id, Identifier: fmt.Sprintf("player-%d", id), TeamName: "SF"},
		PropType:  models.PropRushYards,
		Direction: models.DirectionOver,
		Line:      49.5,
	}
	if result != "" {
		r := result
		pick.Result = &r
	}
	return pick
}

func testParlay(id, order int, state models.ParlayState, picks ...models.Pick) *models.Parlay {
	p := &models.Parlay{
		ID:              id,
		SeasonID:        testSeasonID,
		OwnerID:         11,
		SlateType:       models.SlateSNF,
		CompetitionDate: "2025-09-14",
		State:           state,
		Order:           order,
		Picks:           picks,
	}
	for i := range p.Picks {
		p.Picks[i].ParlayID = id
	}
	return p
}

func closedParlay(id, order int, result models.ParlayResult, picks ...models.Pick) *models.Parlay {
	p := testParlay(id, order, models.ParlayClosed, picks...)
	r := result
	p.Result = &r
	return p
}

type harness struct {
	parlays   *fakeParlayStore
	seasons   *fakeSeasonStore
	users     *fakeUserStore
	ids       *fakeSequence
	targets   *fakeTargets
	snapshots *fakeSnapshots
	cache     *MemoryPerformanceCache
}

func newHarness(parlays ...*models.Parlay) *harness {
	return &harness{
		parlays:   newFakeParlayStore(parlays...),
		seasons:   newFakeSeasonStore(testSeason()),
		users:     newFakeUserStore(),
		ids:       newFakeSequence(),
		targets:   newFakeTargets(),
		snapshots: &fakeSnapshots{},
		cache:     NewMemoryPerformanceCache(0),
	}
}

func (h *harness) parlayService() *ParlayService {
	return NewParlayService(h.parlays, h.seasons, h.ids, h.targets, h.cache, NewMetrics(), ParlayOptions{})
}

func (h *harness) pickService() *PickService {
	return NewPickService(h.parlays, h.seasons, h.ids, h.targets, h.cache, nil, 0)
}

func (h *harness) vetoService() *VetoService {
	return NewVetoService(h.parlays, h.seasons, h.ids, h.cache, nil, 0)
}

func (h *harness) seasonService() *SeasonService {
	return NewSeasonService(h.seasons, h.parlays, h.users, h.ids, h.snapshots, nil, h.cache, NewChartService(), nil)
}
