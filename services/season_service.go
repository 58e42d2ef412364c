package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/logging"
	"github.com/GabeSucich/elmo-fire-bets-backend/metrics"
	"github.com/GabeSucich/elmo-fire-bets-backend/models"
	"github.com/GabeSucich/elmo-fire-bets-backend/scoring"

	"golang.org/x/sync/singleflight"
)

// SeasonSummary is one row of the user's season list
type SeasonSummary struct {
	ID        int                        `json:"id"`
	GamblerID int                        `json:"gambler_id"`
	Name      string                     `json:"name"`
	Year      int                        `json:"year"`
	State     models.GamblingSeasonState `json:"state"`
}

// SeasonDetail is a season as seen by one of its gamblers
type SeasonDetail struct {
	ID        int                        `json:"id"`
	GamblerID int                        `json:"gambler_id"`
	Name      string                     `json:"name"`
	Year      int                        `json:"year"`
	State     models.GamblingSeasonState `json:"state"`
	Gamblers  map[int]models.Gambler     `json:"gamblers"`
}

// SeasonService serves season rosters and season analytics
type SeasonService struct {
	seasons   SeasonStore
	parlays   ParlayStore
	users     UserStore
	ids       IDSequence
	snapshots SnapshotStore
	registry  *scoring.Registry
	cache     PerformanceCache
	charts    *ChartService
	metrics   *Metrics
	group     singleflight.Group
	now       func() time.Time
	logger    *logging.Logger
}

func NewSeasonService(
	seasons SeasonStore,
	parlays ParlayStore,
	users UserStore,
	ids IDSequence,
	snapshots SnapshotStore,
	registry *scoring.Registry,
	cache PerformanceCache,
	charts *ChartService,
	metrics *Metrics,
) *SeasonService {
	if registry == nil {
		registry = scoring.DefaultRegistry()
	}
	return &SeasonService{
		seasons:   seasons,
		parlays:   parlays,
		users:     users,
		ids:       ids,
		snapshots: snapshots,
		registry:  registry,
		cache:     cache,
		charts:    charts,
		metrics:   metrics,
		now:       time.Now,
		logger:    logging.WithPrefix("SeasonService"),
	}
}

func (s *SeasonService) memberSeason(ctx context.Context, userID, seasonID int) (*models.GamblingSeason, models.Gambler, error) {
	season, err := s.seasons.Get(ctx, seasonID)
	if err != nil {
		return nil, models.Gambler{}, err
	}
	gambler, err := requireMember(season, userID)
	if err != nil {
		return nil, models.Gambler{}, err
	}
	return season, gambler, nil
}

// ListForUser returns every season the user gambles in
func (s *SeasonService) ListForUser(ctx context.Context, userID int) ([]SeasonSummary, error) {
	seasons, err := s.seasons.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]SeasonSummary, 0, len(seasons))
	for _, season := range seasons {
		gambler, ok := season.GamblerForUser(userID)
		if !ok {
			continue
		}
		out = append(out, SeasonSummary{
			ID:        season.ID,
			GamblerID: gambler.ID,
			Name:      season.Name,
			Year:      season.Year,
			State:     season.State,
		})
	}
	return out, nil
}

// Get returns the season with its roster keyed by gambler id
func (s *SeasonService) Get(ctx context.Context, userID, seasonID int) (*SeasonDetail, error) {
	season, gambler, err := s.memberSeason(ctx, userID, seasonID)
	if err != nil {
		return nil, err
	}
	roster := make(map[int]models.Gambler, len(season.Gamblers))
	for _, g := range season.Gamblers {
		roster[g.ID] = g
	}
	return &SeasonDetail{
		ID:        season.ID,
		GamblerID: gambler.ID,
		Name:      season.Name,
		Year:      season.Year,
		State:     season.State,
		Gamblers:  roster,
	}, nil
}

// Performances scores every gambler in the season
func (s *SeasonService) Performances(ctx context.Context, userID, seasonID int) (map[int]scoring.GamblerPerformance, error) {
	season, _, err := s.memberSeason(ctx, userID, seasonID)
	if err != nil {
		return nil, err
	}
	return s.performances(ctx, season)
}

// GamblerMetrics returns the full metric breakdown for one gambler
func (s *SeasonService) GamblerMetrics(ctx context.Context, userID, seasonID, gamblerID int) (metrics.GamblerAdvancedMetrics, error) {
	season, _, err := s.memberSeason(ctx, userID, seasonID)
	if err != nil {
		return metrics.GamblerAdvancedMetrics{}, err
	}
	if !season.HasGambler(gamblerID) {
		return metrics.GamblerAdvancedMetrics{}, fmt.Errorf("gambler %d in season %d: %w", gamblerID, seasonID, database.ErrNotFound)
	}
	parlays, err := s.parlays.AllForSeason(ctx, seasonID)
	if err != nil {
		return metrics.GamblerAdvancedMetrics{}, err
	}
	started := time.Now()
	advanced := metrics.CalculatorFromParlays(gamblerID, parlays).AdvancedMetrics()
	s.metrics.observeCompute("gambler_metrics", started)
	return advanced, nil
}

// TimeSeries replays the season and returns every gambler's trajectory
func (s *SeasonService) TimeSeries(ctx context.Context, userID, seasonID int) (map[int][]scoring.TimeSeriesDatum, error) {
	season, _, err := s.memberSeason(ctx, userID, seasonID)
	if err != nil {
		return nil, err
	}
	return s.timeSeries(ctx, season)
}

// TimeSeriesChart renders the season's time series as a PNG
func (s *SeasonService) TimeSeriesChart(ctx context.Context, userID, seasonID int) ([]byte, error) {
	season, _, err := s.memberSeason(ctx, userID, seasonID)
	if err != nil {
		return nil, err
	}
	series, err := s.timeSeries(ctx, season)
	if err != nil {
		return nil, err
	}
	return s.charts.RenderTimeSeries(series, season.GamblerNames())
}

func (s *SeasonService) performances(ctx context.Context, season *models.GamblingSeason) (map[int]scoring.GamblerPerformance, error) {
	return cachedCompute(ctx, s, season, cacheKindPerformances, func(parlays []models.Parlay) map[int]scoring.GamblerPerformance {
		return scoring.SeasonPerformances(season.GamblerIDs(), parlays, s.registry.For(season.Year))
	})
}

func (s *SeasonService) timeSeries(ctx context.Context, season *models.GamblingSeason) (map[int][]scoring.TimeSeriesDatum, error) {
	return cachedCompute(ctx, s, season, cacheKindTimeSeries, func(parlays []models.Parlay) map[int][]scoring.TimeSeriesDatum {
		return scoring.TimeSeries(season.GamblerIDs(), parlays, s.registry.For(season.Year))
	})
}

// cachedCompute serves kind from the cache, or replays the season once for
// all concurrent callers and stores the result. The generation is read before
// the parlays are loaded, so a write that lands mid-computation makes the
// result uncacheable.
func cachedCompute[T any](ctx context.Context, s *SeasonService, season *models.GamblingSeason, kind string, compute func([]models.Parlay) T) (T, error) {
	var (
		cached T
		gen    int64
	)
	cacheable := s.cache != nil
	if cacheable {
		var err error
		if gen, err = s.cache.Generation(ctx, season.ID); err != nil {
			s.logger.Warnf("Analytics cache generation read failed for season %d: %v", season.ID, err)
			cacheable = false
		}
	}
	if cacheable {
		hit, err := s.cache.Get(ctx, season.ID, gen, kind, &cached)
		if err != nil {
			s.logger.Warnf("Analytics cache read failed for season %d: %v", season.ID, err)
		}
		s.metrics.cacheLookup(hit)
		if hit {
			return cached, nil
		}
	}

	v, err, shared := s.group.Do(cacheKey(season.ID, gen, kind), func() (interface{}, error) {
		parlays, err := s.parlays.AllForSeason(ctx, season.ID)
		if err != nil {
			return nil, err
		}
		started := time.Now()
		result := compute(parlays)
		s.metrics.observeCompute(kind, started)

		if cacheable {
			if err := s.cache.Set(ctx, season.ID, gen, kind, result); err != nil {
				s.logger.Warnf("Analytics cache write failed for season %d: %v", season.ID, err)
			}
		}
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		s.logger.Debugf("Shared %s computation for season %d", kind, season.ID)
	}
	return v.(T), nil
}

// Standings ranks the season's gamblers by corrected score
func (s *SeasonService) Standings(ctx context.Context, seasonID int) (*models.GamblingSeason, []models.StandingEntry, error) {
	season, err := s.seasons.Get(ctx, seasonID)
	if err != nil {
		return nil, nil, err
	}
	perf, err := s.performances(ctx, season)
	if err != nil {
		return nil, nil, err
	}
	return season, standingsFrom(season, perf), nil
}

func standingsFrom(season *models.GamblingSeason, perf map[int]scoring.GamblerPerformance) []models.StandingEntry {
	names := season.GamblerNames()
	entries := make([]models.StandingEntry, 0, len(perf))
	for id, p := range perf {
		entries = append(entries, models.StandingEntry{
			GamblerID:      id,
			Name:           names[id],
			CorrectedScore: p.CorrectedScore,
			WinRate:        p.Metrics.Overall.WinRate,
			Picks:          p.Metrics.Overall.Total,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CorrectedScore != entries[j].CorrectedScore {
			return entries[i].CorrectedScore > entries[j].CorrectedScore
		}
		return entries[i].GamblerID < entries[j].GamblerID
	})
	return entries
}

// SnapshotStandings stores the current standings of every In Progress season
func (s *SeasonService) SnapshotStandings(ctx context.Context) (int, error) {
	seasons, err := s.seasons.ListInProgress(ctx)
	if err != nil {
		return 0, err
	}
	taken := 0
	for i := range seasons {
		season := &seasons[i]
		perf, err := s.performances(ctx, season)
		if err != nil {
			s.logger.Errorf("Failed to score season %d for snapshot: %v", season.ID, err)
			continue
		}
		snapshot := &models.StandingsSnapshot{
			SeasonID: season.ID,
			Year:     season.Year,
			Entries:  standingsFrom(season, perf),
			TakenAt:  s.now(),
		}
		if err := s.snapshots.Save(ctx, snapshot); err != nil {
			s.logger.Errorf("Failed to save standings snapshot for season %d: %v", season.ID, err)
			continue
		}
		taken++
	}
	s.logger.Infof("Took %d standings snapshots across %d active seasons", taken, len(seasons))
	return taken, nil
}

// LatestSnapshot returns the most recent stored standings for the season
func (s *SeasonService) LatestSnapshot(ctx context.Context, seasonID int) (*models.StandingsSnapshot, error) {
	return s.snapshots.Latest(ctx, seasonID)
}

// Create opens a new season with an empty roster
func (s *SeasonService) Create(ctx context.Context, year int, name string) (*models.GamblingSeason, error) {
	if year < 2000 {
		return nil, invalid("implausible season year %d", year)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("%d Season", year)
	}
	id, err := s.ids.Next(ctx, database.SeqSeasons)
	if err != nil {
		return nil, err
	}
	season := &models.GamblingSeason{
		ID:       id,
		Year:     year,
		Name:     name,
		State:    models.SeasonInProgress,
		Gamblers: []models.Gambler{},
	}
	if err := s.seasons.Create(ctx, season); err != nil {
		return nil, err
	}
	s.logger.Infof("Created season %d (%s)", season.ID, season.Name)
	return season, nil
}

// AddGambler seats a user in the season
func (s *SeasonService) AddGambler(ctx context.Context, seasonID, userID int) (*models.Gambler, error) {
	season, err := s.seasons.Get(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if err := requireInProgress(season); err != nil {
		return nil, err
	}
	if _, ok := season.GamblerForUser(userID); ok {
		return nil, fmt.Errorf("user %d in season %d: %w", userID, seasonID, database.ErrDuplicate)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	id, err := s.ids.Next(ctx, database.SeqGamblers)
	if err != nil {
		return nil, err
	}
	gambler := models.Gambler{
		ID:        id,
		UserID:    user.ID,
		SeasonID:  seasonID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if err := s.seasons.AddGambler(ctx, seasonID, gambler); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, seasonID); err != nil {
			s.logger.Warnf("Failed to invalidate analytics cache for season %d: %v", seasonID, err)
		}
	}
	return &gambler, nil
}

// Complete freezes the season against further changes
func (s *SeasonService) Complete(ctx context.Context, seasonID int) error {
	if err := s.seasons.SetState(ctx, seasonID, models.SeasonComplete); err != nil {
		return err
	}
	s.logger.Infof("Season %d marked complete", seasonID)
	return nil
}
