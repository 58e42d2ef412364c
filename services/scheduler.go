package services

import (
	"context"
	"fmt"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/logging"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 30 * time.Minute

// SchedulerConfig names the cron specs (with seconds) for periodic jobs. An
// empty spec leaves that job unscheduled.
type SchedulerConfig struct {
	BackupSpec    string
	StandingsSpec string
}

// Scheduler runs backups and standings snapshots on cron schedules
type Scheduler struct {
	cron    *cron.Cron
	backups *BackupService
	seasons *SeasonService
	metrics *Metrics
	logger  *logging.Logger
}

// NewScheduler registers the configured jobs. backups or seasons may be nil
// to skip their job.
func NewScheduler(config SchedulerConfig, backups *BackupService, seasons *SeasonService, metrics *Metrics) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		backups: backups,
		seasons: seasons,
		metrics: metrics,
		logger:  logging.WithPrefix("Scheduler"),
	}

	if backups != nil && config.BackupSpec != "" {
		if _, err := s.cron.AddFunc(config.BackupSpec, s.runBackup); err != nil {
			return nil, fmt.Errorf("invalid backup schedule %q: %w", config.BackupSpec, err)
		}
		s.logger.Infof("Backups scheduled with %q", config.BackupSpec)
	}
	if seasons != nil && config.StandingsSpec != "" {
		if _, err := s.cron.AddFunc(config.StandingsSpec, s.runSnapshots); err != nil {
			return nil, fmt.Errorf("invalid standings schedule %q: %w", config.StandingsSpec, err)
		}
		s.logger.Infof("Standings snapshots scheduled with %q", config.StandingsSpec)
	}
	return s, nil
}

// Jobs reports how many jobs are registered
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or for ctx to end
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out with jobs still running")
	}
}

func (s *Scheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	_, err := s.backups.CreateBackup(ctx)
	s.metrics.backupRun(err)
	if err != nil {
		s.logger.Errorf("Scheduled backup failed: %v", err)
		return
	}
	if _, err := s.backups.CleanupOldBackups(); err != nil {
		s.logger.Errorf("Backup cleanup failed: %v", err)
	}
}

func (s *Scheduler) runSnapshots() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.seasons.SnapshotStandings(ctx); err != nil {
		s.logger.Errorf("Standings snapshot failed: %v", err)
	}
}
