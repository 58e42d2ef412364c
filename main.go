package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/GabeSucich/elmo-fire-bets-backend/config"
	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/handlers"
	"github.com/GabeSucich/elmo-fire-bets-backend/logging"
	"github.com/GabeSucich/elmo-fire-bets-backend/services"

	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())
	logger := logging.WithPrefix("Main")
	cfg.LogConfiguration()

	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		logger.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	repos := database.NewRepositories(db)
	indexCtx, cancel := database.WithMediumTimeout()
	if err := repos.EnsureIndexes(indexCtx); err != nil {
		cancel()
		logger.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancel()

	var cache services.PerformanceCache
	if cfg.IsRedisConfigured() {
		opts, err := cfg.ToRedisOptions()
		if err != nil {
			logger.Fatalf("Invalid Redis configuration: %v", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		cache = services.NewRedisPerformanceCache(client, cfg.Redis.CacheTTL)
		logger.Infof("Performance cache: redis (ttl %s)", cfg.Redis.CacheTTL)
	} else {
		cache = services.NewMemoryPerformanceCache(cfg.Redis.CacheTTL)
		logger.Infof("Performance cache: in-memory (ttl %s)", cfg.Redis.CacheTTL)
	}

	metrics := services.NewMetrics()
	authService := services.NewAuthService(repos.Users, repos.Counters, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	parlayService := services.NewParlayService(repos.Parlays, repos.Seasons, repos.Counters, repos.PropTargets, cache, metrics,
		services.ParlayOptions{SeasonScopedOrder: cfg.SeasonScopedOrder(), MaxWriteRetries: cfg.App.MaxWriteRetries})
	pickService := services.NewPickService(repos.Parlays, repos.Seasons, repos.Counters, repos.PropTargets, cache, metrics, cfg.App.MaxWriteRetries)
	vetoService := services.NewVetoService(repos.Parlays, repos.Seasons, repos.Counters, cache, metrics, cfg.App.MaxWriteRetries)
	seasonService := services.NewSeasonService(repos.Seasons, repos.Parlays, repos.Users, repos.Counters, repos.Snapshots,
		nil, cache, services.NewChartService(), metrics)

	var backupService *services.BackupService
	schedulerConfig := services.SchedulerConfig{}
	if cfg.Backup.Enabled {
		backupService = services.NewBackupService(db, cfg.ToBackupConfig())
		schedulerConfig.BackupSpec = cfg.Backup.Schedule
	}
	if cfg.Scheduler.Enabled && cfg.Scheduler.SnapshotsEnabled {
		schedulerConfig.StandingsSpec = cfg.Scheduler.StandingsSpec
	}
	scheduler, err := services.NewScheduler(schedulerConfig, backupService, seasonService, metrics)
	if err != nil {
		logger.Fatalf("Failed to configure scheduler: %v", err)
	}
	scheduler.Start()

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:         authService,
		Parlays:      parlayService,
		Picks:        pickService,
		Vetoes:       vetoService,
		Seasons:      seasonService,
		Health:       db,
		Registry:     metrics.Registry(),
		TokenTTL:     cfg.Auth.TokenTTL,
		CookieSecure: cfg.Auth.CookieSecure,
		BehindProxy:  cfg.Server.BehindProxy,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      cors.Handler(cfg.ToCORSOptions())(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on %s", server.Addr)
		if cfg.Server.UseTLS && !cfg.Server.BehindProxy {
			serverErr <- server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
			return
		}
		serverErr <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Infof("Received %s, shutting down", sig)
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	scheduler.Stop(ctx)
	logger.Info("Server stopped")
}
