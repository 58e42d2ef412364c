package config

import (
	"fmt"
	"net/http"
	"os"

	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/logging"
	"github.com/GabeSucich/elmo-fire-bets-backend/services"

	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
)

// ToDatabaseConfig converts Config to database.Config
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		Username: c.Database.Username,
		Password: c.Database.Password,
		Database: c.Database.Database,
		Timeout:  c.Database.Timeout,
	}
}

// ToLoggingConfig converts Config to logging.Config
func (c *Config) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:       c.Logging.Level,
		Output:      os.Stdout,
		Prefix:      c.Logging.Prefix,
		EnableColor: c.Logging.EnableColor,
	}
}

// ToBackupConfig converts Config to services.BackupConfig
func (c *Config) ToBackupConfig() services.BackupConfig {
	return services.BackupConfig{
		BackupDir:     c.Backup.BackupDir,
		RetentionDays: c.Backup.RetentionDays,
	}
}

// ToRedisOptions parses the Redis URL into client options
func (c *Config) ToRedisOptions() (*redis.Options, error) {
	opts, err := redis.ParseURL(c.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return opts, nil
}

// ToCORSOptions converts Config to the CORS middleware options
func (c *Config) ToCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: c.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch,
			http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: c.CORS.AllowCredentials,
		MaxAge:           c.CORS.MaxAge,
	}
}
