package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/logging"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Parlay order scopes. Global numbers parlays across every season, season
// numbers them within their own season.
const (
	OrderScopeGlobal = "global"
	OrderScopeSeason = "season"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	Logging   LoggingConfig   `json:"logging"`
	Auth      AuthConfig      `json:"auth"`
	App       AppConfig       `json:"app"`
	Backup    BackupConfig    `json:"backup"`
	Scheduler SchedulerConfig `json:"scheduler"`
	CORS      CORSConfig      `json:"cors"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `json:"port"`
	Host            string        `json:"host"`
	UseTLS          bool          `json:"use_tls"`
	BehindProxy     bool          `json:"behind_proxy"`
	CertFile        string        `json:"cert_file"`
	KeyFile         string        `json:"key_file"`
	Environment     string        `json:"environment"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string        `json:"host"`
	Port     string        `json:"port"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Database string        `json:"database"`
	Timeout  time.Duration `json:"timeout"`
}

// RedisConfig holds the performance cache configuration. An empty URL
// disables Redis and the in-memory cache is used instead.
type RedisConfig struct {
	URL      string        `json:"url"`
	CacheTTL time.Duration `json:"cache_ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret    string        `json:"jwt_secret"`
	TokenTTL     time.Duration `json:"token_ttl"`
	CookieSecure bool          `json:"cookie_secure"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	CurrentSeason    int    `json:"current_season"`
	IsDevelopment    bool   `json:"is_development"`
	ParlayOrderScope string `json:"parlay_order_scope"`
	MaxWriteRetries  int    `json:"max_write_retries"`
}

// BackupConfig holds backup configuration
type BackupConfig struct {
	Enabled       bool   `json:"enabled"`
	BackupDir     string `json:"backup_dir"`
	Schedule      string `json:"schedule"`
	RetentionDays int    `json:"retention_days"`
}

// SchedulerConfig holds the periodic job configuration
type SchedulerConfig struct {
	Enabled          bool   `json:"enabled"`
	StandingsSpec    string `json:"standings_spec"`
	SnapshotsEnabled bool   `json:"snapshots_enabled"`
}

// CORSConfig holds cross-origin settings for the API
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// a missing .env is normal outside development
		logging.Warnf("Could not load .env file: %v", err)
	}

	environment := getEnv("ENVIRONMENT", "development")
	isDevelopment := strings.ToLower(environment) == "development"

	serverPort := getEnv("SERVER_PORT", "8080")
	if isDevelopment {
		if develPort := getEnv("DEVEL_SERVER_PORT", ""); develPort != "" {
			serverPort = develPort
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:            serverPort,
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			UseTLS:          getBoolEnv("USE_TLS", false),
			BehindProxy:     getBoolEnv("BEHIND_PROXY", false),
			CertFile:        getEnv("TLS_CERT_FILE", "server.crt"),
			KeyFile:         getEnv("TLS_KEY_FILE", "server.key"),
			Environment:     environment,
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "elmo_fire_bets"),
			Timeout:  getDurationEnv("DB_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			CacheTTL: getDurationEnv("PERFORMANCE_CACHE_TTL", 10*time.Minute),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Prefix:      getEnv("LOG_PREFIX", ""),
			EnableColor: getBoolEnv("LOG_COLOR", true),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", defaultJWTSecret),
			TokenTTL:     getDurationEnv("JWT_TTL", 24*time.Hour),
			CookieSecure: getBoolEnv("AUTH_COOKIE_SECURE", !isDevelopment),
		},
		App: AppConfig{
			CurrentSeason:    getIntEnv("CURRENT_SEASON", 2025),
			IsDevelopment:    isDevelopment,
			ParlayOrderScope: strings.ToLower(getEnv("PARLAY_ORDER_SCOPE", OrderScopeGlobal)),
			MaxWriteRetries:  getIntEnv("MAX_WRITE_RETRIES", 5),
		},
		Backup: BackupConfig{
			Enabled:       getBoolEnv("BACKUP_ENABLED", true),
			BackupDir:     getEnv("BACKUP_DIR", "./backups"),
			Schedule:      getEnv("BACKUP_SCHEDULE", "0 0 2 * * *"),
			RetentionDays: getIntEnv("BACKUP_RETENTION_DAYS", 30),
		},
		Scheduler: SchedulerConfig{
			Enabled:          getBoolEnv("SCHEDULER_ENABLED", true),
			StandingsSpec:    getEnv("STANDINGS_SNAPSHOT_SCHEDULE", "0 0 6 * * *"),
			SnapshotsEnabled: getBoolEnv("STANDINGS_SNAPSHOTS_ENABLED", true),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getListEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getIntEnv("CORS_MAX_AGE", 300),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Server.UseTLS && !c.Server.BehindProxy {
		if c.Server.CertFile == "" || c.Server.KeyFile == "" {
			return fmt.Errorf("TLS certificate and key files are required when USE_TLS=true")
		}
		if _, err := os.Stat(c.Server.CertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file not found: %s", c.Server.CertFile)
		}
		if _, err := os.Stat(c.Server.KeyFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS key file not found: %s", c.Server.KeyFile)
		}
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("database port is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.JWTSecret == defaultJWTSecret && !c.App.IsDevelopment {
		return fmt.Errorf("JWT secret must be changed in production")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT TTL must be positive, got: %s", c.Auth.TokenTTL)
	}

	switch c.App.ParlayOrderScope {
	case OrderScopeGlobal, OrderScopeSeason:
	default:
		return fmt.Errorf("PARLAY_ORDER_SCOPE must be %q or %q, got: %q", OrderScopeGlobal, OrderScopeSeason, c.App.ParlayOrderScope)
	}
	if c.App.MaxWriteRetries < 1 {
		return fmt.Errorf("MAX_WRITE_RETRIES must be at least 1, got: %d", c.App.MaxWriteRetries)
	}

	if c.Backup.Enabled && c.Backup.BackupDir == "" {
		return fmt.Errorf("backup directory is required when backups are enabled")
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsRedisConfigured reports whether the performance cache should use Redis
func (c *Config) IsRedisConfigured() bool {
	return c.Redis.URL != ""
}

// SeasonScopedOrder reports whether new parlays are numbered per season
func (c *Config) SeasonScopedOrder() bool {
	return c.App.ParlayOrderScope == OrderScopeSeason
}

// LogConfiguration logs the current configuration (without sensitive data)
func (c *Config) LogConfiguration() {
	logging.Info("=== Application Configuration ===")
	logging.Infof("Server: %s (TLS: %t, Behind Proxy: %t, Environment: %s)",
		c.GetServerAddress(), c.Server.UseTLS, c.Server.BehindProxy, c.Server.Environment)
	logging.Infof("Database: %s:%s/%s (Username: %s, Auth: %t)",
		c.Database.Host, c.Database.Port, c.Database.Database,
		c.Database.Username, c.Database.Password != "")
	logging.Infof("Redis: Configured=%t, TTL=%s", c.IsRedisConfigured(), c.Redis.CacheTTL)
	logging.Infof("Logging: Level=%s, Prefix=%s, Color=%t",
		c.Logging.Level, c.Logging.Prefix, c.Logging.EnableColor)
	logging.Infof("App: Season=%d, Development=%t, OrderScope=%s, WriteRetries=%d",
		c.App.CurrentSeason, c.App.IsDevelopment, c.App.ParlayOrderScope, c.App.MaxWriteRetries)
	logging.Infof("Backup: Enabled=%t, Dir=%s, Schedule=%q, Retention=%d days",
		c.Backup.Enabled, c.Backup.BackupDir, c.Backup.Schedule, c.Backup.RetentionDays)
	logging.Infof("Scheduler: Enabled=%t, Standings=%q (snapshots %t)",
		c.Scheduler.Enabled, c.Scheduler.StandingsSpec, c.Scheduler.SnapshotsEnabled)
	logging.Infof("CORS: Origins=%v, Credentials=%t", c.CORS.AllowedOrigins, c.CORS.AllowCredentials)
	logging.Info("================================")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated value, dropping blanks
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
