package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"CAMPANA_DB_PATH" envDefault:"./data/campana.db"`
	SessionSecret string `env:"CAMPANA_SESSION_SECRET,required"`
	ServerHost    string `env:"CAMPANA_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CAMPANA_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"CAMPANA_ENV" envDefault:"development"`
	LogLevel      string `env:"CAMPANA_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"CAMPANA_UPLOADS_DIR" envDefault:"./uploads"`

	// Cache configuration
	RedisURL     string `env:"CAMPANA_REDIS_URL"`                         // Optional Redis URL for the content cache
	CachePrefix  string `env:"CAMPANA_CACHE_PREFIX" envDefault:"campana:"`
	CacheTTL     int    `env:"CAMPANA_CACHE_TTL" envDefault:"300"`        // Content cache TTL in seconds
	CacheMaxSize int    `env:"CAMPANA_CACHE_MAX_SIZE" envDefault:"1000"`  // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"CAMPANA_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Retention windows for background cleanup jobs
	ActivityRetentionDays int `env:"CAMPANA_ACTIVITY_RETENTION_DAYS" envDefault:"90"`
	VisitRetentionDays    int `env:"CAMPANA_VISIT_RETENTION_DAYS" envDefault:"365"`

	// Seeding configuration
	DoSeed        bool   `env:"CAMPANA_DO_SEED" envDefault:"false"`
	AdminEmail    string `env:"CAMPANA_ADMIN_EMAIL" envDefault:"admin@campana.local"`
	AdminPassword string `env:"CAMPANA_ADMIN_PASSWORD"` // Required when CAMPANA_DO_SEED=true
	AdminName     string `env:"CAMPANA_ADMIN_NAME" envDefault:"Administración"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("CAMPANA_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("CAMPANA_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.DoSeed && cfg.AdminPassword == "" {
		return nil, fmt.Errorf("CAMPANA_ADMIN_PASSWORD is required when CAMPANA_DO_SEED=true")
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CAMPANA_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
