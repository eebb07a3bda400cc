// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/leaguectl.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// League constants, kept in sync with the schema in internal/db/migrate.go
// --------------------------------------------------------------------------

const (
	PlayersTable       = "players"
	SeasonsTable       = "seasons"
	SeasonPlayersTable = "season_players"
	MatchesTable       = "matches"
)

// DefaultLossFee is the fee charged per lost match, in currency minor units,
// when the match's season carries no override.
const DefaultLossFee = 20000

// DefaultFormLength is how many recent outcomes the ranking table shows
// per player.
const DefaultFormLength = 5

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
	TTLLifetime  time.Duration // lifetime rankings
	TTLSeason    time.Duration // per-season rankings
	TTLDate      time.Duration // single-day rankings

	// Ranking policy
	LossFee     int64 // default fee per lost match, minor units
	FormLength  int   // recent outcomes shown per player
	WarmupDelay time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", envOr("LEAGUE_DATABASE_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or LEAGUE_DATABASE_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		TTLLifetime:  time.Duration(envInt("CACHE_TTL_LIFETIME_SECONDS", 600)) * time.Second,
		TTLSeason:    time.Duration(envInt("CACHE_TTL_SEASON_SECONDS", 180)) * time.Second,
		TTLDate:      time.Duration(envInt("CACHE_TTL_DATE_SECONDS", 900)) * time.Second,

		LossFee:     int64(envInt("LOSS_FEE", DefaultLossFee)),
		FormLength:  envInt("FORM_LENGTH", DefaultFormLength),
		WarmupDelay: time.Duration(envInt("WARMUP_DELAY_MS", 1500)) * time.Millisecond,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
