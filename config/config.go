package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. It is loaded once in main and
// passed explicitly into every component that needs it.
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string

	// Database configuration
	DatabaseURL string

	// OpenDota configuration
	OpenDotaAPIKey  string
	OpenDotaBaseURL string

	// Subject configuration
	TeamsFile string // JSON file mapping team names to OpenDota team IDs

	// Ledger configuration
	StartingBalance int64

	// Pipeline configuration
	Workers           int           // dispatcher worker count
	MaxInFlight       int           // max concurrent pipelines per worker
	QueueSize         int           // inbound bet queue depth
	MatchWaitTimeout  time.Duration // hard deadline for a new match to appear
	MatchPollInterval time.Duration // poll interval while waiting for a new match
	ParseTimeout      time.Duration // deadline for one parse request cycle
	ParsePollInterval time.Duration // poll interval while waiting for parse completion
	ParseAttempts     int           // fetch attempts before giving up

	// NATS configuration; outcome mirroring is disabled when empty
	NATSServers string

	// Metrics configuration; the /metrics listener is disabled when empty
	MetricsAddr string

	// Environment: "development", "production" or "test"
	Environment string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present (development convenience).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:    os.Getenv("DISCORD_TOKEN"),
		GuildID:         os.Getenv("GUILD_ID"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		OpenDotaAPIKey:  os.Getenv("OPENDOTA_API_KEY"),
		OpenDotaBaseURL: getEnvWithDefault("OPENDOTA_BASE_URL", "https://api.opendota.com/api"),
		TeamsFile:       getEnvWithDefault("TEAMS_FILE", "data/teams.json"),

		StartingBalance: getEnvInt64("STARTING_BALANCE", 5000),

		Workers:           getEnvInt("BET_WORKERS", 2),
		MaxInFlight:       getEnvInt("BET_MAX_IN_FLIGHT", 16),
		QueueSize:         getEnvInt("BET_QUEUE_SIZE", 256),
		MatchWaitTimeout:  getEnvDuration("MATCH_WAIT_TIMEOUT", 110*time.Minute),
		MatchPollInterval: getEnvDuration("MATCH_POLL_INTERVAL", 120*time.Second),
		ParseTimeout:      getEnvDuration("PARSE_TIMEOUT", 220*time.Second),
		ParsePollInterval: getEnvDuration("PARSE_POLL_INTERVAL", 20*time.Second),
		ParseAttempts:     getEnvInt("PARSE_ATTEMPTS", 5),

		NATSServers: os.Getenv("NATS_SERVERS"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if cfg.Environment != "test" {
		if cfg.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return cfg, nil
}

// NewTestConfig creates a minimal config suitable for unit tests.
func NewTestConfig() *Config {
	return &Config{
		Environment:       "test",
		StartingBalance:   5000,
		Workers:           1,
		MaxInFlight:       4,
		QueueSize:         16,
		MatchWaitTimeout:  time.Second,
		MatchPollInterval: 10 * time.Millisecond,
		ParseTimeout:      time.Second,
		ParsePollInterval: 10 * time.Millisecond,
		ParseAttempts:     2,
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
