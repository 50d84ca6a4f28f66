package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TmdbAPIKey    string
	TmdbImageBase string

	// NATS
	NatsURL string

	// Sync batch policy
	SyncCutoffDays int // Records older than this many days are stale (default: 180)
	SyncBatchLimit int // Max records scheduled per kind per batch (default: 200)

	// Delay window for spreading refresh traffic
	SyncDelayMin time.Duration // default: 2 minutes
	SyncDelayMax time.Duration // default: 1 hour

	// Workers
	SyncWorkers int // Concurrent sync workers (default: 2)

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/catalogarr.db

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("TMDB_IMAGE_BASE", "http://image.tmdb.org/t/p/w500")
	viper.SetDefault("NATS_URL", "nats://127.0.0.1:4222")
	viper.SetDefault("SYNC_CUTOFF_DAYS", 180)
	viper.SetDefault("SYNC_BATCH_LIMIT", 200)
	viper.SetDefault("SYNC_DELAY_MIN_SECONDS", 120)
	viper.SetDefault("SYNC_DELAY_MAX_SECONDS", 3600)
	viper.SetDefault("SYNC_WORKERS", 2)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "catalogarr")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// TMDB
		TmdbAPIKey:    viper.GetString("TMDB_API_KEY"),
		TmdbImageBase: viper.GetString("TMDB_IMAGE_BASE"),

		// NATS
		NatsURL: viper.GetString("NATS_URL"),

		// Sync batch policy
		SyncCutoffDays: viper.GetInt("SYNC_CUTOFF_DAYS"),
		SyncBatchLimit: viper.GetInt("SYNC_BATCH_LIMIT"),

		// Delay window
		SyncDelayMin: time.Duration(viper.GetInt("SYNC_DELAY_MIN_SECONDS")) * time.Second,
		SyncDelayMax: time.Duration(viper.GetInt("SYNC_DELAY_MAX_SECONDS")) * time.Second,

		// Workers
		SyncWorkers: viper.GetInt("SYNC_WORKERS"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "catalogarr.db"),

		// Logging
		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),
	}

	// Validate required fields
	if config.TmdbAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	if config.SyncDelayMin <= 0 || config.SyncDelayMax < config.SyncDelayMin {
		return nil, fmt.Errorf("invalid sync delay window: min=%s max=%s", config.SyncDelayMin, config.SyncDelayMax)
	}
	if config.SyncWorkers < 1 {
		return nil, fmt.Errorf("SYNC_WORKERS must be at least 1, got %d", config.SyncWorkers)
	}

	return config, nil
}
