package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/hmalvik/matchflow/internal/engine"
	"github.com/hmalvik/matchflow/internal/service"
	"github.com/hmalvik/matchflow/internal/storage"
)

// databasePath resolves the database location from config, falling back to
// the standard data directory.
func databasePath() (string, error) {
	if dbPath := viper.GetString("database.path"); dbPath != "" {
		return os.ExpandEnv(dbPath), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "matchflow", "matchflow.db"), nil
}

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath, err := databasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// engineConfig builds the engine configuration, letting config keys override
// individual matching parameters.
func engineConfig() engine.Config {
	cfg := engine.DefaultConfig()

	if viper.IsSet("matching.min_confidence") {
		cfg.Matching.MinConfidence = viper.GetFloat64("matching.min_confidence")
	}
	if viper.IsSet("matching.auto_apply_threshold") {
		cfg.Matching.AutoApplyThreshold = viper.GetFloat64("matching.auto_apply_threshold")
	}
	if viper.IsSet("matching.name_match_threshold") {
		cfg.Matching.NameMatchThreshold = viper.GetFloat64("matching.name_match_threshold")
	}
	if viper.IsSet("matching.partial_match") {
		cfg.Matching.PartialMatch = viper.GetBool("matching.partial_match")
	}
	if viper.IsSet("matching.pool_limit") {
		cfg.PoolLimit = viper.GetInt("matching.pool_limit")
	}

	return cfg
}
