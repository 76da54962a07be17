package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/grantwatch/grantcuts/internal/config"
	"github.com/grantwatch/grantcuts/internal/storage"
)

// openStorage opens the configured SQLite database.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}
	return store, nil
}

// parseCutoff parses a YYYY-MM-DD cutoff date override.
func parseCutoff(value string) (time.Time, error) {
	cutoff, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cutoff date %q (want YYYY-MM-DD): %w", value, err)
	}
	return cutoff, nil
}
