package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/Pesokrava/review_moderation/internal/config"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
)

// NewPostgresDB opens a pooled PostgreSQL connection and pings it
func NewPostgresDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// WaitForDB retries NewPostgresDB until it succeeds or maxRetries is reached
func WaitForDB(cfg *config.Config, log *logger.Logger, maxRetries int, retryDelay time.Duration) (*sqlx.DB, error) {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		var db *sqlx.DB
		db, err = NewPostgresDB(cfg)
		if err == nil {
			return db, nil
		}

		log.WithFields(map[string]any{
			"attempt":     attempt,
			"max_retries": maxRetries,
			"host":        cfg.Database.Host,
		}).Warnf("Database not ready: %v", err)

		if attempt < maxRetries {
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d retries: %w", maxRetries, err)
}
