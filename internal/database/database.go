// Package database opens the configured trailer store.
package database

import (
	"fmt"
	"time"

	"trailerstore/internal/config"
	"trailerstore/internal/models"
	"trailerstore/internal/repositories"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to a SQL database. The memory driver has no connection and is rejected.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DriverSQLite:
		dialector = SQLiteDialector(cfg.DSN)
	default:
		return nil, fmt.Errorf("driver %q has no SQL connection", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.Driver == config.DriverPostgres {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// Migrate creates or updates the trailers table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Trailer{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// Store is an open trailer repository and the function that releases it.
type Store struct {
	Repo  repositories.TrailerRepository
	DB    *gorm.DB // nil for the memory driver
	close func() error
}

// Close releases the underlying connection, if any.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewStore opens the repository selected by cfg. SQL stores are migrated when migrate is set.
func NewStore(cfg config.DatabaseConfig, migrate bool) (*Store, error) {
	if cfg.Driver == config.DriverMemory {
		return &Store{Repo: repositories.NewMockTrailerRepository()}, nil
	}

	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return newSQLStore(db, migrate)
}

// newSQLStore wraps an open connection. The connection is closed if migration fails.
func newSQLStore(db *gorm.DB, migrate bool) (*Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if migrate {
		if err := Migrate(db); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}
	return &Store{
		Repo:  repositories.NewGORMTrailerRepository(db),
		DB:    db,
		close: sqlDB.Close,
	}, nil
}
