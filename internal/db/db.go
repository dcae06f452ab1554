// Package db opens and migrates the ledger database.
package db

import (
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/config"
	"github.com/splitledger/splitledger/internal/db/dsn"
	"github.com/splitledger/splitledger/internal/db/models"
	"github.com/splitledger/splitledger/internal/logger/adapter/gormlogger"
)

// ErrConfigNil is returned when Open is called without a configuration.
var ErrConfigNil = errors.New("config is nil")

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) gorm.Dialector {
	source := dsn.Create(cfg)

	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return postgres.Open(source)
	case config.EngineSQLite:
		return sqlite.Open(source)
	default:
		return gormmysql.Open(source)
	}
}

// Open connects to the configured database and applies the pool limits.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	db, err := gorm.Open(Dialector(cfg), &gorm.Config{
		Logger: gormlogger.New(cfg.Log.SlowQueryThreshold),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.GormEngine)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	return db, nil
}

// Migrate creates or updates every ledger table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}
