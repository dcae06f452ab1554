package app

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/db"
)

// withDB opens and migrates the configured database, runs fn and closes the connection.
func withDB(fn func(gormDB *gorm.DB) error) error {
	gormDB, err := db.Open(&cfg)
	if err != nil {
		return err
	}

	defer func() {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return
		}

		if err = sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	if err = db.Migrate(gormDB); err != nil {
		return err
	}

	return fn(gormDB)
}
