// Package daemon assembles the long running service from the configuration.
package daemon

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	sessionsqlite "github.com/gofiber/storage/sqlite3/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/config"
	"github.com/splitledger/splitledger/internal/db"
	"github.com/splitledger/splitledger/internal/db/dsn"
	"github.com/splitledger/splitledger/internal/logger"
	"github.com/splitledger/splitledger/internal/web"
	"github.com/splitledger/splitledger/internal/web/session"
)

// ErrConfigNil is returned when New is called without a configuration.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg            *config.Config
	db             *gorm.DB
	sessionStorage fiber.Storage
	webService     *web.Service
}

// Start serves HTTP until a termination signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)
	log.Info().Str("addr", addr).Msg("starting web service")

	err := d.webService.Start(addr)

	d.close()

	return err
}

func (d *Daemon) close() {
	if err := d.sessionStorage.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close session storage")
	}

	if sqlDB, err := d.db.DB(); err == nil {
		if err = sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, errors.Wrap(err, "failed to init logger")
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(gormDB); err != nil {
		return nil, err
	}

	sessionStorage := NewSessionStorage(cfg)

	sessions, err := session.New(sessionStorage, cfg.Webserver.Session)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init session store")
	}

	authService := auth.NewService(gormDB, sessions)

	log.Info().Str("engine", cfg.DB.GormEngine).Bool("dev", cfg.DevMode).Msg("daemon initialized")

	return &Daemon{
		cfg:            cfg,
		db:             gormDB,
		sessionStorage: sessionStorage,
		webService:     web.New(cfg, gormDB, authService),
	}, nil
}

// NewSessionStorage returns the storage shared with the login service,
// a table in the ledger database for every engine.
func NewSessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         cfg.Webserver.Session.Table,
		})
	case config.EngineSQLite:
		return sessionsqlite.New(sessionsqlite.Config{
			Database: cfg.DB.Name,
			Table:    cfg.Webserver.Session.Table,
		})
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         cfg.Webserver.Session.Table,
		})
	}
}
