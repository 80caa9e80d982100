// Package daemon wires the database, session storage and web service
// together into the runnable application.
package daemon

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/config"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/dsn"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/logger"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/web"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService web.Service
	cfg        *config.Config
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{
		// The user handler maps duplicate key conflicts to validation
		// responses, the dialect errors must be translated for that.
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Group{},
		&models.RuleSet{},
		&models.UserGroup{},
		&models.ApiToken{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	session.Init(openSessionStorage(cfg))

	return &Daemon{
		webService: *web.New(cfg, db),
		cfg:        cfg,
	}
}

// openDialector selects the gorm driver for the configured engine.
func openDialector(cfg *config.Config) gorm.Dialector {
	if cfg.DB.GormEngine == "postgres" {
		return gormpostgres.Open(dsn.Create(cfg))
	}

	return gormmysql.Open(dsn.Create(cfg))
}

// openSessionStorage selects the fiber session storage for the configured engine.
func openSessionStorage(cfg *config.Config) fiber.Storage {
	if cfg.DB.GormEngine == "postgres" {
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
				cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name),
			Table: "sessions",
		})
	}

	return sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})
}
