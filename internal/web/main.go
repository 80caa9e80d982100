// Package web implements the HTTP service exposing the accounts API.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/auth"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/config"
	loggeradapter "github.com/GoInventory-Admin/GoInventory-Admin/internal/logger/adapter/fiber"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/token"
	authmw "github.com/GoInventory-Admin/GoInventory-Admin/internal/web/middleware/auth"

	grouphandler "github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler/group"
	ownerhandler "github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler/owner"
	roleshandler "github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler/roles"
	rulesethandler "github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler/ruleset"
	tokenhandler "github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler/token"
	userhandler "github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler/user"
)

// CheckAlivePath is the liveness probe path.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	// Wait interrupt or shutdown request through /shutdown
	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "GoInventory-Admin",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// access logging
	app.Use(loggeradapter.New(loggeradapter.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	// Initialize auth service and permission gate
	authService := auth.NewService(db)
	gate := auth.NewGate(authService)

	// Token manager
	tokenManager := token.NewManager(db, cfg.Token.ExpiryDays, cfg.Token.Prefix)

	// Actor resolution middleware (session, token header or basic auth)
	app.Use(authmw.New(db, tokenManager))

	// init web service
	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	// init handlers (they register their own routes with permission checks).
	// The user handler must come last, its /:id route would otherwise
	// shadow the fixed /api/user/* segments.
	roleshandler.Handler.Init(app, cfg, db, gate, authService)
	tokenhandler.Handler.Init(app, cfg, db, gate, tokenManager)
	ownerhandler.Handler.Init(app, cfg, db, gate)
	grouphandler.Handler.Init(app, cfg, db, gate)
	rulesethandler.Handler.Init(app, cfg, db, gate)
	userhandler.Handler.Init(app, cfg, db, gate, authService)

	return service
}
