// Package web serves the configuration panel api, the health check and the
// Prometheus metrics of mellow.
package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/mellow-bot/mellow/internal/config"
	"github.com/mellow-bot/mellow/internal/db"
	accesslog "github.com/mellow-bot/mellow/internal/logger/adapter/fiber"
	"github.com/mellow-bot/mellow/internal/web/handler/settings"
)

const (
	// CheckAlivePath answers 200 while the service takes traffic and 503 during shutdown.
	CheckAlivePath = "/checkalive"

	// MetricsPath serves the Prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *db.Database
}

// Start listens on addr until the app is shut down.
func (s *Service) Start(addr string) error {
	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and stops the http server. It
// returns without stopping anything once ctx is done.
func (s *Service) WaitShutdown(ctx context.Context) {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	defer signal.Stop(irqSig)

	select {
	case sig := <-irqSig:
		log.Info().Msgf("shutdown request (signal: %v)", sig)
	case <-ctx.Done():
		return
	}

	s.Shutdown()
}

// Shutdown fails the health check for Webserver.ShutDownTime seconds, so load
// balancers stop sending traffic, then stops the http server.
func (s *Service) Shutdown() {
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether the health check succeeds.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// New creates the web service. saved is called after the panel wrote a
// settings domain and may be nil.
func New(cfg *config.Config, database *db.Database, saved func(domain string)) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if database == nil {
		return nil, errors.New("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			AppName:               cfg.Title,
			CaseSensitive:         true,
			Prefork:               false,
			Immutable:             true,
			DisableStartupMessage: !cfg.DevMode,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(requestid.New())
	app.Use(accesslog.New(accesslog.Config{
		Log:      cfg.Log,
		SkipURIs: []string{CheckAlivePath, MetricsPath},
	}))

	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           database,
		fastShutDown: cfg.Webserver.ShutDownTime == 0 || cfg.DevMode,
	}

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	panel := &settings.Service{Saved: saved}

	if err := panel.Init(app, cfg, database); err != nil {
		return nil, err
	}

	service.alive.Store(true)

	return service, nil
}
