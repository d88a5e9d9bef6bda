// Package daemon wires the settings database and the configuration panel
// together for `mellow start`.
package daemon

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mellow-bot/mellow/internal/config"
	"github.com/mellow-bot/mellow/internal/db"
	"github.com/mellow-bot/mellow/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *db.Database
	webService *web.Service
}

// New opens the settings database and prepares the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	level := gormlogger.Error
	if cfg.DevMode {
		level = gormlogger.Info
	}

	database := db.FromConfig(cfg.DB, db.WithLogLevel(level))
	if err := database.Open(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to open settings database")
	}

	d := &Daemon{
		cfg: cfg,
		db:  database,
	}

	d.checkSettings(ctx)

	webService, err := web.New(cfg, database, d.settingsSaved)
	if err != nil {
		_ = database.Close()

		return nil, err
	}

	d.webService = webService

	return d, nil
}

// Database returns the open settings database.
func (d *Daemon) Database() *db.Database {
	return d.db
}

// Start serves the panel until SIGINT or SIGTERM, then closes the database.
// When the listener fails, the signal handler is released and the error is
// returned.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf("%s:%d", d.cfg.Webserver.Host, d.cfg.Webserver.Port)
	served := make(chan error, 1)

	go func() {
		served <- d.webService.Start(addr)
	}()

	log.Info().Str("addr", addr).Msg("settings panel listening")

	ctx, cancel := context.WithCancel(context.Background())
	waited := make(chan struct{})

	go func() {
		defer close(waited)

		d.webService.WaitShutdown(ctx)
	}()

	err := <-served

	cancel()
	<-waited

	if closeErr := d.db.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close settings database")
	}

	return err
}

// Close releases the database without serving.
func (d *Daemon) Close() error {
	return d.db.Close()
}
