package config

import (
	"github.com/mellow-bot/mellow/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings for the configuration panel.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Host           string // listening host, empty for all interfaces
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
}
