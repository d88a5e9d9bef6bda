// Package fiber provides the access log middleware of the settings panel.
package fiber

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mellow-bot/mellow/internal/logger"
)

// Config of the access log middleware.
type Config struct {
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool

	// Log selects the access log outputs.
	Log logger.Log

	// Output replaces the console output when set.
	Output io.Writer

	// CacheControlError is sent on responses whose handler chain failed.
	CacheControlError string

	// SkipURIs are never logged when Log.DisableCheckAlive is set.
	SkipURIs []string
}

func (c Config) writers() []io.Writer {
	var writers []io.Writer

	if c.Log.File.Enabled && c.Log.File.AccessLog != "" {
		if err := os.MkdirAll(c.Log.File.Path, 0o750); err != nil { //nolint:mnd
			log.Error().Err(err).Str("path", c.Log.File.Path).Msg("can't create access log directory")
		} else {
			writers = append(writers, logger.RollingFile(c.Log.File.Path, c.Log.File.AccessLog,
				c.Log.File.AccessMaxSize, c.Log.File.AccessMaxAge, c.Log.File.AccessMaxBackups))
		}
	}

	if !c.Log.Console.Enabled || !c.Log.EnableAccessLogToConsole {
		return writers
	}

	out := c.Output
	if out == nil {
		out = os.Stdout
	}

	if c.Log.Console.UseConsoleWriter {
		out = zerolog.ConsoleWriter{
			Out:          out,
			TimeFormat:   zerolog.TimeFieldFormat,
			PartsExclude: []string{zerolog.LevelFieldName},
		}
	}

	return append(writers, out)
}

func (c Config) skip(uri string) bool {
	if !c.Log.DisableCheckAlive {
		return false
	}

	for _, s := range c.SkipURIs {
		if s == uri {
			return true
		}
	}

	return false
}

// New returns a middleware writing one zerolog line per request.
func New(cfg Config) fiber.Handler {
	if cfg.CacheControlError == "" {
		cfg.CacheControlError = "max-age=0"
	}

	writers := cfg.writers()
	if len(writers) == 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	access := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck
			}

			c.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
		}

		// fasthttp normalizes the path, the access log keeps the raw request URI.
		uri := string(c.Request().RequestURI())
		if cfg.skip(c.Path()) {
			return nil
		}

		event := access.Log().
			Str("ip", c.IP()).
			Int("status", c.Response().StatusCode()).
			Dur("elapsed", time.Since(start)).
			Str("uri", uri).
			Str("method", c.Method()).
			Bytes("host", c.Request().Host()).
			Str(fiber.HeaderUserAgent, c.Get(fiber.HeaderUserAgent))

		if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
			event.Str("request_id", id)
		}

		if domain := c.Params("domain"); domain != "" {
			event.Str("domain", domain)
		}

		if chainErr != nil {
			event.Err(chainErr)
		}

		event.Send()

		return nil
	}
}
