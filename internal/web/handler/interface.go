package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mellow-bot/mellow/internal/config"
	"github.com/mellow-bot/mellow/internal/db"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, database *db.Database) error
}
