// Package settings serves the configuration panel api: one JSON document per
// settings domain, written back with the panel's form values.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mellow-bot/mellow/internal/config"
	"github.com/mellow-bot/mellow/internal/db"
	"github.com/mellow-bot/mellow/internal/db/models"
	"github.com/mellow-bot/mellow/internal/web/handler"
)

// Path is the base path of the settings api.
const Path = handler.APIPath + "/settings"

// Service is the settings handler service.
type Service struct {
	cfg       *config.Config
	db        *db.Database
	validator *validator.Validate

	// Saved is called after a domain was written. Optional.
	Saved func(domain string)
}

// domainInput is the validated route parameter.
type domainInput struct {
	Domain string `validate:"required,oneof=general bot ombi sonarr radarr tautulli"`
}

var _ handler.Service = (*Service)(nil)

// Init registers the settings routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, database *db.Database) error {
	if app == nil || cfg == nil || database == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.db = database
	s.validator = validator.New()

	app.Get(Path, s.List)
	app.Get(Path+"/:domain", s.Get)
	app.Post(Path+"/:domain", s.Update)

	return nil
}

// List returns the populated settings of every known domain.
func (s *Service) List(c *fiber.Ctx) error {
	all := make(fiber.Map, len(models.Domains()))

	for _, domain := range models.Domains() {
		model, err := s.load(c, domain)
		if err != nil {
			return s.fail(c, domain, err)
		}

		all[domain] = model.GetData()
	}

	return c.JSON(all)
}

// Get returns the populated settings of one domain.
func (s *Service) Get(c *fiber.Ctx) error {
	domain, err := s.domain(c)
	if err != nil {
		return s.invalid(c, err)
	}

	model, err := s.load(c, domain)
	if err != nil {
		return s.fail(c, domain, err)
	}

	return c.JSON(model.GetData())
}

// Update writes form or JSON values to a domain. Names that are not columns of
// the domain are ignored.
func (s *Service) Update(c *fiber.Ctx) error {
	domain, err := s.domain(c)
	if err != nil {
		return s.invalid(c, err)
	}

	values, err := formValues(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(handler.ErrorResponse{
			Error:   true,
			Message: "invalid form data",
		})
	}

	model, err := s.load(c, domain)
	if err != nil {
		return s.fail(c, domain, err)
	}

	model.SetData(values, true)

	if err = model.Save(c.UserContext()); err != nil {
		return s.fail(c, domain, err)
	}

	log.Info().Str("domain", domain).Int("fields", len(values)).Msg("settings saved")

	if s.Saved != nil {
		s.Saved(domain)
	}

	return c.JSON(model.GetData())
}

// load refreshes a domain and fills in every column the domain has not saved yet.
func (s *Service) load(c *fiber.Ctx, domain string) (db.Model, error) {
	return s.db.GetSettings(c.UserContext(), domain,
		db.WithRefreshOptions(db.PopulateFields(), db.PopulateFieldsDefault("")))
}

func (s *Service) domain(c *fiber.Ctx) (string, error) {
	in := domainInput{Domain: strings.ToLower(c.Params("domain"))}

	if err := s.validator.Struct(in); err != nil {
		return "", err
	}

	return in.Domain, nil
}

func (s *Service) invalid(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	errors.As(err, &validationErrors)

	fields := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		fields[i] = "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
	}

	return c.Status(fiber.StatusNotFound).JSON(handler.ErrorResponse{
		Error:   true,
		Message: "unknown settings domain",
		Fields:  fields,
	})
}

func (s *Service) fail(c *fiber.Ctx, domain string, err error) error {
	log.Error().Err(err).Str("domain", domain).Msg("settings request failed")

	msg := "failed to load settings"
	if c.Method() == fiber.MethodPost {
		msg = "failed to save settings"
	}

	return c.Status(fiber.StatusInternalServerError).JSON(handler.ErrorResponse{Error: true, Message: msg})
}

// formValues reads a JSON object or an url encoded form.
func formValues(c *fiber.Ctx) (map[string]interface{}, error) {
	values := make(map[string]interface{})

	if c.Is("json") {
		decoder := json.NewDecoder(bytes.NewReader(c.Body()))
		decoder.UseNumber()

		if err := decoder.Decode(&values); err != nil {
			return nil, err
		}

		// numbers are stored with the exact text the client sent
		for key, value := range values {
			if n, ok := value.(json.Number); ok {
				values[key] = n.String()
			}
		}

		return values, nil
	}

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		values[string(key)] = string(value)
	})

	return values, nil
}
