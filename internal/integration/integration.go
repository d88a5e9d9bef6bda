// Package integration reads the connection settings of the media services the
// bot talks to (Ombi, Sonarr, Radarr, Tautulli) and the bot's own options.
package integration

import (
	"context"
	"errors"
	"net"
	"net/url"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/mellow-bot/mellow/internal/db"
	"github.com/mellow-bot/mellow/internal/db/models"
)

var validate = validator.New() //nolint:gochecknoglobals

// Settings hands out the live settings of a domain. *db.Database implements it.
type Settings interface {
	GetSettings(ctx context.Context, table string, opts ...db.GetOption) (db.Model, error)
}

var _ Settings = (*db.Database)(nil)

// Endpoint is the resolved connection of one integration.
type Endpoint struct {
	Domain  string `validate:"required"`
	Host    string `validate:"required_without=APIKey"`
	Port    string `validate:"omitempty,numeric"`
	APIKey  string `validate:"required_without=Host"`
	URLBase string

	// Settings is the live model the endpoint was read from, for the
	// integration specific attributes such as requestmovie.
	Settings db.Model `validate:"-"`
}

// URL returns the base url of the service. A host that already carries a
// scheme is used as it is.
func (e Endpoint) URL() string {
	if hasScheme(e.Host) {
		return e.Host
	}

	u := url.URL{Scheme: "http", Host: e.Host}
	if e.Port != "" {
		u.Host = net.JoinHostPort(e.Host, e.Port)
	}

	if base := strings.Trim(e.URLBase, "/"); base != "" {
		u.Path = "/" + base
	}

	return u.String()
}

func hasScheme(host string) bool {
	lower := strings.ToLower(host)

	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Resolve refreshes the settings of an integration domain and returns its
// endpoint. ErrUnconfigured is returned when the domain was never saved or has
// neither host nor api key.
func Resolve(ctx context.Context, settings Settings, domain string) (*Endpoint, error) {
	if !slices.Contains(models.Integrations(), domain) {
		return nil, pkgerrors.Wrap(ErrUnknownIntegration, domain)
	}

	model, err := settings.GetSettings(ctx, domain, db.WithRefreshOptions(db.ErrorOnNotFound()))
	switch {
	case errors.Is(err, db.ErrNoRow):
		return nil, pkgerrors.Wrap(ErrUnconfigured, domain)
	case err != nil:
		return nil, pkgerrors.Wrap(err, "can't load "+domain+" settings")
	}

	var typed models.Endpoint
	if err = model.Decode(&typed); err != nil {
		return nil, pkgerrors.Wrap(err, "can't decode "+domain+" settings")
	}

	endpoint := &Endpoint{
		Domain:   domain,
		Host:     strings.TrimSpace(deref(typed.Host)),
		Port:     strings.TrimSpace(deref(typed.Port)),
		APIKey:   strings.TrimSpace(deref(typed.APIKey)),
		URLBase:  strings.TrimSpace(deref(typed.URLBase)),
		Settings: model,
	}

	if endpoint.Host == "" && endpoint.APIKey == "" {
		return nil, pkgerrors.Wrap(ErrUnconfigured, domain)
	}

	if err = validate.Struct(endpoint); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid "+domain+" settings")
	}

	return endpoint, nil
}

// Configured returns the integrations that resolve to an endpoint, in display order.
// Integrations failing for other reasons than ErrUnconfigured are logged and skipped.
func Configured(ctx context.Context, settings Settings) []string {
	var configured []string

	for _, domain := range models.Integrations() {
		_, err := Resolve(ctx, settings, domain)
		switch {
		case err == nil:
			configured = append(configured, domain)
		case errors.Is(err, ErrUnconfigured):
			log.Debug().Str("integration", domain).Msg("integration not configured, commands disabled")
		default:
			log.Warn().Err(err).Str("integration", domain).Msg("integration settings unusable, commands disabled")
		}
	}

	return configured
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
