package integration

import (
	"errors"
)

var (
	// ErrUnconfigured is returned when an integration has neither host nor api key.
	ErrUnconfigured = errors.New("integration is not configured")

	// ErrUnknownIntegration is returned for domains that are not integrations.
	ErrUnknownIntegration = errors.New("unknown integration")
)
