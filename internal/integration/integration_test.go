package integration_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mellow-bot/mellow/internal/db"
	"github.com/mellow-bot/mellow/internal/db/models"
	"github.com/mellow-bot/mellow/internal/integration"
)

func openDatabase(t *testing.T) *db.Database {
	t.Helper()

	database := db.New("test", db.WithDataDirectory(filepath.Join(t.TempDir(), "data")))
	require.NoError(t, database.Open(context.Background()))

	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

func save(t *testing.T, database *db.Database, domain string, values map[string]interface{}) {
	t.Helper()

	model, err := database.GetSettings(context.Background(), domain)
	require.NoError(t, err)

	model.SetData(values, false)
	require.NoError(t, model.Save(context.Background()))
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint integration.Endpoint
		want     string
	}{
		{
			name:     "host only",
			endpoint: integration.Endpoint{Host: "ombi.local"},
			want:     "http://ombi.local",
		},
		{
			name:     "host and port",
			endpoint: integration.Endpoint{Host: "192.168.1.10", Port: "5000"},
			want:     "http://192.168.1.10:5000",
		},
		{
			name:     "url base",
			endpoint: integration.Endpoint{Host: "nas", Port: "8989", URLBase: "/sonarr/"},
			want:     "http://nas:8989/sonarr",
		},
		{
			name:     "host with scheme is kept",
			endpoint: integration.Endpoint{Host: "https://tautulli.example.org", Port: "8181", URLBase: "x"},
			want:     "https://tautulli.example.org",
		},
		{
			name:     "ipv6",
			endpoint: integration.Endpoint{Host: "::1", Port: "7878"},
			want:     "http://[::1]:7878",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.endpoint.URL())
		})
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("never saved", func(t *testing.T) {
		_, err := integration.Resolve(ctx, openDatabase(t), models.DomainOmbi)
		assert.ErrorIs(t, err, integration.ErrUnconfigured)
	})

	t.Run("neither host nor api key", func(t *testing.T) {
		database := openDatabase(t)
		save(t, database, models.DomainSonarr, map[string]interface{}{"host": " ", "apikey": "", "port": "8989"})

		_, err := integration.Resolve(ctx, database, models.DomainSonarr)
		assert.ErrorIs(t, err, integration.ErrUnconfigured)
	})

	t.Run("not an integration", func(t *testing.T) {
		_, err := integration.Resolve(ctx, openDatabase(t), models.DomainBot)
		assert.ErrorIs(t, err, integration.ErrUnknownIntegration)
	})

	t.Run("invalid port", func(t *testing.T) {
		database := openDatabase(t)
		save(t, database, models.DomainRadarr, map[string]interface{}{"host": "nas", "port": "http"})

		_, err := integration.Resolve(ctx, database, models.DomainRadarr)
		require.Error(t, err)
		assert.NotErrorIs(t, err, integration.ErrUnconfigured)
	})

	t.Run("configured", func(t *testing.T) {
		database := openDatabase(t)
		save(t, database, models.DomainOmbi, map[string]interface{}{
			"host":         "ombi.local",
			"port":         "3579",
			"apikey":       "secret",
			"requestmovie": "Movies",
		})

		endpoint, err := integration.Resolve(ctx, database, models.DomainOmbi)
		require.NoError(t, err)
		assert.Equal(t, models.DomainOmbi, endpoint.Domain)
		assert.Equal(t, "secret", endpoint.APIKey)
		assert.Equal(t, "http://ombi.local:3579", endpoint.URL())
		assert.Equal(t, "Movies", endpoint.Settings.Get("requestmovie"))
	})
}

func TestConfigured(t *testing.T) {
	database := openDatabase(t)
	save(t, database, models.DomainTautulli, map[string]interface{}{"apikey": "secret"})
	save(t, database, models.DomainSonarr, map[string]interface{}{"host": "nas"})
	save(t, database, models.DomainRadarr, map[string]interface{}{"host": "nas", "port": "abc"})

	assert.Equal(t, []string{models.DomainSonarr, models.DomainTautulli}, integration.Configured(context.Background(), database))
}
