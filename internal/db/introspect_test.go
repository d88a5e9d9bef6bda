package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mellow-bot/mellow/internal/db"
	"github.com/mellow-bot/mellow/internal/db/models"
)

func TestGormIntrospector(t *testing.T) {
	database := openTestDatabase(t)
	introspector := db.NewGormIntrospector(database.Conn())

	t.Run("columns of a domain table", func(t *testing.T) {
		columns, err := introspector.Columns(context.Background(), models.DomainOmbi)
		require.NoError(t, err)

		names := make([]string, 0, len(columns))
		for _, column := range columns {
			names = append(names, column.Name)
			assert.Equal(t, column.Name == "id", column.PrimaryKey, column.Name)
		}

		assert.ElementsMatch(t, []string{
			"id", "host", "port", "apikey", "urlbase", "username", "requestmovie", "requesttv",
		}, names)
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := introspector.Columns(context.Background(), "plex")
		assert.ErrorIs(t, err, db.ErrNoTable)
	})
}
