package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mellow-bot/mellow/internal/config"
	"github.com/mellow-bot/mellow/internal/db"
	"github.com/mellow-bot/mellow/internal/db/models"
)

func openTestDatabase(t *testing.T, opts ...db.Option) *db.Database {
	t.Helper()

	opts = append([]db.Option{db.WithDataDirectory(filepath.Join(t.TempDir(), "data"))}, opts...)
	database := db.New("test", opts...)
	require.NoError(t, database.Open(context.Background()))

	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

func TestDatabaseOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	database := db.New("WebSettings", db.WithDataDirectory(dir))

	assert.Equal(t, "WebSettings", database.Name())
	assert.Equal(t, filepath.Join(dir, "WebSettings.sqlite3"), database.Path())
	assert.False(t, database.IsOpen())
	assert.Nil(t, database.Conn())

	require.NoError(t, database.Open(context.Background()))
	assert.True(t, database.IsOpen())
	assert.DirExists(t, dir)
	assert.FileExists(t, database.Path())

	for _, domain := range models.Domains() {
		assert.True(t, database.Conn().Migrator().HasTable(domain), domain)
	}

	require.NoError(t, database.Close())
	assert.False(t, database.IsOpen())
	require.NoError(t, database.Close())
}

func TestDatabaseDefaults(t *testing.T) {
	database := db.New("WebSettings")
	assert.Equal(t, filepath.Join(db.DefaultDataDirectory, "WebSettings.sqlite3"), database.Path())

	fromConfig := db.FromConfig(config.DB{Name: "Other", DataDirectory: "/srv/mellow"})
	assert.Equal(t, filepath.Join("/srv/mellow", "Other.sqlite3"), fromConfig.Path())
}

func TestDatabaseUnsupportedEngine(t *testing.T) {
	database := db.New("test",
		db.WithEngine(config.DB{Engine: "oracle"}),
		db.WithDataDirectory(t.TempDir()),
	)

	var openErr *db.OpenError
	require.ErrorAs(t, database.Open(context.Background()), &openErr)
	assert.False(t, database.IsOpen())
}

func TestDatabaseNil(t *testing.T) {
	var database *db.Database

	assert.ErrorIs(t, database.Open(context.Background()), db.ErrNilDatabase)
	assert.NoError(t, database.Close())

	_, err := database.GetModel(nil, "bot")
	assert.ErrorIs(t, err, db.ErrNilDatabase)

	_, err = database.GetSettings(context.Background(), "bot")
	assert.ErrorIs(t, err, db.ErrNilDatabase)
}

func TestDatabaseGetModel(t *testing.T) {
	t.Run("not open", func(t *testing.T) {
		database := db.New("test", db.WithDataDirectory(t.TempDir()))

		_, err := database.GetModel(db.NewSettingsModel, "bot")
		assert.ErrorIs(t, err, db.ErrNotOpen)

		_, err = database.GetSettings(context.Background(), "bot")
		assert.ErrorIs(t, err, db.ErrNotOpen)
	})

	t.Run("invalid table", func(t *testing.T) {
		database := openTestDatabase(t)

		_, err := database.GetModel(nil, "bot; DROP TABLE general")
		assert.ErrorIs(t, err, db.ErrInvalidTable)
	})

	t.Run("fresh instance per call", func(t *testing.T) {
		database := openTestDatabase(t)

		a, err := database.GetModel(nil, "bot")
		require.NoError(t, err)
		b, err := database.GetModel(db.NewSettingsModel, "bot")
		require.NoError(t, err)

		assert.Equal(t, "bot", a.TableName())
		assert.NotSame(t, a, b)
		assert.Empty(t, a.GetData())
	})
}

func TestDatabaseGetSettingsCache(t *testing.T) {
	ctx := context.Background()
	database := openTestDatabase(t)

	first, err := database.GetSettings(ctx, models.DomainBot)
	require.NoError(t, err)

	second, err := database.GetSettings(ctx, models.DomainBot, db.NoRefresh())
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := database.GetSettings(ctx, models.DomainOmbi)
	require.NoError(t, err)
	assert.NotSame(t, first, other)

	require.NoError(t, database.Open(ctx))

	reopened, err := database.GetSettings(ctx, models.DomainBot)
	require.NoError(t, err)
	assert.NotSame(t, first, reopened)
}

func TestDatabaseGetSettingsNoRefresh(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	mock.ExpectQuery("select sqlite_version()").
		WillReturnRows(sqlmock.NewRows([]string{"sqlite_version()"}).AddRow("3.45.0"))

	database := db.New("test",
		db.WithDataDirectory(t.TempDir()),
		db.WithDialector(sqlite.Dialector{Conn: sqlDB}),
		db.WithMigrations(),
	)
	require.NoError(t, database.Open(context.Background()))

	model, err := database.GetSettings(context.Background(), "bot", db.NoRefresh())
	require.NoError(t, err)
	assert.Empty(t, model.GetData())

	mock.ExpectClose()
	require.NoError(t, database.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseGetSettingsRefreshOptions(t *testing.T) {
	ctx := context.Background()
	database := openTestDatabase(t)

	_, err := database.GetSettings(ctx, models.DomainSonarr, db.WithRefreshOptions(db.ErrorOnNotFound()))
	assert.ErrorIs(t, err, db.ErrNoRow)

	tests := []struct {
		table string
		want  map[string]interface{}
	}{
		{
			table: models.DomainSonarr,
			want: map[string]interface{}{
				"host": "", "port": "", "apikey": "", "urlbase": "",
				"profile": "", "languageprofile": "", "rootfolder": "",
			},
		},
		{
			table: models.DomainGeneral,
			want:  map[string]interface{}{"username": "", "password": ""},
		},
		{
			table: models.DomainBot,
			want: map[string]interface{}{
				"token": "", "ownerid": "", "commandprefix": "", "channelname": "",
				"unknowncommandresponse": "", "deletecommandmessages": "", "silenttimeout": "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			model, err := database.GetSettings(ctx, tt.table,
				db.WithRefreshOptions(db.PopulateFields(), db.PopulateFieldsDefault("")))
			require.NoError(t, err)

			assert.Equal(t, tt.want, model.GetData())
		})
	}

	t.Run("missing table", func(t *testing.T) {
		_, err := database.GetSettings(ctx, "nosuch", db.WithRefreshOptions(db.PopulateFields()))
		assert.ErrorIs(t, err, db.ErrNoTable)
	})
}

func TestDatabaseGetSettingsWithModel(t *testing.T) {
	database := openTestDatabase(t)

	var built int

	factory := func(conn *gorm.DB, table string, introspector db.Introspector) db.Model {
		built++

		return db.NewSettingsModel(conn, table, introspector)
	}

	for i := 0; i < 3; i++ {
		_, err := database.GetSettings(context.Background(), models.DomainGeneral, db.WithModel(factory))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, built)
}

func TestDatabaseRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	database := db.New("WebSettings", db.WithDataDirectory(dir))
	require.NoError(t, database.Open(ctx))

	general, err := database.GetSettings(ctx, models.DomainGeneral)
	require.NoError(t, err)
	assert.Empty(t, general.GetData())

	general.SetData(map[string]interface{}{"username": "admin", "password": "hunter2"}, false)
	require.NoError(t, general.Save(ctx))

	bot, err := database.GetSettings(ctx, models.DomainBot)
	require.NoError(t, err)
	bot.Set("token", "abc")
	bot.Set("deletecommandmessages", true)
	require.NoError(t, bot.Save(ctx))
	require.NoError(t, bot.Save(ctx, db.ErrorOnDelete()))

	require.NoError(t, database.Close())

	reopened := db.New("WebSettings", db.WithDataDirectory(dir))
	require.NoError(t, reopened.Open(ctx))
	t.Cleanup(func() {
		_ = reopened.Close()
	})

	general, err = reopened.GetSettings(ctx, models.DomainGeneral)
	require.NoError(t, err)
	assert.Equal(t, "admin", general.Get("username"))
	assert.Equal(t, "hunter2", general.Get("password"))
	assert.False(t, general.Has("id"))

	bot, err = reopened.GetSettings(ctx, models.DomainBot)
	require.NoError(t, err)
	assert.Equal(t, "abc", bot.Get("token"))
	assert.Nil(t, bot.Get("ownerid"))

	deleteMessages, err := bot.GetBooleanOrDefault("deletecommandmessages", false)
	require.NoError(t, err)
	assert.True(t, deleteMessages)

	var typed models.Bot
	require.NoError(t, bot.Decode(&typed))
	require.NotNil(t, typed.Token)
	assert.Equal(t, "abc", *typed.Token)
	assert.Nil(t, typed.OwnerID)

	var rows int64
	require.NoError(t, reopened.Conn().Table(models.DomainBot).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestDatabaseSaveUnknownColumn(t *testing.T) {
	ctx := context.Background()
	database := openTestDatabase(t)

	bot, err := database.GetSettings(ctx, models.DomainBot)
	require.NoError(t, err)

	bot.Set("nosuchcolumn", "x")

	var saveErr *db.SaveError
	require.ErrorAs(t, bot.Save(ctx), &saveErr)
	assert.Equal(t, db.OpInsert, saveErr.Op)
}
