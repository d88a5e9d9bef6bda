package db

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mellow-bot/mellow/internal/db/models"
)

// Migration is one versioned schema change applied during Open.
type Migration struct {
	Version uint
	Name    string
	Up      func(tx *gorm.DB) error
}

// DefaultMigrations is the schema history of the settings database.
func DefaultMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_settings_tables",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(models.All()...)
			},
		},
	}
}

// migrate applies every migration whose version is not yet recorded in
// schema_migrations. Each migration runs in its own transaction.
func migrate(ctx context.Context, conn *gorm.DB, migrations []Migration) error {
	if len(migrations) == 0 {
		return nil
	}

	pending := slices.Clone(migrations)
	slices.SortFunc(pending, func(a, b Migration) int {
		return cmp.Compare(a.Version, b.Version)
	})

	for i := 1; i < len(pending); i++ {
		if pending[i].Version == pending[i-1].Version {
			return &MigrationError{
				Version: pending[i].Version,
				Name:    pending[i].Name,
				Err:     fmt.Errorf("duplicate migration version %d", pending[i].Version),
			}
		}
	}

	conn = conn.WithContext(ctx)

	if err := conn.AutoMigrate(&models.SchemaMigration{}); err != nil {
		return &MigrationError{Name: "schema_migrations", Err: err}
	}

	var applied []uint
	if err := conn.Model(&models.SchemaMigration{}).Pluck("version", &applied).Error; err != nil {
		return &MigrationError{Name: "schema_migrations", Err: err}
	}

	for _, m := range pending {
		if slices.Contains(applied, m.Version) {
			continue
		}

		log.Info().Uint("version", m.Version).Str("name", m.Name).Msg("applying migration")

		err := conn.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}

			return tx.Create(&models.SchemaMigration{
				Version:   m.Version,
				Name:      m.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return &MigrationError{Version: m.Version, Name: m.Name, Err: err}
		}
	}

	return nil
}
