// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"path/filepath"

	"github.com/mellow-bot/mellow/internal/config"
)

// SQLiteFile returns the database file of the embedded engine: <DataDirectory>/<Name>.sqlite3.
func SQLiteFile(dbCfg config.DB) string {
	return filepath.Join(dbCfg.DataDirectory, dbCfg.Name+".sqlite3")
}

// MySQL builds the Data Source Name for the mysql engine.
func MySQL(dbCfg config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Name,
		dbCfg.Extras,
	)

	return out
}

// Postgres builds the Data Source Name for the postgres engine.
func Postgres(dbCfg config.DB) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Name,
	)

	if dbCfg.Extras != "" {
		out += " " + dbCfg.Extras
	}

	return out
}
