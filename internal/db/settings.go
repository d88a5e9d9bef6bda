package db

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// PrimaryKeyColumn is the key column of every domain table.
	PrimaryKeyColumn = "id"
	// SentinelID is the primary key of the one meaningful row per domain table.
	SentinelID = 1
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidTableName reports whether name can be used as a domain table.
func ValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}

// SettingsModel is a Model stored as the sentinel row of its table.
type SettingsModel struct {
	Record

	state modelState
}

// NewSettingsModel is the ModelFactory for single-row settings tables.
func NewSettingsModel(conn *gorm.DB, table string, introspector Introspector) Model {
	if introspector == nil {
		introspector = NewGormIntrospector(conn)
	}

	return &SettingsModel{
		state: modelState{
			table:        table,
			conn:         conn,
			introspector: introspector,
		},
	}
}

// TableName implements Model.
func (m *SettingsModel) TableName() string {
	return m.state.table
}

// Refresh selects the sentinel row and overwrites the attributes with it.
//
// When the row cannot be selected, Refresh fails only if ErrorOnNotFound is
// given. Otherwise PopulateFields fills the missing columns from the schema,
// and without either option the record is left as it was.
func (m *SettingsModel) Refresh(ctx context.Context, opts ...RefreshOption) error {
	var o refreshOptions
	for _, opt := range opts {
		opt(&o)
	}

	row, err := m.selectRow(ctx)
	if err == nil {
		m.SetData(row, false)

		return nil
	}

	log.Debug().Err(err).Str("table", m.state.table).Msg("failed to select settings row")

	switch {
	case o.errorOnNotFound:
		return &RefreshError{Table: m.state.table, Err: err}
	case o.populateFields:
		return m.PopulateFields(ctx, o.populateDefault)
	}

	return nil
}

// Save replaces the sentinel row with the current attributes: the old row is
// deleted, then a new one is inserted. The two statements do not share a
// transaction.
func (m *SettingsModel) Save(ctx context.Context, opts ...SaveOption) error {
	var o saveOptions
	for _, opt := range opts {
		opt(&o)
	}

	deleted, err := m.deleteRow(ctx)
	switch {
	case err != nil && o.errorOnDelete:
		return &SaveError{Table: m.state.table, Op: OpDelete, Err: err}
	case err != nil:
		log.Info().Err(err).Str("table", m.state.table).Msg("failed to run delete during save")
	case deleted == 0 && o.errorOnDelete:
		return &SaveError{Table: m.state.table, Op: OpDelete, Err: ErrNoRow}
	}

	if err = m.insertRow(ctx); err != nil {
		log.Error().Err(err).Str("table", m.state.table).Msg("failed to run insert during save")

		return &SaveError{Table: m.state.table, Op: OpInsert, Err: err}
	}

	return nil
}

// PopulateFields sets every non-key column the record does not carry yet to
// def. Attributes that are already present keep their value.
func (m *SettingsModel) PopulateFields(ctx context.Context, def interface{}) error {
	columns, err := m.state.introspector.Columns(ctx, m.state.table)
	if err != nil {
		return err
	}

	for _, column := range columns {
		if column.PrimaryKey {
			continue
		}

		m.setIfMissing(column.Name, def)
	}

	return nil
}

func (m *SettingsModel) selectRow(ctx context.Context) (map[string]interface{}, error) {
	rows, err := m.state.conn.WithContext(withTable(ctx, m.state.table)).Raw(
		"SELECT * FROM ? WHERE ? = ? LIMIT 1",
		clause.Table{Name: m.state.table},
		clause.Column{Name: PrimaryKeyColumn},
		SentinelID,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}

		return nil, ErrNoRow
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]interface{}, len(columns))
	targets := make([]interface{}, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}

	if err = rows.Scan(targets...); err != nil {
		return nil, err
	}

	row := make(map[string]interface{}, len(columns))
	for i, column := range columns {
		if strings.EqualFold(column, PrimaryKeyColumn) {
			continue
		}

		// drivers for the server engines hand out text as []byte
		if b, ok := values[i].([]byte); ok {
			row[column] = string(b)
			continue
		}

		row[column] = values[i]
	}

	return row, rows.Err()
}

func (m *SettingsModel) deleteRow(ctx context.Context) (int64, error) {
	tx := m.state.conn.WithContext(withTable(ctx, m.state.table)).Exec(
		"DELETE FROM ? WHERE ? = ?",
		clause.Table{Name: m.state.table},
		clause.Column{Name: PrimaryKeyColumn},
		SentinelID,
	)

	return tx.RowsAffected, tx.Error
}

func (m *SettingsModel) insertRow(ctx context.Context) error {
	data := m.GetData()

	names := make([]string, 0, len(data))
	for name := range data {
		if strings.EqualFold(name, PrimaryKeyColumn) {
			continue
		}

		names = append(names, name)
	}

	sort.Strings(names)

	columns := make([]interface{}, 0, len(names)+1)
	values := make([]interface{}, 0, len(names)+1)

	columns = append(columns, clause.Column{Name: PrimaryKeyColumn})
	values = append(values, SentinelID)

	for _, name := range names {
		columns = append(columns, clause.Column{Name: name})
		values = append(values, storageValue(data[name]))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	args := make([]interface{}, 0, 2*len(columns)+1)
	args = append(args, clause.Table{Name: m.state.table})
	args = append(args, columns...)
	args = append(args, values...)

	return m.state.conn.WithContext(withTable(ctx, m.state.table)).Exec(
		"INSERT INTO ? ("+placeholders+") VALUES ("+placeholders+")",
		args...,
	).Error
}

// storageValue writes booleans as "true"/"false" so GetBoolean reads them back
// on engines without a boolean column type.
func storageValue(value interface{}) interface{} {
	if b, ok := value.(bool); ok {
		return strconv.FormatBool(b)
	}

	return value
}
