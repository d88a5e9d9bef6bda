package db

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Column describes one column of a domain table.
type Column struct {
	Name       string
	PrimaryKey bool
}

// Introspector discovers the columns of a domain table.
type Introspector interface {
	Columns(ctx context.Context, table string) ([]Column, error)
}

// GormIntrospector reads column metadata through the gorm migrator of the
// connected engine.
type GormIntrospector struct {
	conn *gorm.DB
}

// NewGormIntrospector returns an Introspector backed by conn.
func NewGormIntrospector(conn *gorm.DB) Introspector {
	return GormIntrospector{conn: conn}
}

// Columns implements Introspector.
func (g GormIntrospector) Columns(ctx context.Context, table string) ([]Column, error) {
	migrator := g.conn.WithContext(ctx).Migrator()

	if !migrator.HasTable(table) {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, table)
	}

	columnTypes, err := migrator.ColumnTypes(table)
	if err != nil {
		return nil, err
	}

	columns := make([]Column, 0, len(columnTypes))
	for _, ct := range columnTypes {
		pk, _ := ct.PrimaryKey()
		pk = pk || strings.EqualFold(ct.Name(), PrimaryKeyColumn)

		columns = append(columns, Column{Name: ct.Name(), PrimaryKey: pk})
	}

	return columns, nil
}
