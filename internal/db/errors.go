package db

import (
	"errors"
	"fmt"
)

var (
	// ErrNotOpen is returned when a model is requested from a Database that has not been opened.
	ErrNotOpen = errors.New("a database connection must be open before a model can be created")
	// ErrNilDatabase is returned when a nil *Database is used.
	ErrNilDatabase = errors.New("database is nil")
	// ErrNoRow is returned when a domain table has no sentinel row.
	ErrNoRow = errors.New("settings row not found")
	// ErrNoTable is returned by an Introspector when the domain table does not exist.
	ErrNoTable = errors.New("settings table not found")
	// ErrInvalidTable is returned for table names that are not plain identifiers.
	ErrInvalidTable = errors.New("invalid settings table name")
	// ErrDefaultNotBoolean is returned by GetBooleanOrDefault when the default is not a bool.
	ErrDefaultNotBoolean = errors.New("default value must be a boolean")
)

// Save operations reported by SaveError.
const (
	OpDelete = "delete"
	OpInsert = "insert"
)

// OpenError reports a failure to prepare the data directory or to connect.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open database %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// MigrationError reports a failed schema migration during Open.
type MigrationError struct {
	Version uint
	Name    string
	Err     error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %d (%s): %v", e.Version, e.Name, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// RefreshError reports a failed select when the caller asked for ErrorOnNotFound.
type RefreshError struct {
	Table string
	Err   error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh %s: %v", e.Table, e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// SaveError reports a failed insert, or a failed delete under ErrorOnDelete.
// The domain may be left without a row when Op is OpInsert.
type SaveError struct {
	Table string
	Op    string
	Err   error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s: %s: %v", e.Table, e.Op, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
