package db

import (
	"context"

	"gorm.io/gorm"
)

// Model is a domain record bound to a table of an open Database.
type Model interface {
	// Refresh reloads the attributes from storage. It never writes.
	Refresh(ctx context.Context, opts ...RefreshOption) error
	// Save persists all public attributes, replacing the previous content of the domain.
	Save(ctx context.Context, opts ...SaveOption) error
	// TableName returns the domain table the model is bound to.
	TableName() string

	SetData(data map[string]interface{}, onlyExisting bool)
	GetData() map[string]interface{}
	Get(name string) interface{}
	Set(name string, value interface{})
	Has(name string) bool
	GetOrDefault(name string, def interface{}) interface{}
	GetBoolean(name string) (value bool, ok bool)
	GetBooleanOrDefault(name string, def interface{}) (bool, error)
	Decode(dst interface{}) error
	Encode(src interface{}) error
}

// ModelFactory builds a Model bound to conn and table.
type ModelFactory func(conn *gorm.DB, table string, introspector Introspector) Model

// modelState is the internal half of a model. It is never exported through GetData.
type modelState struct {
	table        string
	conn         *gorm.DB
	introspector Introspector
}

// RefreshOption configures Refresh.
type RefreshOption func(*refreshOptions)

type refreshOptions struct {
	errorOnNotFound bool
	populateFields  bool
	populateDefault interface{}
}

// ErrorOnNotFound makes Refresh fail with a *RefreshError when no row can be selected.
func ErrorOnNotFound() RefreshOption {
	return func(o *refreshOptions) {
		o.errorOnNotFound = true
	}
}

// PopulateFields makes Refresh fill every table column from the schema when no row exists.
func PopulateFields() RefreshOption {
	return func(o *refreshOptions) {
		o.populateFields = true
	}
}

// PopulateFieldsDefault sets the value PopulateFields assigns to missing columns.
func PopulateFieldsDefault(value interface{}) RefreshOption {
	return func(o *refreshOptions) {
		o.populateDefault = value
	}
}

// SaveOption configures Save.
type SaveOption func(*saveOptions)

type saveOptions struct {
	errorOnDelete bool
}

// ErrorOnDelete makes Save fail when the previous row cannot be deleted.
func ErrorOnDelete() SaveOption {
	return func(o *saveOptions) {
		o.errorOnDelete = true
	}
}
