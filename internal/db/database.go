package db

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mellow-bot/mellow/internal/config"
	"github.com/mellow-bot/mellow/internal/db/dsn"
)

// Supported storage engines.
const (
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// DefaultDataDirectory is where the embedded engine keeps its files.
const DefaultDataDirectory = "data"

// Database owns the storage connection and the per-domain model cache.
type Database struct {
	cfg             config.DB
	dialector       gorm.Dialector
	migrations      []Migration
	newIntrospector func(*gorm.DB) Introspector
	logLevel        gormlogger.LogLevel

	mu    sync.Mutex
	conn  *gorm.DB
	cache map[string]Model
}

// Option configures a Database.
type Option func(*Database)

// WithDataDirectory sets the directory of the embedded database file.
func WithDataDirectory(dir string) Option {
	return func(d *Database) {
		d.cfg.DataDirectory = dir
	}
}

// WithEngine copies the engine and server settings from cfg. The database
// name given to New is kept.
func WithEngine(cfg config.DB) Option {
	return func(d *Database) {
		name, dir := d.cfg.Name, d.cfg.DataDirectory
		d.cfg = cfg
		d.cfg.Name = name

		if d.cfg.DataDirectory == "" {
			d.cfg.DataDirectory = dir
		}
	}
}

// WithDialector replaces the engine dialector, e.g. with one wrapping an existing connection.
func WithDialector(dialector gorm.Dialector) Option {
	return func(d *Database) {
		d.dialector = dialector
	}
}

// WithMigrations replaces DefaultMigrations. Passing none disables migrations.
func WithMigrations(migrations ...Migration) Option {
	return func(d *Database) {
		d.migrations = migrations
	}
}

// WithIntrospector replaces the schema introspector given to new models.
func WithIntrospector(newIntrospector func(*gorm.DB) Introspector) Option {
	return func(d *Database) {
		d.newIntrospector = newIntrospector
	}
}

// WithLogLevel sets the level of the SQL statement log.
func WithLogLevel(level gormlogger.LogLevel) Option {
	return func(d *Database) {
		d.logLevel = level
	}
}

// New creates a closed Database called name.
func New(name string, opts ...Option) *Database {
	d := &Database{
		cfg: config.DB{
			Engine:        EngineSQLite,
			Name:          name,
			DataDirectory: DefaultDataDirectory,
		},
		migrations:      DefaultMigrations(),
		newIntrospector: NewGormIntrospector,
		logLevel:        gormlogger.Error,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.cfg.Engine == "" {
		d.cfg.Engine = EngineSQLite
	}

	return d
}

// FromConfig creates a closed Database from the [DB] config section. opts are
// applied after the config.
func FromConfig(cfg config.DB, opts ...Option) *Database {
	return New(cfg.Name, append([]Option{WithEngine(cfg)}, opts...)...)
}

// Name returns the database name.
func (d *Database) Name() string {
	return d.cfg.Name
}

// Path returns the embedded database file, <data directory>/<name>.sqlite3.
func (d *Database) Path() string {
	return dsn.SQLiteFile(d.cfg)
}

// Conn returns the open connection or nil.
func (d *Database) Conn() *gorm.DB {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.conn
}

// IsOpen reports whether Open succeeded and Close has not been called since.
func (d *Database) IsOpen() bool {
	return d.Conn() != nil
}

// Open connects to storage and applies pending migrations. An already open
// connection is closed first and the model cache starts empty.
func (d *Database) Open(ctx context.Context) error {
	if d == nil {
		return ErrNilDatabase
	}

	if err := d.Close(); err != nil {
		log.Warn().Err(err).Str("name", d.cfg.Name).Msg("failed to close previous connection")
	}

	dialector, err := d.engineDialector()
	if err != nil {
		return &OpenError{Path: d.location(), Err: err}
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(d.logLevel),
	})
	if err != nil {
		return &OpenError{Path: d.location(), Err: err}
	}

	log.Info().Str("engine", d.cfg.Engine).Str("location", d.location()).Msg("successfully opened database")

	log.Info().Msg("migrating database...")

	if err = migrate(ctx, conn, d.migrations); err != nil {
		closeConn(conn)

		return err
	}

	log.Info().Msg("migrations complete")

	d.mu.Lock()
	d.conn = conn
	d.cache = make(map[string]Model)
	d.mu.Unlock()

	return nil
}

// Close closes the connection and drops the model cache. Closing a closed
// Database is a no-op.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}

	d.mu.Lock()
	conn := d.conn
	d.conn = nil
	d.cache = nil
	d.mu.Unlock()

	if conn == nil {
		return nil
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// GetModel builds a new model of the given kind bound to table. It fails with
// ErrNotOpen before touching storage when the Database is not open.
func (d *Database) GetModel(factory ModelFactory, table string) (Model, error) {
	if d == nil {
		return nil, ErrNilDatabase
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.getModelLocked(factory, table)
}

func (d *Database) getModelLocked(factory ModelFactory, table string) (Model, error) {
	if d.conn == nil {
		return nil, ErrNotOpen
	}

	if !ValidTableName(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}

	if factory == nil {
		factory = NewSettingsModel
	}

	return factory(d.conn, table, d.newIntrospector(d.conn)), nil
}

// GetOption configures GetSettings.
type GetOption func(*getOptions)

type getOptions struct {
	refresh     bool
	refreshOpts []RefreshOption
	factory     ModelFactory
}

// NoRefresh returns the cached model without reading storage.
func NoRefresh() GetOption {
	return func(o *getOptions) {
		o.refresh = false
	}
}

// WithRefreshOptions passes opts to the model's Refresh.
func WithRefreshOptions(opts ...RefreshOption) GetOption {
	return func(o *getOptions) {
		o.refreshOpts = append(o.refreshOpts, opts...)
	}
}

// WithModel sets the kind of model built on a cache miss. SettingsModel is the default.
func WithModel(factory ModelFactory) GetOption {
	return func(o *getOptions) {
		o.factory = factory
	}
}

// GetSettings returns the cached model of a domain, building it on first use,
// and refreshes it unless NoRefresh is given. Every call for the same table
// returns the same instance until the Database is reopened. A refresh error is
// returned along with the model.
func (d *Database) GetSettings(ctx context.Context, table string, opts ...GetOption) (Model, error) {
	if d == nil {
		return nil, ErrNilDatabase
	}

	o := getOptions{refresh: true, factory: NewSettingsModel}
	for _, opt := range opts {
		opt(&o)
	}

	d.mu.Lock()
	model, ok := d.cache[table]
	if !ok {
		var err error

		model, err = d.getModelLocked(o.factory, table)
		if err != nil {
			d.mu.Unlock()

			return nil, err
		}

		d.cache[table] = model
	}
	d.mu.Unlock()

	if o.refresh {
		if err := model.Refresh(ctx, o.refreshOpts...); err != nil {
			return model, err
		}
	}

	return model, nil
}

func (d *Database) engineDialector() (gorm.Dialector, error) {
	if d.cfg.Engine == EngineSQLite {
		if err := ensureDirectory(d.cfg.DataDirectory); err != nil {
			return nil, err
		}
	}

	if d.dialector != nil {
		return d.dialector, nil
	}

	switch d.cfg.Engine {
	case EngineSQLite:
		return sqlite.Open(d.Path()), nil
	case EngineMySQL:
		return mysql.Open(dsn.MySQL(d.cfg)), nil
	case EnginePostgres:
		return postgres.Open(dsn.Postgres(d.cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database engine %q", d.cfg.Engine)
	}
}

func (d *Database) location() string {
	if d.cfg.Engine == EngineSQLite {
		return d.Path()
	}

	return fmt.Sprintf("%s:%d/%s", d.cfg.Host, d.cfg.Port, d.cfg.Name)
}

func ensureDirectory(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}

	log.Info().Str("directory", dir).Msg("no data directory found, creating directory")

	return os.MkdirAll(dir, 0o750) //nolint:mnd
}

func closeConn(conn *gorm.DB) {
	sqlDB, err := conn.DB()
	if err != nil {
		return
	}

	if err = sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database connection")
	}
}
