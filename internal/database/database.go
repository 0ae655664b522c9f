package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB stores analysis history in PostgreSQL
type DB struct {
	db     *sql.DB
	logger *zerolog.Logger
}

// New creates a new database connection. The schema is not touched; call
// Migrate before first use.
func New(ctx context.Context, dsn string, logger *zerolog.Logger) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	d := NewFromDB(db, logger)
	d.logger.Info().Msg("Connected to database")
	return d, nil
}

// NewFromDB creates a new DB instance from an existing *sql.DB
func NewFromDB(db *sql.DB, logger *zerolog.Logger) *DB {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &DB{db: db, logger: logger}
}

// SQL exposes the underlying pool, shared with the job queue
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Migrate applies every pending embedded migration
func (d *DB) Migrate(ctx context.Context) error {
	m, err := d.migrator(ctx)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("error applying migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("error reading schema version: %w", err)
	}
	d.logger.Info().
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("Database schema up to date")
	return nil
}

// MigrateDown rolls back every migration
func (d *DB) MigrateDown(ctx context.Context) error {
	m, err := d.migrator(ctx)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("error rolling back migrations: %w", err)
	}
	return nil
}

// migrator runs on a dedicated connection so that closing it leaves the pool open
func (d *DB) migrator(ctx context.Context) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("error loading migrations: %w", err)
	}

	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("error acquiring migration connection: %w", err)
	}

	driver, err := migratepg.WithConnection(ctx, conn, &migratepg.Config{})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("error creating migrator: %w", err)
	}
	return m, nil
}

// Ping checks the connection is alive
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}
