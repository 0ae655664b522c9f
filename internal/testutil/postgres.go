package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/go-testfixtures/testfixtures/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github-profile-analyzer/internal/database"
)

type TestPostgres struct {
	Container *postgres.PostgresContainer
	DB        *database.DB
	DSN       string
	Fixtures  *testfixtures.Loader
}

// NewTestPostgres starts a PostgreSQL container, applies the schema
// migrations and prepares the fixtures loader
func NewTestPostgres(ctx context.Context) (*TestPostgres, error) {
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	tp := &TestPostgres{Container: pgContainer}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tp.Close(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}
	tp.DSN = dsn

	db, err := database.New(ctx, dsn, nil)
	if err != nil {
		tp.Close(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	tp.DB = db

	if err := db.Migrate(ctx); err != nil {
		tp.Close(ctx)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	_, filename, _, _ := runtime.Caller(0)
	fixtures, err := testfixtures.New(
		testfixtures.Database(db.SQL()),
		testfixtures.Dialect("postgres"),
		testfixtures.Directory(filepath.Join(filepath.Dir(filename), "fixtures")),
	)
	if err != nil {
		tp.Close(ctx)
		return nil, fmt.Errorf("failed to initialize fixtures: %w", err)
	}
	tp.Fixtures = fixtures

	return tp, nil
}

// SetupPostgres is NewTestPostgres for tests: it skips under -short and
// registers cleanup
func SetupPostgres(t *testing.T) *TestPostgres {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()
	tp, err := NewTestPostgres(ctx)
	if err != nil {
		t.Fatalf("failed to set up test database: %v", err)
	}
	t.Cleanup(func() {
		if err := tp.Close(ctx); err != nil {
			t.Logf("failed to clean up test database: %v", err)
		}
	})
	return tp
}

// Close cleans up the test database resources
func (tp *TestPostgres) Close(ctx context.Context) error {
	if tp.DB != nil {
		if err := tp.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	if tp.Container != nil {
		if err := testcontainers.TerminateContainer(tp.Container, testcontainers.StopContext(ctx)); err != nil {
			return fmt.Errorf("failed to terminate container: %w", err)
		}
	}

	return nil
}

// LoadFixtures loads all fixtures into the database
func (tp *TestPostgres) LoadFixtures() error {
	return tp.Fixtures.Load()
}

// Truncate empties the given tables
func (tp *TestPostgres) Truncate(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := tp.DB.SQL().ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY", table)); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// RunWithinTransaction runs the given function within a transaction and rolls back afterward
func (tp *TestPostgres) RunWithinTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := tp.DB.SQL().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(tx)
}
