// Package database - Testcontainer utilities for integration tests
//go:build integration || !unit

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPostgresContainer holds a PostgreSQL testcontainer instance
type TestPostgresContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupPostgresContainer creates and starts a PostgreSQL testcontainer
// This is used for integration tests that require a real database
func SetupPostgresContainer(t *testing.T) *TestPostgresContainer {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("replenish_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	// Get connection string
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to get connection string: %v", err)
	}

	// Create pgxpool connection
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to parse pool config: %v", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to create pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		t.Fatalf("Failed to ping database: %v", err)
	}

	tc := &TestPostgresContainer{
		Container: container,
		Pool:      pool,
		ConnStr:   connStr,
	}

	// Cleanup on test completion
	t.Cleanup(func() {
		tc.Close()
	})

	return tc
}

// ApplyMigrations applies SQL migrations from a directory
func (tc *TestPostgresContainer) ApplyMigrations(t *testing.T, migrationsDir string) {
	t.Helper()

	ctx := context.Background()

	// Open standard sql.DB for migration execution
	db, err := sql.Open("pgx", tc.ConnStr)
	if err != nil {
		t.Fatalf("Failed to open DB for migrations: %v", err)
	}
	defer db.Close()

	// Read and execute migration files
	migrations, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	if err != nil {
		t.Fatalf("Failed to find migration files: %v", err)
	}

	if len(migrations) == 0 {
		t.Logf("No migration files found in %s", migrationsDir)
		return
	}

	for _, migration := range migrations {
		t.Logf("Applying migration: %s", filepath.Base(migration))

		// Read migration file
		content, err := os.ReadFile(migration)
		if err != nil {
			t.Fatalf("Failed to read migration %s: %v", migration, err)
		}

		// Execute migration (simplified - in production use proper migration tool)
		_, err = db.ExecContext(ctx, string(content))
		if err != nil {
			t.Fatalf("Failed to execute migration %s: %v", migration, err)
		}
	}

	t.Logf("Applied %d migrations successfully", len(migrations))
}

// CreateTestSchema creates minimal test schema without full migrations
func (tc *TestPostgresContainer) CreateTestSchema(t *testing.T) {
	t.Helper()

	ctx := context.Background()

	// Create minimal schema for testing
	schema := `
		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			user_name TEXT NOT NULL,
			warehouse INTEGER NOT NULL,
			coverage_days INTEGER NOT NULL,
			credit_terms INTEGER NOT NULL,
			status TEXT NOT NULL,
			min_budget NUMERIC NOT NULL DEFAULT 0,
			max_budget NUMERIC NOT NULL DEFAULT 0,
			max_investment_period INTEGER NOT NULL,
			serialized_variants BYTEA,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_reports_user ON reports(user_name);

		CREATE TABLE IF NOT EXISTS report_items (
			report_id TEXT NOT NULL REFERENCES reports(id),
			product_id INTEGER NOT NULL,
			brand_id INTEGER NOT NULL,
			brand_name TEXT NOT NULL,
			product_sku TEXT NOT NULL,
			product_name TEXT NOT NULL,
			inventory NUMERIC NOT NULL,
			average_daily_sales NUMERIC NOT NULL,
			sale_price NUMERIC NOT NULL,
			purchase_price NUMERIC NOT NULL,
			pricelevel_minimum_quantity INTEGER NOT NULL DEFAULT 1,
			system_coverage_days INTEGER NOT NULL,
			credit_terms INTEGER NOT NULL,
			system_suggested_quantity INTEGER NOT NULL,
			best_quantity INTEGER NOT NULL,
			PRIMARY KEY (report_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS ads_snapshots (
			product_id INTEGER PRIMARY KEY,
			ads NUMERIC NOT NULL,
			last_updated BIGINT NOT NULL
		);
	`

	_, err := tc.Pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Log("Test schema created successfully")
}

// SeedTestData inserts test data into the database
func (tc *TestPostgresContainer) SeedTestData(t *testing.T) {
	t.Helper()

	ctx := context.Background()

	// Insert a sample draft report
	seedSQL := `
		INSERT INTO reports (
			id, user_name, warehouse, coverage_days, credit_terms, status,
			min_budget, max_budget, max_investment_period, created_at
		) VALUES
			('11111111-1111-1111-1111-111111111111', 'test-user', 1, 14, 45, 'DRAFT', 0, 0, 60, NOW())
		ON CONFLICT (id) DO NOTHING;
	`

	_, err := tc.Pool.Exec(ctx, seedSQL)
	if err != nil {
		t.Fatalf("Failed to seed test data: %v", err)
	}

	t.Log("Test data seeded successfully")
}

// Close terminates the container and closes the pool
func (tc *TestPostgresContainer) Close() {
	if tc.Pool != nil {
		tc.Pool.Close()
	}
	if tc.Container != nil {
		ctx := context.Background()
		tc.Container.Terminate(ctx)
	}
}

// Truncate removes all data from test tables
func (tc *TestPostgresContainer) Truncate(t *testing.T, tables ...string) {
	t.Helper()

	ctx := context.Background()

	for _, table := range tables {
		_, err := tc.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			t.Fatalf("Failed to truncate table %s: %v", table, err)
		}
	}
}
