// Package database provides database connection management for dual-DB architecture:
// PostgreSQL (Report / ReportItem / ADSSnapshot, dynamic run data) and SQLite
// (read-only Catalogue fixture standing in for the external Catalogue/Stock
// collaborator).
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
)

// Config holds database configuration.
type Config struct {
	// PostgreSQL DSN for Report/ReportItem/ADSSnapshot storage.
	PostgresURL string

	// CataloguePath is the read-only SQLite fixture standing in for the
	// external Catalogue/Stock collaborator.
	CataloguePath string
}

// DB manages dual database connections.
type DB struct {
	// Postgres holds Report, ReportItem and ADSSnapshot rows.
	Postgres *pgxpool.Pool

	// Catalogue is the read-only SQLite fixture (Product/Brand/PriceTier/Stock/SaleRecord).
	Catalogue *sql.DB

	config Config
}

// New creates a new dual-database connection.
func New(ctx context.Context, cfg Config) (*DB, error) {
	db := &DB{
		config: cfg,
	}

	pgPool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := pgPool.Ping(ctx); err != nil {
		pgPool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.Postgres = pgPool

	catalogueDB, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", cfg.CataloguePath))
	if err != nil {
		pgPool.Close()
		return nil, fmt.Errorf("failed to open SQLite catalogue: %w", err)
	}

	if err := catalogueDB.Ping(); err != nil {
		catalogueDB.Close()
		pgPool.Close()
		return nil, fmt.Errorf("failed to ping SQLite catalogue: %w", err)
	}

	db.Catalogue = catalogueDB

	return db, nil
}

// Close closes all database connections.
func (db *DB) Close() {
	if db.Postgres != nil {
		db.Postgres.Close()
	}
	if db.Catalogue != nil {
		db.Catalogue.Close()
	}
}

// Health checks the health of all database connections.
func (db *DB) Health(ctx context.Context) error {
	if err := db.Postgres.Ping(ctx); err != nil {
		return fmt.Errorf("PostgreSQL unhealthy: %w", err)
	}

	if err := db.Catalogue.Ping(); err != nil {
		return fmt.Errorf("SQLite catalogue unhealthy: %w", err)
	}

	return nil
}

// AcquirePostgres acquires a PostgreSQL connection from the pool.
func (db *DB) AcquirePostgres(ctx context.Context) (*pgxpool.Conn, error) {
	return db.Postgres.Acquire(ctx)
}

// BeginTx starts a PostgreSQL transaction.
func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.Postgres.Begin(ctx)
}
