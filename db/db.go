package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"link-notifier/models"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB wraps the database connection holding the link snapshot
type DB struct {
	conn   *sql.DB
	driver string
	log    zerolog.Logger
}

// Open creates a new database connection and initializes the schema.
// For postgres an empty dsn is built from the DATABASE_URL or DB_* environment variables.
func Open(ctx context.Context, driver, dsn string, log zerolog.Logger) (*DB, error) {
	switch driver {
	case DriverPostgres:
		if dsn == "" {
			dsn = postgresDSNFromEnv()
		}
	case DriverSQLite:
		if dsn == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn, driver: driver, log: log}

	if err := db.initSchema(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func postgresDSNFromEnv() string {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return connStr
	}

	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "link_notifier")
	password := getEnvOrDefault("DB_PASSWORD", "")
	dbname := getEnvOrDefault("DB_NAME", "link_notifier")
	sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the snapshot table if it doesn't exist
func (db *DB) initSchema(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS link_snapshot (
			link TEXT PRIMARY KEY
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create link_snapshot table: %w", err)
	}
	return nil
}

// placeholder returns the n-th (1-based) bind parameter for the driver
func (db *DB) placeholder(n int) string {
	if db.driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Read returns every stored link. An empty table is treated as no previous snapshot.
func (db *DB) Read(ctx context.Context) (models.LinkSet, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT link FROM link_snapshot`)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	links := models.NewLinkSet()
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links.Add(link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate links: %w", err)
	}

	if links.Len() == 0 {
		db.log.Info().Msg("No previous links snapshot found. Creating new one.")
	}
	return links, nil
}

// Write replaces the whole snapshot in one transaction
func (db *DB) Write(ctx context.Context, links models.LinkSet) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM link_snapshot`); err != nil {
		return fmt.Errorf("failed to clear links: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO link_snapshot (link) VALUES (`+db.placeholder(1)+`)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, link := range links.Sorted() {
		if _, err := stmt.ExecContext(ctx, link); err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit links: %w", err)
	}
	return nil
}
