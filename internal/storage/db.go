package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported session-store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// DB wraps the session database connection for one of the supported
// drivers. SQLite is the default local backend; Postgres and MySQL are
// available for shared deployments.
type DB struct {
	conn   *sql.DB
	driver string
}

// Open opens (or for SQLite, creates) the session database and runs
// migrations. For SQLite the dsn is a file path; for Postgres and MySQL
// it is a full driver DSN.
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	case DriverPostgres, DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// SQLite only supports one writer — a single connection avoids SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
	}

	db := &DB{conn: conn, driver: driver}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			language TEXT NOT NULL DEFAULT 'python',
			zoom REAL NOT NULL DEFAULT 1.0,
			pan_x REAL NOT NULL DEFAULT 0,
			pan_y REAL NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS session_blocks (
			session_id TEXT NOT NULL,
			block_id TEXT NOT NULL,
			type TEXT NOT NULL,
			x REAL NOT NULL DEFAULT 0,
			y REAL NOT NULL DEFAULT 0,
			properties_json TEXT NOT NULL DEFAULT '{}',
			sort_order INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, block_id)
		)`,
		`CREATE TABLE IF NOT EXISTS session_connections (
			session_id TEXT NOT NULL,
			from_id TEXT NOT NULL,
			to_id TEXT NOT NULL,
			from_port TEXT NOT NULL DEFAULT '',
			to_port TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_blocks ON session_blocks(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_session_connections ON session_connections(session_id)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			// MySQL has no CREATE INDEX IF NOT EXISTS; a duplicate index is fine.
			if strings.Contains(m, "CREATE INDEX") && strings.Contains(err.Error(), "Duplicate") {
				continue
			}
			return fmt.Errorf("migration failed: %s: %w", m[:40], err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $N for Postgres. SQLite and MySQL
// take queries as written.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
