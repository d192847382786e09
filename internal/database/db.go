package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/XSAM/otelsql"
	_ "github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ErrNotFound is returned when an analysis id does not exist
var ErrNotFound = errors.New("analysis not found")

// DB represents the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new PostgreSQL database connection
// PostgreSQL format: "host=... user=... password=... dbname=... port=..." or a postgres:// URL
// Queries issued with a context become child spans of the caller's trace.
func New(connStr string) (*DB, error) {
	conn, err := otelsql.Open("postgres", connStr,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSpanOptions(otelsql.SpanOptions{OmitConnResetSession: true}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}
