// Package database centralises sqlx connection helpers.  Two drivers are
// registered: go-sql-driver/mysql for shared deployments (also MariaDB) and
// mattn/go-sqlite3 for single-operator installs and tests.
//
// Public entry points:
//
//	Open(driver, dsn)                             – conservative pool sizes.
//	OpenWithOptions(driver, dsn, maxOpen, maxIdle) – fine-grained control.
//	Migrate(ctx, db, stmts)                       – idempotent schema steps.
//
// Both open helpers Ping the database before returning so callers can fail
// fast during bootstrap.  Callers should Close() the returned *sqlx.DB when
// no longer needed.
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Open returns a *sqlx.DB with sane defaults: 15 max open, 5 idle, and a
// 30-minute connection lifetime.
func Open(driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(driver, dsn, 15, 5)
}

// OpenWithOptions lets callers tune maxOpen and maxIdle per pool.  SQLite
// pools are capped at one writer connection, and the database file's
// directory is created on first use.
func OpenWithOptions(driver, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	if driver == "sqlite3" {
		if dir := SQLiteDir(dsn); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite3" {
		maxOpen, maxIdle = 1, 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// SQLiteFile returns the file part of a go-sqlite3 DSN: the query string and
// any "file:" scheme are stripped.  In-memory databases yield "".
func SQLiteFile(dsn string) string {
	file, _, _ := strings.Cut(dsn, "?")
	file = strings.TrimPrefix(file, "file:")
	if file == "" || strings.HasPrefix(file, ":memory:") {
		return ""
	}
	return file
}

// SQLiteDir is the directory holding the database file, or "" for
// in-memory DSNs.
func SQLiteDir(dsn string) string {
	if f := SQLiteFile(dsn); f != "" {
		return filepath.Dir(f)
	}
	return ""
}

// Migrate executes each statement in order.  Statements must be idempotent
// (CREATE TABLE IF NOT EXISTS and friends); there is no version table.
func Migrate(ctx context.Context, db *sqlx.DB, stmts []string) error {
	for i, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
