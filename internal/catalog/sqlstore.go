// internal/catalog/sqlstore.go
//
// sqlx-backed Store.  Queries use `?` placeholders, which both
// go-sql-driver/mysql and mattn/go-sqlite3 accept.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/anime-catalog/internal/metrics"
)

// Schema returns idempotent DDL for the anime table in the given driver's
// dialect.  Columns are nullable to match the legacy table.
func Schema(driver string) []string {
	if driver == "sqlite3" {
		return []string{`
        CREATE TABLE IF NOT EXISTS anime (
            id             INTEGER PRIMARY KEY AUTOINCREMENT,
            imagepath      VARCHAR(500),
            title          VARCHAR(500),
            numberseason   INTEGER,
            numberepisodes INTEGER,
            description    VARCHAR(3000)
        )`}
	}
	return []string{`
        CREATE TABLE IF NOT EXISTS anime (
            id             INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
            imagepath      VARCHAR(500),
            title          VARCHAR(500),
            numberseason   INT,
            numberepisodes INT,
            description    VARCHAR(3000)
        ) DEFAULT CHARSET=utf8mb4`}
}

// SQLStore implements Store on a *sqlx.DB.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps db.  The anime table must already exist.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

const selectRecord = `
        SELECT id,
               COALESCE(title, '')          AS title,
               COALESCE(imagepath, '')      AS imagepath,
               COALESCE(numberseason, 0)    AS numberseason,
               COALESCE(numberepisodes, 0)  AS numberepisodes,
               COALESCE(description, '')    AS description
        FROM   anime`

func (s *SQLStore) FindAll(ctx context.Context) ([]Record, error) {
	var rows []Record
	if err := s.db.SelectContext(ctx, &rows, selectRecord+` ORDER BY id`); err != nil {
		return nil, fmt.Errorf("find all: %w", err)
	}
	return rows, nil
}

func (s *SQLStore) FindByID(ctx context.Context, id int64) (*Record, error) {
	var rec Record
	err := s.db.GetContext(ctx, &rec, selectRecord+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %d: %w", id, err)
	}
	return &rec, nil
}

func (s *SQLStore) Insert(ctx context.Context, f Fields) (rec *Record, err error) {
	defer func() { metrics.RecordWritesTotal.WithLabelValues("insert", metrics.Result(err)).Inc() }()

	const q = `
        INSERT INTO anime (title, imagepath, numberseason, numberepisodes, description)
        VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, f.Title, f.ImagePath, f.SeasonNumber, f.EpisodeCount, f.Description)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert id: %w", err)
	}

	rec = &Record{ID: id}
	rec.Apply(f)
	return rec, nil
}

func (s *SQLStore) Update(ctx context.Context, r *Record) (err error) {
	defer func() { metrics.RecordWritesTotal.WithLabelValues("update", metrics.Result(err)).Inc() }()

	const q = `
        UPDATE anime
        SET    title = ?, imagepath = ?, numberseason = ?, numberepisodes = ?, description = ?
        WHERE  id = ?`
	if _, err := s.db.ExecContext(ctx, q,
		r.Title, r.ImagePath, r.SeasonNumber, r.EpisodeCount, r.Description, r.ID); err != nil {
		return fmt.Errorf("update %d: %w", r.ID, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, r *Record) (err error) {
	defer func() { metrics.RecordWritesTotal.WithLabelValues("delete", metrics.Result(err)).Inc() }()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM anime WHERE id = ?`, r.ID); err != nil {
		return fmt.Errorf("delete %d: %w", r.ID, err)
	}
	return nil
}
