// internal/catalog/sqlstore_test.go
//
// SQLStore against sqlmock, plus one round trip on an in-memory SQLite
// database when the driver is usable.

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/anime-catalog/internal/database"
)

var recordCols = []string{"id", "title", "imagepath", "numberseason", "numberepisodes", "description"}

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	db := sqlx.NewDb(raw, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(db), mock
}

func TestSQLStore_FindAllOrdersByID(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT id, .* FROM anime ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(recordCols).
			AddRow(1, "A", "a.png", 1, 12, "x").
			AddRow(2, "B", "b.png", 2, 24, "y"))

	recs, err := s.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(recs) != 2 || recs[1].Title != "B" || recs[1].EpisodeCount != 24 {
		t.Fatalf("recs = %+v", recs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSQLStore_FindByIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT id, .* FROM anime WHERE id = \?`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(recordCols))

	if _, err := s.FindByID(context.Background(), 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLStore_InsertAssignsID(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO anime \(title, imagepath, numberseason, numberepisodes, description\)`).
		WithArgs("T", "t.png", 3, 13, "d").
		WillReturnResult(sqlmock.NewResult(42, 1))

	rec, err := s.Insert(context.Background(), Fields{
		Title: "T", ImagePath: "t.png", SeasonNumber: 3, EpisodeCount: 13, Description: "d",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if rec.ID != 42 || rec.Title != "T" {
		t.Fatalf("rec = %+v", rec)
	}
}

func TestSQLStore_UpdateAndDelete(t *testing.T) {
	s, mock := newMockStore(t)
	rec := &Record{ID: 5, Title: "T", ImagePath: "i", SeasonNumber: 1, EpisodeCount: 2, Description: "d"}

	mock.ExpectExec(`UPDATE anime SET title = \?, imagepath = \?, .* WHERE id = \?`).
		WithArgs("T", "i", 1, 2, "d", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM anime WHERE id = \?`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Update(context.Background(), rec); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := s.Delete(context.Background(), rec); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSQLStore_WrapsDriverErrors(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(`DELETE FROM anime`).WillReturnError(boom)

	if err := s.Delete(context.Background(), &Record{ID: 1}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestSQLStore_SQLiteRoundTrip(t *testing.T) {
	db, err := database.Open("sqlite3", ":memory:")
	if err != nil {
		t.Skipf("sqlite3 unavailable: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db, Schema("sqlite3")); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	s := NewSQLStore(db)

	a, err := s.Insert(ctx, Fields{Title: "A", ImagePath: "a.png", SeasonNumber: 1, EpisodeCount: 12, Description: "x"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := s.Insert(ctx, Fields{Title: "B"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	a.Title = "A2"
	if err := s.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := s.FindByID(ctx, a.ID)
	if err != nil || got.Title != "A2" || got.EpisodeCount != 12 {
		t.Fatalf("FindByID = %+v, %v", got, err)
	}

	if err := s.Delete(ctx, a); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, err := s.FindAll(ctx)
	if err != nil || len(all) != 1 || all[0].Title != "B" {
		t.Fatalf("FindAll = %+v, %v", all, err)
	}
}
