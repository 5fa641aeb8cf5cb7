// internal/catalog/record.go
//
// The Anime record and the storage contract the views depend on.
//
// Context
// -------
// Record mirrors one row of the `anime` table.  The store accepts whatever
// values it is given; the “every field populated” rule is enforced by the
// form view at commit time and nowhere else.
//
// Notes
// -----
//   • Column names follow the legacy schema (imagepath, numberseason,
//     numberepisodes) so existing databases can be pointed at directly.
//   • Oxford commas, two spaces after periods.
package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.FindByID when no row matches.
var ErrNotFound = errors.New("catalog: record not found")

// Record is one persisted anime.
type Record struct {
	ID           int64  `db:"id"`
	Title        string `db:"title"`
	ImagePath    string `db:"imagepath"`
	SeasonNumber int    `db:"numberseason"`
	EpisodeCount int    `db:"numberepisodes"`
	Description  string `db:"description"`
}

// Fields holds the five editable columns.  Insert takes Fields because the
// id is assigned by the store.
type Fields struct {
	Title        string
	ImagePath    string
	SeasonNumber int
	EpisodeCount int
	Description  string
}

// Fields returns a copy of r's editable columns.
func (r *Record) Fields() Fields {
	return Fields{
		Title:        r.Title,
		ImagePath:    r.ImagePath,
		SeasonNumber: r.SeasonNumber,
		EpisodeCount: r.EpisodeCount,
		Description:  r.Description,
	}
}

// Apply overwrites r's editable columns.  ID is never touched.
func (r *Record) Apply(f Fields) {
	r.Title = f.Title
	r.ImagePath = f.ImagePath
	r.SeasonNumber = f.SeasonNumber
	r.EpisodeCount = f.EpisodeCount
	r.Description = f.Description
}

// Store is the persistence collaborator.  Each call is expected to be
// atomic and visible to the next call.
type Store interface {
	// FindAll returns every record in id order.
	FindAll(ctx context.Context) ([]Record, error)
	// FindByID returns ErrNotFound when id is unknown.
	FindByID(ctx context.Context, id int64) (*Record, error)
	Insert(ctx context.Context, f Fields) (*Record, error)
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, r *Record) error
}
