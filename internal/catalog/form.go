// internal/catalog/form.go
//
// FormView edits one record through a Draft.
//
// Context
// -------
// The Draft holds the submitted strings, a pending upload, and the current
// error message.  It is separate from the Record so an abandoned or invalid
// edit never touches stored data.  Commit is the only path to the store:
//
//  1. Resolve the image: pending upload (written to disk), else the edited
//     record's current image, else "".
//  2. All five values must be non-empty.
//  3. Season and episode values must be whole numbers.
//  4. Update the edited record in place, or insert a new one.
//  5. Fire the completion callback.
//
// Steps 2 and 3 fail softly: the message lands in Draft.Error, the draft is
// kept, and Commit returns nil.  Only storage and file-system failures are
// returned as errors.
package catalog

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yanizio/anime-catalog/internal/metrics"
	"github.com/yanizio/anime-catalog/internal/upload"
)

// Draft field names, shared with the form definition.
const (
	FieldTitle        = "title"
	FieldImagePath    = "imagePath"
	FieldSeasonNumber = "seasonNumber"
	FieldEpisodeCount = "episodeCount"
	FieldDescription  = "description"
)

// User-facing validation messages.
const (
	MsgRequired     = "all fields are required"
	MsgWholeNumbers = "season and episode count must be whole numbers"
)

var validate = validator.New()

// Draft is the in-progress copy of a record's editable fields.
type Draft struct {
	Title        string
	ImagePath    string
	SeasonNumber string
	EpisodeCount string
	Description  string

	Upload upload.File
	Error  string
}

// committed is what step 2 checks.
type committed struct {
	Title        string `validate:"required"`
	ImagePath    string `validate:"required"`
	SeasonNumber string `validate:"required"`
	EpisodeCount string `validate:"required"`
	Description  string `validate:"required"`
}

// FormView creates a record (record == nil) or edits one.  The mode is
// fixed for the view's lifetime.
type FormView struct {
	store  Store
	tpl    Templates
	opts   Options
	record *Record
	draft  Draft
	done   func()
}

func newFormView(rec *Record, store Store, tpl Templates, opts Options, done func()) *FormView {
	v := &FormView{store: store, tpl: tpl, opts: opts, record: rec, done: done}
	if rec != nil {
		v.draft = Draft{
			Title:        rec.Title,
			ImagePath:    rec.ImagePath,
			SeasonNumber: strconv.Itoa(rec.SeasonNumber),
			EpisodeCount: strconv.Itoa(rec.EpisodeCount),
			Description:  rec.Description,
		}
	}
	return v
}

// Editing reports whether the view updates an existing record.
func (v *FormView) Editing() bool { return v.record != nil }

// Draft returns a copy of the current draft.
func (v *FormView) Draft() Draft { return v.draft }

// SetField updates one draft value.  Unknown names are ignored.
func (v *FormView) SetField(name, value string) {
	if p := v.field(name); p != nil {
		*p = value
	}
}

// Field returns one draft value.
func (v *FormView) Field(name string) (string, bool) {
	if p := v.field(name); p != nil {
		return *p, true
	}
	return "", false
}

func (v *FormView) field(name string) *string {
	switch name {
	case FieldTitle:
		return &v.draft.Title
	case FieldImagePath:
		return &v.draft.ImagePath
	case FieldSeasonNumber:
		return &v.draft.SeasonNumber
	case FieldEpisodeCount:
		return &v.draft.EpisodeCount
	case FieldDescription:
		return &v.draft.Description
	}
	return nil
}

// AcceptUpload holds filename and data for the next Commit, replacing any
// earlier upload.  Input without a name or without bytes means “no file
// chosen” and is ignored.
func (v *FormView) AcceptUpload(filename string, data []byte) {
	f := upload.File{Name: upload.SafeName(filename), Data: data}
	if f.Empty() {
		return
	}
	v.draft.Upload = f
}

// Commit validates the draft and writes it through to the store.
func (v *FormView) Commit(ctx context.Context) error {
	d := &v.draft

	imagePath := ""
	switch {
	case !d.Upload.Empty():
		name, err := v.opts.Images.Write(d.Upload)
		metrics.UploadsTotal.WithLabelValues(metrics.Result(err)).Inc()
		if err != nil {
			return fmt.Errorf("store cover image: %w", err)
		}
		imagePath = name
	case v.record != nil:
		imagePath = v.record.ImagePath
	}

	in := committed{
		Title:        d.Title,
		ImagePath:    imagePath,
		SeasonNumber: d.SeasonNumber,
		EpisodeCount: d.EpisodeCount,
		Description:  d.Description,
	}
	if err := validate.Struct(in); err != nil {
		v.reject(MsgRequired)
		return nil
	}

	seasons, errS := strconv.Atoi(strings.TrimSpace(in.SeasonNumber))
	episodes, errE := strconv.Atoi(strings.TrimSpace(in.EpisodeCount))
	if errS != nil || errE != nil {
		v.reject(MsgWholeNumbers)
		return nil
	}

	f := Fields{
		Title:        in.Title,
		ImagePath:    imagePath,
		SeasonNumber: seasons,
		EpisodeCount: episodes,
		Description:  in.Description,
	}
	if v.record != nil {
		next := *v.record
		next.Apply(f)
		if err := v.store.Update(ctx, &next); err != nil {
			return err
		}
		*v.record = next
		v.opts.Logger.Infow("record updated", "id", next.ID, "title", f.Title)
	} else {
		rec, err := v.store.Insert(ctx, f)
		if err != nil {
			return err
		}
		v.opts.Logger.Infow("record created", "id", rec.ID, "title", f.Title)
	}

	d.Error = ""
	v.finish()
	return nil
}

// Cancel discards the draft.
func (v *FormView) Cancel() {
	v.finish()
}

func (v *FormView) reject(msg string) {
	v.draft.Error = msg
	metrics.ValidationFailuresTotal.Inc()
	v.opts.Logger.Debugw("commit rejected", "reason", msg)
}

// finish fires the completion callback at most once.
func (v *FormView) finish() {
	done := v.done
	v.done = nil
	if done != nil {
		done()
	}
}

type formPage struct {
	FormID       string
	Heading      string
	Editing      bool
	CurrentImage string
	ImageURL     string
	Error        string
	Values       map[string]string
}

// Render writes the form pre-filled from the draft.
func (v *FormView) Render(_ context.Context, w io.Writer) error {
	page := formPage{
		FormID:   v.opts.FormID,
		Heading:  "Create anime",
		Editing:  v.record != nil,
		ImageURL: v.opts.ImageURL,
		Error:    v.draft.Error,
		Values: map[string]string{
			FieldTitle:        v.draft.Title,
			FieldSeasonNumber: v.draft.SeasonNumber,
			FieldEpisodeCount: v.draft.EpisodeCount,
			FieldDescription:  v.draft.Description,
		},
	}
	if v.record != nil {
		page.Heading = "Edit anime"
		page.CurrentImage = v.record.ImagePath
	}
	return v.tpl.Execute(w, FormTemplate, page)
}
