package catalog

import (
	"context"
	"errors"
	"io"
)

// ListView shows every record.  It holds no snapshot; each Render
// re-queries the store.
type ListView struct {
	store    Store
	tpl      Templates
	opts     Options
	showForm func(*Record)
}

func newListView(store Store, tpl Templates, opts Options, showForm func(*Record)) *ListView {
	return &ListView{store: store, tpl: tpl, opts: opts, showForm: showForm}
}

// RequestCreate opens an empty form.
func (v *ListView) RequestCreate() {
	v.showForm(nil)
}

// RequestEdit opens the form for id.  An id that no longer exists is
// ignored.
func (v *ListView) RequestEdit(ctx context.Context, id int64) error {
	rec, err := v.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		v.opts.Logger.Debugw("edit of missing record ignored", "id", id)
		return nil
	}
	if err != nil {
		return err
	}
	v.showForm(rec)
	return nil
}

// RequestDelete removes id without confirmation.  An id that no longer
// exists is ignored.
func (v *ListView) RequestDelete(ctx context.Context, id int64) error {
	rec, err := v.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		v.opts.Logger.Debugw("delete of missing record ignored", "id", id)
		return nil
	}
	if err != nil {
		return err
	}
	if err := v.store.Delete(ctx, rec); err != nil {
		return err
	}
	v.opts.Logger.Infow("record deleted", "id", id, "title", rec.Title)
	return nil
}

type listPage struct {
	Records  []Record
	ImageURL string
}

// Render writes one card per record, or the empty-state message when the
// store is empty.
func (v *ListView) Render(ctx context.Context, w io.Writer) error {
	recs, err := v.store.FindAll(ctx)
	if err != nil {
		return err
	}
	return v.tpl.Execute(w, ListTemplate, listPage{Records: recs, ImageURL: v.opts.ImageURL})
}
