// internal/catalog/navigator.go
//
// Navigator is the per-session root component.  It owns exactly one active
// child view, a ListView or a FormView, and swaps it on request.
//
// Context
// -------
// Children never see the Navigator.  A ListView receives a showForm
// capability; a FormView receives a one-shot completion callback bound to
// ShowList.  Every transition builds a fresh child, so no view state leaks
// from one visit to the next.
//
//	        ShowForm(rec)
//	 List ───────────────▶ Form
//	  ▲                     │
//	  └─────────────────────┘
//	    done (save or cancel)
//
// Notes
// -----
//   • A Navigator is not safe for concurrent use.  The hosting layer
//     serialises each session's actions.
//   • Oxford commas, two spaces after periods.
package catalog

import (
	"bytes"
	"context"
	"html/template"
	"io"

	"go.uber.org/zap"

	"github.com/yanizio/anime-catalog/internal/head"
	"github.com/yanizio/anime-catalog/internal/upload"
)

// Template names executed by the views.
const (
	LayoutTemplate = "layout"
	ListTemplate   = "list"
	FormTemplate   = "form"
)

// DefaultFormID names the YAML form definition rendered by FormView.
const DefaultFormID = "anime/record"

// Templates executes a named template.  *view.Engine satisfies it.
type Templates interface {
	Execute(w io.Writer, name string, data any) error
}

// State identifies the active child.
type State int

const (
	StateList State = iota
	StateForm
)

func (s State) String() string {
	if s == StateForm {
		return "form"
	}
	return "list"
}

// Options carries the collaborators shared by every view of one Navigator.
type Options struct {
	Images     upload.Dir // destination of cover uploads
	ImageURL   string     // URL prefix for stored images, default "/static/images/"
	Title      string     // page <title>
	Stylesheet string     // stylesheet href, omitted when empty
	FormID     string     // form definition ID, default DefaultFormID
	Logger     *zap.SugaredLogger
}

func (o *Options) setDefaults() {
	if o.ImageURL == "" {
		o.ImageURL = "/static/images/"
	}
	if o.Title == "" {
		o.Title = "Anime catalog"
	}
	if o.FormID == "" {
		o.FormID = DefaultFormID
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
}

type child interface {
	Render(ctx context.Context, w io.Writer) error
}

// Navigator mediates List ⇄ Form transitions.
type Navigator struct {
	store Store
	tpl   Templates
	opts  Options

	current child
}

// NewNavigator starts in the List state.
func NewNavigator(store Store, tpl Templates, opts Options) *Navigator {
	opts.setDefaults()
	n := &Navigator{store: store, tpl: tpl, opts: opts}
	n.ShowList()
	return n
}

// ShowForm replaces the active child with a fresh FormView.  A nil rec
// selects create mode.
func (n *Navigator) ShowForm(rec *Record) {
	n.current = newFormView(rec, n.store, n.tpl, n.opts, n.ShowList)
	if rec != nil {
		n.opts.Logger.Debugw("navigate", "to", StateForm, "mode", "edit", "id", rec.ID)
		return
	}
	n.opts.Logger.Debugw("navigate", "to", StateForm, "mode", "create")
}

// ShowList replaces the active child with a fresh ListView.  Calling it
// while the list is showing only swaps in an equivalent list.
func (n *Navigator) ShowList() {
	n.current = newListView(n.store, n.tpl, n.opts, n.ShowForm)
	n.opts.Logger.Debugw("navigate", "to", StateList)
}

// State reports which child is active.
func (n *Navigator) State() State {
	if _, ok := n.current.(*FormView); ok {
		return StateForm
	}
	return StateList
}

// List returns the active ListView, or false while the form is showing.
func (n *Navigator) List() (*ListView, bool) {
	v, ok := n.current.(*ListView)
	return v, ok
}

// Form returns the active FormView, or false while the list is showing.
func (n *Navigator) Form() (*FormView, bool) {
	v, ok := n.current.(*FormView)
	return v, ok
}

type layoutPage struct {
	Head    *head.Builder
	State   string
	Content template.HTML
}

// Render draws the active child inside the layout.  Nothing is written to w
// when any stage fails.
func (n *Navigator) Render(ctx context.Context, w io.Writer) error {
	var body bytes.Buffer
	if err := n.current.Render(ctx, &body); err != nil {
		return err
	}

	h := head.New()
	h.Meta(`<meta charset="utf-8">`)
	h.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	h.SetTitle(n.opts.Title)
	if n.opts.Stylesheet != "" {
		h.Stylesheet(n.opts.Stylesheet)
	}

	var page bytes.Buffer
	err := n.tpl.Execute(&page, LayoutTemplate, layoutPage{
		Head:    h,
		State:   n.State().String(),
		Content: template.HTML(body.String()),
	})
	if err != nil {
		return err
	}
	_, err = page.WriteTo(w)
	return err
}
