package anime

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/anime-catalog/internal/catalog"
	"github.com/yanizio/anime-catalog/internal/form"
	"github.com/yanizio/anime-catalog/internal/logger"
	"github.com/yanizio/anime-catalog/internal/metrics"
)

// multipart bodies beyond this are spooled to temp files.
const maxMemory = 8 << 20

func (c *Comp) index(w http.ResponseWriter, r *http.Request) {
	s := c.sessions.Get(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	err := s.Do(func(n *catalog.Navigator) error {
		return n.Render(r.Context(), w)
	})
	if err != nil {
		metrics.RenderErrorsTotal.Inc()
		c.fail(w, r, err)
	}
}

func (c *Comp) create(w http.ResponseWriter, r *http.Request) {
	c.listAction(w, r, func(_ context.Context, l *catalog.ListView) error {
		l.RequestCreate()
		return nil
	})
}

func (c *Comp) edit(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	c.listAction(w, r, func(ctx context.Context, l *catalog.ListView) error {
		return l.RequestEdit(ctx, id)
	})
}

func (c *Comp) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	c.listAction(w, r, func(ctx context.Context, l *catalog.ListView) error {
		return l.RequestDelete(ctx, id)
	})
}

// listAction runs fn against the session's ListView.  A session that is
// showing the form (stale tab) ignores the action.
func (c *Comp) listAction(w http.ResponseWriter, r *http.Request, fn func(context.Context, *catalog.ListView) error) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxBody)
	if err := form.VerifyRequest(r, maxMemory); err != nil {
		c.reject(w, r, err)
		return
	}

	s := c.sessions.Get(w, r)
	err := s.Do(func(n *catalog.Navigator) error {
		l, ok := n.List()
		if !ok {
			logger.FromContext(r.Context()).Debugw("stale list action ignored", "path", r.URL.Path)
			return nil
		}
		return fn(r.Context(), l)
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// submit feeds the multipart body to the active FormView and then saves
// or cancels according to the pressed button.
func (c *Comp) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxBody)
	sub, err := form.Parse(catalog.DefaultFormID, r, maxMemory)
	if err != nil {
		c.reject(w, r, err)
		return
	}

	s := c.sessions.Get(w, r)
	err = s.Do(func(n *catalog.Navigator) error {
		fv, ok := n.Form()
		if !ok {
			logger.FromContext(r.Context()).Debugw("stale form submit ignored")
			return nil
		}
		for name, v := range sub.Values {
			fv.SetField(name, v)
		}
		if f, ok := sub.Files[imageField]; ok {
			fv.AcceptUpload(f.Name, f.Data)
		}

		switch sub.Action {
		case "save":
			return fv.Commit(r.Context())
		case "cancel":
			fv.Cancel()
		}
		return nil
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// recordID parses {id}; it writes 400 and returns false when malformed.
func recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "bad record id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// reject maps submission errors to 4xx responses.
func (c *Comp) reject(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, form.ErrInvalidToken):
		log.Warnw("csrf token rejected", "path", r.URL.Path)
		http.Error(w, "invalid or expired form token, reload the page", http.StatusForbidden)
	case errors.As(err, &tooBig):
		log.Warnw("request body too large", "path", r.URL.Path, "limit", tooBig.Limit)
		http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
	default:
		log.Warnw("malformed submission", "path", r.URL.Path, "err", err)
		http.Error(w, "malformed request", http.StatusBadRequest)
	}
}

// fail logs a storage or IO failure and answers 500.
func (c *Comp) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Errorw("request failed", "path", r.URL.Path, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// noDirListing answers 404 for directory paths.
func noDirListing(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
