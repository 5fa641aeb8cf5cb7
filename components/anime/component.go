// components/anime/component.go
//
// Anime component: the catalog's HTTP surface.
//
// Context
// -------
// The component owns one session manager whose per-session state is a
// catalog.Navigator.  Every page request renders that navigator; every
// action runs against the view it targets and answers with a 303 back to
// “/”.  Templates, the form definition, and the stylesheet are embedded;
// a theme directory may override templates and assets.
//
// Routes
// ------
//
//	GET  /                     page (layout + current view)
//	POST /anime/new            list: open an empty form
//	POST /anime/{id}/edit      list: open the form for id
//	POST /anime/{id}/delete    list: delete id
//	POST /anime/form           form: save or cancel (multipart)
//	GET  /static/images/*      uploaded cover images
//	GET  /static/css/*         embedded stylesheet
package anime

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/anime-catalog/internal/catalog"
	"github.com/yanizio/anime-catalog/internal/component"
	"github.com/yanizio/anime-catalog/internal/form"
	"github.com/yanizio/anime-catalog/internal/session"
	"github.com/yanizio/anime-catalog/internal/theme"
	"github.com/yanizio/anime-catalog/internal/upload"
	"github.com/yanizio/anime-catalog/internal/view"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed forms/*.yaml
var formsFS embed.FS

//go:embed static
var staticFS embed.FS

// imageField is the file input declared in forms/anime.yaml.
const imageField = "image"

// compile-time assertions
var (
	_ component.Component = (*Comp)(nil)
	_ component.Runner    = (*Comp)(nil)
)

func init() { component.Register(&Comp{}) }

// settings is the slice of configuration the component reads.
type settings struct {
	Secret      []byte
	CookieName  string
	IdleTTL     time.Duration
	Secure      bool
	ImageDir    string
	MaxUploadMB int64
}

// Comp implements component.Component.
type Comp struct {
	store    catalog.Store
	sessions *session.Manager[*catalog.Navigator]
	theme    *theme.Theme
	images   upload.Dir
	maxBody  int64
	log      *zap.SugaredLogger
}

func (c *Comp) Name() string { return "anime" }

func (c *Comp) Migrations(driver string) []string { return catalog.Schema(driver) }

// Init wires the SQL store and configuration.
func (c *Comp) Init(d component.Deps) error {
	cfg := d.Config()
	return c.setup(catalog.NewSQLStore(d.DB()), d.Theme(), settings{
		Secret:      []byte(cfg.Session.Secret),
		CookieName:  cfg.Session.CookieName,
		IdleTTL:     cfg.Session.IdleTTL,
		Secure:      cfg.HTTP.ForceHTTPS,
		ImageDir:    cfg.Media.ImageDir,
		MaxUploadMB: cfg.Media.MaxUploadMB,
	}, d.Logger())
}

func (c *Comp) setup(store catalog.Store, th *theme.Theme, s settings, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	form.Configure(s.Secret)
	if err := form.RegisterFS(formsFS, "forms"); err != nil {
		return err
	}

	tplFS, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return err
	}
	engine := view.New(tplFS, th, form.Funcs())

	stylesheet := "/static/css/style.css"
	if th != nil {
		stylesheet = th.AssetFunc("css/style.css")
	}

	c.store = store
	c.theme = th
	c.images = upload.Dir{Root: s.ImageDir}
	c.maxBody = (s.MaxUploadMB << 20) + 1<<20 // upload plus text fields
	c.log = log.With("component", c.Name())

	navOpts := catalog.Options{
		Images:     c.images,
		ImageURL:   "/static/images/",
		Stylesheet: stylesheet,
		FormID:     catalog.DefaultFormID,
		Logger:     c.log,
	}
	c.sessions = session.New(session.Options{
		CookieName: s.CookieName,
		Secret:     s.Secret,
		IdleTTL:    s.IdleTTL,
		Secure:     s.Secure,
		Logger:     c.log,
	}, func() *catalog.Navigator {
		return catalog.NewNavigator(store, engine, navOpts)
	})
	return nil
}

// Run evicts idle sessions until ctx ends.
func (c *Comp) Run(ctx context.Context) { c.sessions.Run(ctx) }

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", c.index)
	r.Post("/anime/new", c.create)
	r.Post("/anime/{id}/edit", c.edit)
	r.Post("/anime/{id}/delete", c.remove)
	r.Post("/anime/form", c.submit)

	r.Handle("/static/images/*", http.StripPrefix("/static/images/",
		noDirListing(http.FileServer(http.Dir(c.images.Root)))))

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/css/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	if dir := c.theme.AssetDir(); dir != "" {
		prefix := "/themes/" + c.theme.Name + "/assets/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, noDirListing(http.FileServer(http.Dir(dir)))))
	}
	return r
}
