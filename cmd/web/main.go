// cmd/web/main.go
//
// Anime catalog – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load configuration (conf/.env → conf/global.yaml → CATALOG_* env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the record database and, when configured, the GeoLite2 reader.
//
//  4. Build the router:
//
//     • requestinfo      – request id, UA, geo, access log
//     • Recoverer        – panics become 500s
//     • ForceHTTPS       – 308 to https for non-loopback plain-HTTP
//     • Security         – CSP, nosniff, frame, and referrer headers
//
//  5. Expose Prometheus /metrics and a /healthz probe.
//
//  6. Boot every registered component (migrate → Init → Run → mount).
//
//  7. Serve until SIGINT or SIGTERM, then drain in-flight requests.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/anime-catalog/internal/component"
	"github.com/yanizio/anime-catalog/internal/config"
	"github.com/yanizio/anime-catalog/internal/database"
	"github.com/yanizio/anime-catalog/internal/logger"
	"github.com/yanizio/anime-catalog/internal/middleware"
	"github.com/yanizio/anime-catalog/internal/requestinfo"
	"github.com/yanizio/anime-catalog/internal/server"
	"github.com/yanizio/anime-catalog/internal/theme"

	_ "github.com/yanizio/anime-catalog/components/anime"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// deps satisfies component.Deps.
type deps struct {
	db  *sqlx.DB
	cfg *config.Config
	th  *theme.Theme
	log *zap.SugaredLogger
}

func (d deps) DB() *sqlx.DB               { return d.db }
func (d deps) Config() *config.Config     { return d.cfg }
func (d deps) Theme() *theme.Theme        { return d.th }
func (d deps) Logger() *zap.SugaredLogger { return d.log }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer logOut.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Database ────────────────────────────────────────────────────
	//
	logOut.Infow("connecting to database", "driver", cfg.Database.Driver)
	db, err := database.OpenWithOptions(cfg.Database.Driver, cfg.Database.ConnString(),
		cfg.Database.MaxOpen, cfg.Database.MaxIdle)
	if err != nil {
		logOut.Fatalw("connect database", "err", err)
	}
	defer db.Close()

	//
	// ── 2.  Optional GeoLite2 reader ────────────────────────────────────
	//
	var geo *requestinfo.GeoDB
	if cfg.Geo.DBPath != "" {
		if geo, err = requestinfo.OpenGeo(cfg.Geo.DBPath); err != nil {
			logOut.Warnw("geo lookups disabled", "err", err)
		}
		defer geo.Close()
	}

	//
	// ── 3.  Router and middleware ───────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(
		requestinfo.Middleware(geo, logOut),
		chimw.Recoverer,
		middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS),
		middleware.Security(cfg.HTTP.ForceHTTPS),
	)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		pctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(pctx); err != nil {
			logger.FromContext(r.Context()).Warnw("health check failed", "err", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	//
	// ── 4.  Components ──────────────────────────────────────────────────
	//
	th := theme.New(cfg.Theme.Dir, cfg.Theme.Name)
	d := deps{db: db, cfg: cfg, th: th, log: logOut}
	if err := component.Boot(ctx, r, d, component.All()); err != nil {
		logOut.Fatalw("boot components", "err", err)
	}

	//
	// ── 5.  Serve ───────────────────────────────────────────────────────
	//
	if err := server.Run(ctx, server.New(cfg.HTTP.ListenAddr, r), logOut); err != nil {
		logOut.Errorw("http server", "err", err)
		return
	}
	logOut.Infow("stopped")
}
