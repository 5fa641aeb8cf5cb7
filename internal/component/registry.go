// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web imports the
// component packages for their side effect and calls Boot, which runs every
// component's migrations, invokes Init, and mounts Routes() at “/”.

package component

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/anime-catalog/internal/config"
	"github.com/yanizio/anime-catalog/internal/database"
	"github.com/yanizio/anime-catalog/internal/theme"
)

// Deps exposes process-wide resources to Components during Init.
type Deps interface {
	DB() *sqlx.DB
	Config() *config.Config
	Theme() *theme.Theme
	Logger() *zap.SugaredLogger
}

// Initializer is called once, after migrations and before Routes.
type Initializer interface {
	Init(Deps) error
}

// Runner is optional.  Boot starts Run in its own goroutine; it must return
// when ctx is cancelled.
type Runner interface {
	Run(ctx context.Context)
}

// Component contract.
//
// Migrations(driver) may return nil if the component has no schema.  Routes()
// should mount every page and asset endpoint, e.g:
//
//	r := chi.NewRouter()
//	r.Get("/", c.index)
//	r.Post("/anime/new", c.create)
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
	Migrations(driver string) []string
	Initializer
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component ordered by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Boot migrates, initialises, starts, and mounts comps on r.
func Boot(ctx context.Context, r chi.Router, deps Deps, comps []Component) error {
	driver := deps.Config().Database.Driver
	for _, c := range comps {
		if stmts := c.Migrations(driver); len(stmts) > 0 {
			if err := database.Migrate(ctx, deps.DB(), stmts); err != nil {
				return fmt.Errorf("component %s: %w", c.Name(), err)
			}
		}
		if err := c.Init(deps); err != nil {
			return fmt.Errorf("component %s: init: %w", c.Name(), err)
		}
		if rn, ok := c.(Runner); ok {
			go rn.Run(ctx)
		}
		r.Mount("/", c.Routes())
		deps.Logger().Infow("component mounted", "component", c.Name())
	}
	return nil
}
