// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `CATALOG_`, where `__` maps to “.”
     (e.g., `CATALOG_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled into strongly-typed structs,
defaults are applied, `vault:` references are resolved, relative paths are
anchored at the runtime root, and the result is validated and cached in an
`atomic.Pointer` for lock-free reads.  `Reload()` simply calls `Load()`
again and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read.
  • ERROR spans — YAML parse, env overlay, unmarshal, secret, validation.
  • INFO  span  — final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/anime-catalog/internal/database"
)

const envPrefix = "CATALOG_"

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves CATALOG_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv(envPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves secrets, validates, and
// caches Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: CATALOG_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	applyDefaults(&cfg)
	if err := resolveSecrets(context.Background(), &cfg); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	anchorPaths(&cfg)

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"driver", cfg.Database.Driver,
		"image_dir", cfg.Media.ImageDir,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }

// ConnString returns the DSN with `{password}` substituted.
func (d Database) ConnString() string {
	return strings.ReplaceAll(d.DSN, "{password}", d.Password)
}

// applyDefaults fills optional knobs that YAML may omit.
func applyDefaults(c *Config) {
	if c.Database.MaxOpen == 0 {
		c.Database.MaxOpen = 15
	}
	if c.Database.MaxIdle == 0 {
		c.Database.MaxIdle = 5
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "catalog_session"
	}
	if c.Session.IdleTTL == 0 {
		c.Session.IdleTTL = 30 * time.Minute
	}
	if c.Media.MaxUploadMB == 0 {
		c.Media.MaxUploadMB = 10
	}
	if c.Theme.Name == "" {
		c.Theme.Name = "default"
	}
}

// anchorPaths makes relative directories absolute under Paths.Root.
func anchorPaths(c *Config) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.Paths.Root, p)
	}
	c.Media.ImageDir = abs(c.Media.ImageDir)
	c.Theme.Dir = abs(c.Theme.Dir)
	c.Geo.DBPath = abs(c.Geo.DBPath)

	if c.Database.Driver == "sqlite3" {
		c.Database.DSN = anchorSQLite(c.Paths.Root, c.Database.DSN)
	}
}

// anchorSQLite rewrites a relative SQLite file DSN under root, keeping any
// "file:" scheme and query string.
func anchorSQLite(root, dsn string) string {
	file := database.SQLiteFile(dsn)
	if file == "" || filepath.IsAbs(file) {
		return dsn
	}
	return strings.Replace(dsn, file, filepath.Join(root, file), 1)
}
