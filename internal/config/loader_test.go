package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yanizio/anime-catalog/internal/database"
)

const baseYAML = `
http:
  listen_addr: "127.0.0.1:8080"
database:
  driver: sqlite3
  dsn: "file:catalog.db?_fk=1"
session:
  secret: "0123456789abcdef0123456789abcdef"
media:
  image_dir: static/images
`

func writeConf(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("CATALOG_ROOT", root)
	return root
}

type fakeSecrets map[string]string

func (f fakeSecrets) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	v, ok := f[path+"#"+key]
	if !ok {
		return "", errors.New("missing secret")
	}
	return v, nil
}

func TestLoad_DefaultsAndAnchoredPaths(t *testing.T) {
	root := writeConf(t, baseYAML)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.Root != root {
		t.Fatalf("root = %q, want %q", cfg.Paths.Root, root)
	}
	if want := filepath.Join(root, "static", "images"); cfg.Media.ImageDir != want {
		t.Fatalf("image dir = %q, want %q", cfg.Media.ImageDir, want)
	}
	if cfg.Session.CookieName != "catalog_session" || cfg.Session.IdleTTL != 30*time.Minute {
		t.Fatalf("session defaults not applied: %+v", cfg.Session)
	}
	if cfg.Media.MaxUploadMB != 10 || cfg.Theme.Name != "default" {
		t.Fatalf("media/theme defaults not applied: %+v %+v", cfg.Media, cfg.Theme)
	}
	if Get() != cfg {
		t.Fatalf("Get() did not return the cached config")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	writeConf(t, baseYAML)
	t.Setenv("CATALOG_HTTP__LISTEN_ADDR", "127.0.0.1:9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.ListenAddr != "127.0.0.1:9090" {
		t.Fatalf("listen addr = %q, want env override", cfg.HTTP.ListenAddr)
	}
}

func TestLoad_ValidationFails(t *testing.T) {
	writeConf(t, `
http:
  listen_addr: "127.0.0.1:8080"
database:
  driver: postgres
  dsn: "x"
session:
  secret: "short"
media:
  image_dir: images
`)
	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoad_VaultReferences(t *testing.T) {
	writeConf(t, `
http:
  listen_addr: "127.0.0.1:8080"
database:
  driver: mysql
  dsn: "catalog:{password}@tcp(127.0.0.1:3306)/catalog?parseTime=true"
  password: "vault:secret/catalog#db_password"
session:
  secret: "vault:secret/catalog#session_secret"
media:
  image_dir: images
`)
	orig := newSecretSource
	t.Cleanup(func() { newSecretSource = orig })
	newSecretSource = func(context.Context) (SecretSource, error) {
		return fakeSecrets{
			"secret/catalog#db_password":    "hunter2",
			"secret/catalog#session_secret": "abcdefghijklmnopqrstuvwxyz012345",
		}, nil
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "catalog:hunter2@tcp(127.0.0.1:3306)/catalog?parseTime=true"
	if got := cfg.Database.ConnString(); got != want {
		t.Fatalf("ConnString = %q, want %q", got, want)
	}
	if cfg.Session.Secret != "abcdefghijklmnopqrstuvwxyz012345" {
		t.Fatalf("session secret not resolved: %q", cfg.Session.Secret)
	}
}

func TestParseRef(t *testing.T) {
	if _, _, err := parseRef("vault:secret/catalog"); err == nil {
		t.Fatalf("expected error for reference without key")
	}
	p, k, err := parseRef("vault:kv/app#pw")
	if err != nil || p != "kv/app" || k != "pw" {
		t.Fatalf("parseRef = %q %q %v", p, k, err)
	}
}

func TestLoad_ShippedConfigOpensFreshRoot(t *testing.T) {
	shipped, err := os.ReadFile(filepath.Join("..", "..", "conf", "global.yaml"))
	if err != nil {
		t.Fatalf("read shipped config: %v", err)
	}
	root := writeConf(t, string(shipped))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Join(root, "data", "catalog.db") + "?_foreign_keys=on"
	if cfg.Database.DSN != want {
		t.Fatalf("dsn = %q, want %q", cfg.Database.DSN, want)
	}

	db, err := database.OpenWithOptions(cfg.Database.Driver, cfg.Database.ConnString(),
		cfg.Database.MaxOpen, cfg.Database.MaxIdle)
	if _, statErr := os.Stat(filepath.Join(root, "data")); statErr != nil {
		t.Fatalf("data dir not created: %v", statErr)
	}
	if err != nil {
		t.Skipf("sqlite3 unavailable: %v", err)
	}
	db.Close()
}

func TestAnchorSQLite(t *testing.T) {
	cases := []struct{ in, want string }{
		{"data/catalog.db?_fk=1", "/srv/app/data/catalog.db?_fk=1"},
		{"file:catalog.db", "file:/srv/app/catalog.db"},
		{"/var/lib/catalog.db", "/var/lib/catalog.db"},
		{":memory:", ":memory:"},
	}
	for _, c := range cases {
		if got := anchorSQLite("/srv/app", c.in); got != c.want {
			t.Errorf("anchorSQLite(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidate_DatabaseRules(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTP:     HTTP{ListenAddr: "127.0.0.1:8080"},
			Database: Database{Driver: "sqlite3", DSN: "/tmp/c.db", MaxOpen: 15, MaxIdle: 5},
			Session:  Session{Secret: strings.Repeat("s", 32), CookieName: "c", IdleTTL: time.Minute},
			Media:    Media{ImageDir: "/tmp/img", MaxUploadMB: 1},
			Theme:    Theme{Name: "default"},
		}
	}
	if err := validateStruct(valid()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"bad mysql dsn", func(c *Config) { c.Database.Driver, c.Database.DSN = "mysql", "no-slash-here" }, "DSN"},
		{"empty sqlite file", func(c *Config) { c.Database.DSN = "?_fk=1" }, "DSN"},
		{"idle above open", func(c *Config) { c.Database.MaxIdle = 20 }, "MaxIdle"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := valid()
			c.mut(cfg)
			err := validateStruct(cfg)
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("err = %v, want validation errors", err)
			}
			if verrs[0].StructField() != c.field {
				t.Fatalf("failed field = %s, want %s", verrs[0].StructField(), c.field)
			}
		})
	}
}
