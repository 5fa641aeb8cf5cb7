// internal/config/model.go
//
// Typed configuration model for the catalog.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                           – dotenv values,
//   • `conf/global.yaml`                        – primary static file,
//   • `CATALOG_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the driver name, DSN template, and secret.
//
// The DSN is kept in YAML so operators can tweak host, port, or flags
// without touching Vault.  When the DSN contains the literal `{password}`
// it is replaced by `Password`, which is usually a `vault:` reference.
type Database struct {
	Driver   string `koanf:"driver"   validate:"required,oneof=mysql sqlite3"`
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password"`
	MaxOpen  int    `koanf:"max_open" validate:"gte=0"`
	MaxIdle  int    `koanf:"max_idle" validate:"gte=0"`
}

//
// Session section
//

// Session configures the signed session cookie and idle eviction.
type Session struct {
	Secret     string        `koanf:"secret"      validate:"required,min=32"`
	CookieName string        `koanf:"cookie_name" validate:"required"`
	IdleTTL    time.Duration `koanf:"idle_ttl"    validate:"required"`
}

//
// Media section
//

// Media holds the upload directory for cover images.
type Media struct {
	ImageDir    string `koanf:"image_dir"     validate:"required"`
	MaxUploadMB int64  `koanf:"max_upload_mb" validate:"gte=1"`
}

//
// Theme section
//

// Theme names the active theme.  Templates under Dir/<Name>/templates
// override the embedded defaults file by file.
type Theme struct {
	Name string `koanf:"name" validate:"required"`
	Dir  string `koanf:"dir"`
}

//
// Geo section
//

// Geo points at an optional GeoLite2-City database.  Empty disables lookups.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // CATALOG_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Session  Session  `koanf:"session"`
	Media    Media    `koanf:"media"`
	Theme    Theme    `koanf:"theme"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
