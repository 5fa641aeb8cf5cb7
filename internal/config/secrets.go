// internal/config/secrets.go
//
// `vault:` reference resolution.
//
// Context
// -------
// Secret-bearing fields may hold a reference instead of a literal:
//
//	database:
//	  password: "vault:secret/catalog#db_password"
//
// The part before “#” is the KV-v2 path (mount first), the part after is the
// key inside that secret.  The Vault client is created only when at least
// one reference is present, so local development never needs VAULT_ADDR.
//
// Notes
// -----
//   • Only the fields listed in secretFields are inspected.
//   • Oxford commas, two spaces after periods.

package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/anime-catalog/internal/vault"
)

const vaultPrefix = "vault:"

// secretCacheTTL bounds how long a resolved value stays in the client cache.
const secretCacheTTL = 10 * time.Minute

// SecretSource is the subset of *vault.Client used here.
type SecretSource interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

// newSecretSource is swapped in tests.
var newSecretSource = func(ctx context.Context) (SecretSource, error) {
	return vault.New(ctx, zap.S().Infof)
}

func secretFields(c *Config) []*string {
	return []*string{
		&c.Database.DSN,
		&c.Database.Password,
		&c.Session.Secret,
	}
}

// resolveSecrets rewrites every `vault:` reference in place.
func resolveSecrets(ctx context.Context, c *Config) error {
	var src SecretSource
	for _, f := range secretFields(c) {
		if !strings.HasPrefix(*f, vaultPrefix) {
			continue
		}
		path, key, err := parseRef(*f)
		if err != nil {
			return err
		}
		if src == nil {
			if src, err = newSecretSource(ctx); err != nil {
				return fmt.Errorf("vault client: %w", err)
			}
		}
		val, err := src.GetKV(ctx, path, key, secretCacheTTL)
		if err != nil {
			return err
		}
		*f = val
	}
	return nil
}

// parseRef splits "vault:<path>#<key>".
func parseRef(ref string) (path, key string, err error) {
	body := strings.TrimPrefix(ref, vaultPrefix)
	path, key, ok := strings.Cut(body, "#")
	if !ok || path == "" || key == "" {
		return "", "", fmt.Errorf("malformed vault reference %q (want vault:<path>#<key>)", ref)
	}
	return path, key, nil
}
