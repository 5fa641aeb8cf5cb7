// internal/vault/vault.go
//
// Vault client wrapper.
//
// Context
// -------
//   - Provides a concurrency-safe wrapper around the HashiCorp Vault Go SDK.
//   - Adds background token renewal, a KV-v2 read helper, and per-key caching.
//   - Used by internal/config to resolve `vault:` references for the DB
//     password and the session secret.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx, log.Printf)          // during boot.
//  2. pw,  err := cli.GetKV(ctx, path, key, ttl)      // config resolution.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – initial token (falls back to ~/.vault-token).
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
)

//
// SECTION 1.  Public façade
//

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api   *vault.Client
	logFn func(string, ...any)

	cacheMu sync.RWMutex
	cache   map[string]cached // path#key → value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client and starts a background token-renewal loop
// that stops when ctx is cancelled.
func New(ctx context.Context, logFn func(string, ...any)) (*Client, error) {
	if logFn == nil {
		logFn = func(string, ...any) {}
	}

	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	c := &Client{
		api:   apiCli,
		logFn: logFn,
		cache: make(map[string]cached),
	}
	go c.renewLoop(ctx)
	return c, nil
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result is
// cached for that duration.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key
	if ttl > 0 {
		if v, ok := c.lookup(canonical); ok {
			return v, nil
		}
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s is not a string", canonical)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}
	return sval, nil
}

func (c *Client) lookup(canonical string) (string, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	cv, ok := c.cache[canonical]
	if !ok || time.Now().After(cv.exp) {
		return "", false
	}
	return cv.val, true
}

//
// SECTION 2.  Background token renewal
//

func (c *Client) renewLoop(ctx context.Context) {
	for ctx.Err() == nil {
		wait := c.renewOnce(ctx)
		backoff(ctx, wait)
	}
}

// renewOnce watches the current token until renewal stops and returns how
// long to wait before probing again.
func (c *Client) renewOnce(ctx context.Context) time.Duration {
	sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
	if err != nil {
		c.logFn("vault: token renew self failed: %v", err)
		return 30 * time.Second
	}
	if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
		c.logFn("vault: token is not renewable, sleeping 1h")
		return time.Hour
	}

	watcher, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{Secret: sec})
	if err != nil {
		c.logFn("vault: watcher init error: %v", err)
		return 30 * time.Second
	}
	go watcher.Start()
	defer watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return 0
		case err := <-watcher.DoneCh():
			if err != nil {
				c.logFn("vault: token renewal stopped: %v", err)
			}
			return 15 * time.Second
		case ev := <-watcher.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				c.logFn("vault: token renewed, ttl=%ds", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

func splitMount(p string) (mount, rel string) {
	mount, rel, _ = strings.Cut(p, "/")
	return mount, rel
}

func backoff(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
