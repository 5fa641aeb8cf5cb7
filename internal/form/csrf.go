// internal/form/csrf.go
//
// Stateless CSRF tokens.
//
// Context
//   Every rendered <form> embeds a hidden `csrf_token` input.  The server
//   verifies it on POST so only pages it rendered can drive state changes.
//   The token carries everything needed to verify it:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  HMAC – keyed with the session secret from configuration.
//
// Workflow
//   •  Configure(secret) → installs the key once config is loaded.
//   •  GenerateToken()   → token string for the renderer.
//   •  VerifyToken(tok)  → constant-time verify; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	nonceBytes = 16
	tokenBytes = nonceBytes + 8 + sha256.Size
	maxAge     = 2 * time.Hour
)

var (
	secretMu  sync.RWMutex
	secretKey []byte
)

// Configure installs the HMAC key.  Keys shorter than 32 bytes are rejected
// in favour of a random per-process key.
func Configure(secret []byte) {
	secretMu.Lock()
	defer secretMu.Unlock()
	if len(secret) >= 32 {
		secretKey = append([]byte(nil), secret...)
		return
	}
	secretKey = randomKey()
}

// GenerateToken creates a new CSRF token.  Call once per form render.
func GenerateToken() (string, error) {
	sec := fetchSecret()

	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(time.Now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, sign(sec, nonce, ts)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// VerifyToken returns true if tok passes HMAC and age checks.
func VerifyToken(tok string) bool {
	if tok == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:nonceBytes]
	tsBytes := raw[nonceBytes : nonceBytes+8]
	sig := raw[nonceBytes+8:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	if time.Since(issued) > maxAge || time.Until(issued) > time.Minute {
		return false
	}

	return hmac.Equal(sig, sign(fetchSecret(), nonce, tsBytes))
}

func sign(key, nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}

// fetchSecret returns the configured key, generating an ephemeral one when
// Configure was never called.  Tokens signed with an ephemeral key die with
// the process.
func fetchSecret() []byte {
	secretMu.RLock()
	key := secretKey
	secretMu.RUnlock()
	if key != nil {
		return key
	}

	secretMu.Lock()
	defer secretMu.Unlock()
	if secretKey == nil {
		zap.S().Warn("csrf: no secret configured, using random key")
		secretKey = randomKey()
	}
	return secretKey
}

func randomKey() []byte {
	k := make([]byte, 32)
	_, _ = rand.Read(k)
	return k
}
