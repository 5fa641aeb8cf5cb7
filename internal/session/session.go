// internal/session/session.go
//
// In-memory, per-browser sessions.
//
// Context
//   Each browser gets a signed cookie holding a random session id.  The id
//   keys an entry in a sync.Map whose value is created on first use by the
//   caller's factory (the catalog stores one Navigator per session).
//   Entries idle longer than IdleTTL, or the oldest ones when the map grows
//   past MaxEntries, are dropped by the eviction loop.
//
// Cookie format
//      <uuid> "." base64url(HMAC_SHA256(secret, uuid))
//
//   A cookie that fails verification is treated as absent, so a forged or
//   stale id simply starts a fresh session.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yanizio/anime-catalog/internal/metrics"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultCookieName = "catalog_session"
	DefaultIdleTTL    = 30 * time.Minute
	DefaultMaxEntries = 10000
	EvictInterval     = time.Minute
)

// Options configures a Manager.
type Options struct {
	CookieName string
	Secret     []byte
	IdleTTL    time.Duration
	MaxEntries int
	Secure     bool // mark the cookie Secure
	Logger     *zap.SugaredLogger
}

// Session wraps one browser's state.  Callers must hold the session through
// Do so a session's actions never interleave.
type Session[T any] struct {
	ID string

	mu       sync.Mutex
	state    T
	lastSeen atomic.Int64
}

// Do runs fn with exclusive access to the session state.
func (s *Session[T]) Do(fn func(T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func (s *Session[T]) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

// Manager creates, finds, and evicts sessions.  Safe for concurrent use.
type Manager[T any] struct {
	opts     Options
	newState func() T

	m     sync.Map // id → *Session[T]
	count atomic.Int64
	now   func() time.Time
}

// New returns a Manager.  newState builds the state for a fresh session.
func New[T any](opts Options, newState func() T) *Manager[T] {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Manager[T]{opts: opts, newState: newState, now: time.Now}
}

// Get returns the caller's session, creating one (and setting the cookie)
// when the request carries no valid id.
func (m *Manager[T]) Get(w http.ResponseWriter, r *http.Request) *Session[T] {
	if s, ok := m.Lookup(r); ok {
		return s
	}

	id := uuid.NewString()
	s := &Session[T]{ID: id, state: m.newState()}
	s.touch(m.now())
	m.m.Store(id, s)
	m.count.Add(1)
	metrics.ActiveSessions.Inc()

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    m.sign(id),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	m.opts.Logger.Debugw("session created", "session", id)
	return s
}

// Lookup returns an existing session without creating one.
func (m *Manager[T]) Lookup(r *http.Request) (*Session[T], bool) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil {
		return nil, false
	}
	id, ok := m.verify(c.Value)
	if !ok {
		return nil, false
	}
	v, ok := m.m.Load(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session[T])
	s.touch(m.now())
	return s, true
}

// Len reports the number of live sessions.
func (m *Manager[T]) Len() int { return int(m.count.Load()) }

func (m *Manager[T]) sign(id string) string {
	mac := hmac.New(sha256.New, m.opts.Secret)
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (m *Manager[T]) verify(value string) (string, bool) {
	id, _, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(value), []byte(m.sign(id))) {
		return "", false
	}
	return id, true
}
