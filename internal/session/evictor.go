// evictor.go houses the eviction loop for Manager.  Every EvictInterval it
// scans the map and removes:
//
//   - sessions idle longer than IdleTTL
//   - least-recently-used sessions when the map exceeds MaxEntries
//
// Each eviction is logged and updates Prometheus counters.
package session

import (
	"context"
	"sort"
	"time"

	"github.com/yanizio/anime-catalog/internal/metrics"
)

// Run evicts sessions until ctx is cancelled.
func (m *Manager[T]) Run(ctx context.Context) {
	t := time.NewTicker(EvictInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}

// Sweep performs one eviction pass and returns the number of sessions
// removed.
func (m *Manager[T]) Sweep() int {
	now := m.now().UnixNano()
	evicted := 0

	type kv struct {
		id string
		at int64
	}
	var live []kv

	m.m.Range(func(key, value any) bool {
		s := value.(*Session[T])
		seen := s.lastSeen.Load()
		idle := time.Duration(now - seen)
		if idle > m.opts.IdleTTL {
			m.evict(key.(string))
			m.opts.Logger.Debugw("session evicted", "session", key, "idle", idle.Truncate(time.Second))
			evicted++
			return true
		}
		live = append(live, kv{id: key.(string), at: seen})
		return true
	})

	if over := len(live) - m.opts.MaxEntries; over > 0 {
		sort.Slice(live, func(i, j int) bool { return live[i].at < live[j].at })
		for _, e := range live[:over] {
			m.evict(e.id)
			m.opts.Logger.Debugw("session evicted (LRU pressure)", "session", e.id)
			evicted++
		}
	}
	return evicted
}

func (m *Manager[T]) evict(id string) {
	if _, ok := m.m.LoadAndDelete(id); !ok {
		return
	}
	m.count.Add(-1)
	metrics.SessionEvictTotal.Inc()
	metrics.ActiveSessions.Dec()
}
