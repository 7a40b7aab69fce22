package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorhill/cronexpr"
)

const (
	DefaultTTL         = 30 * time.Minute
	DefaultMaxSessions = 64
)

// Store owns all session records. Access is mutex-guarded so the stdio
// and HTTP transports (and the background sweeper) can share it.
//
// Eviction is two-layered: every Get sweeps idle-expired sessions first,
// and StartSweeper reclaims memory deterministically even when no calls
// arrive. Capacity is bounded; creating past MaxSessions evicts the
// least recently used record.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	logger   *log.Logger
}

func NewStore(ttl time.Duration, maxSessions int) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      maxSessions,
		logger:   log.New(log.Writer(), "[SESSION] ", log.LstdFlags),
	}
}

// Create chunks content, registers a fresh session, and returns it.
// handle may be nil.
func (st *Store) Create(content string, handle Handle) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sweepLocked(time.Now())
	for len(st.sessions) >= st.max {
		st.evictOldestLocked()
	}

	now := time.Now()
	sess := &Session{
		id:         uuid.NewString(),
		chunks:     Split(content),
		cursor:     0,
		createdAt:  now,
		lastUsedAt: now,
		handle:     handle,
	}
	st.sessions[sess.id] = sess
	return sess
}

// Get sweeps expired sessions, then resolves id and refreshes its
// last-used time. Unknown and just-expired ids both return ErrNotFound.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sweepLocked(time.Now())
	sess, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.lastUsedAt = time.Now()
	return sess, nil
}

// Remove releases the session's handle (best-effort) and deletes it.
// Removing an unknown id is a no-op.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.removeLocked(id)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops every session idle longer than the TTL and returns how
// many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sweepLocked(time.Now())
}

// StartSweeper runs Sweep on a cron schedule until ctx is done. An
// unparsable schedule falls back to once per minute.
func (st *Store) StartSweeper(ctx context.Context, schedule string) {
	expr, err := cronexpr.Parse(schedule)
	if err != nil {
		st.logger.Printf("bad sweep schedule %q, falling back to every minute: %v", schedule, err)
		expr = cronexpr.MustParse("* * * * *")
	}
	go func() {
		for {
			next := expr.Next(time.Now())
			if next.IsZero() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Until(next)):
				if n := st.Sweep(); n > 0 {
					st.logger.Printf("swept %d expired session(s)", n)
				}
			}
		}
	}()
}

func (st *Store) sweepLocked(now time.Time) int {
	removed := 0
	for id, sess := range st.sessions {
		if now.Sub(sess.lastUsedAt) > st.ttl {
			st.removeLocked(id)
			removed++
		}
	}
	return removed
}

func (st *Store) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, sess := range st.sessions {
		if oldestID == "" || sess.lastUsedAt.Before(oldest) {
			oldestID = id
			oldest = sess.lastUsedAt
		}
	}
	if oldestID != "" {
		st.logger.Printf("capacity reached, evicting session %s", oldestID)
		st.removeLocked(oldestID)
	}
}

func (st *Store) removeLocked(id string) {
	sess, ok := st.sessions[id]
	if !ok {
		return
	}
	if sess.handle != nil {
		// Cleanup failures are swallowed: the record goes away regardless.
		_ = sess.handle.Release()
	}
	delete(st.sessions, id)
}
