package conversation

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"fluxo-ai/internal/common/metrics"
	"fluxo-ai/internal/models"
)

var ErrSessionNotFound = errors.New("SESSION_NOT_FOUND")

// SessionStore abstracts per-user session persistence so the orchestrator
// can be tested against an in-memory implementation and deployed against
// Redis.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
}

// MemoryStore keeps sessions in process memory with a sliding TTL and a
// capacity bound. The source system never evicted sessions; the TTL and
// capacity here bound memory for long-running deployments.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*models.Session
	ttl         time.Duration
	maxSessions int
}

func NewMemoryStore(ttl time.Duration, maxSessions int) *MemoryStore {
	return &MemoryStore{
		sessions:    make(map[string]*models.Session),
		ttl:         ttl,
		maxSessions: maxSessions,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.ttl > 0 && time.Since(sess.LastActivity) > s.ttl {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *MemoryStore) Create(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}
	s.sessions[session.UserID] = session
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return nil
}

func (s *MemoryStore) Update(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.UserID] = session
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return nil
}

// Sweep removes sessions idle past the TTL and returns how many were
// evicted.
func (s *MemoryStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	cutoff := time.Now().Add(-s.ttl)
	for userID, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			delete(s.sessions, userID)
			evicted++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return evicted
}

// StartJanitor sweeps expired sessions on an interval until the returned
// stop function is called.
func (s *MemoryStore) StartJanitor(interval time.Duration) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

// Len reports the number of held sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// evictOldestLocked drops the session with the oldest activity. Caller holds
// the write lock.
func (s *MemoryStore) evictOldestLocked() {
	type entry struct {
		userID string
		last   time.Time
	}
	entries := make([]entry, 0, len(s.sessions))
	for userID, sess := range s.sessions {
		entries = append(entries, entry{userID, sess.LastActivity})
	}
	if len(entries) == 0 {
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].last.Before(entries[j].last) })
	delete(s.sessions, entries[0].userID)
}
