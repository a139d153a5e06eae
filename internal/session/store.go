package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// StoreConfig bounds the in-memory session registry.
type StoreConfig struct {
	// TTL evicts sessions with no key press for this long. Zero disables
	// eviction.
	TTL time.Duration
	// MaxSessions caps live sessions. Zero means unlimited.
	MaxSessions int
	// SweepInterval is how often Run evicts idle sessions. Defaults to TTL/4.
	SweepInterval time.Duration
	// CommentaryTimeout is passed to every new session.
	CommentaryTimeout time.Duration
}

// Store is the in-memory registry of live sessions. Nothing is persisted.
type Store struct {
	cfg         StoreConfig
	commentator Commentator
	logger      *zap.Logger
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(c Commentator, cfg StoreConfig, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		cfg:         cfg,
		commentator: c,
		logger:      logger,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Create registers a new session with a random id.
func (st *Store) Create() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.cfg.MaxSessions > 0 && len(st.sessions) >= st.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}

	id := uuid.NewString()
	s := New(id, st.commentator, Options{
		CommentaryTimeout: st.cfg.CommentaryTimeout,
		Logger:            st.logger,
		Now:               st.now,
	})
	st.sessions[id] = s
	activeSessions.Add(context.Background(), 1)

	return s, nil
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes and closes a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	activeSessions.Add(context.Background(), -1)
	s.Close()
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts sessions idle since before now-TTL and returns how many were
// removed.
func (st *Store) Sweep(now time.Time) int {
	if st.cfg.TTL <= 0 {
		return 0
	}
	cutoff := now.Add(-st.cfg.TTL)

	var expired []*Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if s.LastActive().Before(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if n := len(expired); n > 0 {
		activeSessions.Add(context.Background(), int64(-n))
		st.logger.Info("evicted idle sessions", zap.Int("count", n))
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is done.
func (st *Store) Run(ctx context.Context) {
	if st.cfg.TTL <= 0 {
		<-ctx.Done()
		return
	}

	interval := st.cfg.SweepInterval
	if interval <= 0 {
		interval = st.cfg.TTL / 4
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep(st.now())
		}
	}
}

// Close closes every session and empties the store.
func (st *Store) Close() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	activeSessions.Add(context.Background(), int64(-len(sessions)))
}
