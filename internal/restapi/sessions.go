package restapi

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"

	"metroview.org/internal/viewer"
)

var errSessionNotFound = errors.New("session not found")

// Session is one browser tab viewing the network.
type Session struct {
	ID        string
	Viewer    *viewer.Viewer
	CreatedAt time.Time
}

// SessionRegistry keeps the live sessions in an LRU cache with sliding
// expiry. Sessions leaving the cache, for any reason, are handed to the
// eviction callback.
type SessionRegistry struct {
	cache  gcache.Cache
	ttl    time.Duration
	logger *slog.Logger

	sweepTick *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

func NewSessionRegistry(maxSessions int, ttl time.Duration, onEvict func(*Session), logger *slog.Logger) *SessionRegistry {
	if maxSessions <= 0 {
		maxSessions = 1000
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	reg := &SessionRegistry{
		ttl:       ttl,
		logger:    logger.With(slog.String("component", "sessions")),
		sweepTick: time.NewTicker(ttl / 2),
		done:      make(chan struct{}),
	}
	reg.cache = gcache.New(maxSessions).
		LRU().
		Expiration(ttl).
		EvictedFunc(func(key, value interface{}) {
			session := value.(*Session)
			reg.logger.Info("session closed", slog.String("session_id", session.ID))
			if onEvict != nil {
				onEvict(session)
			}
		}).
		Build()

	go reg.sweep()

	return reg
}

// Create registers a new session around v.
func (reg *SessionRegistry) Create(v *viewer.Viewer) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		Viewer:    v,
		CreatedAt: time.Now(),
	}
	if err := reg.cache.Set(session.ID, session); err != nil {
		return nil, err
	}
	reg.logger.Info("session created", slog.String("session_id", session.ID))
	return session, nil
}

// Get returns a live session and extends its lifetime.
func (reg *SessionRegistry) Get(id string) (*Session, error) {
	value, err := reg.cache.Get(id)
	if err != nil {
		return nil, errSessionNotFound
	}
	session := value.(*Session)
	_ = reg.cache.SetWithExpire(id, session, reg.ttl)
	return session, nil
}

// Remove closes a session. It reports whether the session existed.
func (reg *SessionRegistry) Remove(id string) bool {
	return reg.cache.Remove(id)
}

// List returns the live sessions.
func (reg *SessionRegistry) List() []*Session {
	all := reg.cache.GetALL(true)
	sessions := make([]*Session, 0, len(all))
	for _, value := range all {
		sessions = append(sessions, value.(*Session))
	}
	return sessions
}

func (reg *SessionRegistry) Len() int {
	return reg.cache.Len(true)
}

// sweep removes expired sessions that nobody asked for since they expired,
// so that their loops and streams are released.
func (reg *SessionRegistry) sweep() {
	for {
		select {
		case <-reg.sweepTick.C:
			reg.removeExpired()
		case <-reg.done:
			return
		}
	}
}

func (reg *SessionRegistry) removeExpired() {
	live := make(map[interface{}]struct{})
	for _, key := range reg.cache.Keys(true) {
		live[key] = struct{}{}
	}
	for _, key := range reg.cache.Keys(false) {
		if _, ok := live[key]; !ok {
			reg.cache.Remove(key)
		}
	}
}

// Close removes every session and stops the sweeper.
func (reg *SessionRegistry) Close() {
	reg.closeOnce.Do(func() {
		reg.sweepTick.Stop()
		close(reg.done)
		for _, key := range reg.cache.Keys(false) {
			reg.cache.Remove(key)
		}
	})
}
