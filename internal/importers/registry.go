package importers

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long an untouched session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Registry keeps import sessions between the preview and commit requests.
// A session is only visible to the user that created it.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*registryEntry
	creator  EntryCreator
	ttl      time.Duration
	now      func() time.Time
}

type registryEntry struct {
	session *Session
	owner   uint
}

// NewRegistry creates an empty registry. A non-positive ttl uses DefaultSessionTTL.
func NewRegistry(creator EntryCreator, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		sessions: make(map[string]*registryEntry),
		creator:  creator,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a fresh idle session for userID.
func (r *Registry) Create(userID uint) *Session {
	session := NewSession(uuid.NewString(), r.creator)
	session.now = r.now
	session.lastActive = r.now()

	r.mu.Lock()
	r.sessions[session.id] = &registryEntry{session: session, owner: userID}
	r.mu.Unlock()

	return session
}

// Get returns the session if it exists and belongs to userID.
func (r *Registry) Get(id string, userID uint) (*Session, bool) {
	r.mu.RLock()
	entry, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || entry.owner != userID {
		return nil, false
	}
	entry.session.touch()
	return entry.session, true
}

// Remove discards a session. Sessions that are committing are kept.
func (r *Registry) Remove(id string, userID uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok || entry.owner != userID {
		return false
	}
	if entry.session.State() == StateCommitting {
		return false
	}
	delete(r.sessions, id)
	return true
}

// PurgeExpired drops every session idle for longer than the TTL as of now.
// Committing sessions are never purged. It returns the number removed.
func (r *Registry) PurgeExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.sessions {
		lastActive, state := entry.session.idleSince()
		if state == StateCommitting {
			continue
		}
		if now.Sub(lastActive) > r.ttl {
			delete(r.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		zap.L().Debug("purged import sessions", zap.Int("removed", removed), zap.Int("remaining", len(r.sessions)))
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
