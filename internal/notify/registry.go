package notify

import (
	"sync"

	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// Session is one live connection able to receive serialized events.
type Session interface {
	ID() string
	Send(msg []byte) error
	Close() error
}

type group struct {
	mu       sync.RWMutex
	sessions map[Session]struct{}
	// set once the group is emptied and removed from the registry
	closed bool
}

// Registry maps user ids to their live sessions.
// Locking is per user; users never contend with each other.
type Registry struct {
	groups sync.Map // uuid.UUID -> *group
	owners sync.Map // Session -> uuid.UUID
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds s to the group of userID.
func (r *Registry) Register(userID uuid.UUID, s Session) {
	r.owners.Store(s, userID)
	for {
		v, _ := r.groups.LoadOrStore(userID, &group{sessions: make(map[Session]struct{})})
		g := v.(*group)

		g.mu.Lock()
		if g.closed {
			// lost a race with the last Unregister of this user, retry on a fresh group
			g.mu.Unlock()
			continue
		}
		g.sessions[s] = struct{}{}
		g.mu.Unlock()
		return
	}
}

// Unregister removes s from whatever group holds it.
// It reports the owning user, or false when s was never registered.
func (r *Registry) Unregister(s Session) (uuid.UUID, bool) {
	v, ok := r.owners.LoadAndDelete(s)
	if !ok {
		return uuid.Nil, false
	}
	userID := v.(uuid.UUID)

	gv, ok := r.groups.Load(userID)
	if !ok {
		return userID, true
	}
	g := gv.(*group)
	g.mu.Lock()
	delete(g.sessions, s)
	if len(g.sessions) == 0 && !g.closed {
		g.closed = true
		r.groups.CompareAndDelete(userID, g)
	}
	g.mu.Unlock()
	return userID, true
}

// Sessions returns a snapshot of the live sessions of userID.
func (r *Registry) Sessions(userID uuid.UUID) []Session {
	gv, ok := r.groups.Load(userID)
	if !ok {
		return nil
	}
	g := gv.(*group)
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Session, 0, len(g.sessions))
	for s := range g.sessions {
		out = append(out, s)
	}
	return out
}

func (r *Registry) Count(userID uuid.UUID) int {
	gv, ok := r.groups.Load(userID)
	if !ok {
		return 0
	}
	g := gv.(*group)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.sessions)
}
