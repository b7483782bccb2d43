// internal/store/memory.go
//
// In-memory registry of live practice sessions.
// Sessions are process-local and lost on restart; nothing here is durable
// (finished sessions reach the durable session log through game.SnapshotSink).
//
// Characteristics:
//   - Stores *game.Session keyed by ID together with the owning player.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Get refuses sessions owned by another player.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/mathflash/internal/game"
)

// ErrNotFound is returned for unknown IDs and for sessions owned by someone else.
var ErrNotFound = errors.New("not found")

// Store defines the registry interface for live sessions.
type Store interface {
	// Save registers or replaces a session owned by player.
	Save(ctx context.Context, player string, s *game.Session) error

	// Get retrieves a session by ID for its owner.
	Get(ctx context.Context, player, id string) (*game.Session, error)

	// Delete removes a session; unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// All returns every registered session.
	All(ctx context.Context) ([]*game.Session, error)
}

type entry struct {
	player  string
	session *game.Session
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex     // guards sessions map
	sessions map[string]entry // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]entry)}
}

func (m *memory) Save(ctx context.Context, player string, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = entry{player: player, session: s}
	return nil
}

func (m *memory) Get(ctx context.Context, player, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok && e.player == player {
		return e.session, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) All(ctx context.Context) ([]*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*game.Session, 0, len(m.sessions))
	for _, e := range m.sessions {
		out = append(out, e.session)
	}
	return out, nil
}
