package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handoffs holds serialized configurations between the setup screen and the
// game screen. Each blob can be taken exactly once.
type Handoffs struct {
	mu    sync.Mutex
	ttl   time.Duration
	blobs map[string]handoff
	now   func() time.Time
}

type handoff struct {
	player  string
	blob    []byte
	expires time.Time
}

// NewHandoffs returns a hand-off table whose entries expire after ttl.
func NewHandoffs(ttl time.Duration) *Handoffs {
	return &Handoffs{ttl: ttl, blobs: make(map[string]handoff), now: time.Now}
}

// Put stores blob for player and returns the one-shot token.
func (h *Handoffs) Put(ctx context.Context, player string, blob []byte) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	token := uuid.NewString()
	h.blobs[token] = handoff{player: player, blob: blob, expires: h.now().Add(h.ttl)}
	return token
}

// Take returns and removes the blob; ok is false for unknown, expired,
// already-taken or foreign tokens.
func (h *Handoffs) Take(ctx context.Context, player, token string) (blob []byte, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, found := h.blobs[token]
	if !found || e.player != player {
		return nil, false
	}
	delete(h.blobs, token)
	if h.now().After(e.expires) {
		return nil, false
	}
	return e.blob, true
}

// Prune drops expired entries and reports how many were removed.
func (h *Handoffs) Prune() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()
	n := 0
	for k, e := range h.blobs {
		if now.After(e.expires) {
			delete(h.blobs, k)
			n++
		}
	}
	return n
}
