// internal/sessionlog/log.go
//
// Capped log of finished practice sessions.
// Each key holds ONE serialized blob: a JSON array of game.Snapshot, oldest first,
// never longer than MaxEntries. Appending an 11th entry evicts the oldest.
//
// Unreadable blobs are logged and treated as an empty log so a corrupted
// entry never blocks the player from finishing a session.

package sessionlog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mathflash/internal/game"
)

const (
	// DefaultKey is the blob key used by the terminal client.
	DefaultKey = "mathGameSessions"
	// MaxEntries caps the number of snapshots kept per key.
	MaxEntries = 10
)

// PlayerKey namespaces the log of one server-side player.
func PlayerKey(playerID string) string {
	return DefaultKey + ":" + playerID
}

// BlobStore reads and writes whole blobs by key.
type BlobStore interface {
	// GetBlob returns ok=false when the key has never been written.
	GetBlob(ctx context.Context, key string) (value []byte, ok bool, err error)
	PutBlob(ctx context.Context, key string, value []byte) error
}

// Log appends snapshots to capped per-key lists.
type Log struct {
	mu    sync.Mutex // serialises read-modify-write per process
	blobs BlobStore
	limit int
}

// New returns a Log over blobs capped at MaxEntries.
func New(blobs BlobStore) *Log {
	return &Log{blobs: blobs, limit: MaxEntries}
}

// Append adds s to the list under key, evicting the oldest entries beyond the cap.
func (l *Log) Append(ctx context.Context, key string, s game.Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read(ctx, key)
	if err != nil {
		return err
	}
	entries = append(entries, s)
	if over := len(entries) - l.limit; over > 0 {
		entries = entries[over:]
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode session log: %w", err)
	}
	if err := l.blobs.PutBlob(ctx, key, b); err != nil {
		return fmt.Errorf("write session log %s: %w", key, err)
	}
	return nil
}

// Recent returns the stored snapshots under key, oldest first.
func (l *Log) Recent(ctx context.Context, key string) ([]game.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read(ctx, key)
}

// For binds the log to one key so it can serve as a game.SnapshotSink.
func (l *Log) For(key string) game.SnapshotSink {
	return keyedSink{log: l, key: key}
}

type keyedSink struct {
	log *Log
	key string
}

func (k keyedSink) Append(ctx context.Context, s game.Snapshot) error {
	return k.log.Append(ctx, k.key, s)
}

// read loads and decodes the blob. Caller holds mu.
func (l *Log) read(ctx context.Context, key string) ([]game.Snapshot, error) {
	raw, ok, err := l.blobs.GetBlob(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read session log %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return []game.Snapshot{}, nil
	}
	var entries []game.Snapshot
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("malformed session log, starting fresh")
		return []game.Snapshot{}, nil
	}
	if entries == nil {
		entries = []game.Snapshot{}
	}
	return entries, nil
}
