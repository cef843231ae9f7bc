package state

import (
	"context"
	"fmt"
	"strings"

	"ecebot/internal/transport"
	"ecebot/pkg/logx"
)

// Store persists the seen-id set between process runs.
//
// Load returns ok=false when no prior snapshot exists; that is not an error.
// Save replaces the whole snapshot atomically (no partial saves).
type Store interface {
	Load(ctx context.Context) (ids []int64, ok bool, err error)
	Save(ctx context.Context, ids []int64) error
	Close() error
}

// PersistenceError wraps a state load/save failure. Never fatal: a failed
// load means starting from an empty set, a failed save costs only restart
// durability.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("state %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Config selects the persistence driver.
//
// Driver values:
//   - "channel": snapshot document pinned in a private chat (default)
//   - "sqlite":  local SQLite database file
type Config struct {
	Driver   string
	Chat     transport.ChatID // channel driver
	Filename string           // channel driver; snapshot document name
	Path     string           // sqlite driver
}

// Open initializes the configured store.
func Open(cfg Config, client transport.Client, log logx.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "channel":
		return newChannelStore(cfg, client, log)
	case "sqlite", "sqlite3":
		return newSQLiteStore(cfg, log)
	default:
		return nil, fmt.Errorf("unknown state driver: %s", cfg.Driver)
	}
}
