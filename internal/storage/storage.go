// Package storage provides the key/value persistence behind the journal:
// one key per document, values are opaque bytes.
package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"

	"github.com/pbaille/journal/internal/config"
)

// Well-known keys.
const (
	KeyEntries  = "journal-entries"
	KeyDarkMode = "dark-mode"
)

// ErrNotExist is returned by Get for a key that was never set.
var ErrNotExist = errors.New("key does not exist")

// KV is a flat key/value store
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(cfg config.StorageConfig) (KV, error) {
	if cfg.Backend == config.BackendMemory {
		return NewMemory(), nil
	}

	dir, err := homedir.Expand(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("expand storage path: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	switch cfg.Backend {
	case config.BackendDiskv:
		return NewDiskv(dir), nil
	case config.BackendSQLite:
		return NewSQLite(SQLitePath(dir))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
