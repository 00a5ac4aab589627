// Package store implements durable whole-snapshot persistence of the
// ledger dataset. Every save overwrites the complete snapshot under a
// fixed logical key; there are no partial writes, so a loaded snapshot is
// always the result of exactly one save.
package store

import (
	"context"
	"fmt"

	"worktracker/internal/core"
)

// DefaultSnapshotKey is the fixed logical key the dataset lives under.
const DefaultSnapshotKey = "worktracker_db_v1"

// Store persists the dataset as one unit.
//
// Load returns core.ErrNotFound when no snapshot exists and
// core.ErrCorruptSnapshot when one exists but cannot be decoded. Both are
// recoverable conditions: the caller reseeds instead of failing.
type Store interface {
	Load(ctx context.Context) (*core.Dataset, error)
	Save(ctx context.Context, d *core.Dataset) error
}

// Backend selects a store implementation.
type Backend string

const (
	FileBackend   Backend = "file"
	SQLiteBackend Backend = "sqlite"
	MemoryBackend Backend = "memory"
)

func (b Backend) IsValid() bool {
	return b == FileBackend || b == SQLiteBackend || b == MemoryBackend
}

// Config carries only what the factory needs, so the store package stays
// decoupled from the application config.
type Config struct {
	Backend      Backend
	SnapshotPath string // file backend
	SQLiteDBPath string // sqlite backend
	SnapshotKey  string // sqlite row key, DefaultSnapshotKey when empty
}

// Result pairs a store with its cleanup hook.
type Result struct {
	Store   Store
	Cleanup func() error
}

// Open builds the configured store backend.
func Open(cfg Config) (*Result, error) {
	if cfg.SnapshotKey == "" {
		cfg.SnapshotKey = DefaultSnapshotKey
	}
	switch cfg.Backend {
	case FileBackend:
		fs, err := NewFileStore(cfg.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return &Result{Store: fs}, nil
	case SQLiteBackend:
		ss, err := NewSQLiteStore(cfg.SQLiteDBPath, cfg.SnapshotKey)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return &Result{Store: ss, Cleanup: ss.Close}, nil
	case MemoryBackend:
		return &Result{Store: NewMemStore()}, nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %q", cfg.Backend)
	}
}
