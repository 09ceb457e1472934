// Package storage defines the key/value byte store that backs persisted
// portal state (favorites and search history) and opens its backends.
//
// Values are opaque snapshots: callers always read and write whole values,
// so a backend only needs atomic per-key replacement.
package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/storage/files"
	"github.com/agentstation/atlas/pkg/storage/memory"
	"github.com/agentstation/atlas/pkg/storage/sqlite"
)

// Store is a key/value byte store.
// Get returns an error matching errors.ErrNotFound when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names a storage implementation.
type Backend string

const (
	// BackendMemory keeps values in process memory.
	BackendMemory Backend = "memory"
	// BackendFiles stores one file per key in a directory.
	BackendFiles Backend = "files"
	// BackendSQLite stores values in a sqlite database.
	BackendSQLite Backend = "sqlite"
)

// String returns the backend name.
func (b Backend) String() string { return string(b) }

// ParseBackend parses a backend name. The empty string selects files.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendFiles:
		return BackendFiles, nil
	case BackendMemory:
		return BackendMemory, nil
	case BackendSQLite, "sqlite3", "db":
		return BackendSQLite, nil
	default:
		return "", errors.NewValidationError("storage", s, "unknown backend (want files, sqlite or memory)")
	}
}

// Open opens the backend rooted at dir. dir may start with "~".
func Open(ctx context.Context, backend Backend, dir string) (Store, error) {
	if backend == BackendMemory {
		return memory.New(), nil
	}

	if dir == "" {
		dir = constants.DefaultStateDir
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, errors.NewConfigError("storage", "cannot expand state directory", err)
	}

	switch backend {
	case BackendFiles, "":
		return files.New(expanded)
	case BackendSQLite:
		return sqlite.Open(ctx, filepath.Join(expanded, constants.SQLiteFile))
	default:
		return nil, errors.NewValidationError("storage", string(backend), "unknown backend")
	}
}
