// Package storage is the key-value store that holds the persisted ledger
// blob. Every backend writes a value with a single atomic operation.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been set or was
// removed.
var ErrNotFound = errors.New("storage: key not found")

// Storage reads and writes whole values by key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options select and configure a backend.
type Options struct {
	Backend   string
	Path      string
	RedisAddr string
	RedisDB   int
	KeyPrefix string
}

// Open returns the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFile(opts.Path)
	case BackendSQLite:
		return NewSQLite(opts.Path)
	case BackendRedis:
		return NewRedis(ctx, opts.RedisAddr, opts.RedisDB, opts.KeyPrefix)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
