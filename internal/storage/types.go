package storage

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by a store used after Close.
var ErrClosed = errors.New("storage: store closed")

// KV is the string key-value persistence the client state is hydrated from.
// Get reports a missing key as ok=false with a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend is a KV that can also be inspected and wiped by the CLI.
type Backend interface {
	KV
	Keys(ctx context.Context) ([]string, error)
	PurgeAll(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// Stats holds aggregate statistics about a backend.
type Stats struct {
	Backend           string
	TotalKeys         int64
	TotalBytes        int64
	LastUpdated       time.Time
	DatabaseSizeBytes int64
	Keys              []KeySize
}

// KeySize pairs a stored key with the length of its value.
type KeySize struct {
	Key   string `json:"key"`
	Bytes int64  `json:"bytes"`
}
