// Package backend picks the persistence and sync implementations named in
// the configuration and hands them to the rest of the application.
package backend

import (
	"context"
	"time"

	"spendlog/internal/services"
	"spendlog/internal/store"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result is what the factory builds.
type Result struct {
	Repository store.Repository
	Syncer     services.Syncer
	Cleanup    CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

type Config struct {
	Type BackendType

	// sqlite
	SQLiteDBPath string

	// memory
	DataDirectory string

	// sync; an empty URL selects the stub
	AMQPURL       string
	AMQPExchange  string
	AMQPQueue     string
	SyncStubDelay time.Duration
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
