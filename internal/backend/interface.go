// Package backend assembles the persistence stack the API server runs on:
// a store, the transaction service in front of it, and the optional AMQP
// publisher between them.
package backend

import (
	"context"

	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// Result contains the assembled backend and its cleanup function
type Result struct {
	Store   storage.Store
	Service *services.TransactionService
	Cleanup func() error
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Sync publishing (optional, sqlite backend only)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
