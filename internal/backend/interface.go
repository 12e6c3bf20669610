package backend

import (
	"context"

	"ledger/internal/events"
	"ledger/internal/ports"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the persister and an optional cleanup function
type BackendResult struct {
	Persister ports.Persister
	Cleanup   CleanupFunc
}

// Factory creates the ledger's collaborators from configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	CreatePublisher(ctx context.Context, config Config) (events.Publisher, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQL backends
	SQLiteDBPath string
	PostgresDSN  string

	// Memory backend
	SeedFile string

	// Change notifications
	Events       EventsType
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	KafkaBrokers []string
	KafkaTopic   string
}

// BackendType represents the type of persistence backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// EventsType selects where change notifications go
type EventsType string

const (
	NoEvents    EventsType = "none"
	AMQPEvents  EventsType = "amqp"
	KafkaEvents EventsType = "kafka"
)

func (et EventsType) IsValid() bool {
	switch et {
	case NoEvents, AMQPEvents, KafkaEvents:
		return true
	default:
		return false
	}
}
