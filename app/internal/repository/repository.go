package repository

import (
	"time"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
)

// Repository defines the interface for session ledger storage.
// This allows for different storage backends (e.g., in-memory, SQLite).
// Implementations evict sessions older than the TTL lazily, at the top of
// every operation; there is no background sweep.
type Repository interface {
	// Init performs any necessary initialization for the repository (e.g., DB connection, table creation).
	Init() error
	// Close performs cleanup tasks (e.g., closing DB connection).
	Close() error

	// AppendTurn records one usage event at the given time, creating the
	// session if absent. The turn's Index and Timestamp are assigned here and
	// the running totals are updated in the same critical section, so totals
	// always equal the element-wise sum of the stored turns.
	AppendTurn(sessionID string, turn entities.TurnRecord, at time.Time) (*entities.SessionData, error)
	// GetSession returns the full session record, or ErrSessionNotFound.
	GetSession(sessionID string) (*entities.SessionData, error)
	// DeleteSession removes the session if present. Idempotent.
	DeleteSession(sessionID string) error
	// ListSessions returns all live sessions keyed by id.
	ListSessions() (map[string]*entities.SessionData, error)
}
