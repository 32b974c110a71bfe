package repository

import (
	"sync"
	"time"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
	"github.com/promptimpact/impact-proxy/app/internal/clock"
)

// MemoryRepository is an in-memory implementation of the Repository
// interface. A single mutex covers the whole read-modify-write of an
// AppendTurn, so concurrent ingests into one session cannot interleave.
type MemoryRepository struct {
	sessions map[string]*entities.SessionData
	ttl      time.Duration
	clk      clock.Clock
	mu       sync.Mutex
}

// NewMemoryRepository creates a new MemoryRepository with the given
// inactivity TTL.
func NewMemoryRepository(ttl time.Duration, clk clock.Clock) *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]*entities.SessionData),
		ttl:      ttl,
		clk:      clk,
	}
}

// Init initializes the memory repository (no-op for memory repository).
func (r *MemoryRepository) Init() error {
	return nil
}

// Close closes the memory repository (no-op for memory repository).
func (r *MemoryRepository) Close() error {
	return nil
}

// evictLocked purges every stale session. Callers must hold the mutex.
func (r *MemoryRepository) evictLocked() {
	for _, id := range StaleIDs(r.clk.NowUTC(), r.ttl, r.sessions) {
		delete(r.sessions, id)
	}
}

// cloneSession returns a deep copy so callers cannot mutate stored state.
func cloneSession(s *entities.SessionData) *entities.SessionData {
	c := *s
	c.Turns = append([]entities.TurnRecord(nil), s.Turns...)
	return &c
}

// AppendTurn records one usage event, creating the session on first use.
func (r *MemoryRepository) AppendTurn(sessionID string, turn entities.TurnRecord, at time.Time) (*entities.SessionData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()

	sess, exists := r.sessions[sessionID]
	if !exists {
		sess = &entities.SessionData{
			SessionID: sessionID,
			StartedAt: at,
			UpdatedAt: at,
		}
		r.sessions[sessionID] = sess
	}

	turn.Index = len(sess.Turns) + 1
	turn.Timestamp = at
	sess.Turns = append(sess.Turns, turn)
	sess.Totals.TokensInput += turn.TokensInput
	sess.Totals.TokensTotal += turn.TokensTotal
	sess.Totals.KWh += turn.KWh
	sess.Totals.CO2Kg += turn.CO2Kg
	sess.Totals.WaterL += turn.WaterL
	sess.UpdatedAt = at

	return cloneSession(sess), nil
}

// GetSession retrieves the full session record for a given session ID.
func (r *MemoryRepository) GetSession(sessionID string) (*entities.SessionData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()

	sess, exists := r.sessions[sessionID]
	if !exists {
		return nil, entities.ErrSessionNotFound
	}
	return cloneSession(sess), nil
}

// DeleteSession removes the session if present.
func (r *MemoryRepository) DeleteSession(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()

	delete(r.sessions, sessionID)
	return nil
}

// ListSessions returns all live session data.
func (r *MemoryRepository) ListSessions() (map[string]*entities.SessionData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()

	result := make(map[string]*entities.SessionData, len(r.sessions))
	for k, v := range r.sessions {
		result[k] = cloneSession(v)
	}
	return result, nil
}
