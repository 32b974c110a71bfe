package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
	"github.com/promptimpact/impact-proxy/app/internal/clock"
	"github.com/promptimpact/impact-proxy/app/internal/impact"
)

type Repository interface {
	Init() error
	Close() error
	AppendTurn(sessionID string, turn entities.TurnRecord, at time.Time) (*entities.SessionData, error)
	GetSession(sessionID string) (*entities.SessionData, error)
	DeleteSession(sessionID string) error
	ListSessions() (map[string]*entities.SessionData, error)
}

// SessionManager validates ingest calls, derives per-turn impact figures and
// delegates storage to the repository.
type SessionManager struct {
	repository Repository
	clk        clock.Clock
}

// NewSessionManager creates a new SessionManager with the provided repository
func NewSessionManager(repo Repository, clk clock.Clock) *SessionManager {
	return &SessionManager{
		repository: repo,
		clk:        clk,
	}
}

// Close closes the underlying repository connection if applicable.
func (sm *SessionManager) Close() error {
	if sm.repository != nil {
		return sm.repository.Close()
	}
	return nil
}

// Ingest records one token-usage event for a session, creating the session
// on first use. A nil timestamp means "now". Returns the updated record.
func (sm *SessionManager) Ingest(sessionID string, tokensInput, tokensTotal int, at *time.Time) (*entities.SessionData, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id must not be blank", entities.ErrInvalidArgument)
	}
	if tokensInput < 0 || tokensTotal < 0 {
		return nil, fmt.Errorf("%w: token counts must be non-negative", entities.ErrInvalidArgument)
	}

	imp, err := impact.Estimate(tokensTotal)
	if err != nil {
		return nil, err
	}

	when := sm.clk.NowUTC()
	if at != nil {
		when = at.UTC()
	}

	turn := entities.TurnRecord{
		TokensInput: tokensInput,
		TokensTotal: tokensTotal,
		KWh:         imp.KWh,
		CO2Kg:       imp.CO2Kg,
		WaterL:      imp.WaterL,
	}
	return sm.repository.AppendTurn(sessionID, turn, when)
}

// GetMetrics retrieves the full session record for a given session ID.
func (sm *SessionManager) GetMetrics(sessionID string) (*entities.SessionData, error) {
	return sm.repository.GetSession(strings.TrimSpace(sessionID))
}

// Reset removes the session if present. Never fails on an unknown id.
func (sm *SessionManager) Reset(sessionID string) error {
	return sm.repository.DeleteSession(strings.TrimSpace(sessionID))
}

// ListSessions returns all session data (for debugging/monitoring)
func (sm *SessionManager) ListSessions() (map[string]*entities.SessionData, error) {
	return sm.repository.ListSessions()
}
