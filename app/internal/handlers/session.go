package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
	"github.com/promptimpact/impact-proxy/app/internal/export"
)

// SessionManager is the surface the session endpoints need.
type SessionManager interface {
	Ingest(sessionID string, tokensInput, tokensTotal int, at *time.Time) (*entities.SessionData, error)
	GetMetrics(sessionID string) (*entities.SessionData, error)
	Reset(sessionID string) error
	ListSessions() (map[string]*entities.SessionData, error)
}

// SessionHandler handles the /session/* endpoints.
type SessionHandler struct {
	sessionManager SessionManager
}

// NewSessionHandler creates a new SessionHandler with injected dependencies
func NewSessionHandler(sessionManager SessionManager) *SessionHandler {
	return &SessionHandler{sessionManager: sessionManager}
}

type ingestRequest struct {
	SessionID   string `json:"session_id"`
	TokensInput int    `json:"tokens_input"`
	TokensTotal int    `json:"tokens_total"`
	TS          string `json:"ts"`
}

// ingestResponse is the totals snapshot returned on ingest; the turn list is
// only exposed via metrics and export.
type ingestResponse struct {
	SessionID string          `json:"session_id"`
	StartedAt time.Time       `json:"started_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Turns     int             `json:"turns"`
	Totals    entities.Totals `json:"totals"`
}

// HandleIngest records one usage event for a session.
func (sh *SessionHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var at *time.Time
	if req.TS != "" {
		parsed, err := time.Parse(time.RFC3339, req.TS)
		if err != nil {
			writeError(w, fmt.Errorf("%w: ts must be RFC3339", entities.ErrInvalidArgument))
			return
		}
		at = &parsed
	}

	sess, err := sh.sessionManager.Ingest(req.SessionID, req.TokensInput, req.TokensTotal, at)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, ingestResponse{
		SessionID: sess.SessionID,
		StartedAt: sess.StartedAt,
		UpdatedAt: sess.UpdatedAt,
		Turns:     len(sess.Turns),
		Totals:    sess.Totals,
	})
}

// HandleMetrics returns the full session record.
func (sh *SessionHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, fmt.Errorf("%w: session_id is required", entities.ErrInvalidArgument))
		return
	}

	sess, err := sh.sessionManager.GetMetrics(sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, sess)
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

// HandleReset removes a session. Succeeds whether or not it existed.
func (sh *SessionHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := sh.sessionManager.Reset(req.SessionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

// HandleExport streams the session as JSON or a CSV attachment.
func (sh *SessionHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, fmt.Errorf("%w: session_id is required", entities.ErrInvalidArgument))
		return
	}

	exporter, err := export.NewExporter(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}

	sess, err := sh.sessionManager.GetMetrics(sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	if exporter.Extension() == "csv" {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", "session-"+sess.SessionID+".csv"))
	}
	if err := exporter.Write(sess, w); err != nil {
		// Headers are already sent at this point; all we can do is log.
		log.Printf("Error writing export for session %s: %v", sess.SessionID, err)
	}
}

// HandleList returns all live sessions (for debugging/monitoring).
func (sh *SessionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	allSessions, err := sh.sessionManager.ListSessions()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, allSessions)
}
