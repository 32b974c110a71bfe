package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
	"github.com/promptimpact/impact-proxy/app/internal/clock"
)

// SQLiteRepository implements the Repository interface using an SQLite
// database. Timestamps are stored as unix nanoseconds so TTL comparisons
// stay exact.
type SQLiteRepository struct {
	db  *sql.DB
	dsn string
	ttl time.Duration
	clk clock.Clock
}

// NewSQLiteRepository creates a new SQLiteRepository.
// The DSN is the data source name for the SQLite database.
func NewSQLiteRepository(dsn string, ttl time.Duration, clk clock.Clock) (*SQLiteRepository, error) {
	// The driver "sqlite3" must be registered by the application importing this package,
	// typically by a blank import like `_ "github.com/mattn/go-sqlite3"`.
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &SQLiteRepository{db: db, dsn: dsn, ttl: ttl, clk: clk}, nil
}

// Init initializes the SQLite repository, creating the necessary tables if they don't exist.
func (r *SQLiteRepository) Init() error {
	query := `
    CREATE TABLE IF NOT EXISTS sessions (
        session_id TEXT PRIMARY KEY,
        started_at INTEGER NOT NULL,
        updated_at INTEGER NOT NULL,
        tokens_input INTEGER NOT NULL DEFAULT 0,
        tokens_total INTEGER NOT NULL DEFAULT 0,
        kwh REAL NOT NULL DEFAULT 0,
        co2_kg REAL NOT NULL DEFAULT 0,
        water_l REAL NOT NULL DEFAULT 0
    );
    CREATE TABLE IF NOT EXISTS turns (
        session_id TEXT NOT NULL,
        turn_index INTEGER NOT NULL,
        ts INTEGER NOT NULL,
        tokens_input INTEGER NOT NULL,
        tokens_total INTEGER NOT NULL,
        kwh REAL NOT NULL,
        co2_kg REAL NOT NULL,
        water_l REAL NOT NULL,
        PRIMARY KEY (session_id, turn_index)
    );`

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create session tables: %w", err)
	}
	log.Println("SQLite session tables initialized successfully.")
	return nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// evict purges every session whose updated_at lies more than ttl in the
// past. Runs against either the db or an open transaction.
func (r *SQLiteRepository) evict(e execer) error {
	cutoff := r.clk.NowUTC().Add(-r.ttl).UnixNano()
	if _, err := e.Exec(`DELETE FROM turns WHERE session_id IN (SELECT session_id FROM sessions WHERE updated_at < ?);`, cutoff); err != nil {
		return fmt.Errorf("failed to evict stale turns: %w", err)
	}
	if _, err := e.Exec(`DELETE FROM sessions WHERE updated_at < ?;`, cutoff); err != nil {
		return fmt.Errorf("failed to evict stale sessions: %w", err)
	}
	return nil
}

// AppendTurn records one usage event inside a single transaction, creating
// the session on first use.
func (r *SQLiteRepository) AppendTurn(sessionID string, turn entities.TurnRecord, at time.Time) (*entities.SessionData, error) {
	ctx := context.Background()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := r.evict(tx); err != nil {
		return nil, err
	}

	queryInsert := `
    INSERT INTO sessions (session_id, started_at, updated_at)
    VALUES (?, ?, ?)
    ON CONFLICT(session_id) DO NOTHING;`
	if _, err = tx.ExecContext(ctx, queryInsert, sessionID, at.UnixNano(), at.UnixNano()); err != nil {
		return nil, fmt.Errorf("failed to insert or ignore session: %w", err)
	}

	var turnCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns WHERE session_id = ?;`, sessionID).Scan(&turnCount); err != nil {
		return nil, fmt.Errorf("failed to count turns: %w", err)
	}
	turn.Index = turnCount + 1
	turn.Timestamp = at

	queryTurn := `
    INSERT INTO turns (session_id, turn_index, ts, tokens_input, tokens_total, kwh, co2_kg, water_l)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?);`
	if _, err = tx.ExecContext(ctx, queryTurn, sessionID, turn.Index, turn.Timestamp.UnixNano(),
		turn.TokensInput, turn.TokensTotal, turn.KWh, turn.CO2Kg, turn.WaterL); err != nil {
		return nil, fmt.Errorf("failed to insert turn: %w", err)
	}

	queryTotals := `
    UPDATE sessions SET
        tokens_input = tokens_input + ?,
        tokens_total = tokens_total + ?,
        kwh = kwh + ?,
        co2_kg = co2_kg + ?,
        water_l = water_l + ?,
        updated_at = ?
    WHERE session_id = ?;`
	if _, err = tx.ExecContext(ctx, queryTotals, turn.TokensInput, turn.TokensTotal,
		turn.KWh, turn.CO2Kg, turn.WaterL, at.UnixNano(), sessionID); err != nil {
		return nil, fmt.Errorf("failed to update session totals: %w", err)
	}

	sess, err := r.selectSession(tx, sessionID)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return sess, nil
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

// selectSession reads one session row and its ordered turns.
func (r *SQLiteRepository) selectSession(q querier, sessionID string) (*entities.SessionData, error) {
	row := q.QueryRow(`SELECT session_id, started_at, updated_at, tokens_input, tokens_total, kwh, co2_kg, water_l
                       FROM sessions WHERE session_id = ?;`, sessionID)

	var sess entities.SessionData
	var startedAt, updatedAt int64
	err := row.Scan(&sess.SessionID, &startedAt, &updatedAt,
		&sess.Totals.TokensInput, &sess.Totals.TokensTotal,
		&sess.Totals.KWh, &sess.Totals.CO2Kg, &sess.Totals.WaterL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	sess.StartedAt = time.Unix(0, startedAt).UTC()
	sess.UpdatedAt = time.Unix(0, updatedAt).UTC()

	rows, err := q.Query(`SELECT turn_index, ts, tokens_input, tokens_total, kwh, co2_kg, water_l
                          FROM turns WHERE session_id = ? ORDER BY turn_index;`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var turn entities.TurnRecord
		var ts int64
		if err := rows.Scan(&turn.Index, &ts, &turn.TokensInput, &turn.TokensTotal,
			&turn.KWh, &turn.CO2Kg, &turn.WaterL); err != nil {
			return nil, fmt.Errorf("failed to scan turn row: %w", err)
		}
		turn.Timestamp = time.Unix(0, ts).UTC()
		sess.Turns = append(sess.Turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating turn rows: %w", err)
	}
	return &sess, nil
}

// GetSession retrieves the full session record for a given session ID.
func (r *SQLiteRepository) GetSession(sessionID string) (*entities.SessionData, error) {
	if err := r.evict(r.db); err != nil {
		return nil, err
	}
	return r.selectSession(r.db, sessionID)
}

// DeleteSession removes the session and its turns if present.
func (r *SQLiteRepository) DeleteSession(sessionID string) error {
	if err := r.evict(r.db); err != nil {
		return err
	}
	if _, err := r.db.Exec(`DELETE FROM turns WHERE session_id = ?;`, sessionID); err != nil {
		return fmt.Errorf("failed to delete turns: %w", err)
	}
	if _, err := r.db.Exec(`DELETE FROM sessions WHERE session_id = ?;`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListSessions returns all live session data.
func (r *SQLiteRepository) ListSessions() (map[string]*entities.SessionData, error) {
	if err := r.evict(r.db); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(`SELECT session_id FROM sessions;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}

	sessionsMap := make(map[string]*entities.SessionData, len(ids))
	for _, id := range ids {
		sess, err := r.selectSession(r.db, id)
		if err != nil {
			return nil, err
		}
		sessionsMap[id] = sess
	}
	return sessionsMap, nil
}
