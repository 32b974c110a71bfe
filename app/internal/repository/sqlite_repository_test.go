package repository_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
	"github.com/promptimpact/impact-proxy/app/internal/repository"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

func setupTestDB(t *testing.T, clk *fakeClock) (*repository.SQLiteRepository, func()) {
	t.Helper()
	// Using a temporary file to better simulate a file-based DB.
	tempDir := t.TempDir()
	dsn := filepath.Join(tempDir, "test_sessions.db")

	repo, err := repository.NewSQLiteRepository(dsn, 24*time.Hour, clk)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	if err := repo.Init(); err != nil {
		t.Fatalf("repo.Init() error = %v", err)
	}

	cleanup := func() {
		repo.Close()
	}
	return repo, cleanup
}

func TestSQLiteRepository_InitClose(t *testing.T) {
	repo, cleanup := setupTestDB(t, newFakeClock())
	defer cleanup()

	if err := repo.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSQLiteRepository_AppendTurnAccumulates(t *testing.T) {
	clk := newFakeClock()
	repo, cleanup := setupTestDB(t, clk)
	defer cleanup()

	sessionID := "sqlite-session-1"
	turns := []entities.TurnRecord{
		{TokensInput: 10, TokensTotal: 30, KWh: 0.0015, CO2Kg: 0.0006, WaterL: 0.0027},
		{TokensInput: 20, TokensTotal: 40, KWh: 0.002, CO2Kg: 0.0008, WaterL: 0.0036},
	}
	for i, turn := range turns {
		if _, err := repo.AppendTurn(sessionID, turn, clk.NowUTC()); err != nil {
			t.Fatalf("AppendTurn() #%d error = %v", i+1, err)
		}
	}

	sess, err := repo.GetSession(sessionID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if len(sess.Turns) != 2 {
		t.Fatalf("len(Turns) = %d, want 2", len(sess.Turns))
	}
	for i, turn := range sess.Turns {
		if turn.Index != i+1 {
			t.Errorf("Turns[%d].Index = %d, want %d", i, turn.Index, i+1)
		}
	}
	if sess.Totals.TokensInput != 30 || sess.Totals.TokensTotal != 70 {
		t.Errorf("token totals = (%d, %d), want (30, 70)",
			sess.Totals.TokensInput, sess.Totals.TokensTotal)
	}
	if !sess.StartedAt.Equal(clk.now) || !sess.UpdatedAt.Equal(clk.now) {
		t.Errorf("timestamps = (%v, %v), want %v", sess.StartedAt, sess.UpdatedAt, clk.now)
	}
}

func TestSQLiteRepository_GetNonExistentSession(t *testing.T) {
	repo, cleanup := setupTestDB(t, newFakeClock())
	defer cleanup()

	_, err := repo.GetSession("non-existent")
	if !errors.Is(err, entities.ErrSessionNotFound) {
		t.Errorf("GetSession() error = %v, want %v", err, entities.ErrSessionNotFound)
	}
}

func TestSQLiteRepository_DeleteSession(t *testing.T) {
	clk := newFakeClock()
	repo, cleanup := setupTestDB(t, clk)
	defer cleanup()

	if _, err := repo.AppendTurn("doomed", entities.TurnRecord{TokensTotal: 5}, clk.NowUTC()); err != nil {
		t.Fatalf("AppendTurn() error = %v", err)
	}
	if err := repo.DeleteSession("doomed"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := repo.GetSession("doomed"); !errors.Is(err, entities.ErrSessionNotFound) {
		t.Errorf("GetSession() after delete error = %v, want %v", err, entities.ErrSessionNotFound)
	}
	if err := repo.DeleteSession("doomed"); err != nil {
		t.Errorf("DeleteSession() second call error = %v", err)
	}
}

func TestSQLiteRepository_TTLEviction(t *testing.T) {
	clk := newFakeClock()
	repo, cleanup := setupTestDB(t, clk)
	defer cleanup()

	if _, err := repo.AppendTurn("stale", entities.TurnRecord{TokensTotal: 10}, clk.NowUTC()); err != nil {
		t.Fatalf("AppendTurn() error = %v", err)
	}

	clk.now = clk.now.Add(25 * time.Hour)
	if _, err := repo.GetSession("stale"); !errors.Is(err, entities.ErrSessionNotFound) {
		t.Errorf("GetSession() past TTL error = %v, want %v", err, entities.ErrSessionNotFound)
	}

	all, err := repo.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("len(ListSessions()) = %d, want 0", len(all))
	}
}
