// Package history provides SQLite-backed persistence for completed
// orchestration runs (~/.local/share/crew/crew.db by default).
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hirewise/crew/pkg/models"
)

// Store wraps an SQLite database holding past runs and their message
// trails.
type Store struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// DefaultPath returns the path of the default history database.
func DefaultPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "crew", "crew.db")
}

// Open opens the history database at the given path, creating parent
// directories as needed. WAL mode is enabled for concurrent reads.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Store{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.path
}

// Migrate applies all pending schema migrations.
func (s *Store) Migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := s.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Runs},
		{2, migrationV2Messages},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const migrationV1Runs = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	request TEXT NOT NULL,
	final_answer TEXT NOT NULL,
	personas TEXT NOT NULL,
	strategy TEXT NOT NULL,
	multi_agent INTEGER NOT NULL DEFAULT 0,
	tokens_used INTEGER NOT NULL DEFAULT 0,
	cost REAL NOT NULL DEFAULT 0.0,
	started_at DATETIME NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

const migrationV2Messages = `
CREATE TABLE IF NOT EXISTS messages (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	from_id TEXT NOT NULL,
	to_id TEXT,
	kind TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	tokens_used INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_messages_run_id ON messages(run_id);
`

// SaveRun persists a completed run and its full message trail.
func (s *Store) SaveRun(result *models.OrchestrationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO runs (id, request, final_answer, personas, strategy, multi_agent, tokens_used, cost, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.RequestID, result.Request, result.FinalAnswer,
		strings.Join(result.PersonaIDs, ","), string(result.Strategy),
		boolToInt(result.MultiAgent), result.TotalTokensUsed, result.EstimatedCost,
		formatTime(result.StartedAt), result.Duration.Milliseconds())
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert run: %w", err)
	}

	for _, m := range result.Messages {
		_, err = tx.Exec(`
			INSERT INTO messages (run_id, seq, from_id, to_id, kind, content, created_at, tokens_used)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, result.RequestID, m.Seq, m.From, m.To, string(m.Kind), m.Content, formatTime(m.CreatedAt), m.TokensUsed)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert message %d: %w", m.Seq, err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first, without their
// message trails.
func (s *Store) RecentRuns(limit int) ([]models.OrchestrationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.Query(`
		SELECT id, request, final_answer, personas, strategy, multi_agent, tokens_used, cost, started_at, duration_ms
		FROM runs ORDER BY started_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.OrchestrationResult
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one run with its full message trail, or sql.ErrNoRows
// when the id is unknown.
func (s *Store) GetRun(id string) (*models.OrchestrationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.conn.QueryRow(`
		SELECT id, request, final_answer, personas, strategy, multi_agent, tokens_used, cost, started_at, duration_ms
		FROM runs WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(`
		SELECT seq, from_id, to_id, kind, content, created_at, tokens_used
		FROM messages WHERE run_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.CollaborationMessage
		var kind, createdAt string
		var to sql.NullString
		if err := rows.Scan(&m.Seq, &m.From, &to, &kind, &m.Content, &createdAt, &m.TokensUsed); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.To = to.String
		m.Kind = models.MessageKind(kind)
		if t, err := parseTime(createdAt); err == nil {
			m.CreatedAt = t
		}
		run.Messages = append(run.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &run, nil
}

// PurgeOlderThan deletes runs older than the given duration and returns
// the number deleted. Message rows cascade.
func (s *Store) PurgeOlderThan(olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := formatTime(time.Now().Add(-olderThan))
	result, err := s.conn.Exec("DELETE FROM runs WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge old runs: %w", err)
	}
	return result.RowsAffected()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (models.OrchestrationResult, error) {
	var run models.OrchestrationResult
	var personas, strategy, startedAt string
	var multiAgent int
	var durationMS int64

	err := row.Scan(&run.RequestID, &run.Request, &run.FinalAnswer, &personas,
		&strategy, &multiAgent, &run.TotalTokensUsed, &run.EstimatedCost,
		&startedAt, &durationMS)
	if err != nil {
		return run, err
	}

	if personas != "" {
		run.PersonaIDs = strings.Split(personas, ",")
	}
	run.Strategy = models.Strategy(strategy)
	run.MultiAgent = multiAgent != 0
	run.Duration = time.Duration(durationMS) * time.Millisecond
	if t, err := parseTime(startedAt); err == nil {
		run.StartedAt = t
	}
	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
