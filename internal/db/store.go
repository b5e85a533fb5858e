package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store provides read-write access to the mull archive database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default archive database path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mull", "mull.sqlite")
}

const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		title TEXT,
		startedAt INTEGER NOT NULL,
		endedAt INTEGER NOT NULL,
		messages INTEGER NOT NULL,
		thinkingMs INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS thinking_spans (
		id TEXT PRIMARY KEY,
		sessionId TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		messageTs INTEGER NOT NULL,
		segmentIndex INTEGER NOT NULL,
		durationMs INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_spans_session ON thinking_spans(sessionId);
`

// Open opens the archive database with WAL, creating the schema and
// any missing parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ArchiveSession inserts a finished session and its thinking spans in
// one transaction. A blank session ID gets a generated one; the ID
// actually stored is returned.
func (s *Store) ArchiveSession(sess Session, spans []Span) (string, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin archive: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sessions (id, title, startedAt, endedAt, messages, thinkingMs)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sess.ID, sess.Title, sess.StartedAt.UnixMilli(), sess.EndedAt.UnixMilli(),
		sess.Messages, sess.ThinkingMS)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	for _, sp := range spans {
		_, err = tx.Exec(`
			INSERT INTO thinking_spans (id, sessionId, messageTs, segmentIndex, durationMs)
			VALUES (?, ?, ?, ?, ?)
		`, uuid.NewString(), sess.ID, sp.MessageTS, sp.SegmentIndex, sp.DurationMS)
		if err != nil {
			return "", fmt.Errorf("insert span: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit archive: %w", err)
	}
	return sess.ID, nil
}

// RecentSessions returns the most recently started sessions, newest
// first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	rows, err := s.db.Query(`
		SELECT id, title, startedAt, endedAt, messages, thinkingMs
		FROM sessions
		ORDER BY startedAt DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var title sql.NullString
		var startedAt, endedAt int64
		if err := rows.Scan(&sess.ID, &title, &startedAt, &endedAt,
			&sess.Messages, &sess.ThinkingMS); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if title.Valid {
			sess.Title = title.String
		}
		sess.StartedAt = time.UnixMilli(startedAt)
		sess.EndedAt = time.UnixMilli(endedAt)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// SpansForSession returns a session's thinking spans ordered by
// message then segment.
func (s *Store) SpansForSession(sessionID string) ([]Span, error) {
	rows, err := s.db.Query(`
		SELECT sessionId, messageTs, segmentIndex, durationMs
		FROM thinking_spans
		WHERE sessionId = ?
		ORDER BY messageTs ASC, segmentIndex ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query spans: %w", err)
	}
	defer rows.Close()

	var spans []Span
	for rows.Next() {
		var sp Span
		if err := rows.Scan(&sp.SessionID, &sp.MessageTS, &sp.SegmentIndex, &sp.DurationMS); err != nil {
			return nil, fmt.Errorf("scan span: %w", err)
		}
		spans = append(spans, sp)
	}
	return spans, rows.Err()
}
