// Package datasource persists per-bundle viewing sessions in a SQLite
// database under the XDG state directory, so reopening a movie resumes
// at the position and view settings it was left at.
package datasource

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no session exists for a bundle path.
var ErrNotFound = errors.New("no stored session")

// Session is the persisted state of one opened bundle.
type Session struct {
	BundlePath           string
	FileName             string
	Position             int
	Speed                float64
	Factor               float64
	BranchTransform      string
	UniformScaling       bool
	MonophyleticColoring bool
	DimInactive          bool
	DimMarked            bool
	MSAWindowSize        int
	MSAStepSize          int
	BarOption            string
	ManualMarks          [][]int // leaf ordinal sets
	UpdatedAt            time.Time
}

// SessionDB stores sessions keyed by absolute bundle path.
type SessionDB struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	bundle_path           TEXT PRIMARY KEY,
	file_name             TEXT NOT NULL DEFAULT '',
	position              INTEGER NOT NULL DEFAULT 0,
	speed                 REAL NOT NULL DEFAULT 1,
	factor                REAL NOT NULL DEFAULT 1,
	branch_transform      TEXT NOT NULL DEFAULT 'none',
	uniform_scaling       INTEGER NOT NULL DEFAULT 0,
	monophyletic_coloring INTEGER NOT NULL DEFAULT 0,
	dim_inactive          INTEGER NOT NULL DEFAULT 0,
	dim_marked            INTEGER NOT NULL DEFAULT 0,
	msa_window_size       INTEGER NOT NULL DEFAULT 100,
	msa_step_size         INTEGER NOT NULL DEFAULT 1,
	bar_option            TEXT NOT NULL DEFAULT 'rfd',
	manual_marks          TEXT NOT NULL DEFAULT '[]',
	updated_at            TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
`

// Open opens (or creates) the session database at the given path.
func Open(path string) (*SessionDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open session database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			// Non-fatal
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &SessionDB{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *SessionDB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *SessionDB) Path() string {
	return s.path
}

// Save upserts a session record. UpdatedAt is set to now.
func (s *SessionDB) Save(sess Session) error {
	if sess.BundlePath == "" {
		return fmt.Errorf("bundle path is required")
	}

	marks, err := json.Marshal(sess.ManualMarks)
	if err != nil {
		return fmt.Errorf("encoding manual marks: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (
			bundle_path, file_name, position, speed, factor,
			branch_transform, uniform_scaling, monophyletic_coloring,
			dim_inactive, dim_marked, msa_window_size, msa_step_size,
			bar_option, manual_marks, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(bundle_path) DO UPDATE SET
			file_name = excluded.file_name,
			position = excluded.position,
			speed = excluded.speed,
			factor = excluded.factor,
			branch_transform = excluded.branch_transform,
			uniform_scaling = excluded.uniform_scaling,
			monophyletic_coloring = excluded.monophyletic_coloring,
			dim_inactive = excluded.dim_inactive,
			dim_marked = excluded.dim_marked,
			msa_window_size = excluded.msa_window_size,
			msa_step_size = excluded.msa_step_size,
			bar_option = excluded.bar_option,
			manual_marks = excluded.manual_marks,
			updated_at = excluded.updated_at`,
		sess.BundlePath, sess.FileName, sess.Position, sess.Speed, sess.Factor,
		sess.BranchTransform, sess.UniformScaling, sess.MonophyleticColoring,
		sess.DimInactive, sess.DimMarked, sess.MSAWindowSize, sess.MSAStepSize,
		sess.BarOption, string(marks), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load retrieves the session for a bundle path.
func (s *SessionDB) Load(bundlePath string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT bundle_path, file_name, position, speed, factor,
			branch_transform, uniform_scaling, monophyletic_coloring,
			dim_inactive, dim_marked, msa_window_size, msa_step_size,
			bar_option, manual_marks, updated_at
		FROM sessions WHERE bundle_path = ?`, bundlePath)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

// Recent returns up to n sessions ordered by most recently updated.
func (s *SessionDB) Recent(n int) ([]Session, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(`
		SELECT bundle_path, file_name, position, speed, factor,
			branch_transform, uniform_scaling, monophyletic_coloring,
			dim_inactive, dim_marked, msa_window_size, msa_step_size,
			bar_option, manual_marks, updated_at
		FROM sessions ORDER BY updated_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			continue
		}
		out = append(out, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return out, nil
}

// Delete removes the session for a bundle path. Missing rows are not an
// error.
func (s *SessionDB) Delete(bundlePath string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE bundle_path = ?`, bundlePath)
	return err
}

// Prune keeps only the n most recently updated sessions.
func (s *SessionDB) Prune(keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := s.db.Exec(`
		DELETE FROM sessions WHERE bundle_path NOT IN (
			SELECT bundle_path FROM sessions ORDER BY updated_at DESC LIMIT ?
		)`, keep)
	return err
}

// Count returns the number of stored sessions.
func (s *SessionDB) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var sess Session
	var marksJSON string
	var updatedAt sql.NullTime

	err := row.Scan(
		&sess.BundlePath, &sess.FileName, &sess.Position, &sess.Speed, &sess.Factor,
		&sess.BranchTransform, &sess.UniformScaling, &sess.MonophyleticColoring,
		&sess.DimInactive, &sess.DimMarked, &sess.MSAWindowSize, &sess.MSAStepSize,
		&sess.BarOption, &marksJSON, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		sess.UpdatedAt = updatedAt.Time
	}
	if marksJSON != "" && marksJSON != "null" {
		if err := json.Unmarshal([]byte(marksJSON), &sess.ManualMarks); err != nil {
			sess.ManualMarks = nil
		}
	}
	return &sess, nil
}
