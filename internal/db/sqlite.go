package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/video-transcribe/backend/internal/auth"
	"github.com/video-transcribe/backend/internal/db/models"
)

type Database struct {
	db *sql.DB
}

func NewSQLite(path string) (*Database, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	d := &Database{db: sqlDB}
	if err := d.migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Database) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'viewer',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		platform TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL,
		preview_minutes INTEGER NOT NULL DEFAULT 0,
		duration REAL NOT NULL DEFAULT 0,
		transcript_path TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := d.db.Exec(schema)
	return err
}

func (d *Database) EnsureAdmin(username, password string) error {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM users WHERE role = 'admin'").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		"INSERT INTO users (username, password, role) VALUES (?, ?, 'admin')",
		username, hash,
	)
	return err
}

func (d *Database) GetUserByUsername(username string) (*models.User, error) {
	u := &models.User{}
	err := d.db.QueryRow(
		"SELECT id, username, password, role, created_at, updated_at FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (d *Database) GetUserByID(id int64) (*models.User, error) {
	u := &models.User{}
	err := d.db.QueryRow(
		"SELECT id, username, password, role, created_at, updated_at FROM users WHERE id = ?",
		id,
	).Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateSession inserts the initial record for a new session.
func (d *Database) CreateSession(rec *models.SessionRecord) error {
	_, err := d.db.Exec(`
		INSERT INTO sessions (id, source, platform, title, language, state, preview_minutes, duration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Source, rec.Platform, rec.Title, rec.Language, rec.State,
		rec.PreviewMinutes, rec.Duration, rec.CreatedAt, rec.CreatedAt,
	)
	return err
}

// UpdateSessionState records a state transition, with an optional error message.
func (d *Database) UpdateSessionState(id, state, errMsg string) error {
	_, err := d.db.Exec(
		"UPDATE sessions SET state = ?, error = ?, updated_at = ? WHERE id = ?",
		state, errMsg, time.Now(), id,
	)
	return err
}

// UpdateSessionMedia fills in metadata learned during acquisition.
func (d *Database) UpdateSessionMedia(id, platform, title string, duration float64) error {
	_, err := d.db.Exec(
		"UPDATE sessions SET platform = ?, title = ?, duration = ?, updated_at = ? WHERE id = ?",
		platform, title, duration, time.Now(), id,
	)
	return err
}

// SetSessionTranscript records the saved transcript path on completion.
func (d *Database) SetSessionTranscript(id, path string) error {
	_, err := d.db.Exec(
		"UPDATE sessions SET transcript_path = ?, updated_at = ? WHERE id = ?",
		path, time.Now(), id,
	)
	return err
}

func (d *Database) GetSession(id string) (*models.SessionRecord, error) {
	rec := &models.SessionRecord{}
	err := d.db.QueryRow(`
		SELECT id, source, platform, title, language, state, preview_minutes, duration, transcript_path, error, created_at, updated_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Source, &rec.Platform, &rec.Title, &rec.Language, &rec.State,
		&rec.PreviewMinutes, &rec.Duration, &rec.TranscriptPath, &rec.Error, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListSessions returns session records ordered by creation time (newest first).
func (d *Database) ListSessions(limit int) ([]*models.SessionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(`
		SELECT id, source, platform, title, language, state, preview_minutes, duration, transcript_path, error, created_at, updated_at
		FROM sessions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*models.SessionRecord
	for rows.Next() {
		rec := &models.SessionRecord{}
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Platform, &rec.Title, &rec.Language, &rec.State,
			&rec.PreviewMinutes, &rec.Duration, &rec.TranscriptPath, &rec.Error, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (d *Database) Close() error {
	return d.db.Close()
}
