package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	_ "modernc.org/sqlite"

	"github.com/DoyleJ11/portfolio-backend/internal/contact"
	"github.com/DoyleJ11/portfolio-backend/internal/resume"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS contact_messages (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS resume_roles (
	role_id TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	icon TEXT NOT NULL,
	focus TEXT NOT NULL DEFAULT '',
	display_order INTEGER NOT NULL,
	file_url TEXT NOT NULL DEFAULT ''
);`

type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. ":memory:" works and
// is pinned to a single connection so every query sees the same database.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, multierr.Append(fmt.Errorf("create tables: %w", err), db.Close())
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) SaveMessage(ctx context.Context, m contact.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Body, m.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: message %s", ErrDuplicate, m.ID)
	}
	return err
}

func (s *SQLite) ListMessages(ctx context.Context, limit int) (out []contact.Message, err error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, body, created_at FROM contact_messages ORDER BY created_at DESC LIMIT ?`,
		limitOrDefault(limit))
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, rows.Close()) }()

	for rows.Next() {
		var (
			m  contact.Message
			at string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &at); err != nil {
			return nil, err
		}
		if m.CreatedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("message %s: %w", m.ID, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLite) ResumeRoles(ctx context.Context) (out []resume.Role, err error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role_id, label, icon, focus, display_order, file_url FROM resume_roles ORDER BY display_order`)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, rows.Close()) }()

	for rows.Next() {
		var r resume.Role
		if err := rows.Scan(&r.RoleID, &r.Label, &r.Icon, &r.Focus, &r.DisplayOrder, &r.FileURL); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) SeedResumeRoles(ctx context.Context, roles []resume.Role) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, r := range roles {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO resume_roles (role_id, label, icon, focus, display_order, file_url)
			 VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(role_id) DO NOTHING`,
			r.RoleID, r.Label, r.Icon, r.Focus, r.DisplayOrder, r.FileURL)
		if err != nil {
			return multierr.Append(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

func (s *SQLite) Close() error { return s.db.Close() }
