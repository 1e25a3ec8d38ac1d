// Package sqlite provides a SQLite-backed studyhall storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/studyhall/internal/domain/member"
	sqlitemigrate "github.com/louisbranch/studyhall/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/studyhall/internal/storage"
	"github.com/louisbranch/studyhall/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists studyhall state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// PutMember inserts or replaces one member record.
func (s *Store) PutMember(ctx context.Context, record member.Member) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("member id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO members (id, nickname, system_role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   nickname = excluded.nickname,
		   system_role = excluded.system_role,
		   updated_at = excluded.updated_at`,
		record.ID,
		record.Nickname,
		record.Role.String(),
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put member: %w", err)
	}
	return nil
}

// GetMember returns one member by ID.
func (s *Store) GetMember(ctx context.Context, id string) (member.Member, error) {
	if err := s.ready(ctx); err != nil {
		return member.Member{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return member.Member{}, fmt.Errorf("member id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, nickname, system_role, created_at, updated_at
		   FROM members
		  WHERE id = ?`,
		id,
	)
	return scanMember(row.Scan)
}

// ListMembers returns every member ordered by ID.
func (s *Store) ListMembers(ctx context.Context) ([]member.Member, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, nickname, system_role, created_at, updated_at
		   FROM members
		  ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []member.Member
	for rows.Next() {
		record, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		members = append(members, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func scanMember(scan func(...any) error) (member.Member, error) {
	var record member.Member
	var role string
	var createdAt, updatedAt int64
	if err := scan(&record.ID, &record.Nickname, &role, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return member.Member{}, storage.ErrNotFound
		}
		return member.Member{}, fmt.Errorf("scan member: %w", err)
	}
	record.Role = member.SystemRoleFromString(role)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

var _ storage.Store = (*Store)(nil)
