package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/studyhall/internal/domain/session"
	"github.com/louisbranch/studyhall/internal/storage"
)

const sessionColumns = `id, course_id, curriculum_id, parent_id, title,
	scheduled_at, scheduled_end_at, session_type, location, location_details,
	created_at, updated_at`

// PutSession writes one session with its participant list.
func (s *Store) PutSession(ctx context.Context, record session.Session) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("session id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO sessions (
		   id, course_id, curriculum_id, parent_id, title,
		   scheduled_at, scheduled_end_at, session_type, location, location_details,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   scheduled_at = excluded.scheduled_at,
		   scheduled_end_at = excluded.scheduled_end_at,
		   session_type = excluded.session_type,
		   location = excluded.location,
		   location_details = excluded.location_details,
		   updated_at = excluded.updated_at`,
		record.ID,
		record.CourseID,
		record.CurriculumID,
		record.ParentID,
		record.Title,
		toMillis(record.ScheduledAt),
		toMillis(record.ScheduledEndAt),
		string(record.Type),
		string(record.Location),
		record.LocationDetails,
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_participants WHERE session_id = ?`, record.ID); err != nil {
		return fmt.Errorf("clear session participants: %w", err)
	}
	for _, p := range record.Participants {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO session_participants (session_id, member_id, role) VALUES (?, ?, ?)`,
			record.ID,
			p.MemberID,
			string(p.Role),
		); err != nil {
			return fmt.Errorf("put session participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put session: %w", err)
	}
	return nil
}

// GetSession returns one session by ID with participants loaded. Child
// sessions also carry their parent's schedule window.
func (s *Store) GetSession(ctx context.Context, id string) (session.Session, error) {
	if err := s.ready(ctx); err != nil {
		return session.Session{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return session.Session{}, fmt.Errorf("session id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`,
		id,
	)
	record, err := scanSession(row.Scan)
	if err != nil {
		return session.Session{}, err
	}

	if record.ParentID != "" {
		parentRow := s.sqlDB.QueryRowContext(
			ctx,
			`SELECT scheduled_at, scheduled_end_at FROM sessions WHERE id = ?`,
			record.ParentID,
		)
		var parentStart, parentEnd int64
		if err := parentRow.Scan(&parentStart, &parentEnd); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return session.Session{}, fmt.Errorf("get parent session: %w", err)
			}
		} else {
			record.ParentScheduledAt = fromMillis(parentStart)
			record.ParentScheduledEndAt = fromMillis(parentEnd)
		}
	}

	participants, err := s.sessionParticipants(ctx, record.ID)
	if err != nil {
		return session.Session{}, err
	}
	record.Participants = participants
	return record, nil
}

// ListSessionsByCourse returns the course's sessions ordered by start
// time, without participants loaded.
func (s *Store) ListSessionsByCourse(ctx context.Context, courseID string) ([]session.Session, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, fmt.Errorf("course id is required")
	}
	return s.listSessions(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE course_id = ? ORDER BY scheduled_at ASC, id ASC`,
		courseID,
	)
}

// ListChildSessions returns the children of a root session ordered by
// start time, without participants loaded.
func (s *Store) ListChildSessions(ctx context.Context, parentID string) ([]session.Session, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	parentID = strings.TrimSpace(parentID)
	if parentID == "" {
		return nil, fmt.Errorf("parent id is required")
	}
	return s.listSessions(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE parent_id = ? ORDER BY scheduled_at ASC, id ASC`,
		parentID,
	)
}

// DeleteSession removes one session; participants cascade.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) listSessions(ctx context.Context, query string, args ...any) ([]session.Session, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		record, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *Store) sessionParticipants(ctx context.Context, sessionID string) ([]session.Participant, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT member_id, role
		   FROM session_participants
		  WHERE session_id = ?
		  ORDER BY member_id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list session participants: %w", err)
	}
	defer rows.Close()

	var participants []session.Participant
	for rows.Next() {
		var p session.Participant
		var role string
		if err := rows.Scan(&p.MemberID, &role); err != nil {
			return nil, fmt.Errorf("list session participants: %w", err)
		}
		p.Role = session.ParticipantRole(role)
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list session participants: %w", err)
	}
	return participants, nil
}

func scanSession(scan func(...any) error) (session.Session, error) {
	var record session.Session
	var sessionType, location string
	var scheduledAt, scheduledEndAt, createdAt, updatedAt int64
	err := scan(
		&record.ID,
		&record.CourseID,
		&record.CurriculumID,
		&record.ParentID,
		&record.Title,
		&scheduledAt,
		&scheduledEndAt,
		&sessionType,
		&location,
		&record.LocationDetails,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, storage.ErrNotFound
		}
		return session.Session{}, fmt.Errorf("scan session: %w", err)
	}
	record.Type = session.Type(sessionType)
	record.Location = session.Location(location)
	record.ScheduledAt = fromMillis(scheduledAt)
	record.ScheduledEndAt = fromMillis(scheduledEndAt)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
