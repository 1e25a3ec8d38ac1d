package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/studyhall/internal/domain/attendance"
	"github.com/louisbranch/studyhall/internal/storage"
)

// PutAttendance writes one attendance record. The event log is append
// only: events already persisted are left untouched and only the tail
// the record accumulated since it was loaded is inserted.
func (s *Store) PutAttendance(ctx context.Context, record attendance.Attendance) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("attendance id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put attendance: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO attendances (id, session_id, member_id)
		 VALUES (?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		record.ID,
		record.SessionID,
		record.MemberID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put attendance: %w", err)
	}

	var persisted int
	row := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance_events WHERE attendance_id = ?`, record.ID)
	if err := row.Scan(&persisted); err != nil {
		return fmt.Errorf("count attendance events: %w", err)
	}
	if persisted > len(record.Events) {
		return fmt.Errorf("attendance %s event log is behind storage", record.ID)
	}

	for seq := persisted; seq < len(record.Events); seq++ {
		event := record.Events[seq]
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO attendance_events (
			   attendance_id, seq, event_type, occurred_at,
			   current_status, requested_status, reason,
			   requested_by, approved_by, rejected_by
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.ID,
			seq,
			string(event.Type),
			toMillis(event.Timestamp),
			string(event.CurrentStatus),
			string(event.RequestedStatus),
			event.Reason,
			event.RequestedBy,
			event.ApprovedBy,
			event.RejectedBy,
		); err != nil {
			return fmt.Errorf("put attendance event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put attendance: %w", err)
	}
	return nil
}

// GetAttendance returns one attendance record by ID with its event log
// replayed.
func (s *Store) GetAttendance(ctx context.Context, id string) (attendance.Attendance, error) {
	if err := s.ready(ctx); err != nil {
		return attendance.Attendance{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return attendance.Attendance{}, fmt.Errorf("attendance id is required")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, session_id, member_id FROM attendances WHERE id = ?`,
		id,
	)
	return s.restoreAttendance(ctx, row)
}

// GetAttendanceBySessionAndMember returns the record for one member in
// one session.
func (s *Store) GetAttendanceBySessionAndMember(ctx context.Context, sessionID, memberID string) (attendance.Attendance, error) {
	if err := s.ready(ctx); err != nil {
		return attendance.Attendance{}, err
	}
	sessionID = strings.TrimSpace(sessionID)
	memberID = strings.TrimSpace(memberID)
	if sessionID == "" {
		return attendance.Attendance{}, fmt.Errorf("session id is required")
	}
	if memberID == "" {
		return attendance.Attendance{}, fmt.Errorf("member id is required")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, session_id, member_id FROM attendances WHERE session_id = ? AND member_id = ?`,
		sessionID,
		memberID,
	)
	return s.restoreAttendance(ctx, row)
}

// ListAttendanceBySession returns every attendance record of one session.
func (s *Store) ListAttendanceBySession(ctx context.Context, sessionID string) ([]attendance.Attendance, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	return s.listAttendance(
		ctx,
		`SELECT id, session_id, member_id FROM attendances WHERE session_id = ? ORDER BY member_id ASC`,
		sessionID,
	)
}

// ListAttendanceByMember returns every attendance record of one member.
func (s *Store) ListAttendanceByMember(ctx context.Context, memberID string) ([]attendance.Attendance, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return nil, fmt.Errorf("member id is required")
	}
	return s.listAttendance(
		ctx,
		`SELECT id, session_id, member_id FROM attendances WHERE member_id = ? ORDER BY session_id ASC`,
		memberID,
	)
}

func (s *Store) listAttendance(ctx context.Context, query string, args ...any) ([]attendance.Attendance, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	type header struct {
		id, sessionID, memberID string
	}
	var headers []header
	for rows.Next() {
		var h header
		if err := rows.Scan(&h.id, &h.sessionID, &h.memberID); err != nil {
			return nil, fmt.Errorf("list attendance: %w", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	var records []attendance.Attendance
	for _, h := range headers {
		events, err := s.attendanceEvents(ctx, h.id)
		if err != nil {
			return nil, err
		}
		record, err := attendance.Restore(h.id, h.sessionID, h.memberID, events)
		if err != nil {
			return nil, fmt.Errorf("restore attendance %s: %w", h.id, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Store) restoreAttendance(ctx context.Context, row *sql.Row) (attendance.Attendance, error) {
	var id, sessionID, memberID string
	if err := row.Scan(&id, &sessionID, &memberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Attendance{}, storage.ErrNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("get attendance: %w", err)
	}
	events, err := s.attendanceEvents(ctx, id)
	if err != nil {
		return attendance.Attendance{}, err
	}
	record, err := attendance.Restore(id, sessionID, memberID, events)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("restore attendance %s: %w", id, err)
	}
	return record, nil
}

func (s *Store) attendanceEvents(ctx context.Context, attendanceID string) ([]attendance.Event, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT event_type, occurred_at, current_status, requested_status,
		        reason, requested_by, approved_by, rejected_by
		   FROM attendance_events
		  WHERE attendance_id = ?
		  ORDER BY seq ASC`,
		attendanceID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendance events: %w", err)
	}
	defer rows.Close()

	var events []attendance.Event
	for rows.Next() {
		var event attendance.Event
		var eventType, currentStatus, requestedStatus string
		var occurredAt int64
		if err := rows.Scan(
			&eventType,
			&occurredAt,
			&currentStatus,
			&requestedStatus,
			&event.Reason,
			&event.RequestedBy,
			&event.ApprovedBy,
			&event.RejectedBy,
		); err != nil {
			return nil, fmt.Errorf("list attendance events: %w", err)
		}
		event.Type = attendance.EventType(eventType)
		event.Timestamp = fromMillis(occurredAt)
		event.CurrentStatus = attendance.Status(currentStatus)
		event.RequestedStatus = attendance.Status(requestedStatus)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance events: %w", err)
	}
	return events, nil
}
