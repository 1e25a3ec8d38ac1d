package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/studyhall/internal/domain/course"
	"github.com/louisbranch/studyhall/internal/storage"
)

// PutCourse writes one course with its memberships and curricula.
func (s *Store) PutCourse(ctx context.Context, record course.Course) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("course id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put course: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO courses (id, title, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   description = excluded.description,
		   updated_at = excluded.updated_at`,
		record.ID,
		record.Title,
		record.Description,
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put course: %w", err)
	}

	// Memberships and curricula are rewritten wholesale; the aggregate is
	// the source of truth for both.
	if _, err := tx.ExecContext(ctx, `DELETE FROM course_members WHERE course_id = ?`, record.ID); err != nil {
		return fmt.Errorf("clear course members: %w", err)
	}
	for _, m := range record.Members {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO course_members (course_id, member_id, role) VALUES (?, ?, ?)`,
			record.ID,
			m.MemberID,
			m.Role.String(),
		); err != nil {
			return fmt.Errorf("put course member: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM curricula WHERE course_id = ?`, record.ID); err != nil {
		return fmt.Errorf("clear curricula: %w", err)
	}
	for _, cur := range record.Curricula {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO curricula (id, course_id, title, description, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			cur.ID,
			record.ID,
			cur.Title,
			cur.Description,
			toMillis(cur.CreatedAt),
		); err != nil {
			return fmt.Errorf("put curriculum: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put course: %w", err)
	}
	return nil
}

// GetCourse returns one course by ID with memberships and curricula loaded.
func (s *Store) GetCourse(ctx context.Context, id string) (course.Course, error) {
	if err := s.ready(ctx); err != nil {
		return course.Course{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return course.Course{}, fmt.Errorf("course id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, title, description, created_at, updated_at
		   FROM courses
		  WHERE id = ?`,
		id,
	)
	var record course.Course
	var createdAt, updatedAt int64
	if err := row.Scan(&record.ID, &record.Title, &record.Description, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return course.Course{}, storage.ErrNotFound
		}
		return course.Course{}, fmt.Errorf("get course: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)

	members, err := s.courseMembers(ctx, record.ID)
	if err != nil {
		return course.Course{}, err
	}
	record.Members = members

	curricula, err := s.courseCurricula(ctx, record.ID)
	if err != nil {
		return course.Course{}, err
	}
	record.Curricula = curricula
	return record, nil
}

// ListCourses returns every course ordered by ID, without memberships or
// curricula loaded.
func (s *Store) ListCourses(ctx context.Context) ([]course.Course, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, title, description, created_at, updated_at
		   FROM courses
		  ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []course.Course
	for rows.Next() {
		var record course.Course
		var createdAt, updatedAt int64
		if err := rows.Scan(&record.ID, &record.Title, &record.Description, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		courses = append(courses, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// DeleteCourse removes one course; memberships and curricula cascade.
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) courseMembers(ctx context.Context, courseID string) ([]course.Member, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT member_id, role
		   FROM course_members
		  WHERE course_id = ?
		  ORDER BY member_id ASC`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list course members: %w", err)
	}
	defer rows.Close()

	var members []course.Member
	for rows.Next() {
		var m course.Member
		var role string
		if err := rows.Scan(&m.MemberID, &role); err != nil {
			return nil, fmt.Errorf("list course members: %w", err)
		}
		m.Role = course.RoleFromString(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list course members: %w", err)
	}
	return members, nil
}

func (s *Store) courseCurricula(ctx context.Context, courseID string) ([]course.Curriculum, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, course_id, title, description, created_at
		   FROM curricula
		  WHERE course_id = ?
		  ORDER BY created_at ASC, id ASC`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list curricula: %w", err)
	}
	defer rows.Close()

	var curricula []course.Curriculum
	for rows.Next() {
		var cur course.Curriculum
		var createdAt int64
		if err := rows.Scan(&cur.ID, &cur.CourseID, &cur.Title, &cur.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("list curricula: %w", err)
		}
		cur.CreatedAt = fromMillis(createdAt)
		curricula = append(curricula, cur)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list curricula: %w", err)
	}
	return curricula, nil
}
