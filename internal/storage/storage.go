package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/studyhall/internal/domain/attendance"
	"github.com/louisbranch/studyhall/internal/domain/course"
	"github.com/louisbranch/studyhall/internal/domain/member"
	"github.com/louisbranch/studyhall/internal/domain/session"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
var ErrAlreadyExists = errors.New("record already exists")

// MemberStore persists member accounts.
type MemberStore interface {
	PutMember(ctx context.Context, record member.Member) error
	GetMember(ctx context.Context, id string) (member.Member, error)
	ListMembers(ctx context.Context) ([]member.Member, error)
}

// CourseStore persists courses with their memberships and curricula.
type CourseStore interface {
	PutCourse(ctx context.Context, record course.Course) error
	GetCourse(ctx context.Context, id string) (course.Course, error)
	ListCourses(ctx context.Context) ([]course.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

// SessionStore persists sessions with their participants.
type SessionStore interface {
	PutSession(ctx context.Context, record session.Session) error
	GetSession(ctx context.Context, id string) (session.Session, error)
	ListSessionsByCourse(ctx context.Context, courseID string) ([]session.Session, error)
	ListChildSessions(ctx context.Context, parentID string) ([]session.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// AttendanceStore persists attendance records and their event logs. The
// event log is append-only: PutAttendance writes events the record
// accumulated since it was loaded and never rewrites resolved history.
type AttendanceStore interface {
	PutAttendance(ctx context.Context, record attendance.Attendance) error
	GetAttendance(ctx context.Context, id string) (attendance.Attendance, error)
	GetAttendanceBySessionAndMember(ctx context.Context, sessionID, memberID string) (attendance.Attendance, error)
	ListAttendanceBySession(ctx context.Context, sessionID string) ([]attendance.Attendance, error)
	ListAttendanceByMember(ctx context.Context, memberID string) ([]attendance.Attendance, error)
}

// Store aggregates every persistence contract the services need.
type Store interface {
	MemberStore
	CourseStore
	SessionStore
	AttendanceStore
}
