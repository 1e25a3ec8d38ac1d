package authz

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/studyhall/internal/domain/attendance"
	"github.com/louisbranch/studyhall/internal/domain/course"
	"github.com/louisbranch/studyhall/internal/domain/member"
	"github.com/louisbranch/studyhall/internal/domain/session"
)

// fakeSources backs every policy source interface with in-memory maps.
type fakeSources struct {
	sessions    map[string]session.Session
	attendances map[string]attendance.Attendance
	courseRoles map[string]course.Role // key: memberID + "/" + courseID
	systemRoles map[string]member.SystemRole
	err         error
}

func (f *fakeSources) SessionByID(_ context.Context, sessionID string) (session.Session, bool, error) {
	if f.err != nil {
		return session.Session{}, false, f.err
	}
	record, ok := f.sessions[sessionID]
	return record, ok, nil
}

func (f *fakeSources) AttendanceByID(_ context.Context, attendanceID string) (attendance.Attendance, bool, error) {
	if f.err != nil {
		return attendance.Attendance{}, false, f.err
	}
	record, ok := f.attendances[attendanceID]
	return record, ok, nil
}

func (f *fakeSources) CourseRole(_ context.Context, memberID, courseID string) (course.Role, bool, error) {
	if f.err != nil {
		return course.RoleUnspecified, false, f.err
	}
	role, ok := f.courseRoles[memberID+"/"+courseID]
	return role, ok, nil
}

func (f *fakeSources) SystemRole(_ context.Context, memberID string) (member.SystemRole, bool, error) {
	if f.err != nil {
		return member.SystemRoleUnspecified, false, f.err
	}
	role, ok := f.systemRoles[memberID]
	return role, ok, nil
}

func newFakeSources() *fakeSources {
	return &fakeSources{
		sessions:    make(map[string]session.Session),
		attendances: make(map[string]attendance.Attendance),
		courseRoles: make(map[string]course.Role),
		systemRoles: make(map[string]member.SystemRole),
	}
}

func (f *fakeSources) addCourseRole(memberID, courseID string, role course.Role) {
	f.courseRoles[memberID+"/"+courseID] = role
}

func attendanceWithPending(t *testing.T, sessionID, memberID, requestedBy string) attendance.Attendance {
	t.Helper()
	clock := func() time.Time { return time.Date(2026, 5, 18, 10, 0, 0, 0, time.UTC) }
	record, err := attendance.New(sessionID, memberID, func() (string, error) { return "att-1", nil })
	if err != nil {
		t.Fatalf("new attendance: %v", err)
	}
	if err := record.RequestCorrection(attendance.StatusPresent, "forgot to check in", requestedBy, clock); err != nil {
		t.Fatalf("request correction: %v", err)
	}
	return record
}

func expectDecision(t *testing.T, decision Decision, err error, allowed bool, reason string) {
	t.Helper()
	if err != nil {
		t.Fatalf("policy error: %v", err)
	}
	if decision.Allowed != allowed {
		t.Fatalf("expected allowed=%v, got %+v", allowed, decision)
	}
	if decision.ReasonCode != reason {
		t.Fatalf("expected reason %s, got %s", reason, decision.ReasonCode)
	}
}
