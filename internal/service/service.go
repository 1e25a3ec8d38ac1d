// Package service orchestrates domain aggregates, authorization
// policies, and storage behind transport-agnostic operations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/studyhall/internal/authz"
	"github.com/louisbranch/studyhall/internal/domain/attendance"
	"github.com/louisbranch/studyhall/internal/domain/course"
	"github.com/louisbranch/studyhall/internal/domain/member"
	"github.com/louisbranch/studyhall/internal/domain/session"
	"github.com/louisbranch/studyhall/internal/platform/telemetry/metrics"
	"github.com/louisbranch/studyhall/internal/storage"
)

// DeniedError reports an authorization denial with its policy reason code.
type DeniedError struct {
	ReasonCode string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.ReasonCode)
}

func denied(decision authz.Decision) error {
	metrics.AuthzDenialsTotal.WithLabelValues(decision.ReasonCode).Inc()
	return &DeniedError{ReasonCode: decision.ReasonCode}
}

// IsDenied reports whether err is an authorization denial.
func IsDenied(err error) bool {
	var deniedErr *DeniedError
	return errors.As(err, &deniedErr)
}

// storeSources adapts the storage contracts to the policy read sources.
// Missing records surface as ok=false so policies degrade to a deny.
type storeSources struct {
	store storage.Store
}

func (s storeSources) SessionByID(ctx context.Context, sessionID string) (session.Session, bool, error) {
	record, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, err
	}
	return record, true, nil
}

func (s storeSources) AttendanceByID(ctx context.Context, attendanceID string) (attendance.Attendance, bool, error) {
	record, err := s.store.GetAttendance(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return attendance.Attendance{}, false, nil
		}
		return attendance.Attendance{}, false, err
	}
	return record, true, nil
}

func (s storeSources) CourseRole(ctx context.Context, memberID, courseID string) (course.Role, bool, error) {
	record, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return course.RoleUnspecified, false, nil
		}
		return course.RoleUnspecified, false, err
	}
	role := record.RoleOf(memberID)
	if !role.IsValid() {
		return course.RoleUnspecified, false, nil
	}
	return role, true, nil
}

func (s storeSources) SystemRole(ctx context.Context, memberID string) (member.SystemRole, bool, error) {
	record, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return member.SystemRoleUnspecified, false, nil
		}
		return member.SystemRoleUnspecified, false, err
	}
	return record.Role, true, nil
}

var (
	_ authz.SessionSource    = storeSources{}
	_ authz.AttendanceSource = storeSources{}
	_ authz.CourseRoleSource = storeSources{}
	_ authz.SystemRoleSource = storeSources{}
)
