// Package authz defines the hierarchical authorization policies.
//
// The package centralizes system-role, course-role, and session-role
// authorization so services can call one evaluator instead of
// duplicating role checks. Policies are stateless functions over
// injected read sources: they return decisions with stable reason
// codes and degrade missing records to a deny, never an error.
package authz

import (
	"context"

	"github.com/louisbranch/studyhall/internal/domain/attendance"
	"github.com/louisbranch/studyhall/internal/domain/course"
	"github.com/louisbranch/studyhall/internal/domain/member"
	"github.com/louisbranch/studyhall/internal/domain/session"
)

// Decision reason codes.
const (
	// ReasonAllowSystemRole indicates the actor's system role sufficed.
	ReasonAllowSystemRole = "ALLOW_SYSTEM_ROLE"
	// ReasonAllowCourseRole indicates the actor's course role sufficed.
	ReasonAllowCourseRole = "ALLOW_COURSE_ROLE"
	// ReasonAllowSessionHost indicates the actor hosts the session.
	ReasonAllowSessionHost = "ALLOW_SESSION_HOST"
	// ReasonAllowSessionParticipant indicates the actor joined the session.
	ReasonAllowSessionParticipant = "ALLOW_SESSION_PARTICIPANT"
	// ReasonAllowOwnRecord indicates the actor targets its own record.
	ReasonAllowOwnRecord = "ALLOW_OWN_RECORD"
	// ReasonAllowApproverRank indicates the actor outranks the requester.
	ReasonAllowApproverRank = "ALLOW_APPROVER_RANK"

	// ReasonDenySystemRole indicates an insufficient system role.
	ReasonDenySystemRole = "DENY_SYSTEM_ROLE"
	// ReasonDenyCourseRole indicates an insufficient course role.
	ReasonDenyCourseRole = "DENY_COURSE_ROLE"
	// ReasonDenyApproverRank indicates the actor does not outrank the requester.
	ReasonDenyApproverRank = "DENY_APPROVER_RANK"
	// ReasonDenyNotParticipant indicates the actor is not in the session.
	ReasonDenyNotParticipant = "DENY_NOT_PARTICIPANT"
	// ReasonDenySelfApproval indicates an actor approving its own request.
	ReasonDenySelfApproval = "DENY_SELF_APPROVAL"
	// ReasonDenyAttendanceNotFound indicates a missing attendance record.
	ReasonDenyAttendanceNotFound = "DENY_ATTENDANCE_NOT_FOUND"
	// ReasonDenySessionNotFound indicates a missing session.
	ReasonDenySessionNotFound = "DENY_SESSION_NOT_FOUND"
	// ReasonDenyStandaloneSession indicates a session outside any course.
	ReasonDenyStandaloneSession = "DENY_STANDALONE_SESSION"
	// ReasonDenyNoPendingRequest indicates no unresolved correction request.
	ReasonDenyNoPendingRequest = "DENY_NO_PENDING_REQUEST"
)

// Decision is the outcome of one policy evaluation.
type Decision struct {
	Allowed    bool
	ReasonCode string
}

func allow(reason string) Decision {
	return Decision{Allowed: true, ReasonCode: reason}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, ReasonCode: reason}
}

// SessionSource resolves sessions for policy evaluation.
type SessionSource interface {
	SessionByID(ctx context.Context, sessionID string) (session.Session, bool, error)
}

// AttendanceSource resolves attendance records for policy evaluation.
type AttendanceSource interface {
	AttendanceByID(ctx context.Context, attendanceID string) (attendance.Attendance, bool, error)
}

// CourseRoleSource resolves a member's role within a course.
type CourseRoleSource interface {
	CourseRole(ctx context.Context, memberID, courseID string) (course.Role, bool, error)
}

// SystemRoleSource resolves a member's system-wide role.
type SystemRoleSource interface {
	SystemRole(ctx context.Context, memberID string) (member.SystemRole, bool, error)
}
