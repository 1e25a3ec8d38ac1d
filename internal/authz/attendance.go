package authz

import (
	"context"

	"github.com/louisbranch/studyhall/internal/domain/course"
	"github.com/louisbranch/studyhall/internal/domain/member"
)

// AttendancePolicy answers the correction-workflow authorization: who
// may file a correction request and who may approve or reject it.
type AttendancePolicy struct {
	Attendances AttendanceSource
	Sessions    SessionSource
	Courses     CourseRoleSource
	System      SystemRoleSource
}

// CanRequestCorrection reports whether the actor may file a correction
// request against the attendance record. Registrars and admins may
// always; within a course, mentors and above may request for anyone
// and mentees only for their own record. Standalone sessions carry no
// correction workflow.
func (p AttendancePolicy) CanRequestCorrection(ctx context.Context, attendanceID, memberID string) (Decision, error) {
	record, ok, err := p.Attendances.AttendanceByID(ctx, attendanceID)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return deny(ReasonDenyAttendanceNotFound), nil
	}

	if decision, err := p.registrarDecision(ctx, memberID); err != nil || decision.Allowed {
		return decision, err
	}

	sessionRecord, ok, err := p.Sessions.SessionByID(ctx, record.SessionID)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return deny(ReasonDenySessionNotFound), nil
	}
	if sessionRecord.IsStandalone() {
		return deny(ReasonDenyStandaloneSession), nil
	}

	held, ok, err := p.Courses.CourseRole(ctx, memberID, sessionRecord.CourseID)
	if err != nil {
		return Decision{}, err
	}
	if !ok || !held.IsValid() {
		return deny(ReasonDenyCourseRole), nil
	}
	if held.Rank() >= course.RoleMentor.Rank() {
		return allow(ReasonAllowCourseRole), nil
	}
	if record.MemberID == memberID {
		return allow(ReasonAllowOwnRecord), nil
	}
	return deny(ReasonDenyCourseRole), nil
}

// CanApproveCorrection evaluates the approval chain for the pending
// correction request on the attendance record.
//
// Registrars and admins may resolve any request, their own included.
// For everyone else self-approval is checked before the course-rank
// logic, so no course role, LEAD_MANAGER included, can approve its own
// request; within the course the approver must strictly outrank the
// requester.
func (p AttendancePolicy) CanApproveCorrection(ctx context.Context, attendanceID, memberID string) (Decision, error) {
	record, ok, err := p.Attendances.AttendanceByID(ctx, attendanceID)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return deny(ReasonDenyAttendanceNotFound), nil
	}

	if decision, err := p.registrarDecision(ctx, memberID); err != nil || decision.Allowed {
		return decision, err
	}

	pending, err := record.PendingRequest()
	if err != nil {
		// An already-resolved request collapses to a deny: policy
		// checks are queries, not commands.
		return deny(ReasonDenyNoPendingRequest), nil
	}
	if pending.RequestedBy == memberID {
		return deny(ReasonDenySelfApproval), nil
	}

	sessionRecord, ok, err := p.Sessions.SessionByID(ctx, record.SessionID)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return deny(ReasonDenySessionNotFound), nil
	}
	if sessionRecord.IsStandalone() {
		return deny(ReasonDenyStandaloneSession), nil
	}

	approverRole, ok, err := p.Courses.CourseRole(ctx, memberID, sessionRecord.CourseID)
	if err != nil {
		return Decision{}, err
	}
	if !ok || !approverRole.IsValid() {
		return deny(ReasonDenyCourseRole), nil
	}
	if approverRole == course.RoleLeadManager {
		return allow(ReasonAllowCourseRole), nil
	}

	requesterRole, ok, err := p.Courses.CourseRole(ctx, pending.RequestedBy, sessionRecord.CourseID)
	if err != nil {
		return Decision{}, err
	}
	if !ok || !requesterRole.IsValid() {
		// A requester outside the course hierarchy cannot be ranked
		// against; only the bypass roles above may resolve it.
		return deny(ReasonDenyApproverRank), nil
	}
	if approverRole.Outranks(requesterRole) {
		return allow(ReasonAllowApproverRank), nil
	}
	return deny(ReasonDenyApproverRank), nil
}

// registrarDecision allows actors holding REGISTRAR or ADMIN authority,
// which bypasses course-level checks entirely.
func (p AttendancePolicy) registrarDecision(ctx context.Context, memberID string) (Decision, error) {
	role, ok, err := p.System.SystemRole(ctx, memberID)
	if err != nil {
		return Decision{}, err
	}
	if ok && (role == member.SystemRoleRegistrar || role == member.SystemRoleAdmin) {
		return allow(ReasonAllowSystemRole), nil
	}
	return deny(ReasonDenySystemRole), nil
}
