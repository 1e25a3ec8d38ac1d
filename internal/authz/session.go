package authz

import (
	"context"

	"github.com/louisbranch/studyhall/internal/domain/course"
	"github.com/louisbranch/studyhall/internal/domain/member"
)

// SessionPolicy answers session-scoped authorization. Standalone
// sessions (no course) are governed by system roles; course-bound
// sessions delegate to course roles.
type SessionPolicy struct {
	Sessions SessionSource
	Courses  CourseRoleSource
	System   SystemRoleSource
}

// CanManageSession reports whether the actor may mutate the session
// itself (schedule, venue, children, deletion).
func (p SessionPolicy) CanManageSession(ctx context.Context, memberID, sessionID string) (Decision, error) {
	record, ok, err := p.Sessions.SessionByID(ctx, sessionID)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return deny(ReasonDenySessionNotFound), nil
	}
	if record.IsStandalone() {
		return p.operatorDecision(ctx, memberID)
	}
	return p.courseRankDecision(ctx, memberID, record.CourseID, course.RoleManager)
}

// CanManageSessionParticipants reports whether the actor may add,
// remove, or re-role session participants: course managers and current
// session hosts qualify; for standalone sessions, operators and hosts.
func (p SessionPolicy) CanManageSessionParticipants(ctx context.Context, memberID, sessionID string) (Decision, error) {
	record, ok, err := p.Sessions.SessionByID(ctx, sessionID)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return deny(ReasonDenySessionNotFound), nil
	}
	if record.IsHost(memberID) {
		return allow(ReasonAllowSessionHost), nil
	}
	if record.IsStandalone() {
		return p.operatorDecision(ctx, memberID)
	}
	return p.courseRankDecision(ctx, memberID, record.CourseID, course.RoleManager)
}

// CanViewSession reports whether the actor may read the session:
// course membership, or operator authority for standalone sessions.
func (p SessionPolicy) CanViewSession(ctx context.Context, memberID, sessionID string) (Decision, error) {
	record, ok, err := p.Sessions.SessionByID(ctx, sessionID)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return deny(ReasonDenySessionNotFound), nil
	}
	if record.IsParticipant(memberID) {
		return allow(ReasonAllowSessionParticipant), nil
	}
	if record.IsStandalone() {
		return p.operatorDecision(ctx, memberID)
	}
	held, ok, err := p.Courses.CourseRole(ctx, memberID, record.CourseID)
	if err != nil {
		return Decision{}, err
	}
	if ok && held.IsValid() {
		return allow(ReasonAllowCourseRole), nil
	}
	return deny(ReasonDenyCourseRole), nil
}

// operatorDecision allows actors holding OPERATOR authority or above.
func (p SessionPolicy) operatorDecision(ctx context.Context, memberID string) (Decision, error) {
	role, ok, err := p.System.SystemRole(ctx, memberID)
	if err != nil {
		return Decision{}, err
	}
	if ok && role.AtLeast(member.SystemRoleOperator) {
		return allow(ReasonAllowSystemRole), nil
	}
	return deny(ReasonDenySystemRole), nil
}

// courseRankDecision allows actors holding the minimum course role rank.
func (p SessionPolicy) courseRankDecision(ctx context.Context, memberID, courseID string, minimum course.Role) (Decision, error) {
	held, ok, err := p.Courses.CourseRole(ctx, memberID, courseID)
	if err != nil {
		return Decision{}, err
	}
	if ok && held.Rank() >= minimum.Rank() {
		return allow(ReasonAllowCourseRole), nil
	}
	return deny(ReasonDenyCourseRole), nil
}
