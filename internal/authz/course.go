package authz

import (
	"context"

	"github.com/louisbranch/studyhall/internal/domain/course"
)

// CoursePolicy answers course-scoped role checks. It carries no state
// beyond its read source.
type CoursePolicy struct {
	Courses CourseRoleSource
}

// HasRole reports whether the member holds exactly the given course role.
func (p CoursePolicy) HasRole(ctx context.Context, memberID, courseID string, role course.Role) (bool, error) {
	held, ok, err := p.Courses.CourseRole(ctx, memberID, courseID)
	if err != nil || !ok {
		return false, err
	}
	return held == role, nil
}

// HasAnyRole reports whether the member holds one of the given roles.
func (p CoursePolicy) HasAnyRole(ctx context.Context, memberID, courseID string, roles ...course.Role) (bool, error) {
	held, ok, err := p.Courses.CourseRole(ctx, memberID, courseID)
	if err != nil || !ok {
		return false, err
	}
	for _, role := range roles {
		if held == role {
			return true, nil
		}
	}
	return false, nil
}

// IsMember reports whether the member is enrolled in the course at all.
func (p CoursePolicy) IsMember(ctx context.Context, memberID, courseID string) (bool, error) {
	held, ok, err := p.Courses.CourseRole(ctx, memberID, courseID)
	if err != nil || !ok {
		return false, err
	}
	return held.IsValid(), nil
}

// IsManager reports whether the member holds manage-level authority
// (MANAGER or above) in the course.
func (p CoursePolicy) IsManager(ctx context.Context, memberID, courseID string) (bool, error) {
	held, ok, err := p.Courses.CourseRole(ctx, memberID, courseID)
	if err != nil || !ok {
		return false, err
	}
	return held.Rank() >= course.RoleManager.Rank(), nil
}

// IsManagerOrMentor reports whether the member holds mentor-level
// authority (MENTOR or above) in the course.
func (p CoursePolicy) IsManagerOrMentor(ctx context.Context, memberID, courseID string) (bool, error) {
	held, ok, err := p.Courses.CourseRole(ctx, memberID, courseID)
	if err != nil || !ok {
		return false, err
	}
	return held.Rank() >= course.RoleMentor.Rank(), nil
}
