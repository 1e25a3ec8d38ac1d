// Package course holds the course aggregate: metadata, memberships with
// course-scoped roles, and curricula.
package course

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/studyhall/internal/domain/problem"
)

// Course rule violations.
var (
	// ErrTitleRequired indicates a missing course title.
	ErrTitleRequired = problem.New("COURSE_TITLE_REQUIRED", "course title is required")
	// ErrDescriptionRequired indicates a missing course description.
	ErrDescriptionRequired = problem.New("COURSE_DESCRIPTION_REQUIRED", "course description is required")
	// ErrMemberIDRequired indicates a missing member id.
	ErrMemberIDRequired = problem.New("COURSE_MEMBER_ID_REQUIRED", "member id is required")
	// ErrRoleRequired indicates a missing or invalid course role.
	ErrRoleRequired = problem.New("COURSE_ROLE_REQUIRED", "course role is required")
	// ErrMemberAlreadyRegistered indicates the member is already enrolled.
	ErrMemberAlreadyRegistered = problem.New("COURSE_MEMBER_ALREADY_REGISTERED", "member is already registered in the course")
	// ErrMemberNotRegistered indicates the member is not enrolled.
	ErrMemberNotRegistered = problem.New("COURSE_MEMBER_NOT_REGISTERED", "member is not registered in the course")
	// ErrCurriculumNotFound indicates the curriculum does not belong to the course.
	ErrCurriculumNotFound = problem.New("CURRICULUM_NOT_FOUND_IN_COURSE", "curriculum not found in the course")
)

// Member is one enrollment of a member in a course with a course role.
type Member struct {
	MemberID string
	Role     Role
}

// Curriculum groups course sessions under one unit of study.
type Curriculum struct {
	ID          string
	CourseID    string
	Title       string
	Description string
	CreatedAt   time.Time
}

// Course represents a course with its memberships and curricula.
type Course struct {
	ID          string
	Title       string
	Description string
	Members     []Member
	Curricula   []Curriculum
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Create creates a new course with a generated id and timestamps.
func Create(title, description string, now func() time.Time, idGenerator func() (string, error)) (Course, error) {
	if now == nil {
		now = time.Now
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Course{}, ErrTitleRequired
	}

	id, err := idGenerator()
	if err != nil {
		return Course{}, fmt.Errorf("generate course id: %w", err)
	}

	createdAt := now().UTC()
	return Course{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// UpdateTitle replaces the course title.
func (c *Course) UpdateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrTitleRequired
	}
	c.Title = title
	return nil
}

// UpdateDescription replaces the course description.
func (c *Course) UpdateDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return ErrDescriptionRequired
	}
	c.Description = description
	return nil
}

// AddMember enrolls a member in the course. Each member may hold exactly
// one role per course.
func (c *Course) AddMember(memberID string, role Role) error {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return ErrMemberIDRequired
	}
	if !role.IsValid() {
		return ErrRoleRequired
	}
	for _, m := range c.Members {
		if m.MemberID == memberID {
			return ErrMemberAlreadyRegistered
		}
	}
	c.Members = append(c.Members, Member{MemberID: memberID, Role: role})
	return nil
}

// RemoveMember removes a member's enrollment from the course.
func (c *Course) RemoveMember(memberID string) error {
	for i, m := range c.Members {
		if m.MemberID == memberID {
			c.Members = append(c.Members[:i], c.Members[i+1:]...)
			return nil
		}
	}
	return ErrMemberNotRegistered
}

// ChangeMemberRole changes an enrolled member's course role.
func (c *Course) ChangeMemberRole(memberID string, role Role) error {
	if !role.IsValid() {
		return ErrRoleRequired
	}
	for i, m := range c.Members {
		if m.MemberID == memberID {
			c.Members[i].Role = role
			return nil
		}
	}
	return ErrMemberNotRegistered
}

// RoleOf returns the course role held by memberID, or RoleUnspecified
// when the member is not enrolled.
func (c *Course) RoleOf(memberID string) Role {
	for _, m := range c.Members {
		if m.MemberID == memberID {
			return m.Role
		}
	}
	return RoleUnspecified
}

// AddCurriculum appends a curriculum to the course.
func (c *Course) AddCurriculum(title, description string, now func() time.Time, idGenerator func() (string, error)) (Curriculum, error) {
	if now == nil {
		now = time.Now
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Curriculum{}, ErrTitleRequired
	}

	id, err := idGenerator()
	if err != nil {
		return Curriculum{}, fmt.Errorf("generate curriculum id: %w", err)
	}

	curriculum := Curriculum{
		ID:          id,
		CourseID:    c.ID,
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   now().UTC(),
	}
	c.Curricula = append(c.Curricula, curriculum)
	return curriculum, nil
}

// RemoveCurriculum removes a curriculum from the course by id.
func (c *Course) RemoveCurriculum(curriculumID string) error {
	for i, cur := range c.Curricula {
		if cur.ID == curriculumID {
			c.Curricula = append(c.Curricula[:i], c.Curricula[i+1:]...)
			return nil
		}
	}
	return ErrCurriculumNotFound
}
