package service

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/studyhall/internal/authz"
	"github.com/louisbranch/studyhall/internal/domain/course"
	"github.com/louisbranch/studyhall/internal/platform/id"
	"github.com/louisbranch/studyhall/internal/storage"
)

// CourseService manages courses, their memberships, and curricula.
type CourseService struct {
	store       storage.Store
	policy      authz.CoursePolicy
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewCourseService creates a CourseService with default dependencies.
func NewCourseService(store storage.Store) *CourseService {
	return &CourseService{
		store:       store,
		policy:      authz.CoursePolicy{Courses: storeSources{store: store}},
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// Create creates a new course. The creator is enrolled as its first
// LEAD_MANAGER.
func (s *CourseService) Create(ctx context.Context, creatorID, title, description string) (course.Course, error) {
	if _, err := s.store.GetMember(ctx, creatorID); err != nil {
		return course.Course{}, err
	}
	record, err := course.Create(title, description, s.clock, s.idGenerator)
	if err != nil {
		return course.Course{}, err
	}
	if err := record.AddMember(creatorID, course.RoleLeadManager); err != nil {
		return course.Course{}, err
	}
	if err := s.store.PutCourse(ctx, record); err != nil {
		return course.Course{}, fmt.Errorf("persist course: %w", err)
	}
	return record, nil
}

// Get returns one course with memberships and curricula loaded.
func (s *CourseService) Get(ctx context.Context, courseID string) (course.Course, error) {
	return s.store.GetCourse(ctx, courseID)
}

// List returns every course.
func (s *CourseService) List(ctx context.Context) ([]course.Course, error) {
	return s.store.ListCourses(ctx)
}

// Update changes the course title and description. Managers and above
// may update.
func (s *CourseService) Update(ctx context.Context, actorID, courseID, title, description string) (course.Course, error) {
	record, err := s.manageableCourse(ctx, actorID, courseID)
	if err != nil {
		return course.Course{}, err
	}
	if err := record.UpdateTitle(title); err != nil {
		return course.Course{}, err
	}
	if err := record.UpdateDescription(description); err != nil {
		return course.Course{}, err
	}
	record.UpdatedAt = s.clock().UTC()
	if err := s.store.PutCourse(ctx, record); err != nil {
		return course.Course{}, fmt.Errorf("persist course: %w", err)
	}
	return record, nil
}

// AddMember enrolls a member in the course with the given role.
func (s *CourseService) AddMember(ctx context.Context, actorID, courseID, memberID string, role course.Role) (course.Course, error) {
	record, err := s.manageableCourse(ctx, actorID, courseID)
	if err != nil {
		return course.Course{}, err
	}
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return course.Course{}, err
	}
	if err := record.AddMember(memberID, role); err != nil {
		return course.Course{}, err
	}
	record.UpdatedAt = s.clock().UTC()
	if err := s.store.PutCourse(ctx, record); err != nil {
		return course.Course{}, fmt.Errorf("persist course: %w", err)
	}
	return record, nil
}

// RemoveMember removes a member's enrollment from the course.
func (s *CourseService) RemoveMember(ctx context.Context, actorID, courseID, memberID string) (course.Course, error) {
	record, err := s.manageableCourse(ctx, actorID, courseID)
	if err != nil {
		return course.Course{}, err
	}
	if err := record.RemoveMember(memberID); err != nil {
		return course.Course{}, err
	}
	record.UpdatedAt = s.clock().UTC()
	if err := s.store.PutCourse(ctx, record); err != nil {
		return course.Course{}, fmt.Errorf("persist course: %w", err)
	}
	return record, nil
}

// ChangeMemberRole changes an enrolled member's course role.
func (s *CourseService) ChangeMemberRole(ctx context.Context, actorID, courseID, memberID string, role course.Role) (course.Course, error) {
	record, err := s.manageableCourse(ctx, actorID, courseID)
	if err != nil {
		return course.Course{}, err
	}
	if err := record.ChangeMemberRole(memberID, role); err != nil {
		return course.Course{}, err
	}
	record.UpdatedAt = s.clock().UTC()
	if err := s.store.PutCourse(ctx, record); err != nil {
		return course.Course{}, fmt.Errorf("persist course: %w", err)
	}
	return record, nil
}

// AddCurriculum appends a curriculum to the course.
func (s *CourseService) AddCurriculum(ctx context.Context, actorID, courseID, title, description string) (course.Curriculum, error) {
	record, err := s.manageableCourse(ctx, actorID, courseID)
	if err != nil {
		return course.Curriculum{}, err
	}
	curriculum, err := record.AddCurriculum(title, description, s.clock, s.idGenerator)
	if err != nil {
		return course.Curriculum{}, err
	}
	record.UpdatedAt = s.clock().UTC()
	if err := s.store.PutCourse(ctx, record); err != nil {
		return course.Curriculum{}, fmt.Errorf("persist course: %w", err)
	}
	return curriculum, nil
}

// RemoveCurriculum removes a curriculum from the course.
func (s *CourseService) RemoveCurriculum(ctx context.Context, actorID, courseID, curriculumID string) error {
	record, err := s.manageableCourse(ctx, actorID, courseID)
	if err != nil {
		return err
	}
	if err := record.RemoveCurriculum(curriculumID); err != nil {
		return err
	}
	record.UpdatedAt = s.clock().UTC()
	if err := s.store.PutCourse(ctx, record); err != nil {
		return fmt.Errorf("persist course: %w", err)
	}
	return nil
}

// manageableCourse loads the course and checks manage-level authority.
func (s *CourseService) manageableCourse(ctx context.Context, actorID, courseID string) (course.Course, error) {
	record, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return course.Course{}, err
	}
	allowed, err := s.policy.IsManager(ctx, actorID, courseID)
	if err != nil {
		return course.Course{}, err
	}
	if !allowed {
		return course.Course{}, denied(authz.Decision{ReasonCode: authz.ReasonDenyCourseRole})
	}
	return record, nil
}
