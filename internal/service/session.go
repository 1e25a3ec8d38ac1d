package service

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/studyhall/internal/authz"
	"github.com/louisbranch/studyhall/internal/domain/member"
	"github.com/louisbranch/studyhall/internal/domain/session"
	"github.com/louisbranch/studyhall/internal/platform/id"
	"github.com/louisbranch/studyhall/internal/storage"
)

// SessionService manages session scheduling and hierarchy.
type SessionService struct {
	store       storage.Store
	policy      authz.SessionPolicy
	courses     authz.CoursePolicy
	system      authz.SystemRoleSource
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewSessionService creates a SessionService with default dependencies.
func NewSessionService(store storage.Store) *SessionService {
	sources := storeSources{store: store}
	return &SessionService{
		store:       store,
		policy:      authz.SessionPolicy{Sessions: sources, Courses: sources, System: sources},
		courses:     authz.CoursePolicy{Courses: sources},
		system:      sources,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// CreateStandalone creates a session outside any course. Operators and
// above may create standalone sessions; the creator becomes its HOST.
func (s *SessionService) CreateStandalone(ctx context.Context, actorID string, input session.Input) (session.Session, error) {
	role, ok, err := s.system.SystemRole(ctx, actorID)
	if err != nil {
		return session.Session{}, err
	}
	if !ok || !role.AtLeast(member.SystemRoleOperator) {
		return session.Session{}, denied(authz.Decision{ReasonCode: authz.ReasonDenySystemRole})
	}

	record, err := session.NewStandalone(input, s.clock, s.idGenerator)
	if err != nil {
		return session.Session{}, err
	}
	return s.persistNew(ctx, record, actorID)
}

// CreateCourseSession creates a session bound to a course. Course
// managers and above may schedule; the creator becomes its HOST.
func (s *SessionService) CreateCourseSession(ctx context.Context, actorID, courseID string, input session.Input) (session.Session, error) {
	if err := s.requireCourseManager(ctx, actorID, courseID); err != nil {
		return session.Session{}, err
	}
	record, err := session.NewCourseSession(courseID, input, s.clock, s.idGenerator)
	if err != nil {
		return session.Session{}, err
	}
	return s.persistNew(ctx, record, actorID)
}

// CreateCurriculumSession creates a session bound to a course curriculum.
func (s *SessionService) CreateCurriculumSession(ctx context.Context, actorID, courseID, curriculumID string, input session.Input) (session.Session, error) {
	if err := s.requireCourseManager(ctx, actorID, courseID); err != nil {
		return session.Session{}, err
	}
	courseRecord, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return session.Session{}, err
	}
	found := false
	for _, cur := range courseRecord.Curricula {
		if cur.ID == curriculumID {
			found = true
			break
		}
	}
	if !found {
		return session.Session{}, storage.ErrNotFound
	}
	record, err := session.NewCurriculumSession(courseID, curriculumID, input, s.clock, s.idGenerator)
	if err != nil {
		return session.Session{}, err
	}
	return s.persistNew(ctx, record, actorID)
}

// CreateChild creates a child session under a root session. The child
// inherits the parent's course and must run within its window.
func (s *SessionService) CreateChild(ctx context.Context, actorID, parentID string, input session.Input) (session.Session, error) {
	parent, err := s.manageableSession(ctx, actorID, parentID)
	if err != nil {
		return session.Session{}, err
	}
	record, err := parent.NewChild(input, s.clock, s.idGenerator)
	if err != nil {
		return session.Session{}, err
	}
	return s.persistNew(ctx, record, actorID)
}

// Get returns one session. Participants, course members, and operators
// may view.
func (s *SessionService) Get(ctx context.Context, actorID, sessionID string) (session.Session, error) {
	record, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	decision, err := s.policy.CanViewSession(ctx, actorID, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if !decision.Allowed {
		return session.Session{}, denied(decision)
	}
	return record, nil
}

// ListByCourse returns the course's sessions. Any course member may list.
func (s *SessionService) ListByCourse(ctx context.Context, actorID, courseID string) ([]session.Session, error) {
	enrolled, err := s.courses.IsMember(ctx, actorID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, denied(authz.Decision{ReasonCode: authz.ReasonDenyCourseRole})
	}
	return s.store.ListSessionsByCourse(ctx, courseID)
}

// ListChildren returns the child sessions of a root session.
func (s *SessionService) ListChildren(ctx context.Context, actorID, parentID string) ([]session.Session, error) {
	decision, err := s.policy.CanViewSession(ctx, actorID, parentID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision)
	}
	return s.store.ListChildSessions(ctx, parentID)
}

// Reschedule moves the session window, subject to modification deadlines.
func (s *SessionService) Reschedule(ctx context.Context, actorID, sessionID string, scheduledAt, scheduledEndAt time.Time) (session.Session, error) {
	record, err := s.manageableSession(ctx, actorID, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if err := record.Reschedule(scheduledAt, scheduledEndAt, s.clock); err != nil {
		return session.Session{}, err
	}
	return s.persistUpdate(ctx, record)
}

// ChangeInfo updates the session title and type.
func (s *SessionService) ChangeInfo(ctx context.Context, actorID, sessionID, title string, sessionType session.Type) (session.Session, error) {
	record, err := s.manageableSession(ctx, actorID, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if err := record.ChangeInfo(title, sessionType, s.clock); err != nil {
		return session.Session{}, err
	}
	return s.persistUpdate(ctx, record)
}

// ChangeLocation updates the session venue.
func (s *SessionService) ChangeLocation(ctx context.Context, actorID, sessionID string, location session.Location, details string) (session.Session, error) {
	record, err := s.manageableSession(ctx, actorID, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if err := record.ChangeLocation(location, details, s.clock); err != nil {
		return session.Session{}, err
	}
	return s.persistUpdate(ctx, record)
}

// Delete removes a session and its participant list.
func (s *SessionService) Delete(ctx context.Context, actorID, sessionID string) error {
	if _, err := s.manageableSession(ctx, actorID, sessionID); err != nil {
		return err
	}
	return s.store.DeleteSession(ctx, sessionID)
}

func (s *SessionService) persistNew(ctx context.Context, record session.Session, hostID string) (session.Session, error) {
	if err := record.AddParticipant(hostID, session.RoleHost); err != nil {
		return session.Session{}, err
	}
	if err := s.store.PutSession(ctx, record); err != nil {
		return session.Session{}, fmt.Errorf("persist session: %w", err)
	}
	return record, nil
}

func (s *SessionService) persistUpdate(ctx context.Context, record session.Session) (session.Session, error) {
	record.UpdatedAt = s.clock().UTC()
	if err := s.store.PutSession(ctx, record); err != nil {
		return session.Session{}, fmt.Errorf("persist session: %w", err)
	}
	return record, nil
}

func (s *SessionService) manageableSession(ctx context.Context, actorID, sessionID string) (session.Session, error) {
	record, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	decision, err := s.policy.CanManageSession(ctx, actorID, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if !decision.Allowed {
		return session.Session{}, denied(decision)
	}
	return record, nil
}

func (s *SessionService) requireCourseManager(ctx context.Context, actorID, courseID string) error {
	if _, err := s.store.GetCourse(ctx, courseID); err != nil {
		return err
	}
	allowed, err := s.courses.IsManager(ctx, actorID, courseID)
	if err != nil {
		return err
	}
	if !allowed {
		return denied(authz.Decision{ReasonCode: authz.ReasonDenyCourseRole})
	}
	return nil
}
