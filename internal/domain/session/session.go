// Package session holds the session aggregate: scheduling, hierarchy,
// and the participant list with its host rules.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/studyhall/internal/domain/problem"
)

// Session rule violations.
var (
	// ErrCourseIDRequired indicates a missing course id for a course session.
	ErrCourseIDRequired = problem.New("COURSE_ID_REQUIRED", "course id is required")
	// ErrCurriculumIDRequired indicates a missing curriculum id.
	ErrCurriculumIDRequired = problem.New("CURRICULUM_ID_REQUIRED", "curriculum id is required")
	// ErrTitleRequired indicates a missing session title.
	ErrTitleRequired = problem.New("SESSION_TITLE_REQUIRED", "session title is required")
	// ErrInvalidHierarchy indicates a child session under another child.
	ErrInvalidHierarchy = problem.New("INVALID_SESSION_HIERARCHY", "a child session cannot have its own children")
	// ErrStartTimeRequired indicates a missing session start time.
	ErrStartTimeRequired = problem.New("SESSION_START_TIME_REQUIRED", "session start time is required")
	// ErrEndTimeRequired indicates a missing session end time.
	ErrEndTimeRequired = problem.New("SESSION_END_TIME_REQUIRED", "session end time is required")
	// ErrStartAfterEnd indicates the start time is not before the end time.
	ErrStartAfterEnd = problem.New("START_TIME_MUST_BE_BEFORE_END_TIME", "session start time must be before end time")
	// ErrDurationTooLong indicates the session exceeds 24 hours.
	ErrDurationTooLong = problem.New("SESSION_DURATION_EXCEEDS_24_HOURS", "session cannot exceed 24 hours")
	// ErrSpansMultipleDays indicates the session crosses a day boundary.
	ErrSpansMultipleDays = problem.New("SESSION_CANNOT_SPAN_MULTIPLE_DAYS", "session cannot span multiple days")
	// ErrLocationDetailsRequired indicates a SITE session without details.
	ErrLocationDetailsRequired = problem.New("OFFLINE_SESSION_LOCATION_DETAIL_REQUIRED", "on-site sessions require location details")
	// ErrLocationDetailsForbidden indicates an ONLINE session with details.
	ErrLocationDetailsForbidden = problem.New("ONLINE_SESSION_CANNOT_HAVE_LOCATION_DETAIL", "online sessions cannot have location details")
	// ErrChildOutsideParentWindow indicates a child session outside the parent schedule.
	ErrChildOutsideParentWindow = problem.New("CHILD_SESSION_OUTSIDE_PARENT_WINDOW", "child session must run within the parent session window")
	// ErrAlreadyStarted indicates a mutation against a started session.
	ErrAlreadyStarted = problem.New("CANNOT_MODIFY_STARTED_SESSION", "a started session cannot be modified")
	// ErrRootModificationDeadline indicates a root session frozen for edits.
	ErrRootModificationDeadline = problem.New("ROOT_SESSION_MODIFICATION_DEADLINE_EXCEEDED", "root sessions can only be modified up to three days before start")
	// ErrChildModificationDeadline indicates a child session frozen for edits.
	ErrChildModificationDeadline = problem.New("CHILD_SESSION_MODIFICATION_DEADLINE_EXCEEDED", "child sessions can only be modified up to one hour before start")
	// ErrAlreadyParticipating indicates the member already joined the session.
	ErrAlreadyParticipating = problem.New("ALREADY_PARTICIPATING_MEMBER", "member is already participating in the session")
	// ErrNotParticipating indicates the member is not in the session.
	ErrNotParticipating = problem.New("MEMBER_NOT_PARTICIPATING", "member is not participating in the session")
	// ErrMemberIDRequired indicates a missing member id.
	ErrMemberIDRequired = problem.New("SESSION_MEMBER_ID_REQUIRED", "member id is required")
	// ErrParticipantRoleRequired indicates a missing participant role.
	ErrParticipantRoleRequired = problem.New("PARTICIPANT_ROLE_REQUIRED", "participant role is required")
	// ErrHostCannotLeaveAlone indicates the last HOST leaving the session.
	ErrHostCannotLeaveAlone = problem.New("HOST_CANNOT_LEAVE_ALONE", "the only host cannot be removed from the session")
	// ErrRootSelfLeave indicates self-removal from a root session.
	ErrRootSelfLeave = problem.New("ROOT_SESSION_SELF_LEAVE_NOT_ALLOWED", "participants cannot remove themselves from a root session")
)

const (
	maxDuration             = 24 * time.Hour
	rootModificationFreeze  = 72 * time.Hour
	childModificationFreeze = time.Hour
)

// Type classifies how the session is held.
type Type string

const (
	// TypeOnline is a remote session.
	TypeOnline Type = "ONLINE"
	// TypeOffline is an in-person session.
	TypeOffline Type = "OFFLINE"
)

// Location classifies where the session takes place.
type Location string

const (
	// LocationSite is an on-site location requiring details.
	LocationSite Location = "SITE"
	// LocationGoogleMeet is a Google Meet call.
	LocationGoogleMeet Location = "GOOGLE_MEET"
	// LocationZoom is a Zoom call.
	LocationZoom Location = "ZOOM"
)

// Session is a scheduled learning session, optionally bound to a course
// and curriculum, optionally a child of a root session.
type Session struct {
	ID              string
	CourseID        string // empty for standalone sessions
	CurriculumID    string
	ParentID        string // empty for root sessions
	Title           string
	ScheduledAt     time.Time
	ScheduledEndAt  time.Time
	Type            Type
	Location        Location
	LocationDetails string
	Participants    []Participant
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// ParentScheduledAt/ParentScheduledEndAt carry the parent window for
	// child-session validation; zero for root sessions.
	ParentScheduledAt    time.Time
	ParentScheduledEndAt time.Time
}

// Input describes the schedule and venue for a new session.
type Input struct {
	Title           string
	ScheduledAt     time.Time
	ScheduledEndAt  time.Time
	Type            Type
	Location        Location
	LocationDetails string
}

// NewStandalone creates a session bound to no course.
func NewStandalone(input Input, now func() time.Time, idGenerator func() (string, error)) (Session, error) {
	return newSession("", "", input, now, idGenerator)
}

// NewCourseSession creates a session bound to a course.
func NewCourseSession(courseID string, input Input, now func() time.Time, idGenerator func() (string, error)) (Session, error) {
	if strings.TrimSpace(courseID) == "" {
		return Session{}, ErrCourseIDRequired
	}
	return newSession(courseID, "", input, now, idGenerator)
}

// NewCurriculumSession creates a session bound to a course curriculum.
func NewCurriculumSession(courseID, curriculumID string, input Input, now func() time.Time, idGenerator func() (string, error)) (Session, error) {
	if strings.TrimSpace(courseID) == "" {
		return Session{}, ErrCourseIDRequired
	}
	if strings.TrimSpace(curriculumID) == "" {
		return Session{}, ErrCurriculumIDRequired
	}
	return newSession(courseID, curriculumID, input, now, idGenerator)
}

// NewChild creates a child session under a root session. Children inherit
// the parent's course and curriculum and must run within its window.
func (s *Session) NewChild(input Input, now func() time.Time, idGenerator func() (string, error)) (Session, error) {
	if !s.IsRootSession() {
		return Session{}, ErrInvalidHierarchy
	}
	child, err := newSession(s.CourseID, s.CurriculumID, input, now, idGenerator)
	if err != nil {
		return Session{}, err
	}
	child.ParentID = s.ID
	child.ParentScheduledAt = s.ScheduledAt
	child.ParentScheduledEndAt = s.ScheduledEndAt
	if err := child.validateHierarchy(); err != nil {
		return Session{}, err
	}
	return child, nil
}

func newSession(courseID, curriculumID string, input Input, now func() time.Time, idGenerator func() (string, error)) (Session, error) {
	if now == nil {
		now = time.Now
	}

	id, err := idGenerator()
	if err != nil {
		return Session{}, fmt.Errorf("generate session id: %w", err)
	}

	createdAt := now().UTC()
	session := Session{
		ID:              id,
		CourseID:        strings.TrimSpace(courseID),
		CurriculumID:    strings.TrimSpace(curriculumID),
		Title:           strings.TrimSpace(input.Title),
		ScheduledAt:     input.ScheduledAt,
		ScheduledEndAt:  input.ScheduledEndAt,
		Type:            input.Type,
		Location:        input.Location,
		LocationDetails: strings.TrimSpace(input.LocationDetails),
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	if err := session.validate(); err != nil {
		return Session{}, err
	}
	return session, nil
}

// IsRootSession reports whether the session has no parent.
func (s *Session) IsRootSession() bool {
	return s.ParentID == ""
}

// IsStandalone reports whether the session belongs to no course.
func (s *Session) IsStandalone() bool {
	return s.CourseID == ""
}

// Reschedule moves the session window, subject to modification deadlines.
func (s *Session) Reschedule(scheduledAt, scheduledEndAt time.Time, now func() time.Time) error {
	if err := s.validateUpdatable(now); err != nil {
		return err
	}
	s.ScheduledAt = scheduledAt
	s.ScheduledEndAt = scheduledEndAt
	return s.validate()
}

// ChangeInfo updates the session title and type.
func (s *Session) ChangeInfo(title string, sessionType Type, now func() time.Time) error {
	if err := s.validateUpdatable(now); err != nil {
		return err
	}
	s.Title = strings.TrimSpace(title)
	s.Type = sessionType
	return s.validate()
}

// ChangeLocation updates the session venue.
func (s *Session) ChangeLocation(location Location, details string, now func() time.Time) error {
	if err := s.validateUpdatable(now); err != nil {
		return err
	}
	s.Location = location
	s.LocationDetails = strings.TrimSpace(details)
	return s.validate()
}

func (s *Session) validate() error {
	if s.Title == "" {
		return ErrTitleRequired
	}
	if err := s.validateWindow(); err != nil {
		return err
	}
	if err := s.validateLocation(); err != nil {
		return err
	}
	return s.validateHierarchy()
}

func (s *Session) validateWindow() error {
	if s.ScheduledAt.IsZero() {
		return ErrStartTimeRequired
	}
	if s.ScheduledEndAt.IsZero() {
		return ErrEndTimeRequired
	}
	if !s.ScheduledAt.Before(s.ScheduledEndAt) {
		return ErrStartAfterEnd
	}
	if s.ScheduledEndAt.Sub(s.ScheduledAt) >= maxDuration {
		return ErrDurationTooLong
	}
	startDay := s.ScheduledAt.UTC().Truncate(24 * time.Hour)
	endDay := s.ScheduledEndAt.UTC().Truncate(24 * time.Hour)
	if !startDay.Equal(endDay) {
		return ErrSpansMultipleDays
	}
	return nil
}

func (s *Session) validateLocation() error {
	if s.Location == LocationSite {
		if s.LocationDetails == "" {
			return ErrLocationDetailsRequired
		}
		return nil
	}
	if s.LocationDetails != "" {
		return ErrLocationDetailsForbidden
	}
	return nil
}

func (s *Session) validateHierarchy() error {
	if s.IsRootSession() {
		return nil
	}
	if s.ScheduledAt.Before(s.ParentScheduledAt) || s.ScheduledEndAt.After(s.ParentScheduledEndAt) {
		return ErrChildOutsideParentWindow
	}
	return nil
}

// validateUpdatable enforces the modification deadlines: no edits once a
// session has started, root sessions freeze three days before start,
// child sessions one hour before.
func (s *Session) validateUpdatable(now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	current := now().UTC()
	if !current.Before(s.ScheduledAt) {
		return ErrAlreadyStarted
	}
	if s.IsRootSession() {
		if !current.Before(s.ScheduledAt.Add(-rootModificationFreeze)) {
			return ErrRootModificationDeadline
		}
		return nil
	}
	if !current.Before(s.ScheduledAt.Add(-childModificationFreeze)) {
		return ErrChildModificationDeadline
	}
	return nil
}
