package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/studyhall/internal/authz"
	"github.com/louisbranch/studyhall/internal/domain/attendance"
	"github.com/louisbranch/studyhall/internal/domain/member"
	"github.com/louisbranch/studyhall/internal/platform/id"
	"github.com/louisbranch/studyhall/internal/platform/telemetry/metrics"
	"github.com/louisbranch/studyhall/internal/storage"
)

// AttendanceService manages attendance records, movement events, and the
// correction workflow.
type AttendanceService struct {
	store       storage.Store
	policy      authz.AttendancePolicy
	sessions    authz.SessionPolicy
	courses     authz.CoursePolicy
	system      authz.SystemRoleSource
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewAttendanceService creates an AttendanceService with default
// dependencies.
func NewAttendanceService(store storage.Store) *AttendanceService {
	sources := storeSources{store: store}
	return &AttendanceService{
		store: store,
		policy: authz.AttendancePolicy{
			Attendances: sources,
			Sessions:    sources,
			Courses:     sources,
			System:      sources,
		},
		sessions:    authz.SessionPolicy{Sessions: sources, Courses: sources, System: sources},
		courses:     authz.CoursePolicy{Courses: sources},
		system:      sources,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// CheckIn records the actor entering a session. The actor must be a
// session participant; the attendance record is created lazily on the
// first check-in.
func (s *AttendanceService) CheckIn(ctx context.Context, actorID, sessionID string) (attendance.Attendance, error) {
	sessionRecord, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if !sessionRecord.IsParticipant(actorID) {
		return attendance.Attendance{}, denied(authz.Decision{ReasonCode: authz.ReasonDenyNotParticipant})
	}

	record, err := s.loadOrCreate(ctx, sessionID, actorID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if err := record.CheckIn(s.clock); err != nil {
		return attendance.Attendance{}, err
	}
	if err := s.store.PutAttendance(ctx, record); err != nil {
		return attendance.Attendance{}, fmt.Errorf("persist attendance: %w", err)
	}
	metrics.CheckInsTotal.Inc()
	return record, nil
}

// CheckOut records the actor leaving a session. The actor must currently
// be checked in.
func (s *AttendanceService) CheckOut(ctx context.Context, actorID, sessionID string) (attendance.Attendance, error) {
	record, err := s.store.GetAttendanceBySessionAndMember(ctx, sessionID, actorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return attendance.Attendance{}, err
	}
	if err := record.CheckOut(s.clock); err != nil {
		return attendance.Attendance{}, err
	}
	if err := s.store.PutAttendance(ctx, record); err != nil {
		return attendance.Attendance{}, fmt.Errorf("persist attendance: %w", err)
	}
	metrics.CheckOutsTotal.Inc()
	return record, nil
}

// RequestCorrection files a request to override the record's final
// status. Policy decides who may request; the aggregate enforces the
// single-pending-request rule.
func (s *AttendanceService) RequestCorrection(ctx context.Context, actorID, attendanceID string, requested attendance.Status, reason string) (attendance.Attendance, error) {
	decision, err := s.policy.CanRequestCorrection(ctx, attendanceID, actorID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if !decision.Allowed {
		return attendance.Attendance{}, denied(decision)
	}

	record, err := s.store.GetAttendance(ctx, attendanceID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if err := record.RequestCorrection(requested, reason, actorID, s.clock); err != nil {
		return attendance.Attendance{}, err
	}
	if err := s.store.PutAttendance(ctx, record); err != nil {
		return attendance.Attendance{}, fmt.Errorf("persist attendance: %w", err)
	}
	metrics.CorrectionsTotal.WithLabelValues(metrics.CorrectionRequested).Inc()
	return record, nil
}

// ApproveCorrection resolves the pending request and adopts its requested
// status.
func (s *AttendanceService) ApproveCorrection(ctx context.Context, actorID, attendanceID string) (attendance.Attendance, error) {
	decision, err := s.policy.CanApproveCorrection(ctx, attendanceID, actorID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if !decision.Allowed {
		return attendance.Attendance{}, denied(decision)
	}

	record, err := s.store.GetAttendance(ctx, attendanceID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if err := record.ApproveCorrection(actorID, s.clock); err != nil {
		return attendance.Attendance{}, err
	}
	if err := s.store.PutAttendance(ctx, record); err != nil {
		return attendance.Attendance{}, fmt.Errorf("persist attendance: %w", err)
	}
	metrics.CorrectionsTotal.WithLabelValues(metrics.CorrectionApproved).Inc()
	return record, nil
}

// RejectCorrection resolves the pending request without changing the
// final status. Rejection runs under the same approval chain as approval.
func (s *AttendanceService) RejectCorrection(ctx context.Context, actorID, attendanceID, reason string) (attendance.Attendance, error) {
	decision, err := s.policy.CanApproveCorrection(ctx, attendanceID, actorID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if !decision.Allowed {
		return attendance.Attendance{}, denied(decision)
	}

	record, err := s.store.GetAttendance(ctx, attendanceID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if err := record.RejectCorrection(reason, actorID, s.clock); err != nil {
		return attendance.Attendance{}, err
	}
	if err := s.store.PutAttendance(ctx, record); err != nil {
		return attendance.Attendance{}, fmt.Errorf("persist attendance: %w", err)
	}
	metrics.CorrectionsTotal.WithLabelValues(metrics.CorrectionRejected).Inc()
	return record, nil
}

// Get returns one attendance record. Owners may read their own records;
// anyone who may view the session may read the rest.
func (s *AttendanceService) Get(ctx context.Context, actorID, attendanceID string) (attendance.Attendance, error) {
	record, err := s.store.GetAttendance(ctx, attendanceID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if record.MemberID == actorID {
		return record, nil
	}
	decision, err := s.sessions.CanViewSession(ctx, actorID, record.SessionID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if !decision.Allowed {
		return attendance.Attendance{}, denied(decision)
	}
	return record, nil
}

// ListBySession returns every attendance record of one session for
// actors who may view the session.
func (s *AttendanceService) ListBySession(ctx context.Context, actorID, sessionID string) ([]attendance.Attendance, error) {
	decision, err := s.sessions.CanViewSession(ctx, actorID, sessionID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision)
	}
	return s.store.ListAttendanceBySession(ctx, sessionID)
}

// ListByMember returns a member's attendance records. Members may list
// their own; registrars and admins may list anyone's.
func (s *AttendanceService) ListByMember(ctx context.Context, actorID, memberID string) ([]attendance.Attendance, error) {
	if actorID != memberID {
		role, ok, err := s.system.SystemRole(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !ok || !role.AtLeast(member.SystemRoleRegistrar) {
			return nil, denied(authz.Decision{ReasonCode: authz.ReasonDenySystemRole})
		}
	}
	return s.store.ListAttendanceByMember(ctx, memberID)
}

// SessionRate summarizes one session's attendance by final status.
type SessionRate struct {
	SessionID string
	Total     int
	ByStatus  map[attendance.Status]int
}

// Rate returns the session's attendance breakdown by final status.
func (s *AttendanceService) Rate(ctx context.Context, actorID, sessionID string) (SessionRate, error) {
	records, err := s.ListBySession(ctx, actorID, sessionID)
	if err != nil {
		return SessionRate{}, err
	}
	rate := SessionRate{
		SessionID: sessionID,
		Total:     len(records),
		ByStatus:  make(map[attendance.Status]int),
	}
	for _, record := range records {
		rate.ByStatus[record.FinalStatus]++
	}
	return rate, nil
}

// CourseRate summarizes attendance across every session of a course:
// the share of records whose final status counts as attended (PRESENT
// or LATE).
type CourseRate struct {
	CourseID string
	Sessions int
	Total    int
	Attended int
	Rate     float64
}

// RateByCourse returns the course-wide attendance rate. Any course
// member may read it.
func (s *AttendanceService) RateByCourse(ctx context.Context, actorID, courseID string) (CourseRate, error) {
	if _, err := s.store.GetCourse(ctx, courseID); err != nil {
		return CourseRate{}, err
	}
	enrolled, err := s.courses.IsMember(ctx, actorID, courseID)
	if err != nil {
		return CourseRate{}, err
	}
	if !enrolled {
		return CourseRate{}, denied(authz.Decision{ReasonCode: authz.ReasonDenyCourseRole})
	}

	sessions, err := s.store.ListSessionsByCourse(ctx, courseID)
	if err != nil {
		return CourseRate{}, err
	}
	rate := CourseRate{CourseID: courseID, Sessions: len(sessions)}
	for _, sessionRecord := range sessions {
		records, err := s.store.ListAttendanceBySession(ctx, sessionRecord.ID)
		if err != nil {
			return CourseRate{}, err
		}
		rate.Total += len(records)
		for _, record := range records {
			switch record.FinalStatus {
			case attendance.StatusPresent, attendance.StatusLate:
				rate.Attended++
			}
		}
	}
	if rate.Total > 0 {
		rate.Rate = float64(rate.Attended) / float64(rate.Total)
	}
	return rate, nil
}

// loadOrCreate returns the existing record for the pair or creates an
// empty one.
func (s *AttendanceService) loadOrCreate(ctx context.Context, sessionID, memberID string) (attendance.Attendance, error) {
	record, err := s.store.GetAttendanceBySessionAndMember(ctx, sessionID, memberID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return attendance.Attendance{}, err
	}
	return attendance.New(sessionID, memberID, s.idGenerator)
}
