// Package attendance holds the attendance aggregate: an append-only
// event log per (session, member) pair with a derived final status and
// the correction request workflow.
package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/studyhall/internal/domain/problem"
)

// Attendance rule violations.
var (
	// ErrSessionIDRequired indicates a missing session id.
	ErrSessionIDRequired = problem.New("ATTENDANCE_SESSION_ID_REQUIRED", "session id is required")
	// ErrMemberIDRequired indicates a missing member id.
	ErrMemberIDRequired = problem.New("ATTENDANCE_MEMBER_ID_REQUIRED", "member id is required")
	// ErrAlreadyCheckedIn indicates a check-in while already checked in.
	ErrAlreadyCheckedIn = problem.New("ALREADY_CHECKED_IN", "member is already checked in")
	// ErrNotCheckedIn indicates a check-out without a prior check-in.
	ErrNotCheckedIn = problem.New("NOT_CHECKED_IN", "member is not checked in")
	// ErrCorrectionPending indicates a second request before resolution.
	ErrCorrectionPending = problem.New("CORRECTION_ALREADY_PENDING", "a correction request is already pending")
	// ErrNoPendingCorrection indicates approval/rejection with nothing pending.
	ErrNoPendingCorrection = problem.New("NO_PENDING_CORRECTION", "no pending correction request")
	// ErrInvalidStatus indicates an unusable requested status.
	ErrInvalidStatus = problem.New("INVALID_ATTENDANCE_STATUS", "requested attendance status is invalid")
	// ErrSameStatusRequested indicates a correction to the status the
	// record already holds.
	ErrSameStatusRequested = problem.New("SAME_STATUS_REQUEST", "requested status matches the current status")
	// ErrReasonRequired indicates a missing correction reason.
	ErrReasonRequired = problem.New("CORRECTION_REASON_REQUIRED", "correction reason is required")
	// ErrActorRequired indicates a missing acting member id.
	ErrActorRequired = problem.New("CORRECTION_ACTOR_REQUIRED", "acting member id is required")
)

// checkInState is the movement state derived from the event log.
type checkInState int

const (
	stateNotCheckedIn checkInState = iota
	stateCheckedIn
	stateCheckedOut
)

// Attendance is the attendance record for one member in one session.
//
// The event log is append-only and FinalStatus is always recomputed by
// replaying it, so restoring a record from storage and replaying its
// events yields the same state the mutations produced.
type Attendance struct {
	ID        string
	SessionID string
	MemberID  string
	Events    []Event

	// FinalStatus is derived from Events; it is never set directly.
	FinalStatus Status
}

// New creates an empty attendance record for a session member. Records
// are created lazily on first check-in.
func New(sessionID, memberID string, idGenerator func() (string, error)) (Attendance, error) {
	sessionID = strings.TrimSpace(sessionID)
	memberID = strings.TrimSpace(memberID)
	if sessionID == "" {
		return Attendance{}, ErrSessionIDRequired
	}
	if memberID == "" {
		return Attendance{}, ErrMemberIDRequired
	}

	id, err := idGenerator()
	if err != nil {
		return Attendance{}, fmt.Errorf("generate attendance id: %w", err)
	}

	return Attendance{
		ID:          id,
		SessionID:   sessionID,
		MemberID:    memberID,
		FinalStatus: StatusAbsent,
	}, nil
}

// Restore rebuilds an attendance record from its persisted event log and
// recomputes the final status by replay.
func Restore(id, sessionID, memberID string, events []Event) (Attendance, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Attendance{}, ErrSessionIDRequired
	}
	if strings.TrimSpace(memberID) == "" {
		return Attendance{}, ErrMemberIDRequired
	}
	attendance := Attendance{
		ID:        id,
		SessionID: sessionID,
		MemberID:  memberID,
		Events:    append([]Event(nil), events...),
	}
	attendance.recalculate()
	return attendance, nil
}

// CheckIn appends a check-in event. Checking in while already checked in
// is rejected; re-entry after a check-out is allowed.
func (a *Attendance) CheckIn(now func() time.Time) error {
	if a.currentState() == stateCheckedIn {
		return ErrAlreadyCheckedIn
	}
	a.append(Event{Type: TypeCheckedIn, Timestamp: timestamp(now)})
	return nil
}

// CheckOut appends a check-out event. The member must currently be
// checked in.
func (a *Attendance) CheckOut(now func() time.Time) error {
	if a.currentState() != stateCheckedIn {
		return ErrNotCheckedIn
	}
	a.append(Event{Type: TypeCheckedOut, Timestamp: timestamp(now)})
	return nil
}

// RequestCorrection files a request to override the final status. The
// requested status must differ from the current one, and at most one
// request may be pending at a time; the current final status is
// snapshotted into the event.
func (a *Attendance) RequestCorrection(requested Status, reason, requestedBy string, now func() time.Time) error {
	if !requested.IsValid() {
		return ErrInvalidStatus
	}
	if requested == a.FinalStatus {
		return ErrSameStatusRequested
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	requestedBy = strings.TrimSpace(requestedBy)
	if requestedBy == "" {
		return ErrActorRequired
	}
	if _, err := a.PendingRequest(); err == nil {
		return ErrCorrectionPending
	}
	a.append(Event{
		Type:            TypeCorrectionRequested,
		Timestamp:       timestamp(now),
		CurrentStatus:   a.FinalStatus,
		RequestedStatus: requested,
		Reason:          reason,
		RequestedBy:     requestedBy,
	})
	return nil
}

// ApproveCorrection resolves the pending request and adopts its
// requested status as the final status.
func (a *Attendance) ApproveCorrection(approvedBy string, now func() time.Time) error {
	approvedBy = strings.TrimSpace(approvedBy)
	if approvedBy == "" {
		return ErrActorRequired
	}
	if _, err := a.PendingRequest(); err != nil {
		return err
	}
	a.append(Event{
		Type:       TypeCorrectionApproved,
		Timestamp:  timestamp(now),
		ApprovedBy: approvedBy,
	})
	return nil
}

// RejectCorrection resolves the pending request without changing the
// final status.
func (a *Attendance) RejectCorrection(reason, rejectedBy string, now func() time.Time) error {
	rejectedBy = strings.TrimSpace(rejectedBy)
	if rejectedBy == "" {
		return ErrActorRequired
	}
	if _, err := a.PendingRequest(); err != nil {
		return err
	}
	a.append(Event{
		Type:       TypeCorrectionRejected,
		Timestamp:  timestamp(now),
		Reason:     strings.TrimSpace(reason),
		RejectedBy: rejectedBy,
	})
	return nil
}

// PendingRequest returns the single unresolved correction request, or
// ErrNoPendingCorrection when every request has been resolved.
func (a *Attendance) PendingRequest() (Event, error) {
	idx := a.pendingIndex()
	if idx < 0 {
		return Event{}, ErrNoPendingCorrection
	}
	return a.Events[idx], nil
}

// FirstCheckInTime returns the timestamp of the earliest check-in.
func (a *Attendance) FirstCheckInTime() (time.Time, bool) {
	for _, event := range a.Events {
		if event.Type == TypeCheckedIn {
			return event.Timestamp, true
		}
	}
	return time.Time{}, false
}

// append adds the event to the log and rederives the final status.
func (a *Attendance) append(event Event) {
	a.Events = append(a.Events, event)
	a.recalculate()
}

// recalculate replays the event log in order: a check-in yields PRESENT,
// an approved correction adopts the requested status of the request it
// resolves, everything else leaves the status untouched.
func (a *Attendance) recalculate() {
	status := StatusAbsent
	pending := -1
	for i, event := range a.Events {
		switch event.Type {
		case TypeCheckedIn:
			status = StatusPresent
		case TypeCorrectionRequested:
			pending = i
		case TypeCorrectionApproved:
			if pending >= 0 {
				status = a.Events[pending].RequestedStatus
				pending = -1
			}
		case TypeCorrectionRejected:
			pending = -1
		}
	}
	a.FinalStatus = status
}

// currentState derives the movement state from the last check-in or
// check-out event.
func (a *Attendance) currentState() checkInState {
	for i := len(a.Events) - 1; i >= 0; i-- {
		switch a.Events[i].Type {
		case TypeCheckedIn:
			return stateCheckedIn
		case TypeCheckedOut:
			return stateCheckedOut
		}
	}
	return stateNotCheckedIn
}

// pendingIndex returns the index of the unresolved correction request,
// or -1 when none is pending.
func (a *Attendance) pendingIndex() int {
	pending := -1
	for i, event := range a.Events {
		switch event.Type {
		case TypeCorrectionRequested:
			pending = i
		case TypeCorrectionApproved, TypeCorrectionRejected:
			pending = -1
		}
	}
	return pending
}

func timestamp(now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}
	return now().UTC()
}
