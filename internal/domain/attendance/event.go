package attendance

import "time"

// EventType identifies the kind of an attendance event.
type EventType string

const (
	// TypeCheckedIn records a member entering a session.
	TypeCheckedIn EventType = "attendance.checked_in"
	// TypeCheckedOut records a member leaving a session.
	TypeCheckedOut EventType = "attendance.checked_out"
	// TypeCorrectionRequested records a request to override the final status.
	TypeCorrectionRequested EventType = "attendance.correction_requested"
	// TypeCorrectionApproved records approval of the pending correction.
	TypeCorrectionApproved EventType = "attendance.correction_approved"
	// TypeCorrectionRejected records rejection of the pending correction.
	TypeCorrectionRejected EventType = "attendance.correction_rejected"
)

// Event is one immutable entry in an attendance record's event log.
// Events are only ever appended; the record's final status is a replay
// of the log.
type Event struct {
	// Type identifies the kind of event.
	Type EventType
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// CurrentStatus snapshots the final status at request time
	// (correction_requested only).
	CurrentStatus Status
	// RequestedStatus is the status the requester wants
	// (correction_requested only).
	RequestedStatus Status
	// Reason explains a request or rejection.
	Reason string
	// RequestedBy is the member who filed the correction request.
	RequestedBy string
	// ApprovedBy is the member who approved the pending request.
	ApprovedBy string
	// RejectedBy is the member who rejected the pending request.
	RejectedBy string
}

// IsMovement reports whether the event is a check-in or check-out.
func (e Event) IsMovement() bool {
	return e.Type == TypeCheckedIn || e.Type == TypeCheckedOut
}
