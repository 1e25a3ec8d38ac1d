package attendance

import "strings"

// Status is the derived final attendance outcome for one (session,
// member) pair.
type Status string

const (
	// StatusPresent indicates the member attended the session.
	StatusPresent Status = "PRESENT"
	// StatusLate indicates the member arrived late.
	StatusLate Status = "LATE"
	// StatusAbsent indicates the member never checked in.
	StatusAbsent Status = "ABSENT"
	// StatusLeftEarly indicates the member left before the session ended.
	StatusLeftEarly Status = "LEFT_EARLY"
)

// IsValid reports whether the status is a usable attendance status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusLeftEarly:
		return true
	default:
		return false
	}
}

// StatusFromString parses a wire name into an attendance status.
func StatusFromString(value string) Status {
	return Status(strings.ToUpper(strings.TrimSpace(value)))
}
