package course

import "strings"

// Role is a member's role within one course.
type Role int

const (
	// RoleUnspecified represents an invalid course role value.
	RoleUnspecified Role = iota
	// RoleMentee is a learner enrolled in the course.
	RoleMentee
	// RoleMentor guides mentees and may request attendance corrections.
	RoleMentor
	// RoleManager administers the course and its sessions.
	RoleManager
	// RoleLeadManager is the highest course authority.
	RoleLeadManager
)

// Rank returns the ordinal authority of the role. Comparisons between
// roles always go through Rank, never through enum identity.
func (r Role) Rank() int {
	switch r {
	case RoleMentee:
		return 1
	case RoleMentor:
		return 2
	case RoleManager:
		return 3
	case RoleLeadManager:
		return 4
	default:
		return 0
	}
}

// Outranks reports whether r has strictly higher authority than other.
func (r Role) Outranks(other Role) bool {
	return r.Rank() > other.Rank()
}

// IsValid reports whether the role is a usable course role.
func (r Role) IsValid() bool {
	return r.Rank() > 0
}

// String returns the stable wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleMentee:
		return "MENTEE"
	case RoleMentor:
		return "MENTOR"
	case RoleManager:
		return "MANAGER"
	case RoleLeadManager:
		return "LEAD_MANAGER"
	default:
		return "UNSPECIFIED"
	}
}

// RoleFromString parses a wire name into a course role.
func RoleFromString(value string) Role {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "MENTEE":
		return RoleMentee
	case "MENTOR":
		return RoleMentor
	case "MANAGER":
		return RoleManager
	case "LEAD_MANAGER":
		return RoleLeadManager
	default:
		return RoleUnspecified
	}
}
