package session

import "strings"

// ParticipantRole is a member's role within one session. Roles are flat;
// a session may have any number of HOSTs.
type ParticipantRole string

const (
	// RoleHost runs the session and may manage its participants.
	RoleHost ParticipantRole = "HOST"
	// RoleSpeaker presents during the session.
	RoleSpeaker ParticipantRole = "SPEAKER"
	// RoleAttendee attends the session.
	RoleAttendee ParticipantRole = "ATTENDEE"
)

// IsValid reports whether the role is a usable participant role.
func (r ParticipantRole) IsValid() bool {
	switch r {
	case RoleHost, RoleSpeaker, RoleAttendee:
		return true
	default:
		return false
	}
}

// ParticipantRoleFromString parses a wire name into a participant role.
func ParticipantRoleFromString(value string) ParticipantRole {
	return ParticipantRole(strings.ToUpper(strings.TrimSpace(value)))
}

// Participant is one member's membership in a session.
type Participant struct {
	MemberID string
	Role     ParticipantRole
}

// AddParticipant adds a member to the session. Member ids are unique per
// session.
func (s *Session) AddParticipant(memberID string, role ParticipantRole) error {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return ErrMemberIDRequired
	}
	if !role.IsValid() {
		return ErrParticipantRoleRequired
	}
	for _, p := range s.Participants {
		if p.MemberID == memberID {
			return ErrAlreadyParticipating
		}
	}
	s.Participants = append(s.Participants, Participant{MemberID: memberID, Role: role})
	return nil
}

// RemoveParticipant removes a member from the session, enforcing the
// host invariant: a HOST may only be removed while another HOST remains.
func (s *Session) RemoveParticipant(memberID string) error {
	idx := -1
	for i, p := range s.Participants {
		if p.MemberID == memberID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotParticipating
	}
	if s.Participants[idx].Role == RoleHost && s.HostCount() <= 1 {
		return ErrHostCannotLeaveAlone
	}
	s.Participants = append(s.Participants[:idx], s.Participants[idx+1:]...)
	return nil
}

// ChangeParticipantRole changes a participant's session role. Multiple
// simultaneous HOSTs are allowed.
func (s *Session) ChangeParticipantRole(memberID string, role ParticipantRole) error {
	if !role.IsValid() {
		return ErrParticipantRoleRequired
	}
	for i, p := range s.Participants {
		if p.MemberID == memberID {
			s.Participants[i].Role = role
			return nil
		}
	}
	return ErrNotParticipating
}

// HostCount returns the number of participants holding the HOST role.
func (s *Session) HostCount() int {
	count := 0
	for _, p := range s.Participants {
		if p.Role == RoleHost {
			count++
		}
	}
	return count
}

// IsParticipant reports whether memberID participates in the session.
func (s *Session) IsParticipant(memberID string) bool {
	for _, p := range s.Participants {
		if p.MemberID == memberID {
			return true
		}
	}
	return false
}

// IsHost reports whether memberID participates in the session as a HOST.
func (s *Session) IsHost(memberID string) bool {
	for _, p := range s.Participants {
		if p.MemberID == memberID && p.Role == RoleHost {
			return true
		}
	}
	return false
}
