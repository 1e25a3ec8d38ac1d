// Package member holds member identity and system-wide roles.
package member

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/studyhall/internal/domain/problem"
)

// Member rule violations.
var (
	// ErrNicknameRequired indicates a missing nickname.
	ErrNicknameRequired = problem.New("MEMBER_NICKNAME_REQUIRED", "member nickname is required")
)

// SystemRole is a member's role across the whole system, independent of
// any course. REGISTRAR and ADMIN bypass course-level authorization.
type SystemRole int

const (
	// SystemRoleUnspecified represents an invalid system role value.
	SystemRoleUnspecified SystemRole = iota
	// SystemRoleMember is a regular member.
	SystemRoleMember
	// SystemRoleOperator may manage standalone sessions.
	SystemRoleOperator
	// SystemRoleRegistrar manages attendance records system-wide.
	SystemRoleRegistrar
	// SystemRoleAdmin is the highest system authority.
	SystemRoleAdmin
)

// Rank returns the ordinal authority of the role. Comparisons between
// system roles always go through Rank.
func (r SystemRole) Rank() int {
	switch r {
	case SystemRoleMember:
		return 1
	case SystemRoleOperator:
		return 2
	case SystemRoleRegistrar:
		return 3
	case SystemRoleAdmin:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether r carries authority equal to or above other.
func (r SystemRole) AtLeast(other SystemRole) bool {
	return r.Rank() >= other.Rank()
}

// IsValid reports whether the role is a usable system role.
func (r SystemRole) IsValid() bool {
	return r.Rank() > 0
}

// String returns the stable wire name of the role.
func (r SystemRole) String() string {
	switch r {
	case SystemRoleMember:
		return "MEMBER"
	case SystemRoleOperator:
		return "OPERATOR"
	case SystemRoleRegistrar:
		return "REGISTRAR"
	case SystemRoleAdmin:
		return "ADMIN"
	default:
		return "UNSPECIFIED"
	}
}

// SystemRoleFromString parses a wire name into a system role.
func SystemRoleFromString(value string) SystemRole {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "MEMBER":
		return SystemRoleMember
	case "OPERATOR":
		return SystemRoleOperator
	case "REGISTRAR":
		return SystemRoleRegistrar
	case "ADMIN":
		return SystemRoleAdmin
	default:
		return SystemRoleUnspecified
	}
}

// Member represents a registered member of the system.
type Member struct {
	ID        string
	Nickname  string
	Role      SystemRole
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Register creates a new member with the default MEMBER system role.
func Register(nickname string, now func() time.Time, idGenerator func() (string, error)) (Member, error) {
	if now == nil {
		now = time.Now
	}
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return Member{}, ErrNicknameRequired
	}

	id, err := idGenerator()
	if err != nil {
		return Member{}, fmt.Errorf("generate member id: %w", err)
	}

	createdAt := now().UTC()
	return Member{
		ID:        id,
		Nickname:  nickname,
		Role:      SystemRoleMember,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}
