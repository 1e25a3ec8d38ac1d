package member

import (
	"errors"
	"testing"
	"time"
)

func TestRegisterDefaultsToMemberRole(t *testing.T) {
	fixedTime := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	record, err := Register("  ada  ", func() time.Time { return fixedTime }, func() (string, error) {
		return "member-1", nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if record.ID != "member-1" {
		t.Fatalf("expected id member-1, got %q", record.ID)
	}
	if record.Nickname != "ada" {
		t.Fatalf("expected trimmed nickname, got %q", record.Nickname)
	}
	if record.Role != SystemRoleMember {
		t.Fatalf("expected default MEMBER role, got %v", record.Role)
	}
	if !record.CreatedAt.Equal(fixedTime) {
		t.Fatalf("expected created at %v, got %v", fixedTime, record.CreatedAt)
	}
}

func TestRegisterRequiresNickname(t *testing.T) {
	_, err := Register("  ", nil, func() (string, error) { return "member-1", nil })
	if !errors.Is(err, ErrNicknameRequired) {
		t.Fatalf("expected ErrNicknameRequired, got %v", err)
	}
}

func TestSystemRoleRankOrdering(t *testing.T) {
	ordered := []SystemRole{SystemRoleMember, SystemRoleOperator, SystemRoleRegistrar, SystemRoleAdmin}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Fatalf("expected %v to rank above %v", ordered[i], ordered[i-1])
		}
	}
	if SystemRoleUnspecified.Rank() != 0 {
		t.Fatalf("expected rank 0 for unspecified, got %d", SystemRoleUnspecified.Rank())
	}
}

func TestAtLeast(t *testing.T) {
	if !SystemRoleAdmin.AtLeast(SystemRoleRegistrar) {
		t.Fatal("admin carries registrar authority")
	}
	if !SystemRoleOperator.AtLeast(SystemRoleOperator) {
		t.Fatal("AtLeast is inclusive")
	}
	if SystemRoleMember.AtLeast(SystemRoleOperator) {
		t.Fatal("member does not carry operator authority")
	}
}

func TestSystemRoleStringRoundTrip(t *testing.T) {
	roles := []SystemRole{SystemRoleMember, SystemRoleOperator, SystemRoleRegistrar, SystemRoleAdmin}
	for _, role := range roles {
		if got := SystemRoleFromString(role.String()); got != role {
			t.Fatalf("round trip of %v yielded %v", role, got)
		}
	}
	if got := SystemRoleFromString("sudo"); got != SystemRoleUnspecified {
		t.Fatalf("expected unspecified for unknown name, got %v", got)
	}
}
