package course

import (
	"errors"
	"testing"
	"time"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func testID() (string, error) { return "course-1", nil }

func newCourse(t *testing.T) Course {
	t.Helper()
	record, err := Create("  Algebra  ", " intro ", fixedClock(time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)), testID)
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	return record
}

func TestCreateNormalizesInput(t *testing.T) {
	record := newCourse(t)
	if record.ID != "course-1" {
		t.Fatalf("expected id course-1, got %q", record.ID)
	}
	if record.Title != "Algebra" {
		t.Fatalf("expected trimmed title, got %q", record.Title)
	}
	if record.Description != "intro" {
		t.Fatalf("expected trimmed description, got %q", record.Description)
	}
	if !record.CreatedAt.Equal(record.UpdatedAt) {
		t.Fatal("expected matching timestamps on create")
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	if _, err := Create("   ", "", fixedClock(time.Now()), testID); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestAddMemberOneRolePerCourse(t *testing.T) {
	record := newCourse(t)
	if err := record.AddMember("member-1", RoleMentee); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := record.AddMember("member-1", RoleMentor); !errors.Is(err, ErrMemberAlreadyRegistered) {
		t.Fatalf("expected ErrMemberAlreadyRegistered, got %v", err)
	}
	if got := record.RoleOf("member-1"); got != RoleMentee {
		t.Fatalf("expected original role preserved, got %v", got)
	}
}

func TestAddMemberValidation(t *testing.T) {
	record := newCourse(t)
	if err := record.AddMember("  ", RoleMentee); !errors.Is(err, ErrMemberIDRequired) {
		t.Fatalf("expected ErrMemberIDRequired, got %v", err)
	}
	if err := record.AddMember("member-1", RoleUnspecified); !errors.Is(err, ErrRoleRequired) {
		t.Fatalf("expected ErrRoleRequired, got %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	record := newCourse(t)
	if err := record.AddMember("member-1", RoleMentee); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := record.RemoveMember("member-1"); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if got := record.RoleOf("member-1"); got != RoleUnspecified {
		t.Fatalf("expected unspecified after removal, got %v", got)
	}
	if err := record.RemoveMember("member-1"); !errors.Is(err, ErrMemberNotRegistered) {
		t.Fatalf("expected ErrMemberNotRegistered, got %v", err)
	}
}

func TestChangeMemberRole(t *testing.T) {
	record := newCourse(t)
	if err := record.AddMember("member-1", RoleMentee); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := record.ChangeMemberRole("member-1", RoleManager); err != nil {
		t.Fatalf("change role: %v", err)
	}
	if got := record.RoleOf("member-1"); got != RoleManager {
		t.Fatalf("expected MANAGER, got %v", got)
	}
	if err := record.ChangeMemberRole("ghost", RoleMentor); !errors.Is(err, ErrMemberNotRegistered) {
		t.Fatalf("expected ErrMemberNotRegistered, got %v", err)
	}
}

func TestCurriculumLifecycle(t *testing.T) {
	record := newCourse(t)
	ids := []string{"curr-1", "curr-2"}
	next := 0
	idGen := func() (string, error) {
		id := ids[next]
		next++
		return id, nil
	}

	first, err := record.AddCurriculum("Unit 1", "basics", fixedClock(time.Now()), idGen)
	if err != nil {
		t.Fatalf("add curriculum: %v", err)
	}
	if first.CourseID != record.ID {
		t.Fatalf("expected curriculum bound to course, got %q", first.CourseID)
	}
	if _, err := record.AddCurriculum("Unit 2", "", fixedClock(time.Now()), idGen); err != nil {
		t.Fatalf("add second curriculum: %v", err)
	}
	if len(record.Curricula) != 2 {
		t.Fatalf("expected 2 curricula, got %d", len(record.Curricula))
	}

	if err := record.RemoveCurriculum("curr-1"); err != nil {
		t.Fatalf("remove curriculum: %v", err)
	}
	if err := record.RemoveCurriculum("curr-1"); !errors.Is(err, ErrCurriculumNotFound) {
		t.Fatalf("expected ErrCurriculumNotFound, got %v", err)
	}
}

func TestUpdateTitleAndDescription(t *testing.T) {
	record := newCourse(t)
	if err := record.UpdateTitle("  Geometry "); err != nil {
		t.Fatalf("update title: %v", err)
	}
	if record.Title != "Geometry" {
		t.Fatalf("expected trimmed title, got %q", record.Title)
	}
	if err := record.UpdateTitle(" "); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if err := record.UpdateDescription(""); !errors.Is(err, ErrDescriptionRequired) {
		t.Fatalf("expected ErrDescriptionRequired, got %v", err)
	}
}
