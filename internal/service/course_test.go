package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/studyhall/internal/domain/course"
	"github.com/louisbranch/studyhall/internal/domain/member"
	"github.com/louisbranch/studyhall/internal/storage"
)

func TestCourseCreateEnrollsCreatorAsLeadManager(t *testing.T) {
	store := newMemStore()
	seedMember(t, store, "creator", member.SystemRoleMember)
	svc := NewCourseService(store)
	svc.clock = fixedClock(testTime)
	svc.idGenerator = idGen("course-1")

	record, err := svc.Create(context.Background(), "creator", "Algebra", "intro")
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if record.RoleOf("creator") != course.RoleLeadManager {
		t.Fatalf("expected creator as LEAD_MANAGER, got %v", record.RoleOf("creator"))
	}
}

func TestCourseCreateRequiresExistingCreator(t *testing.T) {
	store := newMemStore()
	svc := NewCourseService(store)

	if _, err := svc.Create(context.Background(), "ghost", "Algebra", ""); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing creator, got %v", err)
	}
}

func TestCourseMutationsRequireManager(t *testing.T) {
	store := newMemStore()
	seedMember(t, store, "mentee", member.SystemRoleMember)
	seedMember(t, store, "newcomer", member.SystemRoleMember)
	seedCourse(t, store, "course-1", map[string]course.Role{
		"manager": course.RoleManager,
		"mentee":  course.RoleMentee,
	})
	svc := NewCourseService(store)
	svc.clock = fixedClock(testTime)
	ctx := context.Background()

	if _, err := svc.AddMember(ctx, "mentee", "course-1", "newcomer", course.RoleMentee); !IsDenied(err) {
		t.Fatalf("expected denial for mentee, got %v", err)
	}

	record, err := svc.AddMember(ctx, "manager", "course-1", "newcomer", course.RoleMentee)
	if err != nil {
		t.Fatalf("add member as manager: %v", err)
	}
	if record.RoleOf("newcomer") != course.RoleMentee {
		t.Fatalf("expected newcomer enrolled, got %v", record.RoleOf("newcomer"))
	}
}

func TestCourseAddMemberRequiresExistingMember(t *testing.T) {
	store := newMemStore()
	seedCourse(t, store, "course-1", map[string]course.Role{"manager": course.RoleManager})
	svc := NewCourseService(store)
	svc.clock = fixedClock(testTime)

	if _, err := svc.AddMember(context.Background(), "manager", "course-1", "ghost", course.RoleMentee); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing member, got %v", err)
	}
}

func TestCourseUpdate(t *testing.T) {
	store := newMemStore()
	seedCourse(t, store, "course-1", map[string]course.Role{"lead": course.RoleLeadManager})
	svc := NewCourseService(store)
	svc.clock = fixedClock(testTime.Add(time.Hour))
	ctx := context.Background()

	record, err := svc.Update(ctx, "lead", "course-1", "Geometry", "shapes")
	if err != nil {
		t.Fatalf("update course: %v", err)
	}
	if record.Title != "Geometry" || record.Description != "shapes" {
		t.Fatalf("unexpected course: %+v", record)
	}
	if !record.UpdatedAt.Equal(testTime.Add(time.Hour)) {
		t.Fatalf("expected stamped UpdatedAt, got %v", record.UpdatedAt)
	}
}

func TestCourseCurriculumLifecycle(t *testing.T) {
	store := newMemStore()
	seedCourse(t, store, "course-1", map[string]course.Role{"manager": course.RoleManager})
	svc := NewCourseService(store)
	svc.clock = fixedClock(testTime)
	svc.idGenerator = idGen("curr-1")
	ctx := context.Background()

	curriculum, err := svc.AddCurriculum(ctx, "manager", "course-1", "Unit 1", "basics")
	if err != nil {
		t.Fatalf("add curriculum: %v", err)
	}
	if curriculum.ID != "curr-1" || curriculum.CourseID != "course-1" {
		t.Fatalf("unexpected curriculum: %+v", curriculum)
	}

	if err := svc.RemoveCurriculum(ctx, "manager", "course-1", "curr-1"); err != nil {
		t.Fatalf("remove curriculum: %v", err)
	}
	record, err := store.GetCourse(ctx, "course-1")
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if len(record.Curricula) != 0 {
		t.Fatalf("expected no curricula, got %d", len(record.Curricula))
	}
}

func TestCourseChangeMemberRole(t *testing.T) {
	store := newMemStore()
	seedCourse(t, store, "course-1", map[string]course.Role{
		"lead":   course.RoleLeadManager,
		"mentee": course.RoleMentee,
	})
	svc := NewCourseService(store)
	svc.clock = fixedClock(testTime)

	record, err := svc.ChangeMemberRole(context.Background(), "lead", "course-1", "mentee", course.RoleMentor)
	if err != nil {
		t.Fatalf("change member role: %v", err)
	}
	if record.RoleOf("mentee") != course.RoleMentor {
		t.Fatalf("expected MENTOR, got %v", record.RoleOf("mentee"))
	}
}
