package service

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/studyhall/internal/domain/attendance"
	"github.com/louisbranch/studyhall/internal/domain/course"
	"github.com/louisbranch/studyhall/internal/domain/member"
	"github.com/louisbranch/studyhall/internal/domain/session"
	"github.com/louisbranch/studyhall/internal/storage"
)

var testTime = time.Date(2026, 5, 11, 9, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func idGen(ids ...string) func() (string, error) {
	next := 0
	return func() (string, error) {
		id := ids[next]
		next++
		return id, nil
	}
}

// memStore is an in-memory storage.Store for service tests.
type memStore struct {
	members     map[string]member.Member
	courses     map[string]course.Course
	sessions    map[string]session.Session
	attendances map[string]attendance.Attendance
}

func newMemStore() *memStore {
	return &memStore{
		members:     make(map[string]member.Member),
		courses:     make(map[string]course.Course),
		sessions:    make(map[string]session.Session),
		attendances: make(map[string]attendance.Attendance),
	}
}

func (m *memStore) PutMember(_ context.Context, record member.Member) error {
	m.members[record.ID] = record
	return nil
}

func (m *memStore) GetMember(_ context.Context, id string) (member.Member, error) {
	record, ok := m.members[id]
	if !ok {
		return member.Member{}, storage.ErrNotFound
	}
	return record, nil
}

func (m *memStore) ListMembers(_ context.Context) ([]member.Member, error) {
	var records []member.Member
	for _, record := range m.members {
		records = append(records, record)
	}
	return records, nil
}

func (m *memStore) PutCourse(_ context.Context, record course.Course) error {
	m.courses[record.ID] = record
	return nil
}

func (m *memStore) GetCourse(_ context.Context, id string) (course.Course, error) {
	record, ok := m.courses[id]
	if !ok {
		return course.Course{}, storage.ErrNotFound
	}
	return record, nil
}

func (m *memStore) ListCourses(_ context.Context) ([]course.Course, error) {
	var records []course.Course
	for _, record := range m.courses {
		records = append(records, record)
	}
	return records, nil
}

func (m *memStore) DeleteCourse(_ context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *memStore) PutSession(_ context.Context, record session.Session) error {
	m.sessions[record.ID] = record
	return nil
}

func (m *memStore) GetSession(_ context.Context, id string) (session.Session, error) {
	record, ok := m.sessions[id]
	if !ok {
		return session.Session{}, storage.ErrNotFound
	}
	if record.ParentID != "" {
		if parent, ok := m.sessions[record.ParentID]; ok {
			record.ParentScheduledAt = parent.ScheduledAt
			record.ParentScheduledEndAt = parent.ScheduledEndAt
		}
	}
	return record, nil
}

func (m *memStore) ListSessionsByCourse(_ context.Context, courseID string) ([]session.Session, error) {
	var records []session.Session
	for _, record := range m.sessions {
		if record.CourseID == courseID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (m *memStore) ListChildSessions(_ context.Context, parentID string) ([]session.Session, error) {
	var records []session.Session
	for _, record := range m.sessions {
		if record.ParentID == parentID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (m *memStore) DeleteSession(_ context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memStore) PutAttendance(_ context.Context, record attendance.Attendance) error {
	for _, existing := range m.attendances {
		if existing.SessionID == record.SessionID && existing.MemberID == record.MemberID && existing.ID != record.ID {
			return storage.ErrAlreadyExists
		}
	}
	m.attendances[record.ID] = record
	return nil
}

func (m *memStore) GetAttendance(_ context.Context, id string) (attendance.Attendance, error) {
	record, ok := m.attendances[id]
	if !ok {
		return attendance.Attendance{}, storage.ErrNotFound
	}
	return record, nil
}

func (m *memStore) GetAttendanceBySessionAndMember(_ context.Context, sessionID, memberID string) (attendance.Attendance, error) {
	for _, record := range m.attendances {
		if record.SessionID == sessionID && record.MemberID == memberID {
			return record, nil
		}
	}
	return attendance.Attendance{}, storage.ErrNotFound
}

func (m *memStore) ListAttendanceBySession(_ context.Context, sessionID string) ([]attendance.Attendance, error) {
	var records []attendance.Attendance
	for _, record := range m.attendances {
		if record.SessionID == sessionID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (m *memStore) ListAttendanceByMember(_ context.Context, memberID string) ([]attendance.Attendance, error) {
	var records []attendance.Attendance
	for _, record := range m.attendances {
		if record.MemberID == memberID {
			records = append(records, record)
		}
	}
	return records, nil
}

var _ storage.Store = (*memStore)(nil)

// seedMember stores a member with the given system role.
func seedMember(t *testing.T, store *memStore, id string, role member.SystemRole) {
	t.Helper()
	record, err := member.Register(id, fixedClock(testTime), idGen(id))
	if err != nil {
		t.Fatalf("register member: %v", err)
	}
	record.Role = role
	if err := store.PutMember(context.Background(), record); err != nil {
		t.Fatalf("put member: %v", err)
	}
}

// seedCourse stores a course with the given member roles.
func seedCourse(t *testing.T, store *memStore, id string, roles map[string]course.Role) {
	t.Helper()
	record, err := course.Create("Algebra", "intro", fixedClock(testTime), idGen(id))
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	for memberID, role := range roles {
		if err := record.AddMember(memberID, role); err != nil {
			t.Fatalf("add course member: %v", err)
		}
	}
	if err := store.PutCourse(context.Background(), record); err != nil {
		t.Fatalf("put course: %v", err)
	}
}

func sessionInput(start time.Time) session.Input {
	return session.Input{
		Title:          "Linear equations",
		ScheduledAt:    start,
		ScheduledEndAt: start.Add(2 * time.Hour),
		Type:           session.TypeOnline,
		Location:       session.LocationGoogleMeet,
	}
}

// seedSession stores a session with the given participants.
func seedSession(t *testing.T, store *memStore, id, courseID string, participants map[string]session.ParticipantRole) session.Session {
	t.Helper()
	start := testTime.Add(7 * 24 * time.Hour)
	var record session.Session
	var err error
	if courseID == "" {
		record, err = session.NewStandalone(sessionInput(start), fixedClock(testTime), idGen(id))
	} else {
		record, err = session.NewCourseSession(courseID, sessionInput(start), fixedClock(testTime), idGen(id))
	}
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	for memberID, role := range participants {
		if err := record.AddParticipant(memberID, role); err != nil {
			t.Fatalf("add participant: %v", err)
		}
	}
	if err := store.PutSession(context.Background(), record); err != nil {
		t.Fatalf("put session: %v", err)
	}
	return record
}
