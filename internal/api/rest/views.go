package rest

import (
	"time"

	"github.com/louisbranch/studyhall/internal/domain/attendance"
	"github.com/louisbranch/studyhall/internal/domain/course"
	"github.com/louisbranch/studyhall/internal/domain/member"
	"github.com/louisbranch/studyhall/internal/domain/session"
	"github.com/louisbranch/studyhall/internal/service"
)

// View types decouple the wire format from the domain structs.

type memberView struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toMemberView(m member.Member) memberView {
	return memberView{
		ID:        m.ID,
		Nickname:  m.Nickname,
		Role:      m.Role.String(),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type courseMemberView struct {
	MemberID string `json:"member_id"`
	Role     string `json:"role"`
}

type curriculumView struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type courseView struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Members     []courseMemberView `json:"members,omitempty"`
	Curricula   []curriculumView   `json:"curricula,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func toCourseView(c course.Course) courseView {
	view := courseView{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	for _, m := range c.Members {
		view.Members = append(view.Members, courseMemberView{MemberID: m.MemberID, Role: m.Role.String()})
	}
	for _, cur := range c.Curricula {
		view.Curricula = append(view.Curricula, curriculumView{
			ID:          cur.ID,
			CourseID:    cur.CourseID,
			Title:       cur.Title,
			Description: cur.Description,
			CreatedAt:   cur.CreatedAt,
		})
	}
	return view
}

type participantView struct {
	MemberID string `json:"member_id"`
	Role     string `json:"role"`
}

type sessionView struct {
	ID              string            `json:"id"`
	CourseID        string            `json:"course_id,omitempty"`
	CurriculumID    string            `json:"curriculum_id,omitempty"`
	ParentID        string            `json:"parent_id,omitempty"`
	Title           string            `json:"title"`
	ScheduledAt     time.Time         `json:"scheduled_at"`
	ScheduledEndAt  time.Time         `json:"scheduled_end_at"`
	Type            string            `json:"type"`
	Location        string            `json:"location"`
	LocationDetails string            `json:"location_details,omitempty"`
	Participants    []participantView `json:"participants,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func toSessionView(s session.Session) sessionView {
	view := sessionView{
		ID:              s.ID,
		CourseID:        s.CourseID,
		CurriculumID:    s.CurriculumID,
		ParentID:        s.ParentID,
		Title:           s.Title,
		ScheduledAt:     s.ScheduledAt,
		ScheduledEndAt:  s.ScheduledEndAt,
		Type:            string(s.Type),
		Location:        string(s.Location),
		LocationDetails: s.LocationDetails,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	for _, p := range s.Participants {
		view.Participants = append(view.Participants, participantView{MemberID: p.MemberID, Role: string(p.Role)})
	}
	return view
}

func toSessionViews(records []session.Session) []sessionView {
	views := make([]sessionView, 0, len(records))
	for _, record := range records {
		views = append(views, toSessionView(record))
	}
	return views
}

type attendanceEventView struct {
	Type            string    `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	CurrentStatus   string    `json:"current_status,omitempty"`
	RequestedStatus string    `json:"requested_status,omitempty"`
	Reason          string    `json:"reason,omitempty"`
	RequestedBy     string    `json:"requested_by,omitempty"`
	ApprovedBy      string    `json:"approved_by,omitempty"`
	RejectedBy      string    `json:"rejected_by,omitempty"`
}

type attendanceView struct {
	ID          string                `json:"id"`
	SessionID   string                `json:"session_id"`
	MemberID    string                `json:"member_id"`
	FinalStatus string                `json:"final_status"`
	Events      []attendanceEventView `json:"events,omitempty"`
}

func toAttendanceView(a attendance.Attendance) attendanceView {
	view := attendanceView{
		ID:          a.ID,
		SessionID:   a.SessionID,
		MemberID:    a.MemberID,
		FinalStatus: string(a.FinalStatus),
	}
	for _, event := range a.Events {
		view.Events = append(view.Events, attendanceEventView{
			Type:            string(event.Type),
			Timestamp:       event.Timestamp,
			CurrentStatus:   string(event.CurrentStatus),
			RequestedStatus: string(event.RequestedStatus),
			Reason:          event.Reason,
			RequestedBy:     event.RequestedBy,
			ApprovedBy:      event.ApprovedBy,
			RejectedBy:      event.RejectedBy,
		})
	}
	return view
}

func toAttendanceViews(records []attendance.Attendance) []attendanceView {
	views := make([]attendanceView, 0, len(records))
	for _, record := range records {
		views = append(views, toAttendanceView(record))
	}
	return views
}

type attendanceRateView struct {
	SessionID string         `json:"session_id"`
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"by_status"`
}

func toAttendanceRateView(rate service.SessionRate) attendanceRateView {
	view := attendanceRateView{
		SessionID: rate.SessionID,
		Total:     rate.Total,
		ByStatus:  make(map[string]int, len(rate.ByStatus)),
	}
	for status, count := range rate.ByStatus {
		view.ByStatus[string(status)] = count
	}
	return view
}

type courseRateView struct {
	CourseID string  `json:"course_id"`
	Sessions int     `json:"sessions"`
	Total    int     `json:"total"`
	Attended int     `json:"attended"`
	Rate     float64 `json:"rate"`
}

func toCourseRateView(rate service.CourseRate) courseRateView {
	return courseRateView{
		CourseID: rate.CourseID,
		Sessions: rate.Sessions,
		Total:    rate.Total,
		Attended: rate.Attended,
		Rate:     rate.Rate,
	}
}
