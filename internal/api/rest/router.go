// Package rest exposes the studyhall API over HTTP.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/louisbranch/studyhall/internal/auth"
	"github.com/louisbranch/studyhall/internal/platform/telemetry/metrics"
	"github.com/louisbranch/studyhall/internal/service"
)

// Handler bundles the HTTP handlers with their service dependencies.
type Handler struct {
	members      *service.MemberService
	courses      *service.CourseService
	sessions     *service.SessionService
	participants *service.ParticipantService
	attendance   *service.AttendanceService
	tokens       *auth.Manager
	logger       *slog.Logger
}

// Config carries the dependencies for a Handler.
type Config struct {
	Members      *service.MemberService
	Courses      *service.CourseService
	Sessions     *service.SessionService
	Participants *service.ParticipantService
	Attendance   *service.AttendanceService
	Tokens       *auth.Manager
	Logger       *slog.Logger
}

// NewHandler creates the API handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		members:      cfg.Members,
		courses:      cfg.Courses,
		sessions:     cfg.Sessions,
		participants: cfg.Participants,
		attendance:   cfg.Attendance,
		tokens:       cfg.Tokens,
		logger:       logger,
	}
}

// Routes builds the HTTP routing table. Every /api route except member
// registration and token minting requires a bearer token.
func (h *Handler) Routes() http.Handler {
	router := mux.NewRouter()
	router.Use(h.requestLogger, h.requestMetrics, h.traceRequests)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	public := router.PathPrefix("/api").Subrouter()
	public.HandleFunc("/members", h.registerMember).Methods(http.MethodPost)
	public.HandleFunc("/tokens", h.mintToken).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(h.authenticate)

	api.HandleFunc("/members", h.listMembers).Methods(http.MethodGet)
	api.HandleFunc("/members/me", h.currentMember).Methods(http.MethodGet)
	api.HandleFunc("/members/{memberID}", h.getMember).Methods(http.MethodGet)
	api.HandleFunc("/members/{memberID}/role", h.changeSystemRole).Methods(http.MethodPut)
	api.HandleFunc("/members/{memberID}/attendance", h.listMemberAttendance).Methods(http.MethodGet)

	api.HandleFunc("/courses", h.createCourse).Methods(http.MethodPost)
	api.HandleFunc("/courses", h.listCourses).Methods(http.MethodGet)
	api.HandleFunc("/courses/{courseID}", h.getCourse).Methods(http.MethodGet)
	api.HandleFunc("/courses/{courseID}", h.updateCourse).Methods(http.MethodPut)
	api.HandleFunc("/courses/{courseID}/members", h.addCourseMember).Methods(http.MethodPost)
	api.HandleFunc("/courses/{courseID}/members/{memberID}", h.changeCourseMemberRole).Methods(http.MethodPut)
	api.HandleFunc("/courses/{courseID}/members/{memberID}", h.removeCourseMember).Methods(http.MethodDelete)
	api.HandleFunc("/courses/{courseID}/curricula", h.addCurriculum).Methods(http.MethodPost)
	api.HandleFunc("/courses/{courseID}/curricula/{curriculumID}", h.removeCurriculum).Methods(http.MethodDelete)
	api.HandleFunc("/courses/{courseID}/attendance-rate", h.courseAttendanceRate).Methods(http.MethodGet)
	api.HandleFunc("/courses/{courseID}/sessions", h.createCourseSession).Methods(http.MethodPost)
	api.HandleFunc("/courses/{courseID}/sessions", h.listCourseSessions).Methods(http.MethodGet)
	api.HandleFunc("/courses/{courseID}/curricula/{curriculumID}/sessions", h.createCurriculumSession).Methods(http.MethodPost)

	api.HandleFunc("/sessions", h.createStandaloneSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionID}", h.getSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionID}", h.deleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{sessionID}/schedule", h.rescheduleSession).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionID}/info", h.changeSessionInfo).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionID}/location", h.changeSessionLocation).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionID}/children", h.createChildSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionID}/children", h.listChildSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionID}/participants", h.addParticipant).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionID}/participants/{memberID}", h.changeParticipantRole).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionID}/participants/{memberID}", h.removeParticipant).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{sessionID}/leave", h.leaveSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionID}/check-in", h.checkIn).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionID}/check-out", h.checkOut).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionID}/attendance", h.listSessionAttendance).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionID}/attendance-rate", h.sessionAttendanceRate).Methods(http.MethodGet)

	api.HandleFunc("/attendance/{attendanceID}", h.getAttendance).Methods(http.MethodGet)
	api.HandleFunc("/attendance/{attendanceID}/corrections", h.requestCorrection).Methods(http.MethodPost)
	api.HandleFunc("/attendance/{attendanceID}/corrections/approve", h.approveCorrection).Methods(http.MethodPost)
	api.HandleFunc("/attendance/{attendanceID}/corrections/reject", h.rejectCorrection).Methods(http.MethodPost)

	return router
}
