package rest

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/louisbranch/studyhall/internal/domain/session"
	"github.com/louisbranch/studyhall/internal/platform/requestctx"
)

type sessionRequest struct {
	Title           string    `json:"title"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	ScheduledEndAt  time.Time `json:"scheduled_end_at"`
	Type            string    `json:"type"`
	Location        string    `json:"location"`
	LocationDetails string    `json:"location_details"`
}

func (r sessionRequest) toInput() session.Input {
	return session.Input{
		Title:           r.Title,
		ScheduledAt:     r.ScheduledAt,
		ScheduledEndAt:  r.ScheduledEndAt,
		Type:            session.Type(r.Type),
		Location:        session.Location(r.Location),
		LocationDetails: r.LocationDetails,
	}
}

type rescheduleRequest struct {
	ScheduledAt    time.Time `json:"scheduled_at"`
	ScheduledEndAt time.Time `json:"scheduled_end_at"`
}

type sessionInfoRequest struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

type sessionLocationRequest struct {
	Location        string `json:"location"`
	LocationDetails string `json:"location_details"`
}

type participantRequest struct {
	MemberID string `json:"member_id"`
	Role     string `json:"role"`
}

type participantRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) createStandaloneSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.sessions.CreateStandalone(r.Context(), requestctx.MemberIDFromContext(r.Context()), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toSessionView(record))
}

func (h *Handler) createCourseSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.sessions.CreateCourseSession(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["courseID"],
		req.toInput(),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toSessionView(record))
}

func (h *Handler) createCurriculumSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	vars := mux.Vars(r)
	record, err := h.sessions.CreateCurriculumSession(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		vars["courseID"],
		vars["curriculumID"],
		req.toInput(),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toSessionView(record))
}

func (h *Handler) createChildSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.sessions.CreateChild(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["sessionID"],
		req.toInput(),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toSessionView(record))
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	record, err := h.sessions.Get(r.Context(), requestctx.MemberIDFromContext(r.Context()), mux.Vars(r)["sessionID"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSessionView(record))
}

func (h *Handler) listCourseSessions(w http.ResponseWriter, r *http.Request) {
	records, err := h.sessions.ListByCourse(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["courseID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSessionViews(records))
}

func (h *Handler) listChildSessions(w http.ResponseWriter, r *http.Request) {
	records, err := h.sessions.ListChildren(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["sessionID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSessionViews(records))
}

func (h *Handler) rescheduleSession(w http.ResponseWriter, r *http.Request) {
	var req rescheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.sessions.Reschedule(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["sessionID"],
		req.ScheduledAt,
		req.ScheduledEndAt,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSessionView(record))
}

func (h *Handler) changeSessionInfo(w http.ResponseWriter, r *http.Request) {
	var req sessionInfoRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.sessions.ChangeInfo(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["sessionID"],
		req.Title,
		session.Type(req.Type),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSessionView(record))
}

func (h *Handler) changeSessionLocation(w http.ResponseWriter, r *http.Request) {
	var req sessionLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.sessions.ChangeLocation(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["sessionID"],
		session.Location(req.Location),
		req.LocationDetails,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSessionView(record))
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	err := h.sessions.Delete(r.Context(), requestctx.MemberIDFromContext(r.Context()), mux.Vars(r)["sessionID"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) addParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.participants.Add(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["sessionID"],
		req.MemberID,
		session.ParticipantRoleFromString(req.Role),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toSessionView(record))
}

func (h *Handler) changeParticipantRole(w http.ResponseWriter, r *http.Request) {
	var req participantRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	vars := mux.Vars(r)
	record, err := h.participants.ChangeRole(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		vars["sessionID"],
		vars["memberID"],
		session.ParticipantRoleFromString(req.Role),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSessionView(record))
}

func (h *Handler) removeParticipant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	record, err := h.participants.Remove(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		vars["sessionID"],
		vars["memberID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSessionView(record))
}

func (h *Handler) leaveSession(w http.ResponseWriter, r *http.Request) {
	record, err := h.participants.Leave(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["sessionID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSessionView(record))
}
