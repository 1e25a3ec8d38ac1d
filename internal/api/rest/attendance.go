package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/louisbranch/studyhall/internal/domain/attendance"
	"github.com/louisbranch/studyhall/internal/platform/requestctx"
)

type correctionRequest struct {
	RequestedStatus string `json:"requested_status"`
	Reason          string `json:"reason"`
}

type rejectionRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) checkIn(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendance.CheckIn(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["sessionID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toAttendanceView(record))
}

func (h *Handler) checkOut(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendance.CheckOut(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["sessionID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toAttendanceView(record))
}

func (h *Handler) getAttendance(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendance.Get(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["attendanceID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toAttendanceView(record))
}

func (h *Handler) listSessionAttendance(w http.ResponseWriter, r *http.Request) {
	records, err := h.attendance.ListBySession(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["sessionID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toAttendanceViews(records))
}

func (h *Handler) sessionAttendanceRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.attendance.Rate(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["sessionID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toAttendanceRateView(rate))
}

func (h *Handler) courseAttendanceRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.attendance.RateByCourse(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["courseID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCourseRateView(rate))
}

func (h *Handler) requestCorrection(w http.ResponseWriter, r *http.Request) {
	var req correctionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.attendance.RequestCorrection(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["attendanceID"],
		attendance.StatusFromString(req.RequestedStatus),
		req.Reason,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toAttendanceView(record))
}

func (h *Handler) approveCorrection(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendance.ApproveCorrection(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["attendanceID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toAttendanceView(record))
}

func (h *Handler) rejectCorrection(w http.ResponseWriter, r *http.Request) {
	var req rejectionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.attendance.RejectCorrection(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["attendanceID"],
		req.Reason,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toAttendanceView(record))
}
