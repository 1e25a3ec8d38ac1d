package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/louisbranch/studyhall/internal/domain/member"
	"github.com/louisbranch/studyhall/internal/platform/requestctx"
)

type registerMemberRequest struct {
	Nickname string `json:"nickname"`
}

type tokenRequest struct {
	MemberID string `json:"member_id"`
	Nickname string `json:"nickname"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type changeSystemRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) registerMember(w http.ResponseWriter, r *http.Request) {
	var req registerMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.members.Register(r.Context(), req.Nickname)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toMemberView(record))
}

// mintToken issues a bearer token for a registered member. The nickname
// must match the registered record.
func (h *Handler) mintToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.members.Get(r.Context(), req.MemberID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if record.Nickname != req.Nickname {
		h.writeJSON(w, http.StatusUnauthorized, errorBody{Error: errorDetail{
			Code:    "UNAUTHENTICATED",
			Message: "member credentials do not match",
		}})
		return
	}
	token, err := h.tokens.Issue(record.ID, record.Nickname)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) currentMember(w http.ResponseWriter, r *http.Request) {
	record, err := h.members.Get(r.Context(), requestctx.MemberIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toMemberView(record))
}

func (h *Handler) getMember(w http.ResponseWriter, r *http.Request) {
	record, err := h.members.Get(r.Context(), mux.Vars(r)["memberID"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toMemberView(record))
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	records, err := h.members.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	views := make([]memberView, 0, len(records))
	for _, record := range records {
		views = append(views, toMemberView(record))
	}
	h.writeJSON(w, http.StatusOK, views)
}

func (h *Handler) changeSystemRole(w http.ResponseWriter, r *http.Request) {
	var req changeSystemRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.members.ChangeSystemRole(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["memberID"],
		member.SystemRoleFromString(req.Role),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toMemberView(record))
}

func (h *Handler) listMemberAttendance(w http.ResponseWriter, r *http.Request) {
	records, err := h.attendance.ListByMember(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["memberID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toAttendanceViews(records))
}
