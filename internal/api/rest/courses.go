package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/louisbranch/studyhall/internal/domain/course"
	"github.com/louisbranch/studyhall/internal/platform/requestctx"
)

type courseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type courseMemberRequest struct {
	MemberID string `json:"member_id"`
	Role     string `json:"role"`
}

type courseRoleRequest struct {
	Role string `json:"role"`
}

type curriculumRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *Handler) createCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.courses.Create(r.Context(), requestctx.MemberIDFromContext(r.Context()), req.Title, req.Description)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toCourseView(record))
}

func (h *Handler) getCourse(w http.ResponseWriter, r *http.Request) {
	record, err := h.courses.Get(r.Context(), mux.Vars(r)["courseID"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCourseView(record))
}

func (h *Handler) listCourses(w http.ResponseWriter, r *http.Request) {
	records, err := h.courses.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	views := make([]courseView, 0, len(records))
	for _, record := range records {
		views = append(views, toCourseView(record))
	}
	h.writeJSON(w, http.StatusOK, views)
}

func (h *Handler) updateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.courses.Update(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["courseID"],
		req.Title,
		req.Description,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCourseView(record))
}

func (h *Handler) addCourseMember(w http.ResponseWriter, r *http.Request) {
	var req courseMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	record, err := h.courses.AddMember(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["courseID"],
		req.MemberID,
		course.RoleFromString(req.Role),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toCourseView(record))
}

func (h *Handler) changeCourseMemberRole(w http.ResponseWriter, r *http.Request) {
	var req courseRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	vars := mux.Vars(r)
	record, err := h.courses.ChangeMemberRole(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		vars["courseID"],
		vars["memberID"],
		course.RoleFromString(req.Role),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCourseView(record))
}

func (h *Handler) removeCourseMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	record, err := h.courses.RemoveMember(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		vars["courseID"],
		vars["memberID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCourseView(record))
}

func (h *Handler) addCurriculum(w http.ResponseWriter, r *http.Request) {
	var req curriculumRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	curriculum, err := h.courses.AddCurriculum(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		mux.Vars(r)["courseID"],
		req.Title,
		req.Description,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, curriculumView{
		ID:          curriculum.ID,
		CourseID:    curriculum.CourseID,
		Title:       curriculum.Title,
		Description: curriculum.Description,
		CreatedAt:   curriculum.CreatedAt,
	})
}

func (h *Handler) removeCurriculum(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.courses.RemoveCurriculum(
		r.Context(),
		requestctx.MemberIDFromContext(r.Context()),
		vars["courseID"],
		vars["curriculumID"],
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}
