package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/louisbranch/studyhall/internal/domain/problem"
	"github.com/louisbranch/studyhall/internal/service"
	"github.com/louisbranch/studyhall/internal/storage"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response", "error", err)
	}
}

// writeError maps service and domain errors onto HTTP statuses. Denials
// become 403 with the policy reason code; rule violations keep their
// stable problem codes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var deniedErr *service.DeniedError
	if errors.As(err, &deniedErr) {
		h.writeJSON(w, http.StatusForbidden, errorBody{Error: errorDetail{
			Code:    "PERMISSION_DENIED",
			Message: "permission denied",
			Reason:  deniedErr.ReasonCode,
		}})
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		h.writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
			Code:    "NOT_FOUND",
			Message: "record not found",
		}})
		return
	}
	if errors.Is(err, storage.ErrAlreadyExists) {
		h.writeJSON(w, http.StatusConflict, errorBody{Error: errorDetail{
			Code:    "ALREADY_EXISTS",
			Message: "record already exists",
		}})
		return
	}

	var p *problem.Problem
	if errors.As(err, &p) {
		h.writeJSON(w, statusForProblem(p.Code), errorBody{Error: errorDetail{
			Code:    p.Code,
			Message: p.Message,
		}})
		return
	}

	h.logger.Error("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
	h.writeJSON(w, http.StatusInternalServerError, errorBody{Error: errorDetail{
		Code:    "INTERNAL",
		Message: "internal server error",
	}})
}

func (h *Handler) badRequest(w http.ResponseWriter, message string) {
	h.writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
		Code:    "BAD_REQUEST",
		Message: message,
	}})
}

// statusForProblem classifies problem codes: state-machine violations
// conflict with the current record state, everything else is a bad
// request.
func statusForProblem(code string) int {
	switch code {
	case "ALREADY_CHECKED_IN",
		"NOT_CHECKED_IN",
		"CORRECTION_ALREADY_PENDING",
		"NO_PENDING_CORRECTION",
		"SAME_STATUS_REQUEST",
		"COURSE_MEMBER_ALREADY_REGISTERED",
		"ALREADY_PARTICIPATING_MEMBER",
		"HOST_CANNOT_LEAVE_ALONE",
		"ROOT_SESSION_SELF_LEAVE_NOT_ALLOWED",
		"CANNOT_MODIFY_STARTED_SESSION",
		"ROOT_SESSION_MODIFICATION_DEADLINE_EXCEEDED",
		"CHILD_SESSION_MODIFICATION_DEADLINE_EXCEEDED":
		return http.StatusConflict
	case "INVALID_TOKEN", "TOKEN_SUBJECT_REQUIRED":
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}
