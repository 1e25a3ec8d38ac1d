package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/studyhall/internal/auth"
	"github.com/louisbranch/studyhall/internal/service"
	"github.com/louisbranch/studyhall/internal/storage/sqlite"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "studyhall.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	tokens, err := auth.NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	handler := NewHandler(Config{
		Members:      service.NewMemberService(store),
		Courses:      service.NewCourseService(store),
		Sessions:     service.NewSessionService(store),
		Participants: service.NewParticipantService(store),
		Attendance:   service.NewAttendanceService(store),
		Tokens:       tokens,
	})
	return handler.Routes()
}

func doJSON(t *testing.T, server http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(recorder.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// registerAndLogin registers a member and mints a bearer token.
func registerAndLogin(t *testing.T, server http.Handler, nickname string) (string, string) {
	t.Helper()
	recorder := doJSON(t, server, http.MethodPost, "/api/members", "", map[string]string{"nickname": nickname})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("register member: status %d body %s", recorder.Code, recorder.Body.String())
	}
	var registered struct {
		ID string `json:"id"`
	}
	decodeBody(t, recorder, &registered)

	recorder = doJSON(t, server, http.MethodPost, "/api/tokens", "", map[string]string{
		"member_id": registered.ID,
		"nickname":  nickname,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("mint token: status %d body %s", recorder.Code, recorder.Body.String())
	}
	var minted struct {
		Token string `json:"token"`
	}
	decodeBody(t, recorder, &minted)
	return registered.ID, minted.Token
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)
	recorder := doJSON(t, server, http.MethodGet, "/healthz", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestAuthenticatedRoutesRejectMissingToken(t *testing.T) {
	server := newTestServer(t)

	recorder := doJSON(t, server, http.MethodGet, "/api/members", "", nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	var body errorBody
	decodeBody(t, recorder, &body)
	if body.Error.Code != "UNAUTHENTICATED" {
		t.Fatalf("expected UNAUTHENTICATED, got %q", body.Error.Code)
	}

	recorder = doJSON(t, server, http.MethodGet, "/api/members", "not-a-token", nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", recorder.Code)
	}
}

func TestMintTokenRequiresMatchingNickname(t *testing.T) {
	server := newTestServer(t)

	recorder := doJSON(t, server, http.MethodPost, "/api/members", "", map[string]string{"nickname": "ada"})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("register member: status %d", recorder.Code)
	}
	var registered struct {
		ID string `json:"id"`
	}
	decodeBody(t, recorder, &registered)

	recorder = doJSON(t, server, http.MethodPost, "/api/tokens", "", map[string]string{
		"member_id": registered.ID,
		"nickname":  "impostor",
	})
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong nickname, got %d", recorder.Code)
	}
}

func TestRegisterMemberValidation(t *testing.T) {
	server := newTestServer(t)

	recorder := doJSON(t, server, http.MethodPost, "/api/members", "", map[string]string{"nickname": "  "})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty nickname, got %d", recorder.Code)
	}
	var body errorBody
	decodeBody(t, recorder, &body)
	if body.Error.Code != "MEMBER_NICKNAME_REQUIRED" {
		t.Fatalf("expected MEMBER_NICKNAME_REQUIRED, got %q", body.Error.Code)
	}
}

func TestCurrentMember(t *testing.T) {
	server := newTestServer(t)
	memberID, token := registerAndLogin(t, server, "ada")

	recorder := doJSON(t, server, http.MethodGet, "/api/members/me", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", recorder.Code, recorder.Body.String())
	}
	var view memberView
	decodeBody(t, recorder, &view)
	if view.ID != memberID || view.Nickname != "ada" {
		t.Fatalf("unexpected member view: %+v", view)
	}
}

func TestCourseSessionCheckInFlow(t *testing.T) {
	server := newTestServer(t)
	memberID, token := registerAndLogin(t, server, "ada")

	recorder := doJSON(t, server, http.MethodPost, "/api/courses", token, map[string]string{
		"title":       "Algebra",
		"description": "intro",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create course: status %d body %s", recorder.Code, recorder.Body.String())
	}
	var createdCourse courseView
	decodeBody(t, recorder, &createdCourse)
	if len(createdCourse.Members) != 1 || createdCourse.Members[0].Role != "LEAD_MANAGER" {
		t.Fatalf("expected creator as LEAD_MANAGER, got %+v", createdCourse.Members)
	}

	start := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(24 * time.Hour).Add(9 * time.Hour)
	recorder = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/courses/%s/sessions", createdCourse.ID), token, map[string]any{
		"title":            "Linear equations",
		"scheduled_at":     start,
		"scheduled_end_at": start.Add(2 * time.Hour),
		"type":             "ONLINE",
		"location":         "GOOGLE_MEET",
		"location_details": "",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create session: status %d body %s", recorder.Code, recorder.Body.String())
	}
	var createdSession sessionView
	decodeBody(t, recorder, &createdSession)
	if len(createdSession.Participants) != 1 || createdSession.Participants[0].MemberID != memberID {
		t.Fatalf("expected creator as participant, got %+v", createdSession.Participants)
	}

	recorder = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/sessions/%s/check-in", createdSession.ID), token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("check in: status %d body %s", recorder.Code, recorder.Body.String())
	}
	var record attendanceView
	decodeBody(t, recorder, &record)
	if record.FinalStatus != "PRESENT" {
		t.Fatalf("expected PRESENT, got %q", record.FinalStatus)
	}

	// A second check-in while checked in maps to a conflict.
	recorder = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/sessions/%s/check-in", createdSession.ID), token, nil)
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409 for double check-in, got %d body %s", recorder.Code, recorder.Body.String())
	}
	var conflict errorBody
	decodeBody(t, recorder, &conflict)
	if conflict.Error.Code != "ALREADY_CHECKED_IN" {
		t.Fatalf("expected ALREADY_CHECKED_IN, got %q", conflict.Error.Code)
	}

	recorder = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/sessions/%s/attendance-rate", createdSession.ID), token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("attendance rate: status %d body %s", recorder.Code, recorder.Body.String())
	}
	var rate attendanceRateView
	decodeBody(t, recorder, &rate)
	if rate.Total != 1 || rate.ByStatus["PRESENT"] != 1 {
		t.Fatalf("unexpected rate: %+v", rate)
	}

	recorder = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/courses/%s/attendance-rate", createdCourse.ID), token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("course attendance rate: status %d body %s", recorder.Code, recorder.Body.String())
	}
	var courseRate courseRateView
	decodeBody(t, recorder, &courseRate)
	if courseRate.Sessions != 1 || courseRate.Total != 1 || courseRate.Attended != 1 {
		t.Fatalf("unexpected course rate: %+v", courseRate)
	}
}

func TestPermissionDeniedMapsToForbidden(t *testing.T) {
	server := newTestServer(t)
	_, ownerToken := registerAndLogin(t, server, "owner")
	strangerID, strangerToken := registerAndLogin(t, server, "stranger")

	recorder := doJSON(t, server, http.MethodPost, "/api/courses", ownerToken, map[string]string{
		"title": "Algebra",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create course: status %d", recorder.Code)
	}
	var createdCourse courseView
	decodeBody(t, recorder, &createdCourse)

	recorder = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/courses/%s/members", createdCourse.ID), strangerToken, map[string]string{
		"member_id": strangerID,
		"role":      "MENTEE",
	})
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body %s", recorder.Code, recorder.Body.String())
	}
	var body errorBody
	decodeBody(t, recorder, &body)
	if body.Error.Code != "PERMISSION_DENIED" || body.Error.Reason == "" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestGetMissingRecordMapsToNotFound(t *testing.T) {
	server := newTestServer(t)
	_, token := registerAndLogin(t, server, "ada")

	recorder := doJSON(t, server, http.MethodGet, "/api/courses/ghost", token, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
	var body errorBody
	decodeBody(t, recorder, &body)
	if body.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %q", body.Error.Code)
	}
}

func TestUnknownFieldsRejected(t *testing.T) {
	server := newTestServer(t)

	recorder := doJSON(t, server, http.MethodPost, "/api/members", "", map[string]string{
		"nickname": "ada",
		"surprise": "field",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", recorder.Code)
	}
}
