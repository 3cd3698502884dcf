package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplanner-backend/internal/data/repos"
	"github.com/yungbote/studyplanner-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/studyplanner-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyplanner-backend/internal/http/middleware"
	"github.com/yungbote/studyplanner-backend/internal/progress"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []realtime.SSEEvent
}

func (e *recordingEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	e.events = append(e.events, msg.Event)
	e.mu.Unlock()
}

func (e *recordingEmitter) has(ev realtime.SSEEvent) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, got := range e.events {
		if got == ev {
			return true
		}
	}
	return false
}

func newTestRouter(t *testing.T) (*gin.Engine, *recordingEmitter) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.FreshDB(t)
	log := testutil.Logger(t)
	em := &recordingEmitter{}

	users := repos.NewUserRepo(db, log)
	courses := repos.NewCourseRepo(db, log)
	assignments := repos.NewAssignmentRepo(db, log)
	sessions := repos.NewStudySessionRepo(db, log)

	notifications := services.NewNotificationService(db, log, repos.NewNotificationRepo(db, log), em)
	auth := services.NewAuthService(db, log, users, repos.NewUserTokenRepo(db, log), notifications, "router-secret", 15*time.Minute, time.Hour)
	course := services.NewCourseService(db, log, courses, sessions, notifications, nil, em)
	assignment := services.NewAssignmentService(db, log, assignments, courses, users, notifications, em, time.UTC)
	session := services.NewStudySessionService(db, log, sessions, courses, notifications, em)
	prog := services.NewProgressService(db, log, users, courses, sessions, assignments, repos.NewWeeklyProgressRepo(db, log),
		notifications, em, progress.DefaultCalendar(), time.UTC)

	r := NewRouter(RouterConfig{
		Log:                 log,
		Emitter:             em,
		AuthHandler:         httpH.NewAuthHandler(auth),
		AuthMiddleware:      httpMW.NewAuthMiddleware(log, auth),
		UserHandler:         httpH.NewUserHandler(services.NewUserService(db, log, users, em)),
		RealtimeHandler:     httpH.NewRealtimeHandler(log, realtime.NewSSEHub(log)),
		CourseHandler:       httpH.NewCourseHandler(course),
		AssignmentHandler:   httpH.NewAssignmentHandler(assignment),
		StudySessionHandler: httpH.NewStudySessionHandler(session),
		ProgressHandler:     httpH.NewProgressHandler(prog),
		NotificationHandler: httpH.NewNotificationHandler(notifications),
		FileHandler:         httpH.NewFileHandler(nil),
		HealthHandler:       httpH.NewHealthHandler(nil),
	})
	return r, em
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
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
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func login(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/api/register", "", gin.H{
		"email": email, "password": "correct-horse", "first_name": "Ada", "last_name": "L",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, r, http.MethodPost, "/api/login", "", gin.H{"email": email, "password": "correct-horse"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	var out struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	decode(t, rec, &out)
	if out.AccessToken == "" || out.RefreshToken == "" || out.ExpiresIn != 900 {
		t.Fatalf("unexpected token response: %+v", out)
	}
	return out.AccessToken
}

func TestHealthcheck(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r, http.MethodGet, "/healthcheck", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, path := range []string{"/api/me", "/api/courses", "/api/progress/dashboard", "/api/notifications"} {
		rec := do(t, r, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: want 401 got %d", path, rec.Code)
		}
	}
}

func TestCourseAndSessionFlow(t *testing.T) {
	r, em := newTestRouter(t)
	token := login(t, r, "Flow@Example.com")

	rec := do(t, r, http.MethodGet, "/api/me", token, nil)
	var me struct {
		Me struct {
			Email string `json:"email"`
		} `json:"me"`
	}
	decode(t, rec, &me)
	if me.Me.Email != "flow@example.com" {
		t.Fatalf("email not normalized: %q", me.Me.Email)
	}

	rec = do(t, r, http.MethodPost, "/api/courses", token, gin.H{"name": "Chemistry"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing code should be 400, got %d", rec.Code)
	}

	rec = do(t, r, http.MethodPost, "/api/courses", token, gin.H{"name": "Chemistry", "code": "CHEM101", "weekly_goal": 6})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create course: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Course struct {
			ID string `json:"id"`
		} `json:"course"`
	}
	decode(t, rec, &created)
	if !em.has(realtime.SSEEventCourseCreated) {
		t.Fatalf("course created event was not flushed")
	}

	rec = do(t, r, http.MethodPost, "/api/sessions", token, gin.H{
		"course_id": created.Course.ID, "duration": 90, "subtopic": "Kinetics",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("log session: %d %s", rec.Code, rec.Body.String())
	}
	if !em.has(realtime.SSEEventStudySessionLogged) {
		t.Fatalf("session logged event was not flushed")
	}

	rec = do(t, r, http.MethodPost, "/api/sessions", token, gin.H{"course_id": created.Course.ID, "duration": 0})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero duration should be 400, got %d", rec.Code)
	}

	rec = do(t, r, http.MethodGet, "/api/progress/weekly", token, nil)
	var weekly struct {
		Units []struct {
			Hours float64 `json:"hours"`
		} `json:"units"`
	}
	decode(t, rec, &weekly)
	if len(weekly.Units) != 1 || weekly.Units[0].Hours != 1.5 {
		t.Fatalf("weekly progress: %+v", weekly)
	}

	rec = do(t, r, http.MethodGet, "/api/notifications/unread-count", token, nil)
	var count struct {
		Count int `json:"count"`
	}
	decode(t, rec, &count)
	if count.Count < 3 {
		t.Fatalf("expected welcome, course and session notifications, got %d", count.Count)
	}
	rec = do(t, r, http.MethodPost, "/api/notifications/read-all", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("read-all: %d", rec.Code)
	}
	rec = do(t, r, http.MethodGet, "/api/notifications/unread-count", token, nil)
	decode(t, rec, &count)
	if count.Count != 0 {
		t.Fatalf("unread after read-all: %d", count.Count)
	}
}

func TestPathIDValidationAndNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r, "ids@example.com")

	rec := do(t, r, http.MethodGet, "/api/courses/not-a-uuid", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: want 400 got %d", rec.Code)
	}
	rec = do(t, r, http.MethodGet, "/api/courses/3f1b1c4e-1111-4a4a-9b9b-000000000000", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing course: want 404 got %d", rec.Code)
	}
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, rec, &env)
	if env.Error.Code != "course_not_found" {
		t.Fatalf("error code: %q", env.Error.Code)
	}
}

func TestFileRoutesWithoutStorage(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r, "files@example.com")
	rec := do(t, r, http.MethodGet, "/api/courses/3f1b1c4e-1111-4a4a-9b9b-000000000000/files", token, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503 got %d", rec.Code)
	}
}

func TestAssignmentClassifiedRoute(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r, "assign@example.com")

	due := time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339)
	rec := do(t, r, http.MethodPost, "/api/assignments", token, gin.H{"title": "Lab report", "due_date": due, "priority": "high"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create assignment: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, r, http.MethodGet, "/api/assignments/classified", token, nil)
	var out struct {
		Overdue []struct {
			Title string `json:"title"`
		} `json:"overdue"`
	}
	decode(t, rec, &out)
	if len(out.Overdue) != 1 || out.Overdue[0].Title != "Lab report" {
		t.Fatalf("classified: %s", rec.Body.String())
	}
}

func TestRefreshAndLogout(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r, "logout@example.com")
	rec := do(t, r, http.MethodPost, "/api/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, r, http.MethodGet, "/api/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: want 401 got %d", rec.Code)
	}
	rec = do(t, r, http.MethodPost, "/api/refresh", "", gin.H{"refresh_token": "bogus"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bogus refresh: want 401 got %d", rec.Code)
	}
}
