package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/data/repos"
	"github.com/yungbote/studyplanner-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/platform/apierr"
	"github.com/yungbote/studyplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/gcp"
	"github.com/yungbote/studyplanner-backend/internal/progress"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

type testEnv struct {
	db    *gorm.DB
	store *memStore

	users         repos.UserRepo
	tokens        repos.UserTokenRepo
	courses       repos.CourseRepo
	assignmentsDB repos.AssignmentRepo
	sessionsDB    repos.StudySessionRepo
	weekly        repos.WeeklyProgressRepo
	filesDB       repos.FileRepo
	notifsDB      repos.NotificationRepo

	emitter       *recordingEmitter
	notifications NotificationService
	auth          AuthService
	user          UserService
	course        CourseService
	assignment    AssignmentService
	session       StudySessionService
	progress      ProgressService
	file          FileService
	sweep         SweepService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.FreshDB(t)
	log := testutil.Logger(t)

	e := &testEnv{
		db:            db,
		store:         newMemStore(),
		users:         repos.NewUserRepo(db, log),
		tokens:        repos.NewUserTokenRepo(db, log),
		courses:       repos.NewCourseRepo(db, log),
		assignmentsDB: repos.NewAssignmentRepo(db, log),
		sessionsDB:    repos.NewStudySessionRepo(db, log),
		weekly:        repos.NewWeeklyProgressRepo(db, log),
		filesDB:       repos.NewFileRepo(db, log),
		notifsDB:      repos.NewNotificationRepo(db, log),
		emitter:       &recordingEmitter{},
	}
	e.notifications = NewNotificationService(db, log, e.notifsDB, e.emitter)
	e.auth = NewAuthService(db, log, e.users, e.tokens, e.notifications, "test-secret", 15*time.Minute, 24*time.Hour)
	e.user = NewUserService(db, log, e.users, e.emitter)
	e.file = NewFileService(db, log, e.store, e.filesDB, e.courses, e.assignmentsDB, e.emitter)
	e.course = NewCourseService(db, log, e.courses, e.sessionsDB, e.notifications, e.file, e.emitter)
	e.assignment = NewAssignmentService(db, log, e.assignmentsDB, e.courses, e.users, e.notifications, e.emitter, time.UTC)
	e.session = NewStudySessionService(db, log, e.sessionsDB, e.courses, e.notifications, e.emitter)
	e.progress = NewProgressService(db, log, e.users, e.courses, e.sessionsDB, e.assignmentsDB, e.weekly,
		e.notifications, e.emitter, progress.DefaultCalendar(), time.UTC)
	e.sweep = NewSweepService(db, log, e.users, e.courses, e.sessionsDB, e.assignmentsDB, e.notifications, time.UTC, 2)
	return e
}

// as seeds a user and returns a request-scoped context for them.
func (e *testEnv) as(t *testing.T, email string) (dbctx.Context, *types.User) {
	t.Helper()
	u := testutil.SeedUser(t, context.Background(), e.db, email)
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: u.ID})
	ctx = ctxutil.WithSSEData(ctx)
	return dbctx.Context{Ctx: ctx}, u
}

func (e *testEnv) notificationsFor(t *testing.T, userID uuid.UUID) []*types.Notification {
	t.Helper()
	rows, err := e.notifsDB.GetByUserID(dbctx.Context{Ctx: context.Background()}, userID, false, 100)
	if err != nil {
		t.Fatalf("GetByUserID notifications: %v", err)
	}
	return rows
}

func countTitled(rows []*types.Notification, title string) int {
	n := 0
	for _, r := range rows {
		if r.Title == title {
			n++
		}
	}
	return n
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected *apierr.Error with status %d, got %T: %v", status, err, err)
	}
	if ae.Status != status {
		t.Fatalf("status: want=%d got=%d (%v)", status, ae.Status, err)
	}
}

func sseEvents(dbc dbctx.Context) []realtime.SSEEvent {
	msgs := ctxutil.GetSSEData(dbc.Ctx).Drain()
	out := make([]realtime.SSEEvent, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Event)
	}
	return out
}

func hasEvent(events []realtime.SSEEvent, want realtime.SSEEvent) bool {
	for _, e := range events {
		if e == want {
			return true
		}
	}
	return false
}

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (r *recordingEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

func (r *recordingEmitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

// memStore is an in-memory gcp.FileStore.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var _ gcp.FileStore = (*memStore)(nil)

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) UploadFile(dbc dbctx.Context, key string, file io.Reader, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[key] = buf.Bytes()
	m.mu.Unlock()
	return nil
}

func (m *memStore) DeleteFile(dbc dbctx.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *memStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []string{}
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *memStore) DeletePrefix(ctx context.Context, prefix string) error {
	keys, _ := m.ListKeys(ctx, prefix)
	for _, k := range keys {
		_ = m.DeleteFile(dbctx.Context{Ctx: ctx}, k)
	}
	return nil
}

func (m *memStore) GetPublicURL(key string) string { return "https://files.test/" + key }

func (m *memStore) Close() error { return nil }

func (m *memStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func dbctxBackground() dbctx.Context { return dbctx.Context{Ctx: context.Background()} }
