package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/studyplanner-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
)

func TestNotificationRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewNotificationRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "notificationrepo@example.com")

	n1 := &types.Notification{UserID: u.ID, Title: "One", Message: "first", Type: types.NotificationInfo}
	n2 := &types.Notification{UserID: u.ID, Title: "Two", Message: "second", Type: types.NotificationSuccess}
	if _, err := repo.Create(dbc, []*types.Notification{n1, n2}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if c, err := repo.CountUnread(dbc, u.ID); err != nil || c != 2 {
		t.Fatalf("CountUnread: err=%v count=%d", err, c)
	}
	if n, err := repo.MarkRead(dbc, uuid.New(), []uuid.UUID{n1.ID}); err != nil || n != 0 {
		t.Fatalf("MarkRead other owner: err=%v n=%d", err, n)
	}
	if n, err := repo.MarkRead(dbc, u.ID, []uuid.UUID{n1.ID}); err != nil || n != 1 {
		t.Fatalf("MarkRead: err=%v n=%d", err, n)
	}
	unread, err := repo.GetByUserID(dbc, u.ID, true, 0)
	if err != nil || len(unread) != 1 || unread[0].ID != n2.ID {
		t.Fatalf("GetByUserID unread: err=%v len=%d", err, len(unread))
	}
	if n, err := repo.MarkAllRead(dbc, u.ID); err != nil || n != 1 {
		t.Fatalf("MarkAllRead: err=%v n=%d", err, n)
	}
	if c, err := repo.CountUnread(dbc, u.ID); err != nil || c != 0 {
		t.Fatalf("CountUnread after MarkAllRead: err=%v count=%d", err, c)
	}
	if n, err := repo.DeleteByIDs(dbc, u.ID, []uuid.UUID{n1.ID}); err != nil || n != 1 {
		t.Fatalf("DeleteByIDs: err=%v n=%d", err, n)
	}
	if rows, err := repo.GetByUserID(dbc, u.ID, false, 10); err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserID after delete: err=%v len=%d", err, len(rows))
	}
}

func TestNotificationRepoCreateOnce(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewNotificationRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "createonce@example.com")
	key := "assignment_due:" + uuid.NewString() + ":2031-05-20"

	mk := func() *types.Notification {
		return &types.Notification{
			UserID:    u.ID,
			Title:     "Assignment Due Tomorrow",
			Message:   "due",
			Type:      types.NotificationWarning,
			DedupeKey: testutil.PtrString(key),
		}
	}

	created, err := repo.CreateOnce(dbc, mk())
	if err != nil || !created {
		t.Fatalf("CreateOnce first: err=%v created=%v", err, created)
	}
	created, err = repo.CreateOnce(dbc, mk())
	if err != nil || created {
		t.Fatalf("CreateOnce second: err=%v created=%v", err, created)
	}
	if ok, err := repo.ExistsByDedupeKey(dbc, key); err != nil || !ok {
		t.Fatalf("ExistsByDedupeKey: err=%v ok=%v", err, ok)
	}
	rows, err := repo.GetByUserID(dbc, u.ID, false, 0)
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserID: want exactly one row, err=%v len=%d", err, len(rows))
	}

	// Rows without a key are never deduplicated.
	plain := func() *types.Notification {
		return &types.Notification{UserID: u.ID, Title: "Plain", Message: "m"}
	}
	for i := 0; i < 2; i++ {
		if created, err := repo.CreateOnce(dbc, plain()); err != nil || !created {
			t.Fatalf("CreateOnce plain %d: err=%v created=%v", i, err, created)
		}
	}
	if rows, _ := repo.GetByUserID(dbc, u.ID, false, 0); len(rows) != 3 {
		t.Fatalf("GetByUserID: want=3 got=%d", len(rows))
	}
}
