package planner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/studyplanner-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
)

func TestCourseRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCourseRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "courserepo@example.com")
	other := testutil.SeedUser(t, ctx, tx, "courserepo-other@example.com")

	c := &types.Course{
		UserID:     u.ID,
		Name:       "Algorithms",
		Code:       "CS201",
		WeeklyGoal: 6,
	}
	if _, err := repo.Create(dbc, []*types.Course{c}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID == uuid.Nil {
		t.Fatalf("Create: expected generated id")
	}

	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{c.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByUserID(dbc, u.ID); err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserID: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByUserAndIDs(dbc, other.ID, []uuid.UUID{c.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("GetByUserAndIDs other owner: err=%v len=%d", err, len(rows))
	}

	if ok, err := repo.UpdateFields(dbc, other.ID, c.ID, map[string]any{"name": "Hijack"}); err != nil || ok {
		t.Fatalf("UpdateFields other owner: err=%v ok=%v", err, ok)
	}
	if ok, err := repo.UpdateFields(dbc, u.ID, c.ID, map[string]any{"weekly_goal": 9.5}); err != nil || !ok {
		t.Fatalf("UpdateFields: err=%v ok=%v", err, ok)
	}
	rows, _ := repo.GetByIDs(dbc, []uuid.UUID{c.ID})
	if len(rows) != 1 || rows[0].WeeklyGoal != 9.5 || rows[0].Name != "Algorithms" {
		t.Fatalf("UpdateFields not applied: %+v", rows)
	}

	if n, err := repo.SoftDeleteByIDs(dbc, u.ID, []uuid.UUID{c.ID}); err != nil || n != 1 {
		t.Fatalf("SoftDeleteByIDs: err=%v n=%d", err, n)
	}
	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{c.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after SoftDeleteByIDs GetByIDs: err=%v len=%d", err, len(rows))
	}

	c2 := testutil.SeedCourse(t, ctx, tx, u.ID, "Physics", 4)
	if err := repo.FullDeleteByIDs(dbc, []uuid.UUID{c2.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{c2.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after FullDeleteByIDs GetByIDs: err=%v len=%d", err, len(rows))
	}
}
