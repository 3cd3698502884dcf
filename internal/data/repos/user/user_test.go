package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/studyplanner-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	u := &types.User{
		Email:     "  UserRepo@Example.com ",
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if _, err := repo.Create(dbc, []*types.User{u}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatalf("Create: expected generated id")
	}
	if u.CurrentWeek != 1 {
		t.Fatalf("Create: current_week want=1 got=%d", u.CurrentWeek)
	}

	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByEmails(dbc, []string{"userrepo@example.com"}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByEmails: err=%v len=%d", err, len(rows))
	}
	if ok, err := repo.EmailExists(dbc, "USERREPO@example.com"); err != nil || !ok {
		t.Fatalf("EmailExists: err=%v ok=%v", err, ok)
	}

	if err := repo.UpdateName(dbc, u.ID, "New", "Name"); err != nil {
		t.Fatalf("UpdateName: %v", err)
	}
	if err := repo.UpdatePreferredTheme(dbc, u.ID, "dark"); err != nil {
		t.Fatalf("UpdatePreferredTheme: %v", err)
	}
	if err := repo.UpdateCurrentWeek(dbc, u.ID, 7); err != nil {
		t.Fatalf("UpdateCurrentWeek: %v", err)
	}
	if err := repo.UpdateTimezone(dbc, u.ID, "Africa/Nairobi"); err != nil {
		t.Fatalf("UpdateTimezone: %v", err)
	}
	rows, err := repo.GetByIDs(dbc, []uuid.UUID{u.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs after updates: err=%v len=%d", err, len(rows))
	}
	got := rows[0]
	if got.FirstName != "New" || got.PreferredTheme != "dark" || got.CurrentWeek != 7 || got.Timezone != "Africa/Nairobi" {
		t.Fatalf("updates not applied: %+v", got)
	}

	if ids, err := repo.ListIDs(dbc); err != nil || !containsID(ids, u.ID) {
		t.Fatalf("ListIDs: err=%v ids=%v", err, ids)
	}

	if err := repo.SoftDeleteByIDs(dbc, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after SoftDeleteByIDs GetByIDs: err=%v len=%d", err, len(rows))
	}
	if ids, err := repo.ListIDs(dbc); err != nil || containsID(ids, u.ID) {
		t.Fatalf("ListIDs after soft delete: err=%v ids=%v", err, ids)
	}
}

func containsID(ids []uuid.UUID, want uuid.UUID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
