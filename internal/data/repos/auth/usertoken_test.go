package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/studyplanner-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "usertokenrepo@example.com")

	makeToken := func(access, refresh string, expires time.Time) *types.UserToken {
		return &types.UserToken{
			UserID:       u.ID,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresAt:    expires.UTC(),
		}
	}

	now := time.Now()
	t1 := makeToken("access-1", "refresh-1", now.Add(time.Hour))
	t2 := makeToken("access-2", "refresh-2", now.Add(-time.Hour))
	if _, err := repo.Create(dbc, []*types.UserToken{t1, t2}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 2 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByAccessTokens(dbc, []string{t1.AccessToken}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByAccessTokens: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByRefreshTokens(dbc, []string{t1.RefreshToken}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByRefreshTokens: err=%v len=%d", err, len(rows))
	}

	n, err := repo.FullDeleteExpired(dbc, now)
	if err != nil || n != 1 {
		t.Fatalf("FullDeleteExpired: err=%v n=%d", err, n)
	}

	if err := repo.FullDeleteByAccessTokens(dbc, []string{t1.AccessToken}); err != nil {
		t.Fatalf("FullDeleteByAccessTokens: %v", err)
	}
	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after deletes GetByUserIDs: err=%v len=%d", err, len(rows))
	}
	if err := repo.FullDeleteByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("FullDeleteByUserIDs: %v", err)
	}
}
