package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/platform/apierr"
	"github.com/yungbote/studyplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
)

// requireUser returns the authenticated user id carried on dbc.
func requireUser(dbc dbctx.Context) (uuid.UUID, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == uuid.Nil {
		return uuid.Nil, apierr.Unauthorized(fmt.Errorf("user id not set in request data"))
	}
	return userID, nil
}

// inTx runs fn inside dbc's transaction, or opens one on db.
func inTx(db *gorm.DB, dbc dbctx.Context, fn func(dbc dbctx.Context) error) error {
	if dbc.Tx != nil {
		return fn(dbc)
	}
	return db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: dbc.Ctx, Tx: tx})
	})
}

func ctxUser(dbc dbctx.Context) uuid.UUID {
	return ctxutil.UserID(dbc.Ctx)
}
