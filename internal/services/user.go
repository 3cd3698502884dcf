package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/data/repos"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/platform/apierr"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

// MaxAcademicWeek bounds the current week a user can set.
const MaxAcademicWeek = 52

var validThemePreferences = map[string]struct{}{
	"light":  {},
	"dark":   {},
	"system": {},
}

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	UpdateName(dbc dbctx.Context, firstName, lastName string) (*types.User, error)
	UpdatePreferredTheme(dbc dbctx.Context, preferredTheme string) (*types.User, error)
	UpdateCurrentWeek(dbc dbctx.Context, week int) (*types.User, error)
	UpdateTimezone(dbc dbctx.Context, timezone string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	emitter  SSEEmitter
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, emitter SSEEmitter) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
		emitter:  emitter,
	}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	return us.load(dbc, userID)
}

func (us *userService) UpdateName(dbc dbctx.Context, firstName, lastName string) (*types.User, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		return nil, apierr.Invalid("invalid_name", "first or last name is required")
	}
	return us.update(dbc, "UpdateName", func(inner dbctx.Context, userID uuid.UUID) error {
		return us.userRepo.UpdateName(inner, userID, firstName, lastName)
	})
}

func (us *userService) UpdatePreferredTheme(dbc dbctx.Context, preferredTheme string) (*types.User, error) {
	theme := strings.ToLower(strings.TrimSpace(preferredTheme))
	if _, ok := validThemePreferences[theme]; !ok {
		return nil, apierr.Invalid("invalid_theme", "theme must be one of light, dark or system")
	}
	return us.update(dbc, "UpdatePreferredTheme", func(inner dbctx.Context, userID uuid.UUID) error {
		return us.userRepo.UpdatePreferredTheme(inner, userID, theme)
	})
}

func (us *userService) UpdateCurrentWeek(dbc dbctx.Context, week int) (*types.User, error) {
	if week < 1 || week > MaxAcademicWeek {
		return nil, apierr.Invalid("invalid_week", "week must be between 1 and %d", MaxAcademicWeek)
	}
	return us.update(dbc, "UpdateCurrentWeek", func(inner dbctx.Context, userID uuid.UUID) error {
		return us.userRepo.UpdateCurrentWeek(inner, userID, week)
	})
}

// UpdateTimezone stores an IANA zone name. An empty name clears it.
func (us *userService) UpdateTimezone(dbc dbctx.Context, timezone string) (*types.User, error) {
	timezone = strings.TrimSpace(timezone)
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return nil, apierr.Invalid("invalid_timezone", "unknown timezone %q", timezone)
		}
	}
	return us.update(dbc, "UpdateTimezone", func(inner dbctx.Context, userID uuid.UUID) error {
		return us.userRepo.UpdateTimezone(inner, userID, timezone)
	})
}

func (us *userService) update(dbc dbctx.Context, op string, apply func(dbctx.Context, uuid.UUID) error) (*types.User, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	var updated *types.User
	err = inTx(us.db, dbc, func(inner dbctx.Context) error {
		if err := apply(inner, userID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		u, err := us.load(inner, userID)
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		us.log.Warn("User update failed", "op", op, "error", err, "user_id", userID)
		return nil, err
	}
	queueSSE(dbc.Ctx, us.emitter, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventUserUpdated,
		Data:    map[string]any{"user": updated},
	})
	return updated, nil
}

func (us *userService) load(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	found, err := us.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, apierr.NotFound("user_not_found", "user")
	}
	return found[0], nil
}
