package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/data/repos"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/notify"
	"github.com/yungbote/studyplanner-backend/internal/platform/apierr"
	"github.com/yungbote/studyplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

const minPasswordLength = 8

type JWTClaims struct {
	jwt.RegisteredClaims
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService interface {
	RegisterUser(dbc dbctx.Context, in RegisterInput) (*types.User, error)
	LoginUser(dbc dbctx.Context, email, password string) (*TokenPair, error)
	RefreshUser(dbc dbctx.Context, refreshToken string) (*TokenPair, error)
	LogoutUser(dbc dbctx.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	notifications NotificationService
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	notifications NotificationService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		notifications: notifications,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(dbc dbctx.Context, in RegisterInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, apierr.Invalid("invalid_email", "email %q is not valid", email)
	}
	if len(in.Password) < minPasswordLength {
		return nil, apierr.Invalid("invalid_password", "password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &types.User{
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}

	err = inTx(as.db, dbc, func(inner dbctx.Context) error {
		exists, err := as.userRepo.EmailExists(inner, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return apierr.Conflict("email_taken", fmt.Errorf("email already registered"))
		}
		if _, err := as.userRepo.Create(inner, []*types.User{user}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if as.notifications != nil {
			if _, err := as.notifications.Create(inner, notify.Welcome(user.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		as.log.Warn("RegisterUser failed", "error", err)
		return nil, err
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) LoginUser(dbc dbctx.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apierr.Invalid("missing_credentials", "email and password are required")
	}
	users, err := as.userRepo.GetByEmails(dbc, []string{email})
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, apierr.Unauthorized(fmt.Errorf("invalid email or password"))
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.Unauthorized(fmt.Errorf("invalid email or password"))
	}

	var pair *TokenPair
	err = inTx(as.db, dbc, func(inner dbctx.Context) error {
		if _, err := as.userTokenRepo.FullDeleteExpired(inner, time.Now()); err != nil {
			return fmt.Errorf("prune expired tokens: %w", err)
		}
		p, err := as.issueTokens(inner, user.ID)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		as.log.Warn("LoginUser failed", "error", err, "user_id", user.ID)
		return nil, err
	}
	return pair, nil
}

func (as *authService) RefreshUser(dbc dbctx.Context, refreshToken string) (*TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apierr.Invalid("missing_refresh_token", "refresh token is required")
	}
	found, err := as.userTokenRepo.GetByRefreshTokens(dbc, []string{refreshToken})
	if err != nil {
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, apierr.Unauthorized(fmt.Errorf("unknown refresh token"))
	}
	existing := found[0]
	if existing.ExpiresAt.Before(time.Now()) {
		if err := as.userTokenRepo.FullDeleteByAccessTokens(dbc, []string{existing.AccessToken}); err != nil {
			as.log.Warn("Failed to delete expired token", "error", err, "user_id", existing.UserID)
		}
		return nil, apierr.Unauthorized(fmt.Errorf("refresh token expired"))
	}

	var pair *TokenPair
	err = inTx(as.db, dbc, func(inner dbctx.Context) error {
		if err := as.userTokenRepo.FullDeleteByAccessTokens(inner, []string{existing.AccessToken}); err != nil {
			return fmt.Errorf("remove old token: %w", err)
		}
		p, err := as.issueTokens(inner, existing.UserID)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		as.log.Warn("RefreshUser failed", "error", err, "user_id", existing.UserID)
		return nil, err
	}
	return pair, nil
}

func (as *authService) LogoutUser(dbc dbctx.Context) error {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.Unauthorized(nil)
	}
	if err := as.userTokenRepo.FullDeleteByAccessTokens(dbc, []string{rd.TokenString}); err != nil {
		as.log.Warn("LogoutUser failed", "error", err, "user_id", rd.UserID)
		return fmt.Errorf("delete user token: %w", err)
	}
	return nil
}

// SetContextFromToken validates tokenString and returns ctx carrying the
// caller's RequestData. The token must still have a row, so logout revokes it.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Unauthorized(nil)
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, apierr.Unauthorized(fmt.Errorf("parse token: %w", err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized(fmt.Errorf("invalid or expired token"))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized(fmt.Errorf("invalid user id in token: %w", err))
	}
	found, err := as.userTokenRepo.GetByAccessTokens(dbctx.Context{Ctx: ctx}, []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("get user token: %w", err)
	}
	if len(found) == 0 || found[0] == nil || found[0].UserID != userID {
		return ctx, apierr.Unauthorized(fmt.Errorf("token revoked"))
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		SessionID:   found[0].ID,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) issueTokens(dbc dbctx.Context, userID uuid.UUID) (*TokenPair, error) {
	access, err := as.generateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	row := &types.UserToken{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    time.Now().Add(as.refreshTTL).UTC(),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{row}); err != nil {
		return nil, fmt.Errorf("create user token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: row.RefreshToken,
		ExpiresAt:    time.Now().Add(as.accessTTL),
	}, nil
}

func (as *authService) generateAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
