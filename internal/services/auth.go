package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/repos"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/requestdata"
	"github.com/shikhonhub/shikhon-backend/internal/utils"
)

var (
	ErrSessionConflict    = errors.New("account is already logged in on another device")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// sessionMaxAge is how long a login marker blocks a second device. A marker
// older than this is treated as abandoned and replaced.
const sessionMaxAge = 24 * time.Hour

type AuthConfig struct {
	JWTSecret  string
	AdminEmail string
	TokenTTL   time.Duration
}

type LoginResult struct {
	User         *types.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	IsAdmin      bool        `json:"is_admin"`
}

type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (*LoginResult, error)
	Login(ctx context.Context, email, password, deviceInfo string) (*LoginResult, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IsAdmin(email string) bool
}

type authService struct {
	db          *gorm.DB
	log         *logger.Logger
	cfg         AuthConfig
	userRepo    repos.UserRepo
	sessionRepo repos.SessionRepo
	tokenRepo   repos.UserTokenRepo
	profileRepo repos.ProfileRepo
	avatar      AvatarService
	now         func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	cfg AuthConfig,
	userRepo repos.UserRepo,
	sessionRepo repos.SessionRepo,
	tokenRepo repos.UserTokenRepo,
	profileRepo repos.ProfileRepo,
	avatar AvatarService,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &authService{
		db:          db,
		log:         serviceLog,
		cfg:         cfg,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokenRepo:   tokenRepo,
		profileRepo: profileRepo,
		avatar:      avatar,
		now:         time.Now,
	}
}

func (as *authService) IsAdmin(email string) bool {
	return utils.NormalizeEmail(email) == utils.NormalizeEmail(as.cfg.AdminEmail)
}

func (as *authService) Register(ctx context.Context, email, password, displayName string) (*LoginResult, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	var created *types.User
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err = as.userRepo.Create(ctx, tx, &types.User{
			ID:          uuid.New(),
			Email:       email,
			Password:    hashed,
			DisplayName: displayName,
		})
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		if _, err := as.profileRepo.Upsert(ctx, tx, &types.UserProfile{
			ID:          uuid.New(),
			UserID:      created.ID,
			DisplayName: displayName,
			JoinedAt:    as.now().UTC(),
		}); err != nil {
			return fmt.Errorf("creating profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if as.avatar != nil {
		if err := as.avatar.GenerateInitialAvatar(ctx, created.ID, displayName); err != nil {
			as.log.Warn("initial avatar generation failed", "user_id", created.ID, "error", err)
		}
	}

	return as.issue(ctx, created, "signup")
}

func (as *authService) Login(ctx context.Context, email, password, deviceInfo string) (*LoginResult, error) {
	email = utils.NormalizeEmail(email)

	// Session check comes before the credential check: a held session refuses
	// the login attempt outright, whatever the password.
	session, err := as.sessionRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("looking up session: %w", err)
	}
	if session != nil {
		age := as.now().Sub(session.CreatedAt)
		if age < sessionMaxAge {
			as.log.Info("login refused, session held", "email", email, "session_age", age.String())
			return nil, ErrSessionConflict
		}
		if err := as.sessionRepo.DeleteByID(ctx, nil, session.ID); err != nil {
			return nil, fmt.Errorf("clearing stale session: %w", err)
		}
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	if _, err := as.sessionRepo.Create(ctx, nil, &types.UserSession{
		ID:         uuid.New(),
		UserID:     user.ID,
		Email:      user.Email,
		DeviceInfo: deviceInfo,
		CreatedAt:  as.now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return as.issue(ctx, user, deviceInfo)
}

// Logout clears the caller's session marker and tokens. The sign-out succeeds
// even when the session delete fails; the failure is logged so the stale
// marker can be cleaned up by the 24h rule.
func (as *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return ErrInvalidToken
	}

	if err := as.sessionRepo.DeleteByUserID(ctx, nil, rd.UserID); err != nil {
		as.log.Warn("session delete failed during logout, signing out anyway", "user_id", rd.UserID, "error", err)
	}
	if err := as.tokenRepo.DeleteByUserID(ctx, nil, rd.UserID); err != nil {
		as.log.Warn("token delete failed during logout", "user_id", rd.UserID, "error", err)
	}
	return nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	row, err := as.tokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("fetching refresh token: %w", err)
	}
	if row == nil || as.now().After(row.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	user, err := as.userRepo.GetByID(ctx, nil, row.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}

	if err := as.tokenRepo.DeleteByUserID(ctx, nil, user.ID); err != nil {
		as.log.Warn("failed to rotate old tokens", "user_id", user.ID, "error", err)
	}
	return as.issue(ctx, user, "refresh")
}

// SetContextFromToken validates the bearer token and attaches the caller's
// identity to the context.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return ctx, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, ErrInvalidToken
	}

	row, err := as.tokenRepo.GetByAccessToken(ctx, nil, tokenString)
	if err != nil {
		return ctx, fmt.Errorf("fetching token: %w", err)
	}
	if row == nil || as.now().After(row.ExpiresAt) {
		return ctx, ErrInvalidToken
	}

	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Email:       email,
		IsAdmin:     as.IsAdmin(email),
	}), nil
}

func (as *authService) issue(ctx context.Context, user *types.User, deviceInfo string) (*LoginResult, error) {
	expiresAt := as.now().Add(as.cfg.TokenTTL).UTC()

	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   as.now().Unix(),
		"exp":   expiresAt.Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	refresh := uuid.NewString()

	if _, err := as.tokenRepo.Create(ctx, nil, &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}); err != nil {
		return nil, fmt.Errorf("persisting token: %w", err)
	}

	as.log.Info("issued tokens", "user_id", user.ID, "device", deviceInfo)
	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		IsAdmin:      as.IsAdmin(user.Email),
	}, nil
}
