package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/utils"
)

type fakeUserRepo struct {
	byEmail map[string]*types.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, u *types.User) (*types.User, error) {
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (*types.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) EmailExists(_ context.Context, _ *gorm.DB, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepo) UpdateDisplayName(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ string) error {
	return nil
}

type fakeSessionRepo struct {
	byEmail map[string]*types.UserSession
	deleted []uuid.UUID
}

func (f *fakeSessionRepo) Create(_ context.Context, _ *gorm.DB, s *types.UserSession) (*types.UserSession, error) {
	f.byEmail[s.Email] = s
	return s, nil
}

func (f *fakeSessionRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (*types.UserSession, error) {
	return f.byEmail[email], nil
}

func (f *fakeSessionRepo) GetByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*types.UserSession, error) {
	for _, s := range f.byEmail {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) DeleteByID(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	for email, s := range f.byEmail {
		if s.ID == id {
			delete(f.byEmail, email)
		}
	}
	return nil
}

func (f *fakeSessionRepo) DeleteByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) error {
	for email, s := range f.byEmail {
		if s.UserID == userID {
			delete(f.byEmail, email)
		}
	}
	return nil
}

type fakeTokenRepo struct {
	rows []*types.UserToken
}

func (f *fakeTokenRepo) Create(_ context.Context, _ *gorm.DB, t *types.UserToken) (*types.UserToken, error) {
	f.rows = append(f.rows, t)
	return t, nil
}

func (f *fakeTokenRepo) GetByAccessToken(_ context.Context, _ *gorm.DB, access string) (*types.UserToken, error) {
	for _, r := range f.rows {
		if r.AccessToken == access {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeTokenRepo) GetByRefreshToken(_ context.Context, _ *gorm.DB, refresh string) (*types.UserToken, error) {
	for _, r := range f.rows {
		if r.RefreshToken == refresh {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeTokenRepo) DeleteByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeTokenRepo) DeleteExpired(_ context.Context, _ *gorm.DB, _ time.Time) error { return nil }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func newAuthFixture(t *testing.T, now time.Time) (*authService, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()
	users := &fakeUserRepo{byEmail: map[string]*types.User{}}
	sessions := &fakeSessionRepo{byEmail: map[string]*types.UserSession{}}
	tokens := &fakeTokenRepo{}

	svc := NewAuthService(nil, testLogger(t), AuthConfig{
		JWTSecret:  "test-secret",
		AdminEmail: "admin@admin.com",
		TokenTTL:   time.Hour,
	}, users, sessions, tokens, nil, nil).(*authService)
	svc.now = func() time.Time { return now }
	return svc, users, sessions
}

func seedUser(t *testing.T, users *fakeUserRepo, email, password string) *types.User {
	t.Helper()
	hashed, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &types.User{ID: uuid.New(), Email: email, Password: hashed, DisplayName: "Student"}
	users.byEmail[email] = u
	return u
}

func TestLoginRefusedWhileSessionYoung(t *testing.T) {
	now := time.Now()
	svc, users, sessions := newAuthFixture(t, now)
	user := seedUser(t, users, "student@example.com", "pass1234")

	sessions.byEmail[user.Email] = &types.UserSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now.Add(-1 * time.Hour),
	}

	_, err := svc.Login(context.Background(), user.Email, "pass1234", "tablet")
	if !errors.Is(err, ErrSessionConflict) {
		t.Fatalf("want ErrSessionConflict, got %v", err)
	}
}

func TestLoginConflictBeatsCredentialCheck(t *testing.T) {
	now := time.Now()
	svc, users, sessions := newAuthFixture(t, now)
	user := seedUser(t, users, "student@example.com", "pass1234")

	sessions.byEmail[user.Email] = &types.UserSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now.Add(-30 * time.Minute),
	}

	// Even a wrong password gets the conflict error, not invalid-credentials.
	_, err := svc.Login(context.Background(), user.Email, "wrong-password", "tablet")
	if !errors.Is(err, ErrSessionConflict) {
		t.Fatalf("want ErrSessionConflict before credential check, got %v", err)
	}
}

func TestLoginReplacesStaleSession(t *testing.T) {
	now := time.Now()
	svc, users, sessions := newAuthFixture(t, now)
	user := seedUser(t, users, "student@example.com", "pass1234")

	stale := &types.UserSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now.Add(-25 * time.Hour),
	}
	sessions.byEmail[user.Email] = stale

	res, err := svc.Login(context.Background(), user.Email, "pass1234", "phone")
	if err != nil {
		t.Fatalf("login with stale session should succeed: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatalf("missing tokens: %+v", res)
	}

	replaced := sessions.byEmail[user.Email]
	if replaced == nil || replaced.ID == stale.ID {
		t.Fatalf("stale session was not replaced: %+v", replaced)
	}
	found := false
	for _, id := range sessions.deleted {
		if id == stale.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("stale session %s was never deleted", stale.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users, _ := newAuthFixture(t, time.Now())
	user := seedUser(t, users, "student@example.com", "pass1234")

	_, err := svc.Login(context.Background(), user.Email, "nope", "laptop")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t, time.Now())

	_, err := svc.Login(context.Background(), "nobody@example.com", "pass1234", "laptop")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestIsAdminIsConfigDriven(t *testing.T) {
	svc, _, _ := newAuthFixture(t, time.Now())

	if !svc.IsAdmin("admin@admin.com") {
		t.Fatalf("configured admin email not recognized")
	}
	if !svc.IsAdmin(" Admin@Admin.com ") {
		t.Fatalf("admin check should normalize the email first")
	}
	if svc.IsAdmin("student@example.com") {
		t.Fatalf("student recognized as admin")
	}
}
