package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/requestdata"
	"github.com/shikhonhub/shikhon-backend/internal/services"
)

type fakeAuthService struct {
	wantToken string
	userID    uuid.UUID
	isAdmin   bool
}

func (f *fakeAuthService) Register(ctx context.Context, email, password, displayName string) (*services.LoginResult, error) {
	return nil, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password, deviceInfo string) (*services.LoginResult, error) {
	return nil, nil
}

func (f *fakeAuthService) Logout(ctx context.Context) error { return nil }

func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (*services.LoginResult, error) {
	return nil, nil
}

func (f *fakeAuthService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString != f.wantToken {
		return ctx, services.ErrInvalidToken
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      f.userID,
		IsAdmin:     f.isAdmin,
	}), nil
}

func (f *fakeAuthService) IsAdmin(email string) bool { return f.isAdmin }

func newAuthTestRouter(t *testing.T, auth services.AuthService, admin bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	am := NewAuthMiddleware(log, auth)

	r := gin.New()
	group := r.Group("/", am.RequireAuth())
	if admin {
		group.Use(am.RequireAdmin())
	}
	group.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireAuthAcceptsBearerHeader(t *testing.T) {
	r := newAuthTestRouter(t, &fakeAuthService{wantToken: "tok", userID: uuid.New()}, false)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
}

func TestRequireAuthAcceptsQueryToken(t *testing.T) {
	r := newAuthTestRouter(t, &fakeAuthService{wantToken: "tok", userID: uuid.New()}, false)

	req := httptest.NewRequest(http.MethodGet, "/ping?token=tok", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
}

func TestRequireAuthRejectsMissingAndBadTokens(t *testing.T) {
	r := newAuthTestRouter(t, &fakeAuthService{wantToken: "tok", userID: uuid.New()}, false)

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong token", "Bearer nope"},
		{"malformed header", "tok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRequireAdminRejectsStudents(t *testing.T) {
	r := newAuthTestRouter(t, &fakeAuthService{wantToken: "tok", userID: uuid.New(), isAdmin: false}, true)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireAdminAllowsAdmins(t *testing.T) {
	r := newAuthTestRouter(t, &fakeAuthService{wantToken: "tok", userID: uuid.New(), isAdmin: true}, true)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
}
