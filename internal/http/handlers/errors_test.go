package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shikhonhub/shikhon-backend/internal/http/response"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/apierr"
	"github.com/shikhonhub/shikhon-backend/internal/services"
)

func respondWith(t *testing.T, err error) (*httptest.ResponseRecorder, response.ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	respondServiceError(c, err)

	var envelope response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal error envelope: %v", err)
	}
	return rec, envelope
}

func TestRespondServiceErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", services.ErrValidation, http.StatusBadRequest, "validation_failed"},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"session conflict", services.ErrSessionConflict, http.StatusConflict, "session_conflict"},
		{"email taken", services.ErrEmailTaken, http.StatusConflict, "email_taken"},
		{"not eligible", services.ErrNotEligible, http.StatusForbidden, "not_eligible"},
		{"quiz missing", services.ErrQuizNotFound, http.StatusNotFound, "not_found"},
		{"upload quota", services.ErrQuotaExceeded, http.StatusRequestEntityTooLarge, "upload_quota_exceeded"},
		{"wrapped sentinel", fmt.Errorf("creating topic: %w", services.ErrValidation), http.StatusBadRequest, "validation_failed"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "store_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, envelope := respondWith(t, tc.err)
			if rec.Code != tc.wantStatus {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, tc.wantStatus)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Fatalf("unexpected code: got=%q want=%q", envelope.Error.Code, tc.wantCode)
			}
		})
	}
}

func TestRespondServiceErrorHonorsExplicitStatus(t *testing.T) {
	err := apierr.New(http.StatusServiceUnavailable, "avatar_unavailable", fmt.Errorf("not configured"))
	rec, envelope := respondWith(t, err)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusServiceUnavailable)
	}
	if envelope.Error.Code != "avatar_unavailable" {
		t.Fatalf("unexpected code: got=%q", envelope.Error.Code)
	}
}
