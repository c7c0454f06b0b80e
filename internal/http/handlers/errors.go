package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/http/response"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/apierr"
	"github.com/shikhonhub/shikhon-backend/internal/services"
)

// respondServiceError translates service sentinels into the stable wire codes
// of the error envelope. Anything unrecognized is a store_error.
func respondServiceError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		response.RespondError(c, status, ae.Code, err)
		return
	}

	switch {
	case errors.Is(err, services.ErrValidation):
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, services.ErrInvalidCredentials):
		response.RespondError(c, http.StatusUnauthorized, "invalid_credentials", err)
	case errors.Is(err, services.ErrSessionConflict):
		response.RespondError(c, http.StatusConflict, "session_conflict", err)
	case errors.Is(err, services.ErrEmailTaken):
		response.RespondError(c, http.StatusConflict, "email_taken", err)
	case errors.Is(err, services.ErrInvalidToken):
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, services.ErrNotEligible):
		response.RespondError(c, http.StatusForbidden, "not_eligible", err)
	case errors.Is(err, services.ErrQuizNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrUploadUnauthenticated):
		response.RespondError(c, http.StatusUnauthorized, "upload_unauthenticated", err)
	case errors.Is(err, services.ErrBucketNotFound):
		response.RespondError(c, http.StatusBadGateway, "upload_bucket_not_found", err)
	case errors.Is(err, services.ErrQuotaExceeded):
		response.RespondError(c, http.StatusRequestEntityTooLarge, "upload_quota_exceeded", err)
	case errors.Is(err, services.ErrInvalidFormat):
		response.RespondError(c, http.StatusUnsupportedMediaType, "upload_invalid_format", err)
	case errors.Is(err, services.ErrUploadUnknown):
		response.RespondError(c, http.StatusBadGateway, "upload_failed", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "store_error", err)
	}
}
