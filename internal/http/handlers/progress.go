package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shikhonhub/shikhon-backend/internal/http/response"
	"github.com/shikhonhub/shikhon-backend/internal/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (ph *ProgressHandler) ListMine(c *gin.Context) {
	progress, err := ph.progressService.ListMine(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": progress})
}

func (ph *ProgressHandler) ListForUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	progress, err := ph.progressService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": progress})
}

func (ph *ProgressHandler) MarkWatched(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}
	progress, err := ph.progressService.MarkWatched(c.Request.Context(), videoID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, progress)
}

func (ph *ProgressHandler) SubmitWork(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}
	var req struct {
		Summary  string `json:"summary"`
		WorkLink string `json:"work_link"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	progress, err := ph.progressService.SubmitWork(c.Request.Context(), videoID, req.Summary, req.WorkLink)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, progress)
}
