package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/http/response"
	"github.com/shikhonhub/shikhon-backend/internal/services"
)

type ChallengeHandler struct {
	challengeService services.ChallengeService
}

func NewChallengeHandler(challengeService services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

func (ch *ChallengeHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if raw := c.Query("type"); raw != "" {
		challenge, err := ch.challengeService.ActiveByType(ctx, types.ChallengeType(raw))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.RespondOK(c, challenge)
		return
	}
	challenges, err := ch.challengeService.List(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"challenges": challenges})
}

func (ch *ChallengeHandler) Create(c *gin.Context) {
	var req services.ChallengeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	challenge, err := ch.challengeService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, challenge)
}

func (ch *ChallengeHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ch.challengeService.Update(c.Request.Context(), id, patch); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ch *ChallengeHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ch.challengeService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ch *ChallengeHandler) Reset(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := ch.challengeService.Reset(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (ch *ChallengeHandler) CanParticipate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	eligible, err := ch.challengeService.CanParticipate(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"can_participate": eligible})
}

func (ch *ChallengeHandler) SubmitEntry(c *gin.Context) {
	var req services.SubmissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	submission, err := ch.challengeService.SubmitEntry(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, submission)
}

func (ch *ChallengeHandler) ListSubmissions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	approved, pending, err := ch.challengeService.ListSubmissions(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"approved": approved, "pending": pending})
}

func (ch *ChallengeHandler) ApproveSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ch.challengeService.ApproveSubmission(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ch *ChallengeHandler) RejectSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ch.challengeService.RejectSubmission(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ch *ChallengeHandler) ToggleSubmissionLike(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	submission, err := ch.challengeService.ToggleSubmissionLike(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, submission)
}

func (ch *ChallengeHandler) AddComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	comment, err := ch.challengeService.AddComment(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, comment)
}

func (ch *ChallengeHandler) ListComments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	comments, err := ch.challengeService.ListComments(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"comments": comments})
}

func (ch *ChallengeHandler) SubmitPayment(c *gin.Context) {
	var req services.PaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	payment, err := ch.challengeService.SubmitPayment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, payment)
}

func (ch *ChallengeHandler) ListPayments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	payments, err := ch.challengeService.ListPayments(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"payments": payments})
}

func (ch *ChallengeHandler) SetPaymentStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status types.PaymentStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ch.challengeService.SetPaymentStatus(c.Request.Context(), id, req.Status); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
