package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shikhonhub/shikhon-backend/internal/http/response"
	"github.com/shikhonhub/shikhon-backend/internal/services"
)

type CalendarHandler struct {
	calendarService services.CalendarService
}

func NewCalendarHandler(calendarService services.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

func (eh *CalendarHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	fromRaw, toRaw := c.Query("from"), c.Query("to")
	if fromRaw != "" && toRaw != "" {
		from, err := time.Parse(time.RFC3339, fromRaw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		to, err := time.Parse(time.RFC3339, toRaw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		events, err := eh.calendarService.ListRange(ctx, from, to)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"events": events})
		return
	}
	events, err := eh.calendarService.List(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"events": events})
}

func (eh *CalendarHandler) Create(c *gin.Context) {
	var req services.EventInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	event, err := eh.calendarService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, event)
}

func (eh *CalendarHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := eh.calendarService.Update(c.Request.Context(), id, patch); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (eh *CalendarHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := eh.calendarService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
