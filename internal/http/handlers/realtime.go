package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/realtime"
	"github.com/shikhonhub/shikhon-backend/internal/requestdata"
)

const sseHeartbeatInterval = 25 * time.Second

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.Hub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// Stream serves a server-sent-events stream of collection-change events. The
// heartbeat keeps proxies from reaping idle connections.
func (rh *RealtimeHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"message": "not authenticated", "code": "unauthorized"},
		})
		return
	}

	client := rh.hub.Register(rd.UserID)
	defer rh.hub.Unregister(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(sseHeartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			c.Writer.Flush()
		case ev, ok := <-client.Outbound:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				rh.log.Warn("marshal sse event failed", "table", ev.Table, "error", err)
				continue
			}
			fmt.Fprintf(c.Writer, "event: change\ndata: %s\n\n", payload)
			c.Writer.Flush()
		}
	}
}
