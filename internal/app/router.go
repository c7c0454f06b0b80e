package app

import (
	"github.com/gin-gonic/gin"

	httpx "github.com/shikhonhub/shikhon-backend/internal/http"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return httpx.NewRouter(httpx.RouterConfig{
		Log: log,

		AuthMiddleware: middleware.Auth,

		AuthHandler:        handlers.Auth,
		TopicHandler:       handlers.Topic,
		VideoHandler:       handlers.Video,
		QuizHandler:        handlers.Quiz,
		ProgressHandler:    handlers.Progress,
		ProfileHandler:     handlers.Profile,
		LeaderboardHandler: handlers.Leaderboard,
		CommunityHandler:   handlers.Community,
		ChallengeHandler:   handlers.Challenge,
		CalendarHandler:    handlers.Calendar,
		DashboardHandler:   handlers.Dashboard,
		FileHandler:        handlers.File,
		RealtimeHandler:    handlers.Realtime,
		HealthHandler:      handlers.Health,
	})
}
