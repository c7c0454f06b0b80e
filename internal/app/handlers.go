package app

import (
	"github.com/shikhonhub/shikhon-backend/internal/http/handlers"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/realtime"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Topic       *handlers.TopicHandler
	Video       *handlers.VideoHandler
	Quiz        *handlers.QuizHandler
	Progress    *handlers.ProgressHandler
	Profile     *handlers.ProfileHandler
	Leaderboard *handlers.LeaderboardHandler
	Community   *handlers.CommunityHandler
	Challenge   *handlers.ChallengeHandler
	Calendar    *handlers.CalendarHandler
	Dashboard   *handlers.DashboardHandler
	File        *handlers.FileHandler
	Realtime    *handlers.RealtimeHandler
	Health      *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(services.Auth),
		Topic:       handlers.NewTopicHandler(services.Topic),
		Video:       handlers.NewVideoHandler(services.Video),
		Quiz:        handlers.NewQuizHandler(services.Quiz),
		Progress:    handlers.NewProgressHandler(services.Progress),
		Profile:     handlers.NewProfileHandler(services.Profile),
		Leaderboard: handlers.NewLeaderboardHandler(services.Leaderboard),
		Community:   handlers.NewCommunityHandler(services.Community),
		Challenge:   handlers.NewChallengeHandler(services.Challenge),
		Calendar:    handlers.NewCalendarHandler(services.Calendar),
		Dashboard:   handlers.NewDashboardHandler(services.Dashboard),
		File:        handlers.NewFileHandler(services.File),
		Realtime:    handlers.NewRealtimeHandler(log, hub),
		Health:      handlers.NewHealthHandler(),
	}
}
