package app

import (
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/clients/gcp"
	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Topic       services.TopicService
	Video       services.VideoService
	Quiz        services.QuizService
	Progress    services.ProgressService
	Profile     services.ProfileService
	Avatar      services.AvatarService
	Leaderboard services.LeaderboardService
	Community   services.CommunityService
	Challenge   services.ChallengeService
	Calendar    services.CalendarService
	Dashboard   services.DashboardService
	File        services.FileService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, bus binding.ChangeBus) (Services, error) {
	log.Info("Wiring services...")

	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		log.Warn("bucket service unavailable, uploads disabled", "error", err)
		bucketService = nil
	}

	var avatarService services.AvatarService
	if bucketService != nil {
		avatarService, err = services.NewAvatarService(db, log, reposet.Profile, bucketService)
		if err != nil {
			log.Warn("avatar service unavailable", "error", err)
			avatarService = nil
		}
	}

	authService := services.NewAuthService(db, log, services.AuthConfig{
		JWTSecret:  cfg.JWTSecretKey,
		AdminEmail: cfg.AdminEmail,
		TokenTTL:   cfg.TokenTTL,
	}, reposet.User, reposet.Session, reposet.UserToken, reposet.Profile, avatarService)

	return Services{
		Auth:        authService,
		Topic:       services.NewTopicService(db, bus, log),
		Video:       services.NewVideoService(db, bus, log, reposet.Progress),
		Quiz:        services.NewQuizService(db, bus, log, reposet.Progress, reposet.Profile),
		Progress:    services.NewProgressService(db, bus, log, reposet.Progress, reposet.Profile),
		Profile:     services.NewProfileService(db, bus, log, reposet.Profile, avatarService),
		Avatar:      avatarService,
		Leaderboard: services.NewLeaderboardService(db, log, reposet.Profile),
		Community:   services.NewCommunityService(db, bus, log, reposet.Post),
		Challenge:   services.NewChallengeService(db, bus, log, reposet.Challenge),
		Calendar:    services.NewCalendarService(db, bus, log),
		Dashboard:   services.NewDashboardService(db, log, reposet.Stats),
		File:        services.NewFileService(log, bucketService),
	}, nil
}
