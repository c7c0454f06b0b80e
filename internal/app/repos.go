package app

import (
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/repos"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

type Repos struct {
	User      repos.UserRepo
	Session   repos.SessionRepo
	UserToken repos.UserTokenRepo
	Progress  repos.ProgressRepo
	Profile   repos.ProfileRepo
	Challenge repos.ChallengeRepo
	Post      repos.PostRepo
	Stats     repos.StatsRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		Session:   repos.NewSessionRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Progress:  repos.NewProgressRepo(db, log),
		Profile:   repos.NewProfileRepo(db, log),
		Challenge: repos.NewChallengeRepo(db, log),
		Post:      repos.NewPostRepo(db, log),
		Stats:     repos.NewStatsRepo(db, log),
	}
}
