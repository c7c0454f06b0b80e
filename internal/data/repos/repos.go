package repos

import (
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/repos/auth"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos/challenge"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos/community"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos/learning"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos/stats"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos/user"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo
type SessionRepo = auth.SessionRepo
type UserTokenRepo = auth.UserTokenRepo

type ProgressRepo = learning.ProgressRepo
type ProfileRepo = learning.ProfileRepo

type ChallengeRepo = challenge.ChallengeRepo
type PostRepo = community.PostRepo

type StatsRepo = stats.StatsRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return auth.NewSessionRepo(db, baseLog)
}
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return learning.NewProgressRepo(db, baseLog)
}
func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return learning.NewProfileRepo(db, baseLog)
}

func NewChallengeRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeRepo {
	return challenge.NewChallengeRepo(db, baseLog)
}
func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return community.NewPostRepo(db, baseLog)
}

func NewStatsRepo(db *gorm.DB, baseLog *logger.Logger) StatsRepo {
	return stats.NewStatsRepo(db, baseLog)
}
