package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/repos"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/views"
)

type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	UserID          string    `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	Points          int       `json:"points"`
	CompletedVideos int       `json:"completed_videos"`
	JoinedAt        time.Time `json:"joined_at"`
}

type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type leaderboardService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ProfileRepo
}

func NewLeaderboardService(db *gorm.DB, log *logger.Logger, profileRepo repos.ProfileRepo) LeaderboardService {
	serviceLog := log.With("service", "LeaderboardService")
	return &leaderboardService{db: db, log: serviceLog, profileRepo: profileRepo}
}

func (ls *leaderboardService) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	profiles, err := ls.profileRepo.ListTop(ctx, nil, limit)
	if err != nil {
		return nil, err
	}

	ranked := views.RankBy(profiles, func(p *types.UserProfile) int { return p.Points })
	out := make([]LeaderboardEntry, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, LeaderboardEntry{
			Rank:            r.Rank,
			UserID:          r.Item.UserID.String(),
			DisplayName:     r.Item.DisplayName,
			AvatarURL:       r.Item.AvatarURL,
			Points:          r.Item.Points,
			CompletedVideos: r.Item.CompletedVideos,
			JoinedAt:        r.Item.JoinedAt,
		})
	}
	return out, nil
}
