package services

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/repos"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/views"
)

// DashboardStats backs the admin overview tiles. Each tile carries its own
// loading flag so a half-resolved dashboard never shows a false zero.
type DashboardStats struct {
	Students           views.Count `json:"students"`
	Topics             views.Count `json:"topics"`
	Videos             views.Count `json:"videos"`
	Quizzes            views.Count `json:"quizzes"`
	PendingPosts       views.Count `json:"pending_posts"`
	PendingSubmissions views.Count `json:"pending_submissions"`
	PendingPayments    views.Count `json:"pending_payments"`
	Events             views.Count `json:"events"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	db        *gorm.DB
	log       *logger.Logger
	statsRepo repos.StatsRepo
}

func NewDashboardService(db *gorm.DB, log *logger.Logger, statsRepo repos.StatsRepo) DashboardService {
	serviceLog := log.With("service", "DashboardService")
	return &dashboardService{db: db, log: serviceLog, statsRepo: statsRepo}
}

func (ds *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	fill := func(dst *views.Count, count func() (int64, error)) {
		g.Go(func() error {
			n, err := count()
			if err != nil {
				return err
			}
			*dst = views.Count{Value: int(n)}
			return nil
		})
	}

	fill(&stats.Students, func() (int64, error) {
		return ds.statsRepo.Count(gctx, nil, &types.User{})
	})
	fill(&stats.Topics, func() (int64, error) {
		return ds.statsRepo.Count(gctx, nil, &types.Topic{})
	})
	fill(&stats.Videos, func() (int64, error) {
		return ds.statsRepo.Count(gctx, nil, &types.Video{})
	})
	fill(&stats.Quizzes, func() (int64, error) {
		return ds.statsRepo.Count(gctx, nil, &types.Quiz{})
	})
	fill(&stats.PendingPosts, func() (int64, error) {
		return ds.statsRepo.CountWhere(gctx, nil, &types.Post{}, "approved = ?", false)
	})
	fill(&stats.PendingSubmissions, func() (int64, error) {
		return ds.statsRepo.CountWhere(gctx, nil, &types.ChallengeSubmission{}, "approved = ?", false)
	})
	fill(&stats.PendingPayments, func() (int64, error) {
		return ds.statsRepo.CountWhere(gctx, nil, &types.ChallengePayment{}, "status = ?", types.PaymentStatusPending)
	})
	fill(&stats.Events, func() (int64, error) {
		return ds.statsRepo.Count(gctx, nil, &types.Event{})
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
