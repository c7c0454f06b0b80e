package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/requestdata"
)

// watchPoints is the fixed award for completing a video that has no quiz.
const watchPoints = 5

type ProgressService interface {
	ListMine(ctx context.Context) ([]*types.UserProgress, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.UserProgress, error)
	MarkWatched(ctx context.Context, videoID uuid.UUID) (*types.UserProgress, error)
	SubmitWork(ctx context.Context, videoID uuid.UUID, summary, workLink string) (*types.UserProgress, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	progress     *binding.Collection[types.UserProgress]
	progressRepo repos.ProgressRepo
	profileRepo  repos.ProfileRepo
	now          func() time.Time
}

func NewProgressService(db *gorm.DB, bus binding.ChangeBus, log *logger.Logger, progressRepo repos.ProgressRepo, profileRepo repos.ProfileRepo) ProgressService {
	serviceLog := log.With("service", "ProgressService")
	return &progressService{
		db:           db,
		log:          serviceLog,
		progress:     binding.Bind[types.UserProgress](db, bus, log, "user_progress"),
		progressRepo: progressRepo,
		profileRepo:  profileRepo,
		now:          time.Now,
	}
}

func (ps *progressService) ListMine(ctx context.Context) ([]*types.UserProgress, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return ps.progressRepo.ListByUser(ctx, nil, rd.UserID)
}

func (ps *progressService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.UserProgress, error) {
	return ps.progressRepo.ListByUser(ctx, nil, userID)
}

// MarkWatched completes a quiz-less video: watched flag, a fixed point award
// and one completed-video credit. Re-watching changes nothing.
func (ps *progressService) MarkWatched(ctx context.Context, videoID uuid.UUID) (*types.UserProgress, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	var result *types.UserProgress
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress, err := ps.progressRepo.GetOrCreate(ctx, tx, rd.UserID, videoID)
		if err != nil {
			return fmt.Errorf("loading progress: %w", err)
		}
		if progress.Watched {
			result = progress
			return nil
		}

		if err := ps.progressRepo.Update(ctx, tx, progress.ID, map[string]any{"watched": true}); err != nil {
			return fmt.Errorf("marking watched: %w", err)
		}
		if err := ps.profileRepo.Award(ctx, tx, rd.UserID, watchPoints, 1); err != nil {
			return fmt.Errorf("awarding watch points: %w", err)
		}

		progress.Watched = true
		result = progress
		return nil
	})
	if err != nil {
		return nil, err
	}

	ps.progress.Notify(ctx)
	return result, nil
}

func (ps *progressService) SubmitWork(ctx context.Context, videoID uuid.UUID, summary, workLink string) (*types.UserProgress, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	if summary == "" {
		return nil, fmt.Errorf("%w: summary is required", ErrValidation)
	}

	var result *types.UserProgress
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress, err := ps.progressRepo.GetOrCreate(ctx, tx, rd.UserID, videoID)
		if err != nil {
			return fmt.Errorf("loading progress: %w", err)
		}

		submittedAt := ps.now().UTC()
		if err := ps.progressRepo.Update(ctx, tx, progress.ID, map[string]any{
			"summary":      summary,
			"work_link":    workLink,
			"submitted_at": submittedAt,
		}); err != nil {
			return fmt.Errorf("saving submission: %w", err)
		}

		progress.Summary = summary
		progress.WorkLink = workLink
		progress.SubmittedAt = &submittedAt
		result = progress
		return nil
	})
	if err != nil {
		return nil, err
	}

	ps.progress.Notify(ctx)
	return result, nil
}
