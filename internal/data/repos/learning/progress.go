package learning

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

// ProgressRepo covers the per-(user, video) queries the generic collection
// layer cannot express.
type ProgressRepo interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID) (*types.UserProgress, error)
	GetByUserAndVideo(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID) (*types.UserProgress, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error)
	Update(ctx context.Context, tx *gorm.DB, progressID uuid.UUID, patch map[string]any) error
	DeleteByVideoID(ctx context.Context, tx *gorm.DB, videoID uuid.UUID) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	repoLog := baseLog.With("repo", "ProgressRepo")
	return &progressRepo{db: db, log: repoLog}
}

func (pr *progressRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	existing, err := pr.GetByUserAndVideo(ctx, transaction, userID, videoID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	created := &types.UserProgress{
		ID:      uuid.New(),
		UserID:  userID,
		VideoID: videoID,
	}
	if err := transaction.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

func (pr *progressRepo) GetByUserAndVideo(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.UserProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *progressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *progressRepo) Update(ctx context.Context, tx *gorm.DB, progressID uuid.UUID, patch map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(patch) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("id = ?", progressID).
		Updates(patch).Error
}

func (pr *progressRepo) DeleteByVideoID(ctx context.Context, tx *gorm.DB, videoID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	return transaction.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&types.UserProgress{}).Error
}
