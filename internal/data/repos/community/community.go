package community

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

type PostRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (*types.Post, error)
	SetApproved(ctx context.Context, tx *gorm.DB, postID uuid.UUID, approved bool) error
	SetPinned(ctx context.Context, tx *gorm.DB, postID uuid.UUID, pinned bool) error
	SetLikes(ctx context.Context, tx *gorm.DB, postID uuid.UUID, likes []string) error
	AddComment(ctx context.Context, tx *gorm.DB, comment *types.PostComment) (*types.PostComment, error)
	ListComments(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.PostComment, error)
	DeleteWithComments(ctx context.Context, tx *gorm.DB, postID uuid.UUID) error
	CountByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (int64, error)
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	repoLog := baseLog.With("repo", "PostRepo")
	return &postRepo{db: db, log: repoLog}
}

func (pr *postRepo) GetByID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Post
	if err := transaction.WithContext(ctx).
		Where("id = ?", postID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *postRepo) SetApproved(ctx context.Context, tx *gorm.DB, postID uuid.UUID, approved bool) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ?", postID).
		Update("approved", approved).Error
}

func (pr *postRepo) SetPinned(ctx context.Context, tx *gorm.DB, postID uuid.UUID, pinned bool) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ?", postID).
		Update("pinned", pinned).Error
}

func (pr *postRepo) SetLikes(ctx context.Context, tx *gorm.DB, postID uuid.UUID, likes []string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ?", postID).
		Updates(map[string]any{
			"likes":       datatypes.NewJSONSlice(likes),
			"likes_count": len(likes),
		}).Error
}

func (pr *postRepo) AddComment(ctx context.Context, tx *gorm.DB, comment *types.PostComment) (*types.PostComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Create(comment).Error; err != nil {
			return err
		}
		return inner.Model(&types.Post{}).
			Where("id = ?", comment.PostID).
			Update("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (pr *postRepo) ListComments(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.PostComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.PostComment
	if err := transaction.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *postRepo) DeleteWithComments(ctx context.Context, tx *gorm.DB, postID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	return transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Where("post_id = ?", postID).Delete(&types.PostComment{}).Error; err != nil {
			return err
		}
		res := inner.Where("id = ?", postID).Delete(&types.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("post not found")
		}
		return nil
	})
}

func (pr *postRepo) CountByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
