package challenge

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

// ChallengeRepo holds the challenge queries that need more than generic CRUD:
// the single-active-per-type bookkeeping, payment gating lookups, and the
// jsonb like/comment maintenance on submissions.
type ChallengeRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (*types.Challenge, error)
	GetActiveByType(ctx context.Context, tx *gorm.DB, challengeType types.ChallengeType) (*types.Challenge, error)
	DeactivateByType(ctx context.Context, tx *gorm.DB, challengeType types.ChallengeType, exceptID uuid.UUID) error
	SetActive(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID, active bool) error
	DeleteSubmissionsByChallenge(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (int64, error)

	HasApprovedPayment(ctx context.Context, tx *gorm.DB, challengeID, userID uuid.UUID) (bool, error)
	SetPaymentStatus(ctx context.Context, tx *gorm.DB, paymentID uuid.UUID, status types.PaymentStatus) error

	GetSubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*types.ChallengeSubmission, error)
	SetSubmissionLikes(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, likes []string) error
	AddComment(ctx context.Context, tx *gorm.DB, comment *types.ChallengeComment) (*types.ChallengeComment, error)
	ListComments(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*types.ChallengeComment, error)
}

type challengeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChallengeRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeRepo {
	repoLog := baseLog.With("repo", "ChallengeRepo")
	return &challengeRepo{db: db, log: repoLog}
}

func (cr *challengeRepo) GetByID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Challenge
	if err := transaction.WithContext(ctx).
		Where("id = ?", challengeID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *challengeRepo) GetActiveByType(ctx context.Context, tx *gorm.DB, challengeType types.ChallengeType) (*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Challenge
	err := transaction.WithContext(ctx).
		Where("type = ? AND is_active = ?", challengeType, true).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (cr *challengeRepo) DeactivateByType(ctx context.Context, tx *gorm.DB, challengeType types.ChallengeType, exceptID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Challenge{}).
		Where("type = ? AND is_active = ? AND id <> ?", challengeType, true, exceptID).
		Update("is_active", false).Error
}

func (cr *challengeRepo) SetActive(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID, active bool) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Challenge{}).
		Where("id = ?", challengeID).
		Update("is_active", active).Error
}

func (cr *challengeRepo) DeleteSubmissionsByChallenge(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Delete(&types.ChallengeSubmission{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (cr *challengeRepo) HasApprovedPayment(ctx context.Context, tx *gorm.DB, challengeID, userID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.ChallengePayment{}).
		Where("challenge_id = ? AND user_id = ? AND status = ?", challengeID, userID, types.PaymentStatusApproved).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (cr *challengeRepo) SetPaymentStatus(ctx context.Context, tx *gorm.DB, paymentID uuid.UUID, status types.PaymentStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ChallengePayment{}).
		Where("id = ?", paymentID).
		Update("status", status).Error
}

func (cr *challengeRepo) GetSubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*types.ChallengeSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.ChallengeSubmission
	if err := transaction.WithContext(ctx).
		Where("id = ?", submissionID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *challengeRepo) SetSubmissionLikes(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, likes []string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ChallengeSubmission{}).
		Where("id = ?", submissionID).
		Updates(map[string]any{
			"likes":       datatypes.NewJSONSlice(likes),
			"likes_count": len(likes),
		}).Error
}

func (cr *challengeRepo) AddComment(ctx context.Context, tx *gorm.DB, comment *types.ChallengeComment) (*types.ChallengeComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Create(comment).Error; err != nil {
			return err
		}
		return inner.Model(&types.ChallengeSubmission{}).
			Where("id = ?", comment.SubmissionID).
			Update("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (cr *challengeRepo) ListComments(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*types.ChallengeComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.ChallengeComment
	if err := transaction.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
