package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

// SessionRepo manages the single-device login markers. There is at most one
// row per email; GetByEmail returning nil means no session is held.
type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.UserSession) (*types.UserSession, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.UserSession, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserSession, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	repoLog := baseLog.With("repo", "SessionRepo")
	return &sessionRepo{db: db, log: repoLog}
}

func (sr *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.UserSession) (*types.UserSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (sr *sessionRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.UserSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.UserSession
	err := transaction.WithContext(ctx).
		Where("email = ?", email).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (sr *sessionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.UserSession
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (sr *sessionRepo) DeleteByID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", sessionID).
		Delete(&types.UserSession{}).Error
}

func (sr *sessionRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.UserSession{}).Error
}
