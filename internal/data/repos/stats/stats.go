package stats

import (
	"context"

	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

// StatsRepo answers the dashboard tile counts.
type StatsRepo interface {
	Count(ctx context.Context, tx *gorm.DB, model any) (int64, error)
	CountWhere(ctx context.Context, tx *gorm.DB, model any, query string, args ...any) (int64, error)
}

type statsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatsRepo(db *gorm.DB, baseLog *logger.Logger) StatsRepo {
	repoLog := baseLog.With("repo", "StatsRepo")
	return &statsRepo{db: db, log: repoLog}
}

func (sr *statsRepo) Count(ctx context.Context, tx *gorm.DB, model any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64
	err := transaction.WithContext(ctx).Model(model).Count(&count).Error
	return count, err
}

func (sr *statsRepo) CountWhere(ctx context.Context, tx *gorm.DB, model any, query string, args ...any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64
	err := transaction.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error
	return count, err
}
