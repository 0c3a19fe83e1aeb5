package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/types"
)

type IntelRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.IntelRun) error
	Finish(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string, processed, errorCount int) error
	LatestByKind(ctx context.Context, tx *gorm.DB, jobKind string) (*types.IntelRun, error)
}

type intelRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIntelRunRepo(db *gorm.DB, baseLog *logger.Logger) IntelRunRepo {
	return &intelRunRepo{
		db:  db,
		log: baseLog.With("repo", "IntelRunRepo"),
	}
}

func (r *intelRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.IntelRun) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(run).Error
}

func (r *intelRunRepo) Finish(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string, processed, errorCount int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now()
	return transaction.WithContext(ctx).
		Model(&types.IntelRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"processed":   processed,
			"errors":      errorCount,
			"finished_at": now,
			"updated_at":  now,
		}).Error
}

func (r *intelRunRepo) LatestByKind(ctx context.Context, tx *gorm.DB, jobKind string) (*types.IntelRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var run types.IntelRun
	err := transaction.WithContext(ctx).
		Where("job_kind = ?", jobKind).
		Order("started_at DESC").
		Limit(1).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
