package repos

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/types"
)

type PredictionRepo interface {
	// UpsertAll supersedes the live prediction for each (buyer, category) key.
	UpsertAll(ctx context.Context, tx *gorm.DB, preds []*types.PredictionRecord) error
	ListUpcoming(ctx context.Context, tx *gorm.DB, withinDays int, limit int) ([]*types.PredictionRecord, error)
	ListOverdue(ctx context.Context, tx *gorm.DB, limit int) ([]*types.PredictionRecord, error)
	CountUpcoming(ctx context.Context, tx *gorm.DB, withinDays int) (int64, error)
}

type predictionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPredictionRepo(db *gorm.DB, baseLog *logger.Logger) PredictionRepo {
	return &predictionRepo{
		db:  db,
		log: baseLog.With("repo", "PredictionRepo"),
	}
}

func (r *predictionRepo) UpsertAll(ctx context.Context, tx *gorm.DB, preds []*types.PredictionRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(preds) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "buyer_id"}, {Name: "category_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"predicted_date", "confidence_score", "avg_interval_days",
				"based_on_transactions", "computed_at", "updated_at",
			}),
		}).
		Create(&preds).Error
}

func (r *predictionRepo) ListUpcoming(ctx context.Context, tx *gorm.DB, withinDays int, limit int) ([]*types.PredictionRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	now := time.Now()
	var out []*types.PredictionRecord
	if err := transaction.WithContext(ctx).
		Preload("Buyer").
		Where("predicted_date >= ? AND predicted_date <= ?", now, now.AddDate(0, 0, withinDays)).
		Order("predicted_date ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *predictionRepo) ListOverdue(ctx context.Context, tx *gorm.DB, limit int) ([]*types.PredictionRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []*types.PredictionRecord
	if err := transaction.WithContext(ctx).
		Preload("Buyer").
		Where("predicted_date < ?", time.Now()).
		Order("predicted_date ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *predictionRepo) CountUpcoming(ctx context.Context, tx *gorm.DB, withinDays int) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now()
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.PredictionRecord{}).
		Where("predicted_date >= ? AND predicted_date <= ?", now, now.AddDate(0, 0, withinDays)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
