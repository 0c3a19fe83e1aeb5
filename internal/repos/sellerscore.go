package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/types"
)

type SellerScoreRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, score *types.SellerScore) error
	GetBySellerID(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID) (*types.SellerScore, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.SellerScore, error)
	AvgOverall(ctx context.Context, tx *gorm.DB) (float64, error)
}

type sellerScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSellerScoreRepo(db *gorm.DB, baseLog *logger.Logger) SellerScoreRepo {
	return &sellerScoreRepo{
		db:  db,
		log: baseLog.With("repo", "SellerScoreRepo"),
	}
}

func (r *sellerScoreRepo) Upsert(ctx context.Context, tx *gorm.DB, score *types.SellerScore) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "seller_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"fill_rate", "quality_score", "delivery_score", "pricing_score",
				"overall_score", "transactions_scored", "computed_at", "updated_at",
			}),
		}).
		Create(score).Error
}

func (r *sellerScoreRepo) GetBySellerID(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID) (*types.SellerScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var score types.SellerScore
	err := transaction.WithContext(ctx).Where("seller_id = ?", sellerID).First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *sellerScoreRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.SellerScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.SellerScore
	if err := transaction.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sellerScoreRepo) AvgOverall(ctx context.Context, tx *gorm.DB) (float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var avg *float64
	if err := transaction.WithContext(ctx).
		Model(&types.SellerScore{}).
		Select("avg(overall_score)").
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
