package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/types"
)

type BuyerRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Buyer, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Buyer, error)
}

type buyerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBuyerRepo(db *gorm.DB, baseLog *logger.Logger) BuyerRepo {
	return &buyerRepo{
		db:  db,
		log: baseLog.With("repo", "BuyerRepo"),
	}
}

func (r *buyerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Buyer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var buyer types.Buyer
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&buyer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *buyerRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Buyer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Buyer
	if err := transaction.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
