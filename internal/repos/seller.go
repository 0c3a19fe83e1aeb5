package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/types"
)

type SellerRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Seller, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Seller, error)
}

type sellerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSellerRepo(db *gorm.DB, baseLog *logger.Logger) SellerRepo {
	return &sellerRepo{
		db:  db,
		log: baseLog.With("repo", "SellerRepo"),
	}
}

func (r *sellerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Seller, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var seller types.Seller
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Seller, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Seller
	if err := transaction.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
