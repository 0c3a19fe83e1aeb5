package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/types"
)

// TransactionRepo is read-only: the engine never mutates source rows.
type TransactionRepo interface {
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Transaction, error)
	ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Transaction, error)
	DistinctBuyersSince(ctx context.Context, tx *gorm.DB, category string, since time.Time) (int64, error)
}

type transactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTransactionRepo(db *gorm.DB, baseLog *logger.Logger) TransactionRepo {
	return &transactionRepo{
		db:  db,
		log: baseLog.With("repo", "TransactionRepo"),
	}
}

func (r *transactionRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Transaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Transaction
	if err := transaction.WithContext(ctx).
		Order("transaction_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *transactionRepo) ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Transaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Transaction
	if err := transaction.WithContext(ctx).
		Where("category_name = ?", category).
		Order("transaction_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *transactionRepo) DistinctBuyersSince(ctx context.Context, tx *gorm.DB, category string, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Transaction{}).
		Where("category_name = ? AND transaction_date >= ? AND status <> ?", category, since, types.TransactionStatusCancelled).
		Distinct("buyer_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
