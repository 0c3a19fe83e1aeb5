package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/botanex/marketplace-backend/internal/intel"
	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/repos"
)

// MarketService computes per-category market context on read. Nothing is
// persisted: the snapshot is cheap next to the staleness bookkeeping it would
// otherwise need.
type MarketService interface {
	GetMarketContext(ctx context.Context, category string) (intel.MarketContext, error)
}

type marketService struct {
	db       *gorm.DB
	log      *logger.Logger
	txns     repos.TransactionRepo
	products repos.ProductRepo
}

func NewMarketService(db *gorm.DB, baseLog *logger.Logger, txns repos.TransactionRepo, products repos.ProductRepo) MarketService {
	return &marketService{
		db:       db,
		log:      baseLog.With("service", "MarketService"),
		txns:     txns,
		products: products,
	}
}

func (s *marketService) GetMarketContext(ctx context.Context, category string) (intel.MarketContext, error) {
	now := time.Now()
	txns, err := s.txns.ListByCategory(ctx, nil, category)
	if err != nil {
		return intel.MarketContext{}, fmt.Errorf("list category transactions: %w", err)
	}
	listings, err := s.products.CountActiveByCategory(ctx, nil, category)
	if err != nil {
		return intel.MarketContext{}, fmt.Errorf("count active listings: %w", err)
	}
	activeBuyers, err := s.txns.DistinctBuyersSince(ctx, nil, category, now.AddDate(0, 0, -30))
	if err != nil {
		return intel.MarketContext{}, fmt.Errorf("count active buyers: %w", err)
	}
	history := intel.BuildPriceHistories(txns)[category]
	return intel.BuildMarketContext(category, history, int(listings), int(activeBuyers), now), nil
}
