package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/botanex/marketplace-backend/internal/intel"
	"github.com/botanex/marketplace-backend/internal/repos"
	"github.com/botanex/marketplace-backend/internal/types"
)

// GenerateMatches scores every eligible active-buyer x active-product pair,
// or a single product's pairs when productID is set. Per-buyer scoring fans
// out; the upsert at the end is the serialization point.
func (s *intelService) GenerateMatches(ctx context.Context, productID *uuid.UUID) (MatchRunResult, error) {
	result := MatchRunResult{}
	counts, skipped, err := s.coord.RunExclusive(ctx, types.JobKindMatchGeneration, func(ctx context.Context) (RunCounts, error) {
		return s.generateMatches(ctx, productID, &result)
	})
	result.Errors = counts.Errors
	result.Skipped = skipped
	return result, err
}

func (s *intelService) generateMatches(ctx context.Context, productID *uuid.UUID, result *MatchRunResult) (RunCounts, error) {
	now := time.Now()
	counts := RunCounts{}

	var products []*types.Product
	if productID != nil {
		p, err := s.products.GetByID(ctx, nil, *productID)
		if err != nil {
			return counts, fmt.Errorf("load product: %w", err)
		}
		if p != nil && p.IsActive {
			products = append(products, p)
		}
	} else {
		var err error
		products, err = s.products.ListActive(ctx, nil)
		if err != nil {
			return counts, fmt.Errorf("list active products: %w", err)
		}
	}
	result.ProductsScanned = len(products)
	if len(products) == 0 {
		return counts, nil
	}

	buyers, err := s.buyers.ListActive(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("list active buyers: %w", err)
	}
	txns, err := s.txns.ListAll(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("list transactions: %w", err)
	}
	sellerRows, err := s.sellers.ListAll(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("list sellers: %w", err)
	}
	scoreRows, err := s.scores.ListAll(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("list seller scores: %w", err)
	}

	histories := intel.BuildPurchaseHistories(txns)
	prices := intel.BuildPriceHistories(txns)
	relationships := countRelationships(txns)

	sellerRegions := map[uuid.UUID]string{}
	for _, sl := range sellerRows {
		sellerRegions[sl.ID] = sl.Region
	}
	sellerScores := map[uuid.UUID]float64{}
	for _, sc := range scoreRows {
		sellerScores[sc.SellerID] = sc.OverallScore
	}

	markets := map[string]*intel.MarketContext{}
	for _, p := range products {
		if _, done := markets[p.CategoryName]; done {
			continue
		}
		mc, err := s.buildMarketContext(ctx, p.CategoryName, prices[p.CategoryName], now)
		if err != nil {
			s.log.Warn("Market context aggregation failed, scoring without it", "category", p.CategoryName, "error", err)
			counts.Errors++
			markets[p.CategoryName] = nil
			continue
		}
		markets[p.CategoryName] = mc
	}

	var (
		mu   sync.Mutex
		rows []*types.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	var errMu sync.Mutex

	for _, buyer := range buyers {
		buyer := buyer
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("Match scoring panic", "buyer_id", buyer.ID, "panic", r)
					errMu.Lock()
					counts.Errors++
					errMu.Unlock()
				}
			}()
			if gctx.Err() != nil {
				return nil
			}
			buyerRows := make([]*types.Match, 0, len(products))
			for _, p := range products {
				score, breakdown, insights := intel.ScoreMatch(intel.MatchInput{
					Buyer:                    buyer,
					Product:                  p,
					SellerRegion:             sellerRegions[p.SellerID],
					BuyerHistories:           histories[buyer.ID],
					RelationshipTransactions: relationships[buyer.ID][p.SellerID],
					SellerOverallScore:       lookupScore(sellerScores, p.SellerID),
					Market:                   markets[p.CategoryName],
					Now:                      now,
				}, s.weights)
				row, err := buildMatchRow(buyer.ID, p.ID, score, breakdown, insights, now)
				if err != nil {
					s.log.Warn("Failed to encode match row", "buyer_id", buyer.ID, "product_id", p.ID, "error", err)
					errMu.Lock()
					counts.Errors++
					errMu.Unlock()
					continue
				}
				buyerRows = append(buyerRows, row)
			}
			mu.Lock()
			rows = append(rows, buyerRows...)
			mu.Unlock()
			errMu.Lock()
			counts.Processed++
			errMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return counts, err
	}

	if err := s.matches.UpsertScores(ctx, nil, rows); err != nil {
		return counts, fmt.Errorf("upsert matches: %w", err)
	}
	result.MatchesGenerated = len(rows)
	return counts, nil
}

func buildMatchRow(buyerID, productID uuid.UUID, score float64, breakdown map[string]float64, insights []intel.Insight, now time.Time) (*types.Match, error) {
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return nil, err
	}
	if insights == nil {
		insights = []intel.Insight{}
	}
	insightsJSON, err := json.Marshal(insights)
	if err != nil {
		return nil, err
	}
	return &types.Match{
		BuyerID:    buyerID,
		ProductID:  productID,
		Score:      score,
		Breakdown:  datatypes.JSON(breakdownJSON),
		Insights:   datatypes.JSON(insightsJSON),
		Status:     types.MatchStatusPending,
		ComputedAt: now,
	}, nil
}

// countRelationships tallies prior non-cancelled trades per buyer x seller.
func countRelationships(txns []*types.Transaction) map[uuid.UUID]map[uuid.UUID]int {
	out := map[uuid.UUID]map[uuid.UUID]int{}
	for _, t := range txns {
		if t == nil || t.Status == types.TransactionStatusCancelled {
			continue
		}
		m, ok := out[t.BuyerID]
		if !ok {
			m = map[uuid.UUID]int{}
			out[t.BuyerID] = m
		}
		m[t.SellerID]++
	}
	return out
}

func lookupScore(scores map[uuid.UUID]float64, sellerID uuid.UUID) *float64 {
	if v, ok := scores[sellerID]; ok {
		return &v
	}
	return nil
}

func (s *intelService) buildMarketContext(ctx context.Context, category string, history *intel.PriceHistory, now time.Time) (*intel.MarketContext, error) {
	listings, err := s.products.CountActiveByCategory(ctx, nil, category)
	if err != nil {
		return nil, err
	}
	activeBuyers, err := s.txns.DistinctBuyersSince(ctx, nil, category, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	mc := intel.BuildMarketContext(category, history, int(listings), int(activeBuyers), now)
	return &mc, nil
}

func (s *intelService) GetMatches(ctx context.Context, filter repos.MatchFilter) ([]*types.Match, int64, error) {
	return s.matches.List(ctx, nil, filter)
}

// DismissMatch is the buyer-side rejection; the next generation run keeps
// this status untouched.
func (s *intelService) DismissMatch(ctx context.Context, id uuid.UUID) error {
	affected, err := s.matches.UpdateStatus(ctx, nil, id, types.MatchStatusRejected)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
