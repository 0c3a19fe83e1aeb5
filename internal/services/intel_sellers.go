package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/botanex/marketplace-backend/internal/intel"
	"github.com/botanex/marketplace-backend/internal/types"
)

// RecalculateSellerScores rebuilds the scorecard for every seller with at
// least one outcome-recorded delivered transaction. Sellers with none are
// skipped entirely: no row, rather than a zero row.
func (s *intelService) RecalculateSellerScores(ctx context.Context) (SellerRunResult, error) {
	result := SellerRunResult{}
	counts, skipped, err := s.coord.RunExclusive(ctx, types.JobKindSellerScoring, func(ctx context.Context) (RunCounts, error) {
		return s.recalculateSellers(ctx, &result)
	})
	result.Errors = counts.Errors
	result.Skipped = skipped
	return result, err
}

func (s *intelService) recalculateSellers(ctx context.Context, result *SellerRunResult) (RunCounts, error) {
	now := time.Now()
	counts := RunCounts{}

	txns, err := s.txns.ListAll(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("list transactions: %w", err)
	}
	outcomes := intel.BuildDeliveryOutcomes(txns)
	prices := intel.BuildPriceHistories(txns)

	// 30d market average per category feeds the pricing sub-score.
	marketAvg := map[string]float64{}
	for category, history := range prices {
		mc := intel.BuildMarketContext(category, history, 0, 0, now)
		if mc.AvgPrice30d > 0 {
			marketAvg[category] = mc.AvgPrice30d
		}
	}

	for sellerID, out := range outcomes {
		scorecard, ok := intel.ScoreSeller(out, marketAvg, s.scorecardWeights, now)
		if !ok {
			continue
		}
		row := &types.SellerScore{
			SellerID:           scorecard.SellerID,
			FillRate:           scorecard.FillRate,
			QualityScore:       scorecard.QualityScore,
			DeliveryScore:      scorecard.DeliveryScore,
			PricingScore:       scorecard.PricingScore,
			OverallScore:       scorecard.OverallScore,
			TransactionsScored: scorecard.TransactionsScored,
			ComputedAt:         now,
		}
		if err := s.scores.Upsert(ctx, nil, row); err != nil {
			s.log.Warn("Failed to upsert seller score", "seller_id", sellerID, "error", err)
			counts.Errors++
			continue
		}
		result.SellersUpdated++
		counts.Processed++
	}
	return counts, nil
}

func (s *intelService) GetSellerScore(ctx context.Context, sellerID uuid.UUID) (*types.SellerScore, error) {
	score, err := s.scores.GetBySellerID(ctx, nil, sellerID)
	if err != nil {
		return nil, err
	}
	if score == nil {
		return nil, ErrNotFound
	}
	return score, nil
}
