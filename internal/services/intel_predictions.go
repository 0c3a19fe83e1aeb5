package services

import (
	"context"
	"fmt"
	"time"

	"github.com/botanex/marketplace-backend/internal/intel"
	"github.com/botanex/marketplace-backend/internal/types"
)

// RunReorderPrediction forecasts the next purchase for every (buyer,
// category) with enough history. Scoring is pure; the batch upsert at the end
// is the serialization point.
func (s *intelService) RunReorderPrediction(ctx context.Context) (PredictionRunResult, error) {
	result := PredictionRunResult{}
	counts, skipped, err := s.coord.RunExclusive(ctx, types.JobKindReorderPrediction, func(ctx context.Context) (RunCounts, error) {
		return s.predictReorders(ctx, &result)
	})
	result.Errors = counts.Errors
	result.Skipped = skipped
	return result, err
}

func (s *intelService) predictReorders(ctx context.Context, result *PredictionRunResult) (RunCounts, error) {
	now := time.Now()
	counts := RunCounts{}

	txns, err := s.txns.ListAll(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("list transactions: %w", err)
	}
	histories := intel.BuildPurchaseHistories(txns)

	var rows []*types.PredictionRecord
	for _, hs := range histories {
		preds := intel.BuildPredictions(hs)
		for _, p := range preds {
			rows = append(rows, &types.PredictionRecord{
				BuyerID:             p.BuyerID,
				CategoryName:        p.CategoryName,
				PredictedDate:       p.PredictedDate,
				ConfidenceScore:     p.ConfidenceScore,
				AvgIntervalDays:     p.AvgIntervalDays,
				BasedOnTransactions: p.BasedOnTransactions,
				ComputedAt:          now,
			})
		}
		counts.Processed++
	}

	if err := s.predictions.UpsertAll(ctx, nil, rows); err != nil {
		return counts, fmt.Errorf("upsert predictions: %w", err)
	}
	result.PredictionsWritten = len(rows)
	return counts, nil
}

const (
	PredictionTypeUpcoming = "upcoming"
	PredictionTypeOverdue  = "overdue"
)

// GetPredictions returns the live forecasts. The upcoming/overdue split is a
// derived view of predicted_date against now, not a stored field.
func (s *intelService) GetPredictions(ctx context.Context, withinDays int, predictionType string) ([]*types.PredictionRecord, error) {
	if withinDays <= 0 {
		withinDays = 30
	}
	if predictionType == PredictionTypeOverdue {
		return s.predictions.ListOverdue(ctx, nil, 0)
	}
	return s.predictions.ListUpcoming(ctx, nil, withinDays, 0)
}
