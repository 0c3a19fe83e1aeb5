package services

import (
	"context"
	"fmt"
	"time"

	"github.com/botanex/marketplace-backend/internal/intel"
	"github.com/botanex/marketplace-backend/internal/types"
)

// RunChurnDetection evaluates every buyer with purchase history, upserting one
// signal per (buyer, category) plus the overall signal. Per-buyer failures
// are tallied and the batch continues.
func (s *intelService) RunChurnDetection(ctx context.Context) (ChurnRunResult, error) {
	result := ChurnRunResult{}
	counts, skipped, err := s.coord.RunExclusive(ctx, types.JobKindChurnDetection, func(ctx context.Context) (RunCounts, error) {
		return s.detectChurn(ctx, &result)
	})
	result.Errors = counts.Errors
	result.Skipped = skipped
	return result, err
}

func (s *intelService) detectChurn(ctx context.Context, result *ChurnRunResult) (RunCounts, error) {
	now := time.Now()
	counts := RunCounts{}

	txns, err := s.txns.ListAll(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("list transactions: %w", err)
	}
	histories := intel.BuildPurchaseHistories(txns)

	for buyerID, hs := range histories {
		evals := intel.EvaluateChurn(hs, now)
		existing, err := s.signals.ListByBuyer(ctx, nil, buyerID)
		if err != nil {
			s.log.Warn("Failed to load existing churn signals", "buyer_id", buyerID, "error", err)
			counts.Errors++
			continue
		}

		seen := map[string]bool{}
		buyerFailed := false
		for _, eval := range evals {
			seen[categoryKey(eval.CategoryName)] = true
			signal := &types.ChurnSignal{
				BuyerID:           eval.BuyerID,
				CategoryName:      eval.CategoryName,
				RiskLevel:         eval.RiskLevel,
				RiskScore:         eval.RiskScore,
				DaysSincePurchase: eval.DaysSincePurchase,
				AvgIntervalDays:   eval.AvgIntervalDays,
				// A buyer who has purchased within the expected interval is
				// not at risk: the signal row is kept but inactive.
				IsActive:   eval.RiskLevel != types.RiskLevelLow,
				ComputedAt: now,
			}
			created, err := s.signals.Upsert(ctx, nil, signal)
			if err != nil {
				s.log.Warn("Failed to upsert churn signal", "buyer_id", buyerID, "error", err)
				counts.Errors++
				buyerFailed = true
				continue
			}
			if created {
				result.SignalsCreated++
			} else {
				result.SignalsUpdated++
			}
		}

		// Signals whose (buyer, category) no longer produces an evaluation
		// have lost their underlying history; retire them.
		for _, sig := range existing {
			if sig.IsActive && !seen[categoryKey(sig.CategoryName)] {
				if err := s.signals.Deactivate(ctx, nil, sig.ID); err != nil {
					s.log.Warn("Failed to deactivate stale churn signal", "signal_id", sig.ID, "error", err)
					counts.Errors++
					buyerFailed = true
				}
			}
		}
		if !buyerFailed {
			counts.Processed++
		}
	}

	// Buyers whose transactions have since been cancelled or removed drop out
	// of the histories map entirely; their lingering active signals still need
	// retiring.
	activeBuyers, err := s.signals.ListActiveBuyerIDs(ctx, nil)
	if err != nil {
		s.log.Warn("Failed to list buyers with active churn signals", "error", err)
		counts.Errors++
		return counts, nil
	}
	for _, buyerID := range activeBuyers {
		if _, stillTrading := histories[buyerID]; stillTrading {
			continue
		}
		signals, err := s.signals.ListByBuyer(ctx, nil, buyerID)
		if err != nil {
			s.log.Warn("Failed to load churn signals for inactive buyer", "buyer_id", buyerID, "error", err)
			counts.Errors++
			continue
		}
		for _, sig := range signals {
			if !sig.IsActive {
				continue
			}
			if err := s.signals.Deactivate(ctx, nil, sig.ID); err != nil {
				s.log.Warn("Failed to deactivate stale churn signal", "signal_id", sig.ID, "error", err)
				counts.Errors++
			}
		}
	}
	return counts, nil
}

func categoryKey(category *string) string {
	if category == nil {
		return ""
	}
	return *category
}

func (s *intelService) GetAtRiskBuyers(ctx context.Context, minRiskLevel string, limit int) ([]*types.ChurnSignal, error) {
	switch minRiskLevel {
	case types.RiskLevelLow, types.RiskLevelMedium, types.RiskLevelHigh, types.RiskLevelCritical:
	default:
		minRiskLevel = types.RiskLevelMedium
	}
	return s.signals.ListAtRisk(ctx, nil, minRiskLevel, limit)
}
