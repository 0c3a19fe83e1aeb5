package services

import (
	"context"
	"fmt"

	"github.com/botanex/marketplace-backend/internal/types"
)

// IntelDashboard is the read-only composite the summary screen renders.
type IntelDashboard struct {
	MatchCounts         map[string]int64          `json:"match_counts"`
	AtRiskBuyers        map[string]int64          `json:"at_risk_buyers"`
	UpcomingPredictions int64                     `json:"upcoming_predictions_7d"`
	AvgSellerScore      float64                   `json:"avg_seller_score"`
	LastRuns            map[string]*types.IntelRun `json:"last_runs"`
}

func (s *intelService) GetDashboard(ctx context.Context) (*IntelDashboard, error) {
	dash := &IntelDashboard{
		MatchCounts:  map[string]int64{},
		AtRiskBuyers: map[string]int64{},
		LastRuns:     map[string]*types.IntelRun{},
	}

	for _, status := range []string{
		types.MatchStatusPending,
		types.MatchStatusViewed,
		types.MatchStatusConverted,
		types.MatchStatusRejected,
	} {
		count, err := s.matches.CountByStatus(ctx, nil, status)
		if err != nil {
			return nil, fmt.Errorf("count matches %s: %w", status, err)
		}
		dash.MatchCounts[status] = count
	}

	atRisk, err := s.signals.CountActiveByLevel(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count at-risk buyers: %w", err)
	}
	dash.AtRiskBuyers = atRisk

	upcoming, err := s.predictions.CountUpcoming(ctx, nil, 7)
	if err != nil {
		return nil, fmt.Errorf("count upcoming predictions: %w", err)
	}
	dash.UpcomingPredictions = upcoming

	avg, err := s.scores.AvgOverall(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("average seller score: %w", err)
	}
	dash.AvgSellerScore = avg

	for _, kind := range []string{
		types.JobKindMatchGeneration,
		types.JobKindChurnDetection,
		types.JobKindReorderPrediction,
		types.JobKindSellerScoring,
	} {
		run, err := s.runs.LatestByKind(ctx, nil, kind)
		if err != nil {
			return nil, fmt.Errorf("latest run %s: %w", kind, err)
		}
		dash.LastRuns[kind] = run
	}
	return dash, nil
}
