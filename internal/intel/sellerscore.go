package intel

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Scorecard weights are fixed policy, not tunable per call. They sum to 1.0
// and are validated by the same startup check as the match weights.
type ScorecardWeights struct {
	FillRate      float64 `yaml:"fill_rate"`
	QualityScore  float64 `yaml:"quality_score"`
	DeliveryScore float64 `yaml:"delivery_score"`
	PricingScore  float64 `yaml:"pricing_score"`
}

func DefaultScorecardWeights() ScorecardWeights {
	return ScorecardWeights{
		FillRate:      0.30,
		QualityScore:  0.25,
		DeliveryScore: 0.25,
		PricingScore:  0.20,
	}
}

func (w ScorecardWeights) Validate() error {
	sum := w.FillRate + w.QualityScore + w.DeliveryScore + w.PricingScore
	if math.Abs(sum-1.0) > 1e-9 {
		return ErrInvalidWeights
	}
	return nil
}

// SellerScorecard is the computed reliability score for one seller.
type SellerScorecard struct {
	SellerID           uuid.UUID
	FillRate           float64
	QualityScore       float64
	DeliveryScore      float64
	PricingScore       float64
	OverallScore       float64
	TransactionsScored int
	ComputedAt         time.Time
}

// ScoreSeller folds a seller's delivery outcomes into the four sub-scores and
// the weighted overall. ok is false for sellers with zero outcome-recorded
// transactions: they get no scorecard at all, which keeps "unscored" distinct
// from "scored zero". A sub-score whose underlying field was never recorded
// reports the neutral midpoint.
func ScoreSeller(out *DeliveryOutcomes, marketAvgByCategory map[string]float64, w ScorecardWeights, now time.Time) (SellerScorecard, bool) {
	if out == nil || len(out.Outcomes) == 0 {
		return SellerScorecard{}, false
	}

	fillSum, fillN := 0.0, 0
	qualityHits, qualityN := 0, 0
	onTimeHits, onTimeN := 0, 0
	pricingSum, pricingN := 0.0, 0

	for _, o := range out.Outcomes {
		if o.DeliveredQuantity != nil && o.OrderedQuantity > 0 {
			fillSum += math.Min(1, *o.DeliveredQuantity/o.OrderedQuantity)
			fillN++
		}
		if o.QualityAsExpected != nil {
			qualityN++
			if *o.QualityAsExpected {
				qualityHits++
			}
		}
		if o.OnTime != nil {
			onTimeN++
			if *o.OnTime {
				onTimeHits++
			}
		}
		if avg, ok := marketAvgByCategory[o.CategoryName]; ok && avg > 0 {
			pricingSum += priceDecay(o.PricePerUnit, avg)
			pricingN++
		}
	}

	sc := SellerScorecard{
		SellerID:           out.SellerID,
		FillRate:           neutralMidpoint,
		QualityScore:       neutralMidpoint,
		DeliveryScore:      neutralMidpoint,
		PricingScore:       neutralMidpoint,
		TransactionsScored: len(out.Outcomes),
		ComputedAt:         now,
	}
	if fillN > 0 {
		sc.FillRate = fillSum / float64(fillN) * 100
	}
	if qualityN > 0 {
		sc.QualityScore = float64(qualityHits) / float64(qualityN) * 100
	}
	if onTimeN > 0 {
		sc.DeliveryScore = float64(onTimeHits) / float64(onTimeN) * 100
	}
	if pricingN > 0 {
		sc.PricingScore = pricingSum / float64(pricingN)
	}
	sc.OverallScore = clamp(
		w.FillRate*sc.FillRate+
			w.QualityScore*sc.QualityScore+
			w.DeliveryScore*sc.DeliveryScore+
			w.PricingScore*sc.PricingScore,
		0, 100)
	return sc, true
}
