package intel

import (
	"time"

	"github.com/google/uuid"
)

// reorderMinPurchases mirrors the churn threshold: one purchase tells us
// nothing about cadence.
const reorderMinPurchases = 2

// Prediction forecasts the next purchase for one (buyer, category).
type Prediction struct {
	BuyerID             uuid.UUID
	CategoryName        string
	PredictedDate       time.Time
	ConfidenceScore     float64
	AvgIntervalDays     float64
	BasedOnTransactions int
}

// Confidence grows with sample count and shrinks with interval irregularity
// (coefficient of variation). Bounded to [0,1], monotonic in both directions.
func Confidence(transactionCount int, coefficientOfVariation float64) float64 {
	if transactionCount < reorderMinPurchases {
		return 0
	}
	baseline := 0.35 + 0.55*(1-1/float64(transactionCount))
	damping := 0.5 * coefficientOfVariation
	return clamp01(baseline - damping)
}

// BuildPrediction computes the forecast for one history, or ok=false when the
// history is below the minimum sample.
func BuildPrediction(h *PurchaseHistory) (Prediction, bool) {
	if h == nil || len(h.Dates) < reorderMinPurchases {
		return Prediction{}, false
	}
	avg, ok := h.AvgIntervalDays()
	if !ok || avg <= 0 {
		return Prediction{}, false
	}
	last, _ := h.LastPurchase()
	cv := h.StdDevIntervalDays() / avg
	return Prediction{
		BuyerID:             h.BuyerID,
		CategoryName:        h.CategoryName,
		PredictedDate:       last.Add(time.Duration(avg * 24 * float64(time.Hour))),
		ConfidenceScore:     Confidence(len(h.Dates), cv),
		AvgIntervalDays:     avg,
		BasedOnTransactions: len(h.Dates),
	}, true
}

// BuildPredictions runs BuildPrediction across a buyer's histories.
func BuildPredictions(histories []*PurchaseHistory) []Prediction {
	var out []Prediction
	for _, h := range histories {
		if p, ok := BuildPrediction(h); ok {
			out = append(out, p)
		}
	}
	return out
}
