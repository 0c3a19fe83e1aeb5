package intel

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/botanex/marketplace-backend/internal/types"
)

// churnMinPurchases is the minimum purchase count before a (buyer, category)
// can produce a churn signal. Below it the buyer is unknown, not safe.
const churnMinPurchases = 2

// ChurnEval is one computed at-risk signal. A nil CategoryName is the buyer's
// overall signal.
type ChurnEval struct {
	BuyerID           uuid.UUID
	CategoryName      *string
	RiskLevel         string
	RiskScore         float64
	DaysSincePurchase int
	AvgIntervalDays   float64
}

// ClassifyRisk maps the elapsed/expected ratio onto the discrete tier.
func ClassifyRisk(ratio float64) string {
	switch {
	case ratio < 1.0:
		return types.RiskLevelLow
	case ratio <= 1.5:
		return types.RiskLevelMedium
	case ratio <= 2.0:
		return types.RiskLevelHigh
	default:
		return types.RiskLevelCritical
	}
}

// riskScore gives a continuous 0-100 score consistent with the tiers: the
// tier boundaries at ratio 1.0/1.5/2.0 land at 50/75/100.
func riskScore(ratio float64) float64 {
	return math.Min(100, ratio*50)
}

// EvaluateChurn computes per-category signals for one buyer's histories plus
// the overall signal, which takes the single worst category rather than an
// average so one severely overdue category is not diluted by the rest.
// Categories with fewer than churnMinPurchases purchases emit nothing.
func EvaluateChurn(histories []*PurchaseHistory, now time.Time) []ChurnEval {
	var out []ChurnEval
	var worst *ChurnEval
	for _, h := range histories {
		if len(h.Dates) < churnMinPurchases {
			continue
		}
		avg, ok := h.AvgIntervalDays()
		if !ok || avg <= 0 {
			continue
		}
		last, _ := h.LastPurchase()
		daysSince := now.Sub(last).Hours() / 24
		if daysSince < 0 {
			daysSince = 0
		}
		ratio := daysSince / avg
		category := h.CategoryName
		eval := ChurnEval{
			BuyerID:           h.BuyerID,
			CategoryName:      &category,
			RiskLevel:         ClassifyRisk(ratio),
			RiskScore:         riskScore(ratio),
			DaysSincePurchase: int(daysSince),
			AvgIntervalDays:   avg,
		}
		out = append(out, eval)
		if worst == nil || eval.RiskScore > worst.RiskScore {
			w := eval
			worst = &w
		}
	}
	if worst != nil {
		overall := *worst
		overall.CategoryName = nil
		out = append(out, overall)
	}
	return out
}
