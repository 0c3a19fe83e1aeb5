package intel

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/botanex/marketplace-backend/internal/types"
)

func TestClassifyRisk(t *testing.T) {
	cases := []struct {
		name  string
		ratio float64
		want  string
	}{
		{"well_within_cadence", 0.5, types.RiskLevelLow},
		{"just_under_expected", 0.99, types.RiskLevelLow},
		{"exactly_expected", 1.0, types.RiskLevelMedium},
		{"slightly_overdue", 1.33, types.RiskLevelMedium},
		{"upper_medium_boundary", 1.5, types.RiskLevelMedium},
		{"just_past_medium", 1.51, types.RiskLevelHigh},
		{"upper_high_boundary", 2.0, types.RiskLevelHigh},
		{"double_overdue", 2.01, types.RiskLevelCritical},
		{"far_gone", 10.0, types.RiskLevelCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyRisk(tc.ratio); got != tc.want {
				t.Fatalf("ClassifyRisk(%v) = %q, want %q", tc.ratio, got, tc.want)
			}
		})
	}
}

func TestRiskScoreCapped(t *testing.T) {
	if got := riskScore(0.5); got != 25 {
		t.Fatalf("riskScore(0.5) = %v, want 25", got)
	}
	if got := riskScore(2.0); got != 100 {
		t.Fatalf("riskScore(2.0) = %v, want 100", got)
	}
	if got := riskScore(7.0); got != 100 {
		t.Fatalf("riskScore(7.0) = %v, want capped at 100", got)
	}
}

// A buyer purchasing Flower on day 0, 30 and 60 has a 30-day cadence. On
// day 75 they are half a cycle in (low risk); on day 100 they are 40 days
// past the last purchase (ratio ~1.33, medium risk).
func TestEvaluateChurnCadenceExample(t *testing.T) {
	buyer := uuid.New()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &PurchaseHistory{
		BuyerID:      buyer,
		CategoryName: "Flower",
		Dates: []time.Time{
			start,
			start.AddDate(0, 0, 30),
			start.AddDate(0, 0, 60),
		},
		Quantities: []float64{10, 10, 10},
		UnitPrices: []float64{5, 5, 5},
	}

	t.Run("day_75_low", func(t *testing.T) {
		evals := EvaluateChurn([]*PurchaseHistory{h}, start.AddDate(0, 0, 75))
		if len(evals) != 2 {
			t.Fatalf("expected category + overall evals, got %d", len(evals))
		}
		cat := evals[0]
		if cat.CategoryName == nil || *cat.CategoryName != "Flower" {
			t.Fatalf("first eval should be the Flower category, got %+v", cat)
		}
		if cat.RiskLevel != types.RiskLevelLow {
			t.Fatalf("risk level = %q, want low", cat.RiskLevel)
		}
		if math.Abs(cat.RiskScore-25) > 1e-9 {
			t.Fatalf("risk score = %v, want 25", cat.RiskScore)
		}
		if cat.DaysSincePurchase != 15 {
			t.Fatalf("days since purchase = %d, want 15", cat.DaysSincePurchase)
		}
	})

	t.Run("day_100_medium", func(t *testing.T) {
		evals := EvaluateChurn([]*PurchaseHistory{h}, start.AddDate(0, 0, 100))
		if len(evals) != 2 {
			t.Fatalf("expected category + overall evals, got %d", len(evals))
		}
		cat := evals[0]
		if cat.RiskLevel != types.RiskLevelMedium {
			t.Fatalf("risk level = %q, want medium", cat.RiskLevel)
		}
		wantScore := 40.0 / 30.0 * 50.0
		if math.Abs(cat.RiskScore-wantScore) > 1e-9 {
			t.Fatalf("risk score = %v, want %v", cat.RiskScore, wantScore)
		}
		overall := evals[1]
		if overall.CategoryName != nil {
			t.Fatalf("overall eval should have nil category, got %q", *overall.CategoryName)
		}
		if overall.RiskScore != cat.RiskScore {
			t.Fatalf("overall score %v should match single category score %v", overall.RiskScore, cat.RiskScore)
		}
	})
}

func TestEvaluateChurnRiskMonotonicInElapsedTime(t *testing.T) {
	buyer := uuid.New()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &PurchaseHistory{
		BuyerID:      buyer,
		CategoryName: "Edibles",
		Dates:        []time.Time{start, start.AddDate(0, 0, 20), start.AddDate(0, 0, 40)},
	}

	prev := -1.0
	for days := 41; days <= 160; days += 7 {
		evals := EvaluateChurn([]*PurchaseHistory{h}, start.AddDate(0, 0, days))
		if len(evals) == 0 {
			t.Fatalf("expected evals at day %d", days)
		}
		score := evals[0].RiskScore
		if score < prev {
			t.Fatalf("risk score decreased from %v to %v at day %d", prev, score, days)
		}
		prev = score
	}
}

func TestEvaluateChurnNeedsTwoPurchases(t *testing.T) {
	buyer := uuid.New()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	single := &PurchaseHistory{
		BuyerID:      buyer,
		CategoryName: "Flower",
		Dates:        []time.Time{now.AddDate(0, 0, -200)},
	}
	if evals := EvaluateChurn([]*PurchaseHistory{single}, now); len(evals) != 0 {
		t.Fatalf("single purchase should emit no signal, got %d", len(evals))
	}

	double := &PurchaseHistory{
		BuyerID:      buyer,
		CategoryName: "Flower",
		Dates:        []time.Time{now.AddDate(0, 0, -230), now.AddDate(0, 0, -200)},
	}
	evals := EvaluateChurn([]*PurchaseHistory{double}, now)
	if len(evals) != 2 {
		t.Fatalf("two purchases should emit category + overall, got %d", len(evals))
	}
	if evals[0].RiskLevel != types.RiskLevelCritical {
		t.Fatalf("200 days past a 30-day cadence should be critical, got %q", evals[0].RiskLevel)
	}
}

func TestEvaluateChurnOverallTakesWorstCategory(t *testing.T) {
	buyer := uuid.New()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	healthy := &PurchaseHistory{
		BuyerID:      buyer,
		CategoryName: "Flower",
		Dates:        []time.Time{now.AddDate(0, 0, -70), now.AddDate(0, 0, -40), now.AddDate(0, 0, -10)},
	}
	lapsed := &PurchaseHistory{
		BuyerID:      buyer,
		CategoryName: "Concentrates",
		Dates:        []time.Time{now.AddDate(0, 0, -110), now.AddDate(0, 0, -90), now.AddDate(0, 0, -70)},
	}

	evals := EvaluateChurn([]*PurchaseHistory{healthy, lapsed}, now)
	if len(evals) != 3 {
		t.Fatalf("expected 2 category evals + overall, got %d", len(evals))
	}
	overall := evals[len(evals)-1]
	if overall.CategoryName != nil {
		t.Fatalf("last eval should be the overall signal")
	}
	if overall.RiskLevel != types.RiskLevelCritical {
		t.Fatalf("overall should take the worst category (critical), got %q", overall.RiskLevel)
	}
	if overall.DaysSincePurchase != 70 {
		t.Fatalf("overall days since = %d, want the lapsed category's 70", overall.DaysSincePurchase)
	}
}
