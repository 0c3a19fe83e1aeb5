package intel

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrBool(v bool) *bool        { return &v }

func perfectOutcome(date time.Time) DeliveryOutcome {
	return DeliveryOutcome{
		Date:              date,
		CategoryName:      "Flower",
		OrderedQuantity:   100,
		PricePerUnit:      10,
		DeliveredQuantity: ptrFloat(100),
		OnTime:            ptrBool(true),
		QualityAsExpected: ptrBool(true),
	}
}

func TestScoreSellerPerfectRecord(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	out := &DeliveryOutcomes{
		SellerID: uuid.New(),
		Outcomes: []DeliveryOutcome{
			perfectOutcome(now.AddDate(0, 0, -20)),
			perfectOutcome(now.AddDate(0, 0, -10)),
			perfectOutcome(now.AddDate(0, 0, -5)),
		},
	}
	marketAvg := map[string]float64{"Flower": 10}

	sc, ok := ScoreSeller(out, marketAvg, DefaultScorecardWeights(), now)
	if !ok {
		t.Fatal("expected a scorecard")
	}
	if sc.OverallScore != 100 {
		t.Fatalf("overall = %v, want 100 for a flawless record", sc.OverallScore)
	}
	if sc.FillRate != 100 || sc.QualityScore != 100 || sc.DeliveryScore != 100 || sc.PricingScore != 100 {
		t.Fatalf("sub-scores = %+v, want all 100", sc)
	}
	if sc.TransactionsScored != 3 {
		t.Fatalf("transactions scored = %d, want 3", sc.TransactionsScored)
	}
}

func TestScoreSellerPartialOnTime(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	late := perfectOutcome(now.AddDate(0, 0, -3))
	late.OnTime = ptrBool(false)
	out := &DeliveryOutcomes{
		SellerID: uuid.New(),
		Outcomes: []DeliveryOutcome{
			perfectOutcome(now.AddDate(0, 0, -20)),
			perfectOutcome(now.AddDate(0, 0, -10)),
			late,
		},
	}
	marketAvg := map[string]float64{"Flower": 10}

	sc, ok := ScoreSeller(out, marketAvg, DefaultScorecardWeights(), now)
	if !ok {
		t.Fatal("expected a scorecard")
	}
	if math.Abs(sc.DeliveryScore-200.0/3.0) > 0.01 {
		t.Fatalf("delivery score = %v, want ~66.67 for 2 of 3 on time", sc.DeliveryScore)
	}
	if sc.QualityScore != 100 {
		t.Fatalf("quality score = %v, want 100", sc.QualityScore)
	}
	if sc.OverallScore >= 100 {
		t.Fatalf("overall = %v, should drop below 100 with one late delivery", sc.OverallScore)
	}
}

func TestScoreSellerMissingFieldsFallToMidpoint(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	out := &DeliveryOutcomes{
		SellerID: uuid.New(),
		Outcomes: []DeliveryOutcome{
			{
				Date:            now.AddDate(0, 0, -7),
				CategoryName:    "Flower",
				OrderedQuantity: 50,
				PricePerUnit:    10,
				OnTime:          ptrBool(true),
				// quantity and quality never recorded
			},
		},
	}

	sc, ok := ScoreSeller(out, nil, DefaultScorecardWeights(), now)
	if !ok {
		t.Fatal("expected a scorecard")
	}
	if sc.FillRate != neutralMidpoint {
		t.Fatalf("fill rate = %v, want neutral %v", sc.FillRate, float64(neutralMidpoint))
	}
	if sc.QualityScore != neutralMidpoint {
		t.Fatalf("quality = %v, want neutral %v", sc.QualityScore, float64(neutralMidpoint))
	}
	if sc.PricingScore != neutralMidpoint {
		t.Fatalf("pricing = %v, want neutral without market reference", sc.PricingScore)
	}
	if sc.DeliveryScore != 100 {
		t.Fatalf("delivery = %v, want 100", sc.DeliveryScore)
	}
}

func TestScoreSellerOverDeliveryCappedAtFull(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	over := perfectOutcome(now.AddDate(0, 0, -2))
	over.DeliveredQuantity = ptrFloat(140)
	out := &DeliveryOutcomes{SellerID: uuid.New(), Outcomes: []DeliveryOutcome{over}}

	sc, ok := ScoreSeller(out, map[string]float64{"Flower": 10}, DefaultScorecardWeights(), now)
	if !ok {
		t.Fatal("expected a scorecard")
	}
	if sc.FillRate != 100 {
		t.Fatalf("fill rate = %v, over-delivery should cap at 100", sc.FillRate)
	}
}

func TestScoreSellerNoOutcomesNoCard(t *testing.T) {
	if _, ok := ScoreSeller(nil, nil, DefaultScorecardWeights(), time.Now()); ok {
		t.Fatal("nil outcomes should yield no scorecard")
	}
	empty := &DeliveryOutcomes{SellerID: uuid.New()}
	if _, ok := ScoreSeller(empty, nil, DefaultScorecardWeights(), time.Now()); ok {
		t.Fatal("zero outcomes should yield no scorecard")
	}
}

func TestScoreSellerExpensivePricingPenalized(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	pricey := perfectOutcome(now.AddDate(0, 0, -2))
	pricey.PricePerUnit = 12 // 20% over market
	out := &DeliveryOutcomes{SellerID: uuid.New(), Outcomes: []DeliveryOutcome{pricey}}

	sc, ok := ScoreSeller(out, map[string]float64{"Flower": 10}, DefaultScorecardWeights(), now)
	if !ok {
		t.Fatal("expected a scorecard")
	}
	if sc.PricingScore >= 100 {
		t.Fatalf("pricing = %v, above-market price should score below 100", sc.PricingScore)
	}
	if math.Abs(sc.PricingScore-60) > 1e-6 {
		t.Fatalf("pricing = %v, want 60 at 20%% over market", sc.PricingScore)
	}
}
