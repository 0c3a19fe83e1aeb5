package intel

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/botanex/marketplace-backend/internal/types"
)

func testBuyer(region string) *types.Buyer {
	return &types.Buyer{ID: uuid.New(), CompanyName: "Test Dispensary", Region: region, IsActive: true}
}

func testProduct(category string, price, lot float64) *types.Product {
	return &types.Product{
		ID:           uuid.New(),
		SellerID:     uuid.New(),
		CategoryName: category,
		UnitPrice:    price,
		LotSize:      lot,
		IsActive:     true,
	}
}

func TestScoreMatchNoDataIsNeutral(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	in := MatchInput{
		Buyer:   testBuyer(""),
		Product: testProduct("Flower", 10, 100),
		Now:     now,
	}

	score, breakdown, insights := ScoreMatch(in, DefaultMatchWeights())
	if score != 50 {
		t.Fatalf("score with no data = %v, want the neutral 50", score)
	}
	if len(breakdown) != len(FactorNames) {
		t.Fatalf("breakdown has %d factors, want %d", len(breakdown), len(FactorNames))
	}
	for _, name := range FactorNames {
		v, ok := breakdown[name]
		if !ok {
			t.Fatalf("breakdown missing factor %q", name)
		}
		if v != neutralMidpoint {
			t.Fatalf("factor %q = %v, want the neutral midpoint", name, v)
		}
	}
	if len(insights) != 0 {
		t.Fatalf("neutral match should carry no insights, got %v", insights)
	}
}

func TestScoreMatchBounds(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	buyer := testBuyer("CA")
	product := testProduct("Flower", 8, 10)
	strong := &PurchaseHistory{
		BuyerID:      buyer.ID,
		CategoryName: "Flower",
		Dates: []time.Time{
			now.AddDate(0, 0, -90),
			now.AddDate(0, 0, -60),
			now.AddDate(0, 0, -30),
		},
		Quantities: []float64{20, 20, 20},
		UnitPrices: []float64{10, 10, 10},
	}
	reliability := 95.0
	market := BuildMarketContext("Flower", &PriceHistory{
		CategoryName: "Flower",
		Points: []PricePoint{
			{Date: now.AddDate(0, 0, -10), UnitPrice: 10, Quantity: 20, BuyerID: buyer.ID},
		},
	}, 2, 10, now)

	in := MatchInput{
		Buyer:                    buyer,
		Product:                  product,
		SellerRegion:             "CA",
		BuyerHistories:           []*PurchaseHistory{strong},
		RelationshipTransactions: 4,
		SellerOverallScore:       &reliability,
		Market:                   &market,
		Now:                      now,
	}

	score, breakdown, _ := ScoreMatch(in, DefaultMatchWeights())
	if score < 0 || score > 100 {
		t.Fatalf("score %v out of [0,100]", score)
	}
	for name, v := range breakdown {
		if v < 0 || v > 100 {
			t.Fatalf("factor %q = %v out of [0,100]", name, v)
		}
	}
	if score <= 50 {
		t.Fatalf("score %v, strong signals should beat the neutral baseline", score)
	}
}

func TestScoreMatchDeterministic(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	buyer := testBuyer("CA")
	in := MatchInput{
		Buyer:   buyer,
		Product: testProduct("Edibles", 5, 50),
		BuyerHistories: []*PurchaseHistory{{
			BuyerID:      buyer.ID,
			CategoryName: "Edibles",
			Dates:        []time.Time{now.AddDate(0, 0, -40), now.AddDate(0, 0, -20)},
			Quantities:   []float64{30, 40},
			UnitPrices:   []float64{5.5, 5.25},
		}},
		Now: now,
	}
	w := DefaultMatchWeights()

	score1, breakdown1, insights1 := ScoreMatch(in, w)
	score2, breakdown2, insights2 := ScoreMatch(in, w)
	if score1 != score2 {
		t.Fatalf("scores differ across identical inputs: %v vs %v", score1, score2)
	}
	if !reflect.DeepEqual(breakdown1, breakdown2) {
		t.Fatalf("breakdowns differ: %v vs %v", breakdown1, breakdown2)
	}
	if !reflect.DeepEqual(insights1, insights2) {
		t.Fatalf("insights differ: %v vs %v", insights1, insights2)
	}
}

func TestBuildInsightsCapAndOrder(t *testing.T) {
	breakdown := map[string]float64{}
	for _, name := range FactorNames {
		breakdown[name] = 100
	}
	insights := buildInsights(breakdown, "Flower")
	if len(insights) != maxInsightsPerMatch {
		t.Fatalf("got %d insights, want cap of %d", len(insights), maxInsightsPerMatch)
	}

	breakdown = map[string]float64{}
	for _, name := range FactorNames {
		breakdown[name] = 0
	}
	breakdown[FactorCategoryAffinity] = 85
	breakdown[FactorSellerReliability] = 95
	insights = buildInsights(breakdown, "Flower")
	if len(insights) != 2 {
		t.Fatalf("got %d insights, want 2", len(insights))
	}
	if insights[0].Type != InsightReliableSeller {
		t.Fatalf("first insight = %q, want the highest-valued factor first", insights[0].Type)
	}
	if insights[1].Type != InsightCategoryAffinity {
		t.Fatalf("second insight = %q, want category affinity", insights[1].Type)
	}
}

func TestBuildInsightsBelowThresholdEmpty(t *testing.T) {
	breakdown := map[string]float64{}
	for _, name := range FactorNames {
		breakdown[name] = 65
	}
	if got := buildInsights(breakdown, "Flower"); len(got) != 0 {
		t.Fatalf("mid-range factors should produce no insights, got %v", got)
	}
}
