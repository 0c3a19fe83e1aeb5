package intel

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBuildMarketContextAssessment(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		listings int
		buyers   int
		want     string
	}{
		{"oversupply", 20, 10, AssessmentOversupply},
		{"balanced_upper", 15, 10, AssessmentBalanced},
		{"balanced_lower", 5, 10, AssessmentBalanced},
		{"high_demand", 4, 10, AssessmentHighDemand},
		{"no_buyers_counts_as_one", 2, 0, AssessmentOversupply},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mc := BuildMarketContext("Flower", nil, tc.listings, tc.buyers, now)
			if mc.Assessment != tc.want {
				t.Fatalf("assessment = %q, want %q (ratio %v)", mc.Assessment, tc.want, mc.SupplyDemandRatio)
			}
		})
	}
}

func TestBuildMarketContextWindows(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	buyer := uuid.New()
	history := &PriceHistory{
		CategoryName: "Flower",
		Points: []PricePoint{
			{Date: now.AddDate(0, 0, -40), UnitPrice: 9, Quantity: 100, BuyerID: buyer},  // outside both windows
			{Date: now.AddDate(0, 0, -20), UnitPrice: 10, Quantity: 50, BuyerID: buyer},  // 30d only
			{Date: now.AddDate(0, 0, -5), UnitPrice: 12, Quantity: 30, BuyerID: buyer},   // both
			{Date: now.AddDate(0, 0, -2), UnitPrice: 14, Quantity: 20, BuyerID: buyer},   // both
		},
	}

	mc := BuildMarketContext("Flower", history, 10, 10, now)

	if mc.TransactionCount != 3 {
		t.Fatalf("30d transaction count = %d, want 3", mc.TransactionCount)
	}
	if mc.TotalVolume != 100 {
		t.Fatalf("30d volume = %v, want 100", mc.TotalVolume)
	}
	if mc.AvgPrice30d != 12 {
		t.Fatalf("30d avg = %v, want 12", mc.AvgPrice30d)
	}
	if mc.MinPrice30d != 10 || mc.MaxPrice30d != 14 {
		t.Fatalf("30d min/max = %v/%v, want 10/14", mc.MinPrice30d, mc.MaxPrice30d)
	}
	if math.Abs(mc.PctChange30d-40) > 1e-9 {
		t.Fatalf("30d pct change = %v, want 40 (10 -> 14)", mc.PctChange30d)
	}
	if mc.AvgPrice7d != 13 {
		t.Fatalf("7d avg = %v, want 13", mc.AvgPrice7d)
	}
	if mc.MinPrice7d != 12 || mc.MaxPrice7d != 14 {
		t.Fatalf("7d min/max = %v/%v, want 12/14", mc.MinPrice7d, mc.MaxPrice7d)
	}
	if !mc.ComputedAt.Equal(now) {
		t.Fatalf("computed at = %v, want %v", mc.ComputedAt, now)
	}
}

func TestBuildMarketContextEmptyHistory(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	mc := BuildMarketContext("Concentrates", nil, 3, 8, now)
	if mc.TransactionCount != 0 || mc.TotalVolume != 0 {
		t.Fatalf("empty history should produce zero counts, got %+v", mc)
	}
	if mc.AvgPrice7d != 0 || mc.AvgPrice30d != 0 {
		t.Fatalf("empty history should produce zero averages, got %+v", mc)
	}
	if mc.CategoryName != "Concentrates" {
		t.Fatalf("category = %q", mc.CategoryName)
	}
}
