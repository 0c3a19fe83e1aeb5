package intel

import (
	"time"
)

const (
	AssessmentOversupply = "oversupply"
	AssessmentBalanced   = "balanced"
	AssessmentHighDemand = "high_demand"
)

// Supply/demand thresholds: listings per recently active buyer.
const (
	oversupplyRatio = 1.5
	highDemandRatio = 0.5
)

// MarketContext is a per-category rolling snapshot. It is computed on read
// and never persisted.
type MarketContext struct {
	CategoryName       string    `json:"category_name"`
	AvgPrice7d         float64   `json:"avg_price_7d"`
	MinPrice7d         float64   `json:"min_price_7d"`
	MaxPrice7d         float64   `json:"max_price_7d"`
	PctChange7d        float64   `json:"pct_change_7d"`
	AvgPrice30d        float64   `json:"avg_price_30d"`
	MinPrice30d        float64   `json:"min_price_30d"`
	MaxPrice30d        float64   `json:"max_price_30d"`
	PctChange30d       float64   `json:"pct_change_30d"`
	TransactionCount   int       `json:"transaction_count"`
	TotalVolume        float64   `json:"total_volume"`
	ActiveListings     int       `json:"active_listings"`
	ActiveBuyers       int       `json:"active_buyers"`
	SupplyDemandRatio  float64   `json:"supply_demand_ratio"`
	Assessment         string    `json:"assessment"`
	ComputedAt         time.Time `json:"computed_at"`
}

type windowStats struct {
	avg, min, max, pctChange float64
	count                    int
	volume                   float64
}

func statsInWindow(points []PricePoint, from, to time.Time) windowStats {
	var s windowStats
	var first, last float64
	for _, p := range points {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		if s.count == 0 {
			s.min, s.max = p.UnitPrice, p.UnitPrice
			first = p.UnitPrice
		}
		if p.UnitPrice < s.min {
			s.min = p.UnitPrice
		}
		if p.UnitPrice > s.max {
			s.max = p.UnitPrice
		}
		s.avg += p.UnitPrice
		s.volume += p.Quantity
		last = p.UnitPrice
		s.count++
	}
	if s.count > 0 {
		s.avg /= float64(s.count)
		if first > 0 {
			s.pctChange = (last - first) / first * 100
		}
	}
	return s
}

// BuildMarketContext computes the rolling snapshot for one category.
// activeListings and activeBuyers come from the caller's product/buyer scope
// (active products in the category, distinct buyers trading it in the last 30
// days).
func BuildMarketContext(category string, history *PriceHistory, activeListings, activeBuyers int, now time.Time) MarketContext {
	var points []PricePoint
	if history != nil {
		points = history.Points
	}
	w7 := statsInWindow(points, now.AddDate(0, 0, -7), now)
	w30 := statsInWindow(points, now.AddDate(0, 0, -30), now)

	ratio := float64(activeListings) / float64(maxInt(1, activeBuyers))
	assessment := AssessmentBalanced
	switch {
	case ratio > oversupplyRatio:
		assessment = AssessmentOversupply
	case ratio < highDemandRatio:
		assessment = AssessmentHighDemand
	}

	return MarketContext{
		CategoryName:      category,
		AvgPrice7d:        w7.avg,
		MinPrice7d:        w7.min,
		MaxPrice7d:        w7.max,
		PctChange7d:       w7.pctChange,
		AvgPrice30d:       w30.avg,
		MinPrice30d:       w30.min,
		MaxPrice30d:       w30.max,
		PctChange30d:      w30.pctChange,
		TransactionCount:  w30.count,
		TotalVolume:       w30.volume,
		ActiveListings:    activeListings,
		ActiveBuyers:      activeBuyers,
		SupplyDemandRatio: ratio,
		Assessment:        assessment,
		ComputedAt:        now,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
