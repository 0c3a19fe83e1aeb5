package intel

import (
	"math"
	"time"
)

// neutralMidpoint is the score a factor reports when it has no underlying
// data. Missing data carries no penalty and no boost; the factor still
// participates in the weighted sum like any other.
const neutralMidpoint = 50.0

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

// priceDecay scores a price against a reference: at or below reference is a
// perfect fit, above it loses two points per percent over.
func priceDecay(price, reference float64) float64 {
	if reference <= 0 {
		return neutralMidpoint
	}
	delta := (price - reference) / reference
	if delta <= 0 {
		return 100
	}
	return clamp(100-delta*200, 0, 100)
}

// factorCategoryAffinity is the share of the buyer's purchases that fall in
// the product's category.
func factorCategoryAffinity(histories []*PurchaseHistory, category string) float64 {
	total := 0
	inCategory := 0
	for _, h := range histories {
		total += len(h.Dates)
		if h.CategoryName == category {
			inCategory += len(h.Dates)
		}
	}
	if total == 0 {
		return neutralMidpoint
	}
	return clamp(float64(inCategory)/float64(total)*100, 0, 100)
}

// factorPriceFit compares the product's price to what the buyer has
// historically paid in the category.
func factorPriceFit(categoryHistory *PurchaseHistory, unitPrice float64) float64 {
	if categoryHistory == nil {
		return neutralMidpoint
	}
	avg, ok := categoryHistory.AvgUnitPrice()
	if !ok {
		return neutralMidpoint
	}
	return priceDecay(unitPrice, avg)
}

func factorLocationFit(buyerRegion, sellerRegion string) float64 {
	if buyerRegion == "" || sellerRegion == "" {
		return neutralMidpoint
	}
	if buyerRegion == sellerRegion {
		return 100
	}
	return 30
}

// factorRelationshipHistory rewards prior trades between this buyer and the
// product's seller. No prior trades reads as unknown, not as a bad fit.
func factorRelationshipHistory(priorTransactions int) float64 {
	if priorTransactions <= 0 {
		return neutralMidpoint
	}
	return clamp(50+float64(priorTransactions)*10, 0, 100)
}

// factorReorderTiming peaks when the buyer's predicted reorder window for the
// category is now, and falls off as the product is offered too early or the
// buyer is long overdue.
func factorReorderTiming(categoryHistory *PurchaseHistory, now time.Time) float64 {
	if categoryHistory == nil {
		return neutralMidpoint
	}
	avg, ok := categoryHistory.AvgIntervalDays()
	if !ok || avg <= 0 {
		return neutralMidpoint
	}
	last, _ := categoryHistory.LastPurchase()
	daysSince := now.Sub(last).Hours() / 24
	return clamp(100-math.Abs(avg-daysSince)/avg*100, 0, 100)
}

// factorQuantityFit compares the buyer's typical order size in the category
// to the product's lot size.
func factorQuantityFit(categoryHistory *PurchaseHistory, lotSize float64) float64 {
	if categoryHistory == nil || lotSize <= 0 {
		return neutralMidpoint
	}
	avgQty, ok := categoryHistory.AvgQuantity()
	if !ok {
		return neutralMidpoint
	}
	return clamp(avgQty/lotSize*100, 0, 100)
}

// factorSellerReliability reads the seller's scorecard straight through; an
// unscored seller is unknown, not unreliable.
func factorSellerReliability(overallScore *float64) float64 {
	if overallScore == nil {
		return neutralMidpoint
	}
	return clamp(*overallScore, 0, 100)
}

func factorPriceVsMarket(unitPrice float64, market *MarketContext) float64 {
	if market == nil || market.AvgPrice30d <= 0 {
		return neutralMidpoint
	}
	return priceDecay(unitPrice, market.AvgPrice30d)
}

func factorSupplyDemand(market *MarketContext) float64 {
	if market == nil {
		return neutralMidpoint
	}
	switch market.Assessment {
	case AssessmentHighDemand:
		return 85
	case AssessmentOversupply:
		return 35
	default:
		return 60
	}
}

// factorBuyerPropensity scores overall recent purchase activity across all
// categories, over a trailing 90 day window.
func factorBuyerPropensity(histories []*PurchaseHistory, now time.Time) float64 {
	total := 0
	recent := 0
	cutoff := now.AddDate(0, 0, -90)
	for _, h := range histories {
		total += len(h.Dates)
		for _, d := range h.Dates {
			if d.After(cutoff) {
				recent++
			}
		}
	}
	if total == 0 {
		return neutralMidpoint
	}
	return clamp(float64(recent)*12.5, 0, 100)
}
