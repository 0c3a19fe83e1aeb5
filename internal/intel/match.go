package intel

import (
	"sort"
	"time"

	"github.com/botanex/marketplace-backend/internal/types"
)

const (
	InsightCategoryAffinity  = "category_affinity"
	InsightReorderDue        = "reorder_due"
	InsightPriceFit          = "price_fit"
	InsightReliableSeller    = "reliable_seller"
	InsightCompetitivePrice  = "competitive_price"
	InsightHighDemand        = "high_demand"
	InsightKnownRelationship = "known_relationship"
)

// maxInsightsPerMatch caps how many qualitative insights a match carries.
const maxInsightsPerMatch = 3

type Insight struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// MatchInput carries everything the scorer needs for one buyer x product
// pair. Nil members mean the corresponding signal has no underlying data.
type MatchInput struct {
	Buyer          *types.Buyer
	Product        *types.Product
	SellerRegion   string
	BuyerHistories []*PurchaseHistory
	// RelationshipTransactions counts prior non-cancelled trades between the
	// buyer and the product's seller.
	RelationshipTransactions int
	SellerOverallScore       *float64
	Market                   *MarketContext
	Now                      time.Time
}

// ScoreMatch computes the ten-factor breakdown, the weighted composite score
// and the qualitative insights for one pair. The breakdown always contains
// every factor key; a factor with no data reports the neutral midpoint.
func ScoreMatch(in MatchInput, w MatchWeights) (float64, map[string]float64, []Insight) {
	var categoryHistory *PurchaseHistory
	for _, h := range in.BuyerHistories {
		if h.CategoryName == in.Product.CategoryName {
			categoryHistory = h
			break
		}
	}

	breakdown := map[string]float64{
		FactorCategoryAffinity:    factorCategoryAffinity(in.BuyerHistories, in.Product.CategoryName),
		FactorPriceFit:            factorPriceFit(categoryHistory, in.Product.UnitPrice),
		FactorLocationFit:         factorLocationFit(in.Buyer.Region, in.SellerRegion),
		FactorRelationshipHistory: factorRelationshipHistory(in.RelationshipTransactions),
		FactorReorderTiming:       factorReorderTiming(categoryHistory, in.Now),
		FactorQuantityFit:         factorQuantityFit(categoryHistory, in.Product.LotSize),
		FactorSellerReliability:   factorSellerReliability(in.SellerOverallScore),
		FactorPriceVsMarket:       factorPriceVsMarket(in.Product.UnitPrice, in.Market),
		FactorSupplyDemand:        factorSupplyDemand(in.Market),
		FactorBuyerPropensity:     factorBuyerPropensity(in.BuyerHistories, in.Now),
	}

	score := w.Composite(breakdown)
	insights := buildInsights(breakdown, in.Product.CategoryName)
	return score, breakdown, insights
}

type insightRule struct {
	factor    string
	threshold float64
	insight   string
	text      func(category string) string
}

var insightRules = []insightRule{
	{FactorCategoryAffinity, 80, InsightCategoryAffinity, func(c string) string {
		return "Buyer purchases " + c + " regularly"
	}},
	{FactorReorderTiming, 80, InsightReorderDue, func(c string) string {
		return "Buyer is due to reorder " + c + " about now"
	}},
	{FactorPriceFit, 80, InsightPriceFit, func(c string) string {
		return "Priced at or below what this buyer typically pays for " + c
	}},
	{FactorSellerReliability, 85, InsightReliableSeller, func(c string) string {
		return "Seller has a strong reliability record"
	}},
	{FactorPriceVsMarket, 80, InsightCompetitivePrice, func(c string) string {
		return "Priced competitively against the " + c + " market"
	}},
	{FactorSupplyDemand, 80, InsightHighDemand, func(c string) string {
		return "Demand for " + c + " currently outpaces supply"
	}},
	{FactorRelationshipHistory, 70, InsightKnownRelationship, func(c string) string {
		return "Buyer has an existing purchase relationship with this seller"
	}},
}

// buildInsights applies the threshold rules, keeping at most
// maxInsightsPerMatch, ordered by descending factor value.
func buildInsights(breakdown map[string]float64, category string) []Insight {
	type scored struct {
		insight Insight
		value   float64
	}
	hits := make([]scored, 0, len(insightRules))
	for _, rule := range insightRules {
		v := breakdown[rule.factor]
		if v >= rule.threshold {
			hits = append(hits, scored{
				insight: Insight{Type: rule.insight, Text: rule.text(category)},
				value:   v,
			})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].value > hits[j].value })
	if len(hits) > maxInsightsPerMatch {
		hits = hits[:maxInsightsPerMatch]
	}
	out := make([]Insight, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.insight)
	}
	return out
}
