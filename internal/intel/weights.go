package intel

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// WeightsVersion identifies the scoring policy. Two runs under the same
// version and the same inputs produce bit-identical scores.
const WeightsVersion = "v1"

const (
	FactorCategoryAffinity    = "category_affinity"
	FactorPriceFit            = "price_fit"
	FactorLocationFit         = "location_fit"
	FactorRelationshipHistory = "relationship_history"
	FactorReorderTiming       = "reorder_timing"
	FactorQuantityFit         = "quantity_fit"
	FactorSellerReliability   = "seller_reliability"
	FactorPriceVsMarket       = "price_vs_market"
	FactorSupplyDemand        = "supply_demand"
	FactorBuyerPropensity     = "buyer_propensity"
)

// FactorNames is the fixed, complete set of breakdown keys. Every generated
// Match carries all of them; a factor without underlying data is reported at
// the neutral midpoint rather than omitted.
var FactorNames = []string{
	FactorCategoryAffinity,
	FactorPriceFit,
	FactorLocationFit,
	FactorRelationshipHistory,
	FactorReorderTiming,
	FactorQuantityFit,
	FactorSellerReliability,
	FactorPriceVsMarket,
	FactorSupplyDemand,
	FactorBuyerPropensity,
}

type MatchWeights struct {
	CategoryAffinity    float64 `yaml:"category_affinity"`
	PriceFit            float64 `yaml:"price_fit"`
	LocationFit         float64 `yaml:"location_fit"`
	RelationshipHistory float64 `yaml:"relationship_history"`
	ReorderTiming       float64 `yaml:"reorder_timing"`
	QuantityFit         float64 `yaml:"quantity_fit"`
	SellerReliability   float64 `yaml:"seller_reliability"`
	PriceVsMarket       float64 `yaml:"price_vs_market"`
	SupplyDemand        float64 `yaml:"supply_demand"`
	BuyerPropensity     float64 `yaml:"buyer_propensity"`
}

func DefaultMatchWeights() MatchWeights {
	return MatchWeights{
		CategoryAffinity:    0.18,
		PriceFit:            0.14,
		LocationFit:         0.08,
		RelationshipHistory: 0.12,
		ReorderTiming:       0.12,
		QuantityFit:         0.08,
		SellerReliability:   0.10,
		PriceVsMarket:       0.08,
		SupplyDemand:        0.05,
		BuyerPropensity:     0.05,
	}
}

// LoadMatchWeights returns the default weight vector, or the one read from a
// YAML override file when path is non-empty. The result is not validated
// here; callers validate once at startup.
func LoadMatchWeights(path string) (MatchWeights, error) {
	w := DefaultMatchWeights()
	if path == "" {
		return w, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read match weights file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return w, fmt.Errorf("parse match weights file: %w", err)
	}
	return w, nil
}

func (w MatchWeights) byFactor() map[string]float64 {
	return map[string]float64{
		FactorCategoryAffinity:    w.CategoryAffinity,
		FactorPriceFit:            w.PriceFit,
		FactorLocationFit:         w.LocationFit,
		FactorRelationshipHistory: w.RelationshipHistory,
		FactorReorderTiming:       w.ReorderTiming,
		FactorQuantityFit:         w.QuantityFit,
		FactorSellerReliability:   w.SellerReliability,
		FactorPriceVsMarket:       w.PriceVsMarket,
		FactorSupplyDemand:        w.SupplyDemand,
		FactorBuyerPropensity:     w.BuyerPropensity,
	}
}

func (w MatchWeights) Validate() error {
	byFactor := w.byFactor()
	sum := 0.0
	for _, name := range FactorNames {
		wt := byFactor[name]
		if wt < 0 || wt > 1 {
			return fmt.Errorf("%w: factor %s weight %v out of [0,1]", ErrInvalidWeights, name, wt)
		}
		sum += wt
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", ErrInvalidWeights, sum)
	}
	return nil
}

// Composite folds a complete breakdown into the weighted 0-100 score.
// Summation follows the fixed FactorNames order: float addition is not
// associative, so map-order iteration would make identical inputs drift in
// the last ulp.
func (w MatchWeights) Composite(breakdown map[string]float64) float64 {
	byFactor := w.byFactor()
	total := 0.0
	for _, name := range FactorNames {
		total += byFactor[name] * breakdown[name]
	}
	return clamp(total, 0, 100)
}
