package intel

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/botanex/marketplace-backend/internal/types"
)

// The aggregation layer turns raw transaction rows into immutable fact
// bundles. Grouping and windowing only; scoring policy lives with the
// scorers. Zero-history entities yield empty bundles, never errors.

// PurchaseHistory is the ordered purchase record for one buyer x category.
type PurchaseHistory struct {
	BuyerID      uuid.UUID
	CategoryName string
	Dates        []time.Time // ascending
	Quantities   []float64
	UnitPrices   []float64
}

// IntervalsDays returns the gaps between consecutive purchases, in days.
func (h *PurchaseHistory) IntervalsDays() []float64 {
	if len(h.Dates) < 2 {
		return nil
	}
	out := make([]float64, 0, len(h.Dates)-1)
	for i := 1; i < len(h.Dates); i++ {
		out = append(out, h.Dates[i].Sub(h.Dates[i-1]).Hours()/24)
	}
	return out
}

// AvgIntervalDays is the mean purchase gap. ok is false below 2 purchases;
// that is insufficient data, not a zero-length interval.
func (h *PurchaseHistory) AvgIntervalDays() (float64, bool) {
	ivs := h.IntervalsDays()
	if len(ivs) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, iv := range ivs {
		sum += iv
	}
	return sum / float64(len(ivs)), true
}

// StdDevIntervalDays is the population standard deviation of the gaps.
func (h *PurchaseHistory) StdDevIntervalDays() float64 {
	ivs := h.IntervalsDays()
	if len(ivs) == 0 {
		return 0
	}
	mean := 0.0
	for _, iv := range ivs {
		mean += iv
	}
	mean /= float64(len(ivs))
	variance := 0.0
	for _, iv := range ivs {
		variance += (iv - mean) * (iv - mean)
	}
	return math.Sqrt(variance / float64(len(ivs)))
}

func (h *PurchaseHistory) LastPurchase() (time.Time, bool) {
	if len(h.Dates) == 0 {
		return time.Time{}, false
	}
	return h.Dates[len(h.Dates)-1], true
}

func (h *PurchaseHistory) AvgQuantity() (float64, bool) {
	if len(h.Quantities) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, q := range h.Quantities {
		sum += q
	}
	return sum / float64(len(h.Quantities)), true
}

func (h *PurchaseHistory) AvgUnitPrice() (float64, bool) {
	if len(h.UnitPrices) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, p := range h.UnitPrices {
		sum += p
	}
	return sum / float64(len(h.UnitPrices)), true
}

// DeliveryOutcome is one delivered transaction's recorded outcome.
type DeliveryOutcome struct {
	Date              time.Time
	CategoryName      string
	OrderedQuantity   float64
	PricePerUnit      float64
	DeliveredQuantity *float64
	OnTime            *bool
	QualityAsExpected *bool
}

// DeliveryOutcomes is the ordered outcome record for one seller.
type DeliveryOutcomes struct {
	SellerID uuid.UUID
	Outcomes []DeliveryOutcome // ascending by date
}

// PricePoint is one observed trade for a category.
type PricePoint struct {
	Date      time.Time
	UnitPrice float64
	Quantity  float64
	BuyerID   uuid.UUID
}

// PriceHistory is the ordered trade record for one category.
type PriceHistory struct {
	CategoryName string
	Points       []PricePoint // ascending by date
}

// BuildPurchaseHistories groups non-cancelled transactions by buyer and
// category, ordered by transaction date.
func BuildPurchaseHistories(txns []*types.Transaction) map[uuid.UUID][]*PurchaseHistory {
	type key struct {
		buyer    uuid.UUID
		category string
	}
	grouped := map[key]*PurchaseHistory{}
	for _, t := range sortedByDate(txns) {
		if t == nil || t.Status == types.TransactionStatusCancelled {
			continue
		}
		k := key{buyer: t.BuyerID, category: t.CategoryName}
		h, ok := grouped[k]
		if !ok {
			h = &PurchaseHistory{BuyerID: t.BuyerID, CategoryName: t.CategoryName}
			grouped[k] = h
		}
		h.Dates = append(h.Dates, t.TransactionDate)
		h.Quantities = append(h.Quantities, t.Quantity)
		h.UnitPrices = append(h.UnitPrices, t.PricePerUnit)
	}
	out := map[uuid.UUID][]*PurchaseHistory{}
	for k, h := range grouped {
		out[k.buyer] = append(out[k.buyer], h)
	}
	for _, hs := range out {
		sort.Slice(hs, func(i, j int) bool { return hs[i].CategoryName < hs[j].CategoryName })
	}
	return out
}

// BuildDeliveryOutcomes groups delivered transactions that carry at least one
// recorded outcome field, by seller.
func BuildDeliveryOutcomes(txns []*types.Transaction) map[uuid.UUID]*DeliveryOutcomes {
	out := map[uuid.UUID]*DeliveryOutcomes{}
	for _, t := range sortedByDate(txns) {
		if t == nil || t.Status != types.TransactionStatusDelivered {
			continue
		}
		if t.ActualQuantityDelivered == nil && t.DeliveryOnTime == nil && t.QualityAsExpected == nil {
			continue
		}
		d, ok := out[t.SellerID]
		if !ok {
			d = &DeliveryOutcomes{SellerID: t.SellerID}
			out[t.SellerID] = d
		}
		d.Outcomes = append(d.Outcomes, DeliveryOutcome{
			Date:              t.TransactionDate,
			CategoryName:      t.CategoryName,
			OrderedQuantity:   t.Quantity,
			PricePerUnit:      t.PricePerUnit,
			DeliveredQuantity: t.ActualQuantityDelivered,
			OnTime:            t.DeliveryOnTime,
			QualityAsExpected: t.QualityAsExpected,
		})
	}
	return out
}

// BuildPriceHistories groups non-cancelled transactions into per-category
// price/volume series.
func BuildPriceHistories(txns []*types.Transaction) map[string]*PriceHistory {
	out := map[string]*PriceHistory{}
	for _, t := range sortedByDate(txns) {
		if t == nil || t.Status == types.TransactionStatusCancelled {
			continue
		}
		h, ok := out[t.CategoryName]
		if !ok {
			h = &PriceHistory{CategoryName: t.CategoryName}
			out[t.CategoryName] = h
		}
		h.Points = append(h.Points, PricePoint{
			Date:      t.TransactionDate,
			UnitPrice: t.PricePerUnit,
			Quantity:  t.Quantity,
			BuyerID:   t.BuyerID,
		})
	}
	return out
}

func sortedByDate(txns []*types.Transaction) []*types.Transaction {
	sorted := make([]*types.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i] == nil || sorted[j] == nil {
			return sorted[j] == nil
		}
		return sorted[i].TransactionDate.Before(sorted[j].TransactionDate)
	})
	return sorted
}
