package intel

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/botanex/marketplace-backend/internal/types"
)

func txn(buyer, seller uuid.UUID, category string, day int, qty, price float64, status string) *types.Transaction {
	return &types.Transaction{
		ID:              uuid.New(),
		BuyerID:         buyer,
		SellerID:        seller,
		CategoryName:    category,
		Quantity:        qty,
		PricePerUnit:    price,
		Status:          status,
		TransactionDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
	}
}

func TestBuildPurchaseHistoriesGroupsAndOrders(t *testing.T) {
	buyer := uuid.New()
	seller := uuid.New()
	txns := []*types.Transaction{
		txn(buyer, seller, "Flower", 30, 10, 5, types.TransactionStatusDelivered),
		txn(buyer, seller, "Flower", 0, 12, 5.5, types.TransactionStatusDelivered),
		txn(buyer, seller, "Edibles", 10, 20, 3, types.TransactionStatusPending),
		txn(buyer, seller, "Flower", 15, 8, 6, types.TransactionStatusCancelled),
	}

	byBuyer := BuildPurchaseHistories(txns)
	histories, ok := byBuyer[buyer]
	if !ok {
		t.Fatal("buyer missing from histories")
	}
	if len(histories) != 2 {
		t.Fatalf("got %d category histories, want 2", len(histories))
	}

	// Sorted by category name: Edibles then Flower.
	if histories[0].CategoryName != "Edibles" || histories[1].CategoryName != "Flower" {
		t.Fatalf("category order = %q, %q", histories[0].CategoryName, histories[1].CategoryName)
	}

	flower := histories[1]
	if len(flower.Dates) != 2 {
		t.Fatalf("cancelled transaction should be excluded, got %d dates", len(flower.Dates))
	}
	if !flower.Dates[0].Before(flower.Dates[1]) {
		t.Fatal("dates should ascend")
	}
	if flower.Quantities[0] != 12 || flower.Quantities[1] != 10 {
		t.Fatalf("quantities follow date order, got %v", flower.Quantities)
	}
}

func TestPurchaseHistoryIntervalStats(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &PurchaseHistory{
		Dates: []time.Time{start, start.AddDate(0, 0, 10), start.AddDate(0, 0, 30)},
	}

	ivs := h.IntervalsDays()
	if len(ivs) != 2 || ivs[0] != 10 || ivs[1] != 20 {
		t.Fatalf("intervals = %v, want [10 20]", ivs)
	}
	avg, ok := h.AvgIntervalDays()
	if !ok || avg != 15 {
		t.Fatalf("avg interval = %v (ok=%v), want 15", avg, ok)
	}
	if sd := h.StdDevIntervalDays(); math.Abs(sd-5) > 1e-9 {
		t.Fatalf("stddev = %v, want 5", sd)
	}

	thin := &PurchaseHistory{Dates: []time.Time{start}}
	if _, ok := thin.AvgIntervalDays(); ok {
		t.Fatal("single purchase should report no average interval")
	}
	if ivs := thin.IntervalsDays(); ivs != nil {
		t.Fatalf("single purchase intervals = %v, want nil", ivs)
	}
}

func TestBuildDeliveryOutcomesFilters(t *testing.T) {
	buyer := uuid.New()
	seller := uuid.New()

	withOutcome := txn(buyer, seller, "Flower", 5, 10, 5, types.TransactionStatusDelivered)
	withOutcome.DeliveryOnTime = ptrBool(true)

	deliveredNoOutcome := txn(buyer, seller, "Flower", 6, 10, 5, types.TransactionStatusDelivered)
	pending := txn(buyer, seller, "Flower", 7, 10, 5, types.TransactionStatusPending)
	pending.DeliveryOnTime = ptrBool(true)

	out := BuildDeliveryOutcomes([]*types.Transaction{withOutcome, deliveredNoOutcome, pending})
	d, ok := out[seller]
	if !ok {
		t.Fatal("seller missing from outcomes")
	}
	if len(d.Outcomes) != 1 {
		t.Fatalf("got %d outcomes, want only the delivered one with a recorded field", len(d.Outcomes))
	}
	if d.Outcomes[0].OnTime == nil || !*d.Outcomes[0].OnTime {
		t.Fatal("outcome lost its on-time flag")
	}
}

func TestBuildPriceHistoriesExcludesCancelled(t *testing.T) {
	buyer := uuid.New()
	seller := uuid.New()
	txns := []*types.Transaction{
		txn(buyer, seller, "Flower", 3, 10, 5, types.TransactionStatusDelivered),
		txn(buyer, seller, "Flower", 1, 10, 4, types.TransactionStatusPending),
		txn(buyer, seller, "Flower", 2, 10, 6, types.TransactionStatusCancelled),
	}

	histories := BuildPriceHistories(txns)
	h, ok := histories["Flower"]
	if !ok {
		t.Fatal("category missing")
	}
	if len(h.Points) != 2 {
		t.Fatalf("got %d points, want 2 (cancelled excluded)", len(h.Points))
	}
	if h.Points[0].UnitPrice != 4 || h.Points[1].UnitPrice != 5 {
		t.Fatalf("points out of date order: %v", h.Points)
	}
}
