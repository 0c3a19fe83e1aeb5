package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/types"
)

// riskLevelsAtOrAbove expands a minimum tier into the set of qualifying tiers.
func riskLevelsAtOrAbove(min string) []string {
	order := []string{types.RiskLevelLow, types.RiskLevelMedium, types.RiskLevelHigh, types.RiskLevelCritical}
	for i, level := range order {
		if level == min {
			return order[i:]
		}
	}
	return order
}

type ChurnSignalRepo interface {
	ListByBuyer(ctx context.Context, tx *gorm.DB, buyerID uuid.UUID) ([]*types.ChurnSignal, error)
	// ListActiveBuyerIDs returns the distinct buyers that currently hold at
	// least one active signal.
	ListActiveBuyerIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	// Upsert writes the signal for its (buyer, category) key, creating the row
	// if absent. The returned bool is true when a new row was created.
	Upsert(ctx context.Context, tx *gorm.DB, signal *types.ChurnSignal) (bool, error)
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ListAtRisk(ctx context.Context, tx *gorm.DB, minRiskLevel string, limit int) ([]*types.ChurnSignal, error)
	CountActiveByLevel(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
}

type churnSignalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChurnSignalRepo(db *gorm.DB, baseLog *logger.Logger) ChurnSignalRepo {
	return &churnSignalRepo{
		db:  db,
		log: baseLog.With("repo", "ChurnSignalRepo"),
	}
}

func (r *churnSignalRepo) ListByBuyer(ctx context.Context, tx *gorm.DB, buyerID uuid.UUID) ([]*types.ChurnSignal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ChurnSignal
	if err := transaction.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *churnSignalRepo) ListActiveBuyerIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.ChurnSignal{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("buyer_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *churnSignalRepo) Upsert(ctx context.Context, tx *gorm.DB, signal *types.ChurnSignal) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Where("buyer_id = ?", signal.BuyerID)
	if signal.CategoryName == nil {
		q = q.Where("category_name IS NULL")
	} else {
		q = q.Where("category_name = ?", *signal.CategoryName)
	}
	var existing types.ChurnSignal
	err := q.First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := transaction.WithContext(ctx).Create(signal).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}
	updates := map[string]interface{}{
		"risk_level":          signal.RiskLevel,
		"risk_score":          signal.RiskScore,
		"days_since_purchase": signal.DaysSincePurchase,
		"avg_interval_days":   signal.AvgIntervalDays,
		"is_active":           signal.IsActive,
		"computed_at":         signal.ComputedAt,
		"updated_at":          time.Now(),
	}
	if err := transaction.WithContext(ctx).
		Model(&types.ChurnSignal{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return false, err
	}
	signal.ID = existing.ID
	return false, nil
}

func (r *churnSignalRepo) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ChurnSignal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		}).Error
}

func (r *churnSignalRepo) ListAtRisk(ctx context.Context, tx *gorm.DB, minRiskLevel string, limit int) ([]*types.ChurnSignal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []*types.ChurnSignal
	if err := transaction.WithContext(ctx).
		Preload("Buyer").
		Where("is_active = ? AND risk_level IN ?", true, riskLevelsAtOrAbove(minRiskLevel)).
		Order("risk_score DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *churnSignalRepo) CountActiveByLevel(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	type row struct {
		RiskLevel string
		Count     int64
	}
	var rows []row
	if err := transaction.WithContext(ctx).
		Model(&types.ChurnSignal{}).
		Select("risk_level, count(*) as count").
		Where("is_active = ? AND category_name IS NULL", true).
		Group("risk_level").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := map[string]int64{}
	for _, r := range rows {
		out[r.RiskLevel] = r.Count
	}
	return out, nil
}
