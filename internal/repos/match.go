package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/types"
)

type MatchFilter struct {
	BuyerID  *uuid.UUID
	Status   string
	MinScore *float64
	Limit    int
	Offset   int
}

type MatchRepo interface {
	// UpsertScores writes score/breakdown/insights/computed_at for each
	// (buyer, product) key. Existing rows keep their status: the buyer
	// workflow owns that column.
	UpsertScores(ctx context.Context, tx *gorm.DB, matches []*types.Match) error
	List(ctx context.Context, tx *gorm.DB, filter MatchFilter) ([]*types.Match, int64, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Match, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) (int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error)
}

type matchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchRepo(db *gorm.DB, baseLog *logger.Logger) MatchRepo {
	return &matchRepo{
		db:  db,
		log: baseLog.With("repo", "MatchRepo"),
	}
}

// matchScoreColumns is the exact set a generation run may overwrite on an
// existing row. status is deliberately absent: a converted or rejected match
// stays that way across recomputation.
var matchScoreColumns = []string{
	"score", "breakdown", "insights", "computed_at", "updated_at",
}

func (r *matchRepo) UpsertScores(ctx context.Context, tx *gorm.DB, matches []*types.Match) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(matches) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "buyer_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns(matchScoreColumns),
		}).
		Create(&matches).Error
}

func (r *matchRepo) List(ctx context.Context, tx *gorm.DB, filter MatchFilter) ([]*types.Match, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.Match{})
	if filter.BuyerID != nil {
		q = q.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.MinScore != nil {
		q = q.Where("score >= ?", *filter.MinScore)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []*types.Match
	if err := q.
		Preload("Buyer").
		Preload("Product").
		Order("score DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *matchRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Match, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var match types.Match
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *matchRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Match{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *matchRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Match{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
