package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PredictionRecord forecasts the next purchase for a (buyer, category).
// Fully derived; each run supersedes the previous row for the same key.
type PredictionRecord struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BuyerID             uuid.UUID      `gorm:"type:uuid;not null;index:idx_prediction_buyer_category,unique" json:"buyer_id"`
	Buyer               *Buyer         `gorm:"constraint:OnDelete:CASCADE;foreignKey:BuyerID;references:ID" json:"buyer,omitempty"`
	CategoryName        string         `gorm:"column:category_name;not null;index:idx_prediction_buyer_category,unique" json:"category_name"`
	PredictedDate       time.Time      `gorm:"column:predicted_date;not null;index" json:"predicted_date"`
	ConfidenceScore     float64        `gorm:"column:confidence_score;not null" json:"confidence_score"`
	AvgIntervalDays     float64        `gorm:"column:avg_interval_days;not null" json:"avg_interval_days"`
	BasedOnTransactions int            `gorm:"column:based_on_transactions;not null" json:"based_on_transactions"`
	ComputedAt          time.Time      `gorm:"column:computed_at;not null" json:"computed_at"`
	CreatedAt           time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PredictionRecord) TableName() string { return "prediction_record" }
