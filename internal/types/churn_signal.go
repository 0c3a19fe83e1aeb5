package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RiskLevelLow      = "low"
	RiskLevelMedium   = "medium"
	RiskLevelHigh     = "high"
	RiskLevelCritical = "critical"
)

// ChurnSignal holds one at-risk signal per (buyer, category). A nil
// CategoryName is the buyer's overall signal, taken from the single worst
// category rather than an average.
type ChurnSignal struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BuyerID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"buyer_id"`
	Buyer             *Buyer         `gorm:"constraint:OnDelete:CASCADE;foreignKey:BuyerID;references:ID" json:"buyer,omitempty"`
	CategoryName      *string        `gorm:"column:category_name;index" json:"category_name,omitempty"`
	RiskLevel         string         `gorm:"column:risk_level;not null;index" json:"risk_level"`
	RiskScore         float64        `gorm:"column:risk_score;not null" json:"risk_score"`
	DaysSincePurchase int            `gorm:"column:days_since_purchase;not null" json:"days_since_purchase"`
	AvgIntervalDays   float64        `gorm:"column:avg_interval_days;not null" json:"avg_interval_days"`
	IsActive          bool           `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	ComputedAt        time.Time      `gorm:"column:computed_at;not null" json:"computed_at"`
	CreatedAt         time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChurnSignal) TableName() string { return "churn_signal" }
