package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SellerScore is the reliability scorecard for one seller. Sellers with no
// outcome-recorded transactions have no row at all, which keeps "unscored"
// distinguishable from "scored zero".
type SellerScore struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SellerID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"seller_id"`
	Seller             *Seller        `gorm:"constraint:OnDelete:CASCADE;foreignKey:SellerID;references:ID" json:"seller,omitempty"`
	FillRate           float64        `gorm:"column:fill_rate;not null" json:"fill_rate"`
	QualityScore       float64        `gorm:"column:quality_score;not null" json:"quality_score"`
	DeliveryScore      float64        `gorm:"column:delivery_score;not null" json:"delivery_score"`
	PricingScore       float64        `gorm:"column:pricing_score;not null" json:"pricing_score"`
	OverallScore       float64        `gorm:"column:overall_score;not null" json:"overall_score"`
	TransactionsScored int            `gorm:"column:transactions_scored;not null" json:"transactions_scored"`
	ComputedAt         time.Time      `gorm:"column:computed_at;not null" json:"computed_at"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SellerScore) TableName() string { return "seller_score" }
