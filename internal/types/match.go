package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MatchStatusPending   = "pending"
	MatchStatusViewed    = "viewed"
	MatchStatusConverted = "converted"
	MatchStatusRejected  = "rejected"
)

// Match is an engine-owned buyer x product affinity row. Score, breakdown and
// insights are overwritten on every generation run; status belongs to the buyer
// workflow and survives recomputation.
type Match struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BuyerID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_match_buyer_product,unique" json:"buyer_id"`
	Buyer      *Buyer         `gorm:"constraint:OnDelete:CASCADE;foreignKey:BuyerID;references:ID" json:"buyer,omitempty"`
	ProductID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_match_buyer_product,unique" json:"product_id"`
	Product    *Product       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Score      float64        `gorm:"column:score;not null" json:"score"`
	Breakdown  datatypes.JSON `gorm:"type:jsonb;column:breakdown" json:"breakdown"`
	Insights   datatypes.JSON `gorm:"type:jsonb;column:insights" json:"insights"`
	Status     string         `gorm:"column:status;not null;default:pending;index" json:"status"`
	ComputedAt time.Time      `gorm:"column:computed_at;not null" json:"computed_at"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Match) TableName() string { return "match" }
