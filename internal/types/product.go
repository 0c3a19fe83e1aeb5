package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SellerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"seller_id"`
	Seller       *Seller        `gorm:"constraint:OnDelete:CASCADE;foreignKey:SellerID;references:ID" json:"seller,omitempty"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	CategoryName string         `gorm:"column:category_name;not null;index" json:"category_name"`
	UnitPrice    float64        `gorm:"column:unit_price;not null" json:"unit_price"`
	LotSize      float64        `gorm:"column:lot_size;not null;default:0" json:"lot_size"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string { return "product" }
