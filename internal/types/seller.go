package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Seller struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CompanyName string         `gorm:"column:company_name;not null" json:"company_name"`
	Region      string         `gorm:"column:region;index" json:"region"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Seller) TableName() string { return "seller" }
