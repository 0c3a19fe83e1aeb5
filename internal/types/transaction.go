package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusDelivered = "delivered"
	TransactionStatusCancelled = "cancelled"
)

// Transaction is a source-of-truth row owned by the marketplace CRUD layer.
// The intelligence engine only ever reads it.
type Transaction struct {
	ID                      uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BuyerID                 uuid.UUID      `gorm:"type:uuid;not null;index" json:"buyer_id"`
	Buyer                   *Buyer         `gorm:"constraint:OnDelete:CASCADE;foreignKey:BuyerID;references:ID" json:"buyer,omitempty"`
	SellerID                uuid.UUID      `gorm:"type:uuid;not null;index" json:"seller_id"`
	Seller                  *Seller        `gorm:"constraint:OnDelete:CASCADE;foreignKey:SellerID;references:ID" json:"seller,omitempty"`
	ProductID               uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Product                 *Product       `gorm:"constraint:OnDelete:SET NULL;foreignKey:ProductID;references:ID" json:"product,omitempty"`
	CategoryName            string         `gorm:"column:category_name;not null;index" json:"category_name"`
	Quantity                float64        `gorm:"column:quantity;not null" json:"quantity"`
	PricePerUnit            float64        `gorm:"column:price_per_unit;not null" json:"price_per_unit"`
	TransactionDate         time.Time      `gorm:"column:transaction_date;not null;index" json:"transaction_date"`
	Status                  string         `gorm:"column:status;not null;default:pending;index" json:"status"`
	ActualQuantityDelivered *float64       `gorm:"column:actual_quantity_delivered" json:"actual_quantity_delivered,omitempty"`
	DeliveryOnTime          *bool          `gorm:"column:delivery_on_time" json:"delivery_on_time,omitempty"`
	QualityAsExpected       *bool          `gorm:"column:quality_as_expected" json:"quality_as_expected,omitempty"`
	CreatedAt               time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt               time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Transaction) TableName() string { return "transaction" }
