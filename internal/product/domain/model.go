package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	ID          snowflake.ID      `json:"id" gorm:"primaryKey"`
	StoreID     snowflake.ID      `json:"storeId" gorm:"not null;index"`
	Name        string            `json:"name" gorm:"type:text;not null"`
	Description *string           `json:"description,omitempty" gorm:"type:text"`
	Price       decimal.Decimal   `json:"price" gorm:"type:numeric(12,2);not null"`
	Active      bool              `json:"active" gorm:"not null;default:true"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
