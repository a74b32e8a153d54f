// Package domain contains storefront orders.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

// Order is kept forever; cancelling only changes its status.
type Order struct {
	ID            snowflake.ID    `gorm:"primaryKey"`
	StoreID       snowflake.ID    `gorm:"not null;index:idx_orders_store_created,priority:1"`
	CustomerName  string          `gorm:"type:text;not null"`
	CustomerEmail string          `gorm:"type:text;not null"`
	ZipCode       string          `gorm:"type:text;not null"`
	Status        Status          `gorm:"type:text;not null"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ShippingCost  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	EstimatedDays int             `gorm:"not null"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_orders_store_created,priority:2"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }
