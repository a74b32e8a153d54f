// Package domain contains shipping configuration, postal code zones and the
// zone matching rule used to quote shipping.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// DefaultEstimatedDays is quoted whenever no zone supplies its own estimate.
const DefaultEstimatedDays = 7

// ShippingConfig holds per-store shipping settings. A store has at most one.
type ShippingConfig struct {
	ID                    snowflake.ID        `gorm:"primaryKey"`
	StoreID               snowflake.ID        `gorm:"not null;uniqueIndex"`
	FreeShippingThreshold decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	DefaultShippingCost   decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	CreatedAt             time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt             time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ShippingConfig) TableName() string { return "shipping_configs" }

// ShippingZone prices deliveries to an inclusive postal code range.
type ShippingZone struct {
	ID            snowflake.ID    `gorm:"primaryKey"`
	StoreID       snowflake.ID    `gorm:"not null;index"`
	Name          string          `gorm:"type:text;not null"`
	ZipCodeStart  string          `gorm:"type:text;not null"`
	ZipCodeEnd    string          `gorm:"type:text;not null"`
	ShippingCost  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	EstimatedDays *int
	Active        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ShippingZone) TableName() string { return "shipping_zones" }

// Quote is the resolved shipping price for a destination and subtotal.
type Quote struct {
	Cost          decimal.Decimal
	EstimatedDays int
	IsFree        bool
}

func newQuote(cost decimal.Decimal, days int) Quote {
	return Quote{Cost: cost, EstimatedDays: days, IsFree: cost.IsZero()}
}

// FreeQuote is returned when the free shipping threshold applies.
func FreeQuote() Quote {
	return newQuote(decimal.Zero, DefaultEstimatedDays)
}

// ZoneQuote prices a matched zone.
func ZoneQuote(zone ShippingZone) Quote {
	days := DefaultEstimatedDays
	if zone.EstimatedDays != nil {
		days = *zone.EstimatedDays
	}
	return newQuote(zone.ShippingCost, days)
}

// DefaultQuote prices a destination no zone covers.
func DefaultQuote(cfg *ShippingConfig) Quote {
	cost := decimal.Zero
	if cfg != nil && cfg.DefaultShippingCost.Valid {
		cost = cfg.DefaultShippingCost.Decimal
	}
	return newQuote(cost, DefaultEstimatedDays)
}

// ThresholdApplies reports whether subtotal earns free shipping.
func (c *ShippingConfig) ThresholdApplies(subtotal decimal.Decimal) bool {
	if c == nil || !c.FreeShippingThreshold.Valid {
		return false
	}
	threshold := c.FreeShippingThreshold.Decimal
	return threshold.IsPositive() && subtotal.GreaterThanOrEqual(threshold)
}
