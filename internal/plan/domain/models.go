// Package domain contains the plan catalog reference data.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	SlugFree         = "gratis"
	SlugBasic        = "basico"
	SlugProfessional = "profissional"
	SlugEnterprise   = "enterprise"
)

// Plan is a subscription tier. A nil limit means unlimited.
type Plan struct {
	ID          snowflake.ID                `json:"id" gorm:"primaryKey"`
	Name        string                      `json:"name" gorm:"type:text;not null"`
	Slug        string                      `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Price       decimal.Decimal             `json:"price" gorm:"type:numeric(12,2);not null"`
	MaxProducts *int                        `json:"maxProducts"`
	MaxOrders   *int                        `json:"maxOrders"`
	Features    datatypes.JSONSlice[string] `json:"features" gorm:"type:jsonb"`
	Active      bool                        `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time                   `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time                   `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Plan) TableName() string { return "plans" }

func (p Plan) IsFree() bool {
	return p.Slug == SlugFree
}

func (p Plan) Unlimited() bool {
	return p.MaxProducts == nil && p.MaxOrders == nil
}
