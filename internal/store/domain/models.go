// Package domain contains the merchant store registry.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Store is a merchant's storefront, addressed publicly by its slug.
type Store struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID    snowflake.ID `json:"userId" gorm:"not null;index"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Slug      string       `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Active    bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time    `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Store) TableName() string { return "stores" }
