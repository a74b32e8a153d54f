package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindConfigByStoreID(ctx context.Context, db *gorm.DB, storeID snowflake.ID) (*ShippingConfig, error)
	UpsertConfig(ctx context.Context, db *gorm.DB, cfg *ShippingConfig) error
	// FindActiveZones returns active zones ordered by created_at, id.
	FindActiveZones(ctx context.Context, db *gorm.DB, storeID snowflake.ID) ([]ShippingZone, error)
	ListZones(ctx context.Context, db *gorm.DB, storeID snowflake.ID) ([]ShippingZone, error)
	InsertZone(ctx context.Context, db *gorm.DB, zone *ShippingZone) error
	DeleteZone(ctx context.Context, db *gorm.DB, storeID, id snowflake.ID) (int64, error)
}
