package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/shipping/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindConfigByStoreID(ctx context.Context, db *gorm.DB, storeID snowflake.ID) (*domain.ShippingConfig, error) {
	var cfg domain.ShippingConfig
	err := db.WithContext(ctx).Raw(
		`SELECT id, store_id, free_shipping_threshold, default_shipping_cost, created_at, updated_at
		 FROM shipping_configs WHERE store_id = ?`,
		storeID,
	).Scan(&cfg).Error
	if err != nil {
		return nil, err
	}
	if cfg.ID == 0 {
		return nil, nil
	}
	return &cfg, nil
}

// UpsertConfig inserts the store's config or overwrites both amounts in place.
func (r *repo) UpsertConfig(ctx context.Context, db *gorm.DB, cfg *domain.ShippingConfig) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"free_shipping_threshold",
				"default_shipping_cost",
				"updated_at",
			}),
		}).
		Create(cfg).Error
}

func (r *repo) FindActiveZones(ctx context.Context, db *gorm.DB, storeID snowflake.ID) ([]domain.ShippingZone, error) {
	var zones []domain.ShippingZone
	err := db.WithContext(ctx).Raw(
		`SELECT id, store_id, name, zip_code_start, zip_code_end, shipping_cost, estimated_days, active, created_at, updated_at
		 FROM shipping_zones WHERE store_id = ? AND active = ?
		 ORDER BY created_at ASC, id ASC`,
		storeID,
		true,
	).Scan(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *repo) ListZones(ctx context.Context, db *gorm.DB, storeID snowflake.ID) ([]domain.ShippingZone, error) {
	var zones []domain.ShippingZone
	err := db.WithContext(ctx).Raw(
		`SELECT id, store_id, name, zip_code_start, zip_code_end, shipping_cost, estimated_days, active, created_at, updated_at
		 FROM shipping_zones WHERE store_id = ?
		 ORDER BY created_at ASC, id ASC`,
		storeID,
	).Scan(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *repo) InsertZone(ctx context.Context, db *gorm.DB, zone *domain.ShippingZone) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO shipping_zones (id, store_id, name, zip_code_start, zip_code_end, shipping_cost, estimated_days, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		zone.ID,
		zone.StoreID,
		zone.Name,
		zone.ZipCodeStart,
		zone.ZipCodeEnd,
		zone.ShippingCost,
		zone.EstimatedDays,
		zone.Active,
		zone.CreatedAt,
		zone.UpdatedAt,
	).Error
}

func (r *repo) DeleteZone(ctx context.Context, db *gorm.DB, storeID, id snowflake.ID) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`DELETE FROM shipping_zones WHERE store_id = ? AND id = ?`,
		storeID,
		id,
	)
	return result.RowsAffected, result.Error
}
