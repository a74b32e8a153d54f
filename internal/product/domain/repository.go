package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, storeID, id snowflake.ID) (*Product, error)
	// List returns up to limit products with id greater than afterID.
	List(ctx context.Context, db *gorm.DB, storeID snowflake.ID, filter ListRequest, afterID snowflake.ID, limit int) ([]Product, error)
	// CountByStoreID counts every product of the store, active or not.
	CountByStoreID(ctx context.Context, db *gorm.DB, storeID snowflake.ID) (int64, error)
}
