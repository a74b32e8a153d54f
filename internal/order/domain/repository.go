package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, storeID, id snowflake.ID) (*Order, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, storeID, id snowflake.ID, status Status, updatedAt time.Time) error
	// CountCreatedSince counts orders of any status created at or after since.
	CountCreatedSince(ctx context.Context, db *gorm.DB, storeID snowflake.ID, since time.Time) (int64, error)
}
