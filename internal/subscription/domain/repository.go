package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sub *Subscription) error
	FindLatestByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*WithPlan, error)
	MarkCanceled(ctx context.Context, db *gorm.DB, id snowflake.ID, atPeriodEnd bool, canceledAt time.Time) error
	// FindLapsed lists canceled or past due subscriptions whose period ended.
	FindLapsed(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]snowflake.ID, error)
	MarkExpired(ctx context.Context, db *gorm.DB, ids []snowflake.ID, now time.Time) (int64, error)
}
