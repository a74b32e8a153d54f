package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/order/domain"
	"gorm.io/gorm"
)

// Order timestamps are written and compared in UTC; sqlite compares them as
// text.
type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (
			id, store_id, customer_name, customer_email, zip_code, status,
			subtotal, shipping_cost, total, estimated_days, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.StoreID,
		order.CustomerName,
		order.CustomerEmail,
		order.ZipCode,
		order.Status,
		order.Subtotal,
		order.ShippingCost,
		order.Total,
		order.EstimatedDays,
		order.CreatedAt.UTC(),
		order.UpdatedAt.UTC(),
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, storeID, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, store_id, customer_name, customer_email, zip_code, status,
			subtotal, shipping_cost, total, estimated_days, created_at, updated_at
		 FROM orders WHERE store_id = ? AND id = ?`,
		storeID,
		id,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, storeID, id snowflake.ID, status domain.Status, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE orders SET status = ?, updated_at = ? WHERE store_id = ? AND id = ?`,
		status,
		updatedAt.UTC(),
		storeID,
		id,
	).Error
}

func (r *repo) CountCreatedSince(ctx context.Context, db *gorm.DB, storeID snowflake.ID, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM orders WHERE store_id = ? AND created_at >= ?`,
		storeID,
		since.UTC(),
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
