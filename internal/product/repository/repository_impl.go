package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/product/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (id, store_id, name, description, price, active, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.StoreID,
		product.Name,
		product.Description,
		product.Price,
		product.Active,
		product.Metadata,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, storeID, id snowflake.ID) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, store_id, name, description, price, active, metadata, created_at, updated_at
		 FROM products WHERE store_id = ? AND id = ?`,
		storeID,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, storeID snowflake.ID, filter domain.ListRequest, afterID snowflake.ID, limit int) ([]domain.Product, error) {
	var items []domain.Product
	stmt := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("store_id = ?", storeID)

	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	if afterID != 0 {
		stmt = stmt.Where("id > ?", afterID)
	}

	if err := stmt.Order("id ASC").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountByStoreID(ctx context.Context, db *gorm.DB, storeID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM products WHERE store_id = ?`,
		storeID,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
