package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindActive(ctx context.Context, db *gorm.DB) ([]domain.Plan, error) {
	var plans []domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, price, max_products, max_orders, features, active, created_at, updated_at
		 FROM plans WHERE active = ? ORDER BY price ASC, slug ASC`,
		true,
	).Scan(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, price, max_products, max_orders, features, active, created_at, updated_at
		 FROM plans WHERE id = ?`,
		id,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, price, max_products, max_orders, features, active, created_at, updated_at
		 FROM plans WHERE slug = ?`,
		slug,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO plans (id, name, slug, price, max_products, max_orders, features, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID,
		plan.Name,
		plan.Slug,
		plan.Price,
		plan.MaxProducts,
		plan.MaxOrders,
		plan.Features,
		plan.Active,
		plan.CreatedAt,
		plan.UpdatedAt,
	).Error
}
