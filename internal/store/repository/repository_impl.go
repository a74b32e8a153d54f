package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/store/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, store *domain.Store) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO stores (id, user_id, name, slug, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		store.ID,
		store.UserID,
		store.Name,
		store.Slug,
		store.Active,
		store.CreatedAt,
		store.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Store, error) {
	return r.findOne(ctx, db,
		`SELECT id, user_id, name, slug, active, created_at, updated_at
		 FROM stores WHERE id = ?`,
		id,
	)
}

func (r *repo) FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Store, error) {
	return r.findOne(ctx, db,
		`SELECT id, user_id, name, slug, active, created_at, updated_at
		 FROM stores WHERE user_id = ?
		 ORDER BY created_at ASC, id ASC
		 LIMIT 1`,
		userID,
	)
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Store, error) {
	return r.findOne(ctx, db,
		`SELECT id, user_id, name, slug, active, created_at, updated_at
		 FROM stores WHERE slug = ?`,
		slug,
	)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, query string, args ...any) (*domain.Store, error) {
	var store domain.Store
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&store).Error; err != nil {
		return nil, err
	}
	if store.ID == 0 {
		return nil, nil
	}
	return &store, nil
}
