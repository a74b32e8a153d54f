package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindActive(ctx context.Context, db *gorm.DB) ([]Plan, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Plan, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Plan, error)
	Insert(ctx context.Context, db *gorm.DB, plan *Plan) error
}
