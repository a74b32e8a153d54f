package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, store *Store) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Store, error)
	// FindByUserID returns the user's earliest created store.
	FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Store, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Store, error)
}
