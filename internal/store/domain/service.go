package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateRequest) (*Store, error)
	GetByUserID(ctx context.Context, userID snowflake.ID) (*Store, error)
	GetBySlug(ctx context.Context, slug string) (*Store, error)
}

var (
	ErrInvalidUser   = errors.New("invalid_user")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidSlug   = errors.New("invalid_slug")
	ErrSlugTaken     = errors.New("slug_taken")
	ErrStoreExists   = errors.New("store_exists")
	ErrStoreNotFound = errors.New("store_not_found")
)
