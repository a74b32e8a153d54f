package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Snapshot(ctx context.Context, userID snowflake.ID) (*Snapshot, error)
	Measure(ctx context.Context, userID snowflake.ID, resource Resource) (*Measurement, error)
}

var (
	ErrInvalidUser     = errors.New("invalid_user")
	ErrStoreNotFound   = errors.New("store_not_found")
	ErrUnknownResource = errors.New("unknown_resource")
)
