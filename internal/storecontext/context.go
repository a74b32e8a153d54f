package storecontext

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

type userKey struct{}

type storeKey struct{}

// WithUserID stores the authenticated merchant's user ID in the context.
func WithUserID(ctx context.Context, userID snowflake.ID) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// WithStoreID stores the store the request operates on.
func WithStoreID(ctx context.Context, storeID snowflake.ID) context.Context {
	return context.WithValue(ctx, storeKey{}, storeID)
}

func UserIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	return idFromContext(ctx, userKey{})
}

func StoreIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	return idFromContext(ctx, storeKey{})
}

func idFromContext(ctx context.Context, key any) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	switch typed := ctx.Value(key).(type) {
	case snowflake.ID:
		return typed, typed != 0
	case int64:
		return snowflake.ID(typed), typed != 0
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil && parsed != 0 {
			return parsed, true
		}
	}
	return 0, false
}
