package storecontext

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), snowflake.ID(10))
	ctx = WithStoreID(ctx, snowflake.ID(20))

	userID, ok := UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, snowflake.ID(10), userID)

	storeID, ok := StoreIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, snowflake.ID(20), storeID)
}

func TestMissingOrZeroIsAbsent(t *testing.T) {
	_, ok := StoreIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(context.Background(), 0))
	assert.False(t, ok)

	_, ok = UserIDFromContext(nil) //nolint:staticcheck
	assert.False(t, ok)
}
