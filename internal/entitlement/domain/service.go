package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Gate checks a plan ceiling before a resource is created. The check and the
// insert that follows are not atomic.
type Gate interface {
	CheckProductLimit(ctx context.Context, userID snowflake.ID) (Decision, error)
	CheckOrderLimit(ctx context.Context, userID snowflake.ID) (Decision, error)
}

const DefaultUpgradeRedirect = "/dashboard/planos"
