package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
)

type Service interface {
	// Resolve returns the user's current subscription. A user without rows
	// resolves to the free plan with status active.
	Resolve(ctx context.Context, userID snowflake.ID) (Resolution, error)
	// EffectivePlan returns the plan whose limits apply now along with the
	// resolution it was derived from.
	EffectivePlan(ctx context.Context, userID snowflake.ID) (plandomain.Plan, Resolution, error)
	Subscribe(ctx context.Context, userID snowflake.ID, planSlug string) (Resolution, error)
	Cancel(ctx context.Context, userID snowflake.ID) (Resolution, error)
}

var (
	ErrInvalidUser          = errors.New("invalid_user")
	ErrPlanInactive         = errors.New("plan_inactive")
	ErrAlreadySubscribed    = errors.New("already_subscribed")
	ErrNoActiveSubscription = errors.New("no_active_subscription")
)
