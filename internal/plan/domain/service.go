package domain

import (
	"context"
	"errors"
)

// Catalog serves plan reference data. Reads never hard-fail because of the
// backing store: fresh cache, then stale cache, then DefaultPlans.
type Catalog interface {
	ListActive(ctx context.Context) []Plan
	GetByID(ctx context.Context, id string) (Plan, error)
	GetBySlug(ctx context.Context, slug string) (Plan, error)
}

var (
	ErrInvalidID    = errors.New("invalid_plan_id")
	ErrInvalidSlug  = errors.New("invalid_plan_slug")
	ErrPlanNotFound = errors.New("plan_not_found")
)
