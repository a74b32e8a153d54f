package cache

import (
	"strings"
	"time"

	"github.com/smallbiznis/vitrine/internal/clock"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
)

const DefaultPlanTTL = 5 * time.Minute

const activePlansKey = "active"

// PlanCatalogCache stores plan catalog reads. The Stale* accessors ignore
// expiry and serve the last known value while storage is unavailable.
type PlanCatalogCache interface {
	GetActive() ([]plandomain.Plan, bool)
	StaleActive() ([]plandomain.Plan, bool)
	SetActive(plans []plandomain.Plan)
	GetPlan(kind, value string) (plandomain.Plan, bool)
	StalePlan(kind, value string) (plandomain.Plan, bool)
	SetPlan(plan plandomain.Plan)
}

const (
	KeyByID   = "id"
	KeyBySlug = "slug"
)

type planCatalogCache struct {
	lists Cache[string, []plandomain.Plan]
	plans Cache[string, plandomain.Plan]
	ttl   func() time.Duration
}

// NewPlanCatalogCache returns an in-process cache for plan reads. ttl is
// consulted on every write so a reloaded setting applies to the next fill.
func NewPlanCatalogCache(c clock.Clock, ttl func() time.Duration) PlanCatalogCache {
	if ttl == nil {
		ttl = func() time.Duration { return DefaultPlanTTL }
	}
	return &planCatalogCache{
		lists: NewTTLCache[string, []plandomain.Plan](c),
		plans: NewTTLCache[string, plandomain.Plan](c),
		ttl:   ttl,
	}
}

func (c *planCatalogCache) GetActive() ([]plandomain.Plan, bool) {
	plans, ok := c.lists.Get(activePlansKey)
	return clonePlans(plans), ok
}

func (c *planCatalogCache) StaleActive() ([]plandomain.Plan, bool) {
	plans, ok := c.lists.Stale(activePlansKey)
	return clonePlans(plans), ok
}

func (c *planCatalogCache) SetActive(plans []plandomain.Plan) {
	c.lists.Set(activePlansKey, clonePlans(plans), c.entryTTL())
	for _, plan := range plans {
		c.SetPlan(plan)
	}
}

func (c *planCatalogCache) GetPlan(kind, value string) (plandomain.Plan, bool) {
	return c.plans.Get(cacheKey(kind, value))
}

func (c *planCatalogCache) StalePlan(kind, value string) (plandomain.Plan, bool) {
	return c.plans.Stale(cacheKey(kind, value))
}

func (c *planCatalogCache) SetPlan(plan plandomain.Plan) {
	if plan.ID == 0 {
		return
	}
	ttl := c.entryTTL()
	c.plans.Set(cacheKey(KeyByID, plan.ID.String()), plan, ttl)
	c.plans.Set(cacheKey(KeyBySlug, plan.Slug), plan, ttl)
}

func (c *planCatalogCache) entryTTL() time.Duration {
	if ttl := c.ttl(); ttl > 0 {
		return ttl
	}
	return DefaultPlanTTL
}

func clonePlans(plans []plandomain.Plan) []plandomain.Plan {
	if plans == nil {
		return nil
	}
	out := make([]plandomain.Plan, len(plans))
	copy(out, plans)
	return out
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}
