package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/cache"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/config"
	"github.com/smallbiznis/vitrine/internal/observability/metrics"
	"github.com/smallbiznis/vitrine/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Clock   clock.Clock
	Config  *config.CatalogConfigHolder `optional:"true"`
	Metrics *metrics.Metrics            `optional:"true"`
}

// Catalog reads plans through a per-process cache. When storage fails it
// serves the last cached value regardless of age, then DefaultPlans.
type Catalog struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	cache   cache.PlanCatalogCache
	metrics *metrics.Metrics
}

func New(p Params) domain.Catalog {
	return newCatalog(p)
}

func newCatalog(p Params) *Catalog {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	holder := p.Config
	ttl := func() time.Duration {
		if holder == nil {
			return cache.DefaultPlanTTL
		}
		return holder.Get().CacheTTL
	}
	return &Catalog{
		db:      p.DB,
		log:     log.Named("plan.service"),
		repo:    p.Repo,
		cache:   cache.NewPlanCatalogCache(clk, ttl),
		metrics: p.Metrics,
	}
}

func (s *Catalog) ListActive(ctx context.Context) []domain.Plan {
	if plans, ok := s.cache.GetActive(); ok {
		s.metrics.RecordCatalogRead(metrics.CatalogSourceCache)
		return plans
	}

	plans, err := s.repo.FindActive(ctx, s.db)
	if err == nil && len(plans) > 0 {
		domain.SortByPrice(plans)
		s.cache.SetActive(plans)
		s.metrics.RecordCatalogRead(metrics.CatalogSourceStorage)
		return plans
	}
	if err != nil {
		s.log.Warn("load active plans failed", zap.Error(err))
	} else {
		s.log.Warn("no active plans stored")
	}

	if stale, ok := s.cache.StaleActive(); ok {
		s.metrics.RecordCatalogRead(metrics.CatalogSourceStale)
		return stale
	}

	s.metrics.RecordCatalogRead(metrics.CatalogSourceFallback)
	return domain.DefaultPlans()
}

func (s *Catalog) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	id = strings.TrimSpace(id)
	planID, err := snowflake.ParseString(id)
	if err != nil || planID <= 0 {
		return domain.Plan{}, domain.ErrInvalidID
	}
	key := planID.String()

	return s.lookup(ctx, cache.KeyByID, key, func(ctx context.Context) (*domain.Plan, error) {
		return s.repo.FindByID(ctx, s.db, planID)
	}, func(p domain.Plan) bool {
		return p.ID == planID
	})
}

func (s *Catalog) GetBySlug(ctx context.Context, slug string) (domain.Plan, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return domain.Plan{}, domain.ErrInvalidSlug
	}

	return s.lookup(ctx, cache.KeyBySlug, slug, func(ctx context.Context) (*domain.Plan, error) {
		return s.repo.FindBySlug(ctx, s.db, slug)
	}, func(p domain.Plan) bool {
		return p.Slug == slug
	})
}

func (s *Catalog) lookup(
	ctx context.Context,
	kind, key string,
	load func(context.Context) (*domain.Plan, error),
	match func(domain.Plan) bool,
) (domain.Plan, error) {
	if plan, ok := s.cache.GetPlan(kind, key); ok {
		s.metrics.RecordCatalogRead(metrics.CatalogSourceCache)
		return plan, nil
	}

	plan, err := load(ctx)
	if err == nil {
		if plan == nil {
			return domain.Plan{}, domain.ErrPlanNotFound
		}
		s.cache.SetPlan(*plan)
		s.metrics.RecordCatalogRead(metrics.CatalogSourceStorage)
		return *plan, nil
	}

	s.log.Warn("load plan failed",
		zap.String("by", kind),
		zap.String("key", key),
		zap.Error(err),
	)

	if stale, ok := s.cache.StalePlan(kind, key); ok {
		s.metrics.RecordCatalogRead(metrics.CatalogSourceStale)
		return stale, nil
	}
	for _, fallback := range domain.DefaultPlans() {
		if match(fallback) {
			s.metrics.RecordCatalogRead(metrics.CatalogSourceFallback)
			return fallback, nil
		}
	}
	return domain.Plan{}, domain.ErrPlanNotFound
}
