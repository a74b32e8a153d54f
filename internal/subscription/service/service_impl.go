package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/clock"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	"github.com/smallbiznis/vitrine/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Catalog plandomain.Catalog
	Clock   clock.Clock
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	catalog plandomain.Catalog
	clock   clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("subscription.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		catalog: p.Catalog,
		clock:   clk,
	}
}

func (s *Service) Resolve(ctx context.Context, userID snowflake.ID) (domain.Resolution, error) {
	if userID == 0 {
		return domain.Resolution{}, domain.ErrInvalidUser
	}

	current, err := s.repo.FindLatestByUserID(ctx, s.db, userID)
	if err != nil {
		return domain.Resolution{}, err
	}
	if current == nil {
		free, err := s.freePlan(ctx)
		if err != nil {
			return domain.Resolution{}, err
		}
		return domain.ImplicitFree(free), nil
	}

	plan, err := s.planFor(ctx, current)
	if err != nil {
		return domain.Resolution{}, err
	}
	return domain.Explicit(current.Subscription, plan), nil
}

func (s *Service) EffectivePlan(ctx context.Context, userID snowflake.ID) (plandomain.Plan, domain.Resolution, error) {
	resolution, err := s.Resolve(ctx, userID)
	if err != nil {
		return plandomain.Plan{}, domain.Resolution{}, err
	}
	if resolution.EntitledAt(s.clock.Now()) {
		return resolution.Plan, resolution, nil
	}

	free, err := s.freePlan(ctx)
	if err != nil {
		return plandomain.Plan{}, domain.Resolution{}, err
	}
	return free, resolution, nil
}

func (s *Service) Subscribe(ctx context.Context, userID snowflake.ID, planSlug string) (domain.Resolution, error) {
	if userID == 0 {
		return domain.Resolution{}, domain.ErrInvalidUser
	}
	plan, err := s.catalog.GetBySlug(ctx, strings.TrimSpace(planSlug))
	if err != nil {
		return domain.Resolution{}, err
	}
	if !plan.Active {
		return domain.Resolution{}, domain.ErrPlanInactive
	}

	now := s.clock.Now()
	sub := domain.Subscription{
		ID:                 s.genID.Generate(),
		UserID:             userID,
		PlanID:             plan.ID,
		Status:             domain.StatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.FindLatestByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if current != nil && current.Subscription.Status == domain.StatusActive {
			if current.Subscription.PlanID == plan.ID {
				return domain.ErrAlreadySubscribed
			}
			if err := s.repo.MarkCanceled(ctx, tx, current.Subscription.ID, false, now); err != nil {
				return err
			}
		}
		return s.repo.Insert(ctx, tx, &sub)
	})
	if err != nil {
		return domain.Resolution{}, err
	}

	s.log.Info("subscription created",
		zap.String("user_id", userID.String()),
		zap.String("plan", plan.Slug),
		zap.String("subscription_id", sub.ID.String()),
	)
	return domain.Explicit(sub, plan), nil
}

// Cancel keeps the current row and marks it canceled at period end.
func (s *Service) Cancel(ctx context.Context, userID snowflake.ID) (domain.Resolution, error) {
	if userID == 0 {
		return domain.Resolution{}, domain.ErrInvalidUser
	}

	current, err := s.repo.FindLatestByUserID(ctx, s.db, userID)
	if err != nil {
		return domain.Resolution{}, err
	}
	if current == nil || current.Subscription.Status != domain.StatusActive {
		return domain.Resolution{}, domain.ErrNoActiveSubscription
	}

	now := s.clock.Now()
	if err := s.repo.MarkCanceled(ctx, s.db, current.Subscription.ID, true, now); err != nil {
		return domain.Resolution{}, err
	}

	sub := current.Subscription
	sub.Status = domain.StatusCanceled
	sub.CancelAtPeriodEnd = true
	sub.CanceledAt = &now
	sub.UpdatedAt = now

	plan, err := s.planFor(ctx, current)
	if err != nil {
		return domain.Resolution{}, err
	}
	s.log.Info("subscription canceled",
		zap.String("user_id", userID.String()),
		zap.String("subscription_id", sub.ID.String()),
	)
	return domain.Explicit(sub, plan), nil
}

func (s *Service) freePlan(ctx context.Context) (plandomain.Plan, error) {
	return s.catalog.GetBySlug(ctx, plandomain.SlugFree)
}

// planFor prefers the joined plan row and asks the catalog otherwise. A
// subscription pointing at a plan that no longer exists is limited as free.
func (s *Service) planFor(ctx context.Context, current *domain.WithPlan) (plandomain.Plan, error) {
	if current.Plan != nil {
		return *current.Plan, nil
	}

	plan, err := s.catalog.GetByID(ctx, current.Subscription.PlanID.String())
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, plandomain.ErrPlanNotFound) {
		return plandomain.Plan{}, err
	}
	s.log.Warn("subscription references unknown plan",
		zap.String("subscription_id", current.Subscription.ID.String()),
		zap.String("plan_id", current.Subscription.PlanID.String()),
	)
	return s.freePlan(ctx)
}
