package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/clock"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	storedomain "github.com/smallbiznis/vitrine/internal/store/domain"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
	"github.com/smallbiznis/vitrine/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Stores        storedomain.Repository
	Products      productdomain.Repository
	Orders        orderdomain.Repository
	Subscriptions subscriptiondomain.Service
	Clock         clock.Clock
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	stores        storedomain.Repository
	products      productdomain.Repository
	orders        orderdomain.Repository
	subscriptions subscriptiondomain.Service
	clock         clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("usage.service"),
		stores:        p.Stores,
		products:      p.Products,
		orders:        p.Orders,
		subscriptions: p.Subscriptions,
		clock:         clk,
	}
}

func (s *Service) Snapshot(ctx context.Context, userID snowflake.ID) (*domain.Snapshot, error) {
	storeID, err := s.storeID(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, _, err := s.subscriptions.EffectivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	products, err := s.count(ctx, storeID, domain.ResourceProducts)
	if err != nil {
		return nil, err
	}
	orders, err := s.count(ctx, storeID, domain.ResourceOrders)
	if err != nil {
		return nil, err
	}

	return &domain.Snapshot{
		Plan:     plan,
		Products: domain.NewMetric(products, plan.MaxProducts),
		Orders:   domain.NewMetric(orders, plan.MaxOrders),
	}, nil
}

func (s *Service) Measure(ctx context.Context, userID snowflake.ID, resource domain.Resource) (*domain.Measurement, error) {
	if resource != domain.ResourceProducts && resource != domain.ResourceOrders {
		return nil, domain.ErrUnknownResource
	}
	storeID, err := s.storeID(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, resolution, err := s.subscriptions.EffectivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	current, err := s.count(ctx, storeID, resource)
	if err != nil {
		return nil, err
	}

	return &domain.Measurement{
		Resource:   resource,
		StoreID:    storeID,
		Plan:       plan,
		Resolution: resolution,
		Metric:     domain.NewMetric(current, domain.LimitFor(plan, resource)),
	}, nil
}

func (s *Service) storeID(ctx context.Context, userID snowflake.ID) (snowflake.ID, error) {
	if userID == 0 {
		return 0, domain.ErrInvalidUser
	}
	store, err := s.stores.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return 0, err
	}
	if store == nil {
		return 0, domain.ErrStoreNotFound
	}
	return store.ID, nil
}

// count reads products regardless of active flag and orders regardless of
// status since the start of the current month.
func (s *Service) count(ctx context.Context, storeID snowflake.ID, resource domain.Resource) (int64, error) {
	switch resource {
	case domain.ResourceProducts:
		return s.products.CountByStoreID(ctx, s.db, storeID)
	case domain.ResourceOrders:
		return s.orders.CountCreatedSince(ctx, s.db, storeID, domain.MonthStart(s.clock.Now()))
	default:
		return 0, domain.ErrUnknownResource
	}
}
