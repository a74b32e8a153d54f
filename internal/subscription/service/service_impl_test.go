package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/vitrine/internal/clock"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	planrepository "github.com/smallbiznis/vitrine/internal/plan/repository"
	planservice "github.com/smallbiznis/vitrine/internal/plan/service"
	"github.com/smallbiznis/vitrine/internal/subscription/domain"
	"github.com/smallbiznis/vitrine/internal/subscription/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	clock *clock.FakeClock
	svc   domain.Service
	repo  domain.Repository
}

func setup(t *testing.T) fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&plandomain.Plan{}, &domain.Subscription{}))

	planRepo := planrepository.Provide()
	for _, plan := range plandomain.DefaultPlans() {
		require.NoError(t, planRepo.Insert(context.Background(), db, &plan))
	}

	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	catalog := planservice.New(planservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		Repo:  planRepo,
		Clock: clk,
	})
	repo := repository.Provide()
	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    repo,
		Catalog: catalog,
		Clock:   clk,
	})
	return fixture{db: db, clock: clk, svc: svc, repo: repo}
}

func TestResolveWithoutRowsIsImplicitFree(t *testing.T) {
	f := setup(t)

	res, err := f.svc.Resolve(context.Background(), snowflake.ID(42))
	require.NoError(t, err)
	assert.Equal(t, domain.KindImplicitFree, res.Kind)
	assert.Equal(t, domain.StatusActive, res.Status)
	assert.Equal(t, plandomain.SlugFree, res.Plan.Slug)
	assert.True(t, res.IsFree)
	assert.Nil(t, res.Subscription)
}

func TestResolveRejectsZeroUser(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Resolve(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
}

func TestSubscribeThenResolveIsExplicit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Subscribe(ctx, 7, plandomain.SlugBasic)
	require.NoError(t, err)
	assert.Equal(t, domain.KindExplicit, created.Kind)

	res, err := f.svc.Resolve(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.KindExplicit, res.Kind)
	assert.Equal(t, plandomain.SlugBasic, res.Plan.Slug)
	assert.False(t, res.IsFree)
	require.NotNil(t, res.Subscription)
	assert.True(t, res.Subscription.CurrentPeriodEnd.Equal(f.clock.Now().AddDate(0, 1, 0)))

	_, err = f.svc.Subscribe(ctx, 7, plandomain.SlugBasic)
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
}

func TestSubscribeUnknownPlan(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Subscribe(context.Background(), 7, "platinum")
	assert.ErrorIs(t, err, plandomain.ErrPlanNotFound)
}

func TestLatestRowWinsRegardlessOfStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Subscribe(ctx, 7, plandomain.SlugBasic)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.svc.Subscribe(ctx, 7, plandomain.SlugProfessional)
	require.NoError(t, err)

	res, err := f.svc.Resolve(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, plandomain.SlugProfessional, res.Plan.Slug)

	var canceled int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(*) FROM subscriptions WHERE user_id = ? AND status = ?`, 7, domain.StatusCanceled).Scan(&canceled).Error)
	assert.Equal(t, int64(1), canceled, "the replaced subscription is kept as canceled")
}

func TestResolveReportsNonActiveStatusVerbatim(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	now := f.clock.Now()

	require.NoError(t, f.repo.Insert(ctx, f.db, &domain.Subscription{
		ID:                 100,
		UserID:             9,
		PlanID:             snowflake.ID(3),
		Status:             domain.StatusPastDue,
		CurrentPeriodStart: now.AddDate(0, -1, 0),
		CurrentPeriodEnd:   now.Add(24 * time.Hour),
		CreatedAt:          now,
		UpdatedAt:          now,
	}))

	res, err := f.svc.Resolve(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, domain.KindExplicit, res.Kind)
	assert.Equal(t, domain.StatusPastDue, res.Status)
	assert.Equal(t, plandomain.SlugProfessional, res.Plan.Slug)
}

func TestCancelKeepsRowAndEntitlementUntilPeriodEnd(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Subscribe(ctx, 7, plandomain.SlugBasic)
	require.NoError(t, err)

	canceled, err := f.svc.Cancel(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, canceled.Status)
	require.NotNil(t, canceled.Subscription)
	assert.True(t, canceled.Subscription.CancelAtPeriodEnd)

	res, err := f.svc.Resolve(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, res.Status)
	assert.True(t, res.Subscription.CancelAtPeriodEnd)
	assert.NotNil(t, res.Subscription.CanceledAt)

	plan, _, err := f.svc.EffectivePlan(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, plandomain.SlugBasic, plan.Slug)

	f.clock.Advance(40 * 24 * time.Hour)
	plan, res, err = f.svc.EffectivePlan(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, plandomain.SlugFree, plan.Slug)
	assert.Equal(t, plandomain.SlugBasic, res.Plan.Slug)

	_, err = f.svc.Cancel(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrNoActiveSubscription)
}

func TestCancelWithoutSubscription(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Cancel(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNoActiveSubscription)
}

func TestExpiredSubscriptionLimitsAsFree(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	now := f.clock.Now()

	require.NoError(t, f.repo.Insert(ctx, f.db, &domain.Subscription{
		ID:                 101,
		UserID:             11,
		PlanID:             snowflake.ID(4),
		Status:             domain.StatusExpired,
		CurrentPeriodStart: now.AddDate(0, -2, 0),
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		CreatedAt:          now,
		UpdatedAt:          now,
	}))

	plan, res, err := f.svc.EffectivePlan(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, res.Status)
	assert.Equal(t, plandomain.SlugFree, plan.Slug)
}

func TestUnknownPlanReferenceResolvesToFree(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	now := f.clock.Now()

	require.NoError(t, f.repo.Insert(ctx, f.db, &domain.Subscription{
		ID:                 102,
		UserID:             12,
		PlanID:             snowflake.ID(999),
		Status:             domain.StatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		CreatedAt:          now,
		UpdatedAt:          now,
	}))

	res, err := f.svc.Resolve(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, domain.KindExplicit, res.Kind)
	assert.Equal(t, plandomain.SlugFree, res.Plan.Slug)
	assert.True(t, res.IsFree)
}
