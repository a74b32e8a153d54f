package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/vitrine/internal/clock"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	orderrepository "github.com/smallbiznis/vitrine/internal/order/repository"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	planrepository "github.com/smallbiznis/vitrine/internal/plan/repository"
	planservice "github.com/smallbiznis/vitrine/internal/plan/service"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	productrepository "github.com/smallbiznis/vitrine/internal/product/repository"
	storedomain "github.com/smallbiznis/vitrine/internal/store/domain"
	storerepository "github.com/smallbiznis/vitrine/internal/store/repository"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
	subscriptionrepository "github.com/smallbiznis/vitrine/internal/subscription/repository"
	subscriptionservice "github.com/smallbiznis/vitrine/internal/subscription/service"
	"github.com/smallbiznis/vitrine/internal/usage/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var brt = time.FixedZone("BRT", -3*60*60)

const (
	testUser  = snowflake.ID(7)
	testStore = snowflake.ID(70)
)

type fixture struct {
	db            *gorm.DB
	clock         *clock.FakeClock
	node          *snowflake.Node
	svc           domain.Service
	subscriptions subscriptiondomain.Service
	products      productdomain.Repository
	orders        orderdomain.Repository
}

func setup(t *testing.T) fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&plandomain.Plan{},
		&subscriptiondomain.Subscription{},
		&storedomain.Store{},
		&productdomain.Product{},
		&orderdomain.Order{},
	))

	ctx := context.Background()
	planRepo := planrepository.Provide()
	for _, plan := range plandomain.DefaultPlans() {
		require.NoError(t, planRepo.Insert(ctx, db, &plan))
	}

	clk := clock.NewFakeClock(time.Date(2025, 3, 15, 10, 30, 0, 0, brt))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	stores := storerepository.Provide()
	require.NoError(t, stores.Insert(ctx, db, &storedomain.Store{
		ID: testStore, UserID: testUser, Name: "Loja", Slug: "loja", Active: true,
		CreatedAt: clk.Now(), UpdatedAt: clk.Now(),
	}))

	catalog := planservice.New(planservice.Params{DB: db, Log: zap.NewNop(), Repo: planRepo, Clock: clk})
	subscriptions := subscriptionservice.New(subscriptionservice.Params{
		DB: db, Log: zap.NewNop(), GenID: node, Repo: subscriptionrepository.Provide(), Catalog: catalog, Clock: clk,
	})
	products := productrepository.Provide()
	orders := orderrepository.Provide()

	svc := New(Params{
		DB:            db,
		Log:           zap.NewNop(),
		Stores:        stores,
		Products:      products,
		Orders:        orders,
		Subscriptions: subscriptions,
		Clock:         clk,
	})
	return fixture{db: db, clock: clk, node: node, svc: svc, subscriptions: subscriptions, products: products, orders: orders}
}

func (f fixture) addProducts(t *testing.T, n int, active bool) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, f.products.Create(context.Background(), f.db, &productdomain.Product{
			ID: f.node.Generate(), StoreID: testStore, Name: "p", Price: decimal.NewFromInt(1), Active: active,
			CreatedAt: f.clock.Now(), UpdatedAt: f.clock.Now(),
		}))
	}
}

func (f fixture) addOrder(t *testing.T, createdAt time.Time, status orderdomain.Status) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	require.NoError(t, f.orders.Insert(context.Background(), f.db, &orderdomain.Order{
		ID: id, StoreID: testStore, CustomerName: "c", CustomerEmail: "c@x.com", ZipCode: "1",
		Status: status, Subtotal: decimal.NewFromInt(1), ShippingCost: decimal.Zero, Total: decimal.NewFromInt(1),
		EstimatedDays: 7, CreatedAt: createdAt, UpdatedAt: createdAt,
	}))
	return id
}

func TestSnapshotForImplicitFreePlan(t *testing.T) {
	f := setup(t)
	f.addProducts(t, 3, true)
	f.addProducts(t, 1, false)

	snap, err := f.svc.Snapshot(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, plandomain.SlugFree, snap.Plan.Slug)
	assert.Equal(t, int64(4), snap.Products.Current, "inactive products count")
	assert.Equal(t, 5, *snap.Products.Limit)
	assert.Equal(t, 80.0, snap.Products.Percentage)
	assert.Equal(t, int64(0), snap.Orders.Current)
	assert.Equal(t, 50, *snap.Orders.Limit)
}

func TestMonthlyOrderWindow(t *testing.T) {
	f := setup(t)

	f.addOrder(t, time.Date(2025, 3, 1, 0, 0, 0, 0, brt), orderdomain.StatusPending)
	f.addOrder(t, time.Date(2025, 2, 28, 23, 59, 59, 0, brt), orderdomain.StatusPaid)
	cancelled := f.addOrder(t, time.Date(2025, 3, 10, 9, 0, 0, 0, brt), orderdomain.StatusPending)

	snap, err := f.svc.Snapshot(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Orders.Current)

	require.NoError(t, f.orders.UpdateStatus(context.Background(), f.db, testStore, cancelled, orderdomain.StatusCancelled, f.clock.Now()))

	snap, err = f.svc.Snapshot(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Orders.Current, "cancelling does not release quota")
	assert.Equal(t, 4.0, snap.Orders.Percentage)
}

func TestMonthlyOrderWindowStartsAtServerLocalMidnight(t *testing.T) {
	local := time.Local
	t.Cleanup(func() { time.Local = local })
	time.Local = brt

	f := setup(t)
	svc := New(Params{
		DB:            f.db,
		Log:           zap.NewNop(),
		Stores:        storerepository.Provide(),
		Products:      f.products,
		Orders:        f.orders,
		Subscriptions: f.subscriptions,
		Clock:         clock.SystemClock{},
	})

	monthStart := domain.MonthStart(clock.SystemClock{}.Now())
	_, offset := monthStart.Zone()
	require.Equal(t, -3*60*60, offset)

	// 22:00 local on the last day of the prior month is already the new month in UTC.
	f.addOrder(t, monthStart.Add(-2*time.Hour).UTC(), orderdomain.StatusPaid)
	f.addOrder(t, monthStart.UTC(), orderdomain.StatusPending)

	snap, err := svc.Snapshot(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Orders.Current)
}

func TestUnlimitedPlanReportsZeroPercent(t *testing.T) {
	f := setup(t)
	_, err := f.subscriptions.Subscribe(context.Background(), testUser, plandomain.SlugEnterprise)
	require.NoError(t, err)

	snap, err := f.svc.Snapshot(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, plandomain.SlugEnterprise, snap.Plan.Slug)
	assert.Nil(t, snap.Products.Limit)
	assert.Equal(t, 0.0, snap.Products.Percentage)

	f.addProducts(t, 25, true)
	m, err := f.svc.Measure(context.Background(), testUser, domain.ResourceProducts)
	require.NoError(t, err)
	assert.Equal(t, int64(25), m.Metric.Current)
	assert.Equal(t, 0.0, m.Metric.Percentage)
	assert.False(t, m.Metric.Exhausted())
}

func TestSnapshotWithoutStore(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Snapshot(context.Background(), snowflake.ID(999))
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)

	_, err = f.svc.Measure(context.Background(), testUser, domain.Resource("coupons"))
	assert.ErrorIs(t, err, domain.ErrUnknownResource)
}
