package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/migration"
	obsmetrics "github.com/smallbiznis/vitrine/internal/observability/metrics"
	"github.com/smallbiznis/vitrine/internal/ratelimit"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
	subscriptionrepository "github.com/smallbiznis/vitrine/internal/subscription/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	repo  subscriptiondomain.Repository
	clock *clock.FakeClock
}

func setup(t *testing.T) fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.Apply(db, "sqlite"))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return fixture{db: db, node: node, repo: subscriptionrepository.Provide(), clock: clock.NewFakeClock(now)}
}

func (f fixture) insert(t *testing.T, status subscriptiondomain.Status, periodEnd time.Time) snowflake.ID {
	t.Helper()
	sub := subscriptiondomain.Subscription{
		ID:                 f.node.Generate(),
		UserID:             f.node.Generate(),
		PlanID:             2,
		Status:             status,
		CurrentPeriodStart: periodEnd.AddDate(0, -1, 0),
		CurrentPeriodEnd:   periodEnd,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, f.repo.Insert(context.Background(), f.db, &sub))
	return sub.ID
}

func (f fixture) status(t *testing.T, id snowflake.ID) subscriptiondomain.Status {
	t.Helper()
	var status string
	require.NoError(t, f.db.Raw(`SELECT status FROM subscriptions WHERE id = ?`, id).Scan(&status).Error)
	return subscriptiondomain.Status(status)
}

func (f fixture) scheduler(t *testing.T, p Params) *Scheduler {
	t.Helper()
	p.DB = f.db
	p.Log = zap.NewNop()
	p.GenID = f.node
	p.Repo = f.repo
	p.Clock = f.clock
	s, err := New(p)
	require.NoError(t, err)
	return s
}

func TestExpireSubscriptionsJob(t *testing.T) {
	f := setup(t)
	canceled := f.insert(t, subscriptiondomain.StatusCanceled, now.Add(-time.Hour))
	pastDue := f.insert(t, subscriptiondomain.StatusPastDue, now)
	canceledFuture := f.insert(t, subscriptiondomain.StatusCanceled, now.Add(time.Hour))
	activeLapsed := f.insert(t, subscriptiondomain.StatusActive, now.Add(-time.Hour))

	reg := prometheus.NewRegistry()
	m, err := obsmetrics.New(obsmetrics.Config{}, reg)
	require.NoError(t, err)

	s := f.scheduler(t, Params{Config: Config{BatchSize: 1}, Metrics: m})
	require.NoError(t, s.RunOnce(context.Background()))

	assert.Equal(t, subscriptiondomain.StatusExpired, f.status(t, canceled))
	assert.Equal(t, subscriptiondomain.StatusExpired, f.status(t, pastDue))
	assert.Equal(t, subscriptiondomain.StatusCanceled, f.status(t, canceledFuture))
	assert.Equal(t, subscriptiondomain.StatusActive, f.status(t, activeLapsed))

	count, err := testutil.GatherAndCount(reg, "vitrine_scheduler_job_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	f.clock.Advance(2 * time.Hour)
	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, subscriptiondomain.StatusExpired, f.status(t, canceledFuture))
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	f := setup(t)
	canceled := f.insert(t, subscriptiondomain.StatusCanceled, now.Add(-time.Hour))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := ratelimit.NewLocker(client)

	token, ok, err := locker.TryLock(context.Background(), "scheduler:"+JobExpireSubscriptions, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	s := f.scheduler(t, Params{Locker: locker})
	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, subscriptiondomain.StatusCanceled, f.status(t, canceled))

	require.NoError(t, locker.Release(context.Background(), "scheduler:"+JobExpireSubscriptions, token))
	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, subscriptiondomain.StatusExpired, f.status(t, canceled))
	assert.False(t, mr.Exists(ratelimit.LockKeyPrefix+"scheduler:"+JobExpireSubscriptions))
}

func TestRunOnceReportsStorageErrors(t *testing.T) {
	f := setup(t)
	s := f.scheduler(t, Params{})

	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), JobExpireSubscriptions)
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Params{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestProvideConfigAppliesDefaults(t *testing.T) {
	cfg := DefaultConfig()
	got := Config{}.withDefaults()
	assert.Equal(t, cfg, got)
}
