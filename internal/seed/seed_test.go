package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/vitrine/internal/clock"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	planrepository "github.com/smallbiznis/vitrine/internal/plan/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&plandomain.Plan{}))
	return db
}

type stubLocker struct {
	acquired bool
	err      error
	released []string
}

func (l *stubLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	return "token", l.acquired, l.err
}

func (l *stubLocker) Release(ctx context.Context, key, token string) error {
	l.released = append(l.released, token)
	return nil
}

func opts() Options {
	return Options{Clock: clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))}
}

func TestEnsurePlansIsIdempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	require.NoError(t, EnsurePlans(ctx, db, opts()))
	require.NoError(t, EnsurePlans(ctx, db, opts()))

	plans, err := planrepository.Provide().FindActive(ctx, db)
	require.NoError(t, err)
	require.Len(t, plans, 4)
	assert.Equal(t, plandomain.SlugFree, plans[0].Slug)
}

func TestEnsurePlansKeepsEditedRows(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := planrepository.Provide()

	basic := plandomain.DefaultPlans()[1]
	basic.Price = decimal.RequireFromString("39.90")
	require.NoError(t, repo.Insert(ctx, db, &basic))

	require.NoError(t, EnsurePlans(ctx, db, opts()))

	got, err := repo.FindBySlug(ctx, db, plandomain.SlugBasic)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, decimal.RequireFromString("39.90").Equal(got.Price))

	plans, err := repo.FindActive(ctx, db)
	require.NoError(t, err)
	assert.Len(t, plans, 4)
}

func TestEnsurePlansRespectsLock(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	held := &stubLocker{acquired: false}
	o := opts()
	o.Locker = held
	require.NoError(t, EnsurePlans(ctx, db, o))

	plans, err := planrepository.Provide().FindActive(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, plans)
	assert.Empty(t, held.released)

	free := &stubLocker{acquired: true}
	o.Locker = free
	require.NoError(t, EnsurePlans(ctx, db, o))
	assert.Equal(t, []string{"token"}, free.released)

	o.Locker = &stubLocker{err: errors.New("redis down")}
	assert.Error(t, EnsurePlans(ctx, db, o))
}
