package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/product/domain"
	"github.com/smallbiznis/vitrine/internal/product/repository"
	"github.com/smallbiznis/vitrine/internal/storecontext"
	"github.com/smallbiznis/vitrine/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, domain.Repository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Product{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := repository.Provide()
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
		Clock: clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)),
	})
	return svc, repo, db
}

func storeCtx(id int64) context.Context {
	return storecontext.WithStoreID(context.Background(), snowflake.ID(id))
}

func TestCreateRequiresStoreAndValidPrice(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{Name: "Caneca", Price: "10"})
	assert.ErrorIs(t, err, domain.ErrInvalidStore)

	_, err = svc.Create(storeCtx(1), domain.CreateRequest{Name: "Caneca", Price: "-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Create(storeCtx(1), domain.CreateRequest{Name: " ", Price: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	resp, err := svc.Create(storeCtx(1), domain.CreateRequest{
		Name:     "Caneca",
		Price:    "39.9",
		Metadata: map[string]any{"cor": "azul"},
	})
	require.NoError(t, err)
	assert.Equal(t, "39.90", resp.Price)
	assert.True(t, resp.Active)

	got, err := svc.Get(storeCtx(1), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caneca", got.Name)
	assert.Equal(t, "azul", got.Metadata["cor"])

	_, err = svc.Get(storeCtx(2), resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCountIncludesInactiveProducts(t *testing.T) {
	svc, repo, db := setupService(t)
	inactive := false

	_, err := svc.Create(storeCtx(1), domain.CreateRequest{Name: "A", Price: "1"})
	require.NoError(t, err)
	_, err = svc.Create(storeCtx(1), domain.CreateRequest{Name: "B", Price: "1", Active: &inactive})
	require.NoError(t, err)
	_, err = svc.Create(storeCtx(2), domain.CreateRequest{Name: "C", Price: "1"})
	require.NoError(t, err)

	count, err := repo.CountByStoreID(context.Background(), db, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListPaginatesByCursor(t *testing.T) {
	svc, _, _ := setupService(t)
	for i := 0; i < 5; i++ {
		_, err := svc.Create(storeCtx(1), domain.CreateRequest{Name: fmt.Sprintf("P%d", i), Price: "1"})
		require.NoError(t, err)
	}

	first, err := svc.List(storeCtx(1), domain.ListRequest{Pagination: pagination.Pagination{PageSize: 3}})
	require.NoError(t, err)
	assert.Len(t, first.Items, 3)
	assert.True(t, first.PageInfo.HasMore)

	second, err := svc.List(storeCtx(1), domain.ListRequest{Pagination: pagination.Pagination{PageSize: 3, PageToken: first.PageInfo.NextPageToken}})
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.False(t, second.PageInfo.HasMore)
	assert.Equal(t, "P3", second.Items[0].Name)

	_, err = svc.List(storeCtx(1), domain.ListRequest{Pagination: pagination.Pagination{PageToken: "garbage!"}})
	assert.ErrorIs(t, err, pagination.ErrInvalidPageToken)
}
