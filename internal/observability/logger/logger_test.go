package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/vitrine/internal/observability/context"
	"github.com/smallbiznis/vitrine/internal/storecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = storecontext.WithUserID(ctx, snowflake.ID(7))
	ctx = storecontext.WithStoreID(ctx, snowflake.ID(70))

	WithContext(ctx, zap.New(core)).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "7", fields["user_id"])
	assert.Equal(t, "70", fields["store_id"])
	assert.Equal(t, "", fields["trace_id"])
}

func TestGinMiddlewareLogsRequest(t *testing.T) {
	logs := observe(t, zap.DebugLevel)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.GET("/api/public/stores/:slug/shipping/quote", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/public/stores/loja/shipping/quote", nil)
	req.Header.Set("X-Request-Id", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc", w.Header().Get("X-Request-Id"))
	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.Equal(t, "loja", fields["store_slug"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, zap.InfoLevel, entries[0].Level)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	entries = logs.FilterMessage("http_request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.DebugLevel, entries[1].Level)
}

func TestGormLoggerLevels(t *testing.T) {
	logs := observe(t, zap.DebugLevel)
	gl := NewGormLogger(GormLoggerConfig{Level: gormlogger.Warn, SlowThreshold: time.Hour, IgnoreRecordNotFound: true})

	sql := func() (string, int64) { return "SELECT count(*) FROM products WHERE store_id = ?", 1 }

	gl.Trace(context.Background(), time.Now(), sql, nil)
	assert.Equal(t, 0, logs.Len())

	gl.Trace(context.Background(), time.Now().Add(-2*time.Hour), sql, nil)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, "SELECT", logs.All()[0].ContextMap()["operation"])
	assert.Equal(t, "products", logs.All()[0].ContextMap()["table"])

	gl.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zap.ErrorLevel, logs.All()[1].Level)

	gl.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 2, logs.Len())

	plans := func() (string, int64) { return "SELECT * FROM plans WHERE active = true", -1 }
	gl.Trace(context.Background(), time.Now(), plans, errors.New("connection refused"))
	require.Equal(t, 3, logs.Len())
	assert.Equal(t, true, logs.All()[2].ContextMap()["catalog_degraded"])
	_, hasRows := logs.All()[2].ContextMap()["rows_affected"]
	assert.False(t, hasRows)
}

func TestTableFromSQL(t *testing.T) {
	assert.Equal(t, "orders", tableFromSQL("SELECT count(*) FROM orders WHERE store_id = ?"))
	assert.Equal(t, "shipping_zones", tableFromSQL("INSERT INTO shipping_zones (id) VALUES (?)"))
	assert.Equal(t, "subscriptions", tableFromSQL("UPDATE \"subscriptions\" SET status = ?"))
	assert.Equal(t, "subscriptions", tableFromSQL("SELECT s.id FROM subscriptions s LEFT JOIN plans p ON p.id = s.plan_id"))
	assert.Equal(t, "", tableFromSQL(""))
}

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "INSERT", operationFromSQL("INSERT INTO orders (id) VALUES (?)"))
	assert.Equal(t, "SELECT", operationFromSQL("WITH latest AS (SELECT 1) SELECT * FROM latest"))
	assert.Equal(t, "UNKNOWN", operationFromSQL(""))
}
