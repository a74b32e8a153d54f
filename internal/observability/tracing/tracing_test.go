package tracing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/vitrine/internal/storecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestSafeAttributesDropsCustomerFields(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/store/orders"),
		attribute.String("customer.email", "a@b.com"),
		attribute.String("zip_code", "01310100"),
		attribute.Int("http.status_code", 201),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
	assert.Equal(t, attribute.Key("http.status_code"), attrs[1].Key)
}

func TestSafeErrorKeepsOutermostMessage(t *testing.T) {
	err := fmt.Errorf("count orders: %w", errors.New("pq: relation does not exist"))
	assert.EqualError(t, SafeError(err), "count orders")
	assert.Nil(t, SafeError(nil))
}

func TestProviderWithoutEndpointStillTraces(t *testing.T) {
	tp, err := NewProvider(nil, Config{ServiceName: "vitrine", SamplingRatio: 1}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	var traced bool
	r.GET("/health", func(c *gin.Context) {
		traced = traceValid(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, traced)
}

func traceValid(ctx context.Context) bool {
	return trace.SpanContextFromContext(ctx).IsValid()
}

func TestNewExporterSelectsProtocol(t *testing.T) {
	for _, protocol := range []string{"grpc", "http/protobuf"} {
		t.Run(protocol, func(t *testing.T) {
			exp, err := newExporter(context.Background(), Config{ExporterEndpoint: "localhost:4317", ExporterProtocol: protocol})
			require.NoError(t, err)
			require.NotNil(t, exp)
			assert.NoError(t, exp.Shutdown(context.Background()))
		})
	}
}

func TestGinMiddlewareRecordsStoreAndLimitEvent(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.POST("/api/store/products", func(c *gin.Context) {
		ctx := storecontext.WithStoreID(c.Request.Context(), snowflake.ID(70))
		c.Request = c.Request.WithContext(ctx)
		c.Status(http.StatusForbidden)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/store/products", nil))
	require.Equal(t, http.StatusForbidden, w.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "HTTP POST /api/store/products", span.Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "70", attrs["store.id"].AsString())
	assert.Equal(t, int64(403), attrs["http.status_code"].AsInt64())

	require.Len(t, span.Events(), 1)
	assert.Equal(t, EventPlanLimitReached, span.Events()[0].Name)
}
