package tracing

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/vitrine/internal/observability/context"
	"github.com/smallbiznis/vitrine/internal/storecontext"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	EventPlanLimitReached = "plan_limit_reached"
	EventRateLimited      = "rate_limited"
)

// GinMiddleware opens one server span per request. Handlers run with the
// span in the request context so gorm statements nest under it.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer("vitrine/http")
	return func(c *gin.Context) {
		method := strings.ToUpper(c.Request.Method)
		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, "HTTP "+method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
			if member, err := baggage.NewMember("request_id", requestID); err == nil {
				if bag, err := baggage.New(member); err == nil {
					ctx = baggage.ContextWithBaggage(ctx, bag)
				}
			}
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		span.SetName("HTTP " + method + " " + route)

		attrs := []attribute.KeyValue{
			attribute.String("http.method", method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		}
		if slug := c.Param("slug"); slug != "" {
			attrs = append(attrs, attribute.String("store.slug", strings.ToLower(slug)))
		}
		if storeID, ok := storecontext.StoreIDFromContext(c.Request.Context()); ok {
			attrs = append(attrs, attribute.String("store.id", storeID.String()))
		}
		span.SetAttributes(SafeAttributes(attrs...)...)

		switch {
		case status == http.StatusForbidden:
			span.AddEvent(EventPlanLimitReached)
		case status == http.StatusTooManyRequests:
			span.AddEvent(EventRateLimited)
		case status >= http.StatusInternalServerError:
			if lastErr := c.Errors.Last(); lastErr != nil {
				if safeErr := SafeError(lastErr.Err); safeErr != nil {
					span.RecordError(safeErr)
				}
			}
			span.SetStatus(codes.Error, "request error")
		}
	}
}
