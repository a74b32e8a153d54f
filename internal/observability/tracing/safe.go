package tracing

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
)

var sensitiveKeys = []string{"email", "password", "token", "secret", "authorization", "cookie", "zip"}

// ExtractContext reads upstream trace headers into ctx.
func ExtractContext(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// SafeAttributes drops attributes whose keys may carry customer data.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if isSensitive(string(attr.Key)) {
			continue
		}
		out = append(out, attr)
	}
	return out
}

// SafeError strips the error chain down to its outermost message so wrapped
// driver errors do not leak query values into spans.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.TrimSpace(err.Error())
	if idx := strings.Index(msg, ": "); idx > 0 {
		msg = msg[:idx]
	}
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}
