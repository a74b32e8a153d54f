package server

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	entitlementdomain "github.com/smallbiznis/vitrine/internal/entitlement/domain"
	storedomain "github.com/smallbiznis/vitrine/internal/store/domain"
	"github.com/smallbiznis/vitrine/internal/storecontext"
)

const (
	HeaderUserID      = "X-User-Id"
	contextUserIDKey  = "user_id"
	contextStoreIDKey = "store_id"
)

// RequireUser trusts the identity forwarded by the upstream auth proxy.
func (s *Server) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		userID, err := snowflake.ParseString(raw)
		if err != nil || userID <= 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextUserIDKey, userID.String())
		c.Request = c.Request.WithContext(storecontext.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// RequireStore resolves the merchant's store and scopes the request to it.
func (s *Server) RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := storecontext.UserIDFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		store, err := s.storeSvc.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if store == nil {
			AbortWithError(c, storedomain.ErrStoreNotFound)
			return
		}

		c.Set(contextStoreIDKey, store.ID.String())
		c.Request = c.Request.WithContext(storecontext.WithStoreID(c.Request.Context(), store.ID))
		c.Next()
	}
}

func (s *Server) ProductLimit() gin.HandlerFunc {
	return s.limitGate(s.gate.CheckProductLimit)
}

func (s *Server) OrderLimit() gin.HandlerFunc {
	return s.limitGate(s.gate.CheckOrderLimit)
}

// limitGate renders a denial as 403 with the limit payload as the body.
// The check and the create that follows are not atomic.
func (s *Server) limitGate(check func(ctx context.Context, userID snowflake.ID) (entitlementdomain.Decision, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := storecontext.UserIDFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		decision, err := check(c.Request.Context(), userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !decision.Allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, decision.Denial)
			return
		}
		c.Next()
	}
}

// QuoteRateLimit throttles the anonymous quote endpoint per store and client.
func (s *Server) QuoteRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := s.quoteLimiter.Allow(c.Request.Context(), c.Param("slug"), c.ClientIP())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if res.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		}
		if !res.Allowed {
			if res.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			}
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
