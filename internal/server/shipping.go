package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	shippingdomain "github.com/smallbiznis/vitrine/internal/shipping/domain"
)

type quoteRequest struct {
	ZipCode  string          `json:"zipCode"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type quoteResponse struct {
	ShippingCost  string `json:"shippingCost"`
	EstimatedDays int    `json:"estimatedDays"`
	IsFree        bool   `json:"isFree"`
}

// QuoteShipping prices delivery for a shopper. The postal code is passed
// through unvalidated; unknown codes fall back to the store default.
func (s *Server) QuoteShipping(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Subtotal.IsNegative() {
		AbortWithError(c, newValidationError("subtotal", "invalid_subtotal", "subtotal must not be negative"))
		return
	}

	store, err := s.storeSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	quote, err := s.shippingSvc.Quote(c.Request.Context(), store.ID, req.ZipCode, req.Subtotal)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, quoteResponse{
		ShippingCost:  quote.Cost.StringFixed(2),
		EstimatedDays: quote.EstimatedDays,
		IsFree:        quote.IsFree,
	})
}

func (s *Server) GetShippingConfig(c *gin.Context) {
	resp, err := s.shippingSvc.GetConfig(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpsertShippingConfig(c *gin.Context) {
	var req shippingdomain.UpsertConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.shippingSvc.UpsertConfig(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListShippingZones(c *gin.Context) {
	resp, err := s.shippingSvc.ListZones(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateShippingZone(c *gin.Context) {
	var req shippingdomain.CreateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.shippingSvc.CreateZone(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) DeleteShippingZone(c *gin.Context) {
	if err := s.shippingSvc.DeleteZone(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
