package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Quoter resolves shipping prices. Missing configuration and zones are a
// valid empty state; only storage failures are returned as errors.
type Quoter interface {
	Quote(ctx context.Context, storeID snowflake.ID, rawZip string, subtotal decimal.Decimal) (Quote, error)
}

type Service interface {
	Quoter
	GetConfig(ctx context.Context) (*ConfigResponse, error)
	UpsertConfig(ctx context.Context, req UpsertConfigRequest) (*ConfigResponse, error)
	ListZones(ctx context.Context) ([]ZoneResponse, error)
	CreateZone(ctx context.Context, req CreateZoneRequest) (*ZoneResponse, error)
	DeleteZone(ctx context.Context, id string) error
}

type UpsertConfigRequest struct {
	FreeShippingThreshold *string `json:"freeShippingThreshold"`
	DefaultShippingCost   *string `json:"defaultShippingCost"`
}

type ConfigResponse struct {
	StoreID               string     `json:"storeId"`
	FreeShippingThreshold *string    `json:"freeShippingThreshold"`
	DefaultShippingCost   *string    `json:"defaultShippingCost"`
	UpdatedAt             *time.Time `json:"updatedAt,omitempty"`
}

type CreateZoneRequest struct {
	Name          string `json:"name" binding:"required"`
	ZipCodeStart  string `json:"zipCodeStart" binding:"required"`
	ZipCodeEnd    string `json:"zipCodeEnd" binding:"required"`
	ShippingCost  string `json:"shippingCost" binding:"required"`
	EstimatedDays *int   `json:"estimatedDays"`
	Active        *bool  `json:"active"`
}

type ZoneResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ZipCodeStart  string    `json:"zipCodeStart"`
	ZipCodeEnd    string    `json:"zipCodeEnd"`
	ShippingCost  string    `json:"shippingCost"`
	EstimatedDays *int      `json:"estimatedDays"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

var (
	ErrInvalidStore    = errors.New("invalid_store")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidZoneName = errors.New("invalid_zone_name")
	ErrInvalidZipCode  = errors.New("invalid_zip_code")
	ErrInvalidZipRange = errors.New("invalid_zip_range")
	ErrInvalidEstimate = errors.New("invalid_estimated_days")
	ErrInvalidZoneID   = errors.New("invalid_zone_id")
	ErrZoneNotFound    = errors.New("zone_not_found")
)
