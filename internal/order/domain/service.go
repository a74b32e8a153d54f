package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Cancel(ctx context.Context, id string) (*Response, error)
}

type CreateRequest struct {
	CustomerName  string `json:"customerName" binding:"required"`
	CustomerEmail string `json:"customerEmail" binding:"required,email"`
	ZipCode       string `json:"zipCode" binding:"required"`
	Subtotal      string `json:"subtotal" binding:"required"`
}

type Response struct {
	ID            string    `json:"id"`
	StoreID       string    `json:"storeId"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	ZipCode       string    `json:"zipCode"`
	Status        Status    `json:"status"`
	Subtotal      string    `json:"subtotal"`
	ShippingCost  string    `json:"shippingCost"`
	Total         string    `json:"total"`
	EstimatedDays int       `json:"estimatedDays"`
	CreatedAt     time.Time `json:"createdAt"`
}

var (
	ErrInvalidStore     = errors.New("invalid_store")
	ErrInvalidCustomer  = errors.New("invalid_customer")
	ErrInvalidSubtotal  = errors.New("invalid_subtotal")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
	ErrAlreadyCancelled = errors.New("already_cancelled")
	ErrNotCancellable   = errors.New("not_cancellable")
)
