package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/vitrine/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
}

type ListRequest struct {
	pagination.Pagination
	Active *bool `form:"active"`
}

type CreateRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description *string        `json:"description"`
	Price       string         `json:"price" binding:"required"`
	Active      *bool          `json:"active"`
	Metadata    map[string]any `json:"metadata"`
}

type Response struct {
	ID          string         `json:"id"`
	StoreID     string         `json:"storeId"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Price       string         `json:"price"`
	Active      bool           `json:"active"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type ListResponse struct {
	Items    []Response          `json:"items"`
	PageInfo pagination.PageInfo `json:"pageInfo"`
}

var (
	ErrInvalidStore = errors.New("invalid_store")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrNotFound     = errors.New("not_found")
	ErrInvalidID    = errors.New("invalid_id")
)
