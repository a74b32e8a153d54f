package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/order/domain"
	shippingdomain "github.com/smallbiznis/vitrine/internal/shipping/domain"
	"github.com/smallbiznis/vitrine/internal/storecontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Quoter shippingdomain.Quoter
	Clock  clock.Clock
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	quoter shippingdomain.Quoter
	clock  clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("order.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		quoter: p.Quoter,
		clock:  clk,
	}
}

// Create records a pending order priced with the store's shipping quote.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidStore
	}

	name := strings.TrimSpace(req.CustomerName)
	email := strings.TrimSpace(req.CustomerEmail)
	if name == "" || email == "" {
		return nil, domain.ErrInvalidCustomer
	}
	subtotal, err := decimal.NewFromString(strings.TrimSpace(req.Subtotal))
	if err != nil || subtotal.IsNegative() {
		return nil, domain.ErrInvalidSubtotal
	}
	subtotal = subtotal.Round(2)

	quote, err := s.quoter.Quote(ctx, storeID, req.ZipCode, subtotal)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	order := &domain.Order{
		ID:            s.genID.Generate(),
		StoreID:       storeID,
		CustomerName:  name,
		CustomerEmail: email,
		ZipCode:       shippingdomain.CleanZipCode(req.ZipCode),
		Status:        domain.StatusPending,
		Subtotal:      subtotal,
		ShippingCost:  quote.Cost,
		Total:         subtotal.Add(quote.Cost),
		EstimatedDays: quote.EstimatedDays,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, s.db, order); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("store_id", storeID.String()),
		zap.String("order_id", order.ID.String()),
	)
	resp := toResponse(order)
	return &resp, nil
}

// Cancel marks a pending or paid order cancelled. The row is kept, so it
// still counts toward the month's order usage.
func (s *Service) Cancel(ctx context.Context, id string) (*domain.Response, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidStore
	}
	orderID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || orderID == 0 {
		return nil, domain.ErrInvalidID
	}

	order, err := s.repo.FindByID(ctx, s.db, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	switch order.Status {
	case domain.StatusCancelled:
		return nil, domain.ErrAlreadyCancelled
	case domain.StatusShipped:
		return nil, domain.ErrNotCancellable
	}

	now := s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, s.db, storeID, orderID, domain.StatusCancelled, now); err != nil {
		return nil, err
	}
	order.Status = domain.StatusCancelled
	order.UpdatedAt = now

	resp := toResponse(order)
	return &resp, nil
}

func toResponse(o *domain.Order) domain.Response {
	return domain.Response{
		ID:            o.ID.String(),
		StoreID:       o.StoreID.String(),
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		ZipCode:       o.ZipCode,
		Status:        o.Status,
		Subtotal:      o.Subtotal.StringFixed(2),
		ShippingCost:  o.ShippingCost.StringFixed(2),
		Total:         o.Total.StringFixed(2),
		EstimatedDays: o.EstimatedDays,
		CreatedAt:     o.CreatedAt,
	}
}
