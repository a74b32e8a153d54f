package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/product/domain"
	"github.com/smallbiznis/vitrine/internal/storecontext"
	"github.com/smallbiznis/vitrine/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: clk,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidStore
	}

	var afterID snowflake.ID
	if token := strings.TrimSpace(req.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return nil, err
		}
		afterID, err = snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, pagination.ErrInvalidPageToken
		}
	}

	limit := req.Limit()
	items, err := s.repo.List(ctx, s.db, storeID, req, afterID, limit+1)
	if err != nil {
		return nil, err
	}

	page, info, err := pagination.BuildCursorPage(items, limit, func(p domain.Product) string {
		return p.ID.String()
	})
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(page))
	for _, item := range page {
		resp = append(resp, s.toResponse(&item))
	}

	return &domain.ListResponse{Items: resp, PageInfo: info}, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidStore
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil || price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	description := strings.TrimSpace(ptrToString(req.Description))
	var descriptionPtr *string
	if description != "" {
		descriptionPtr = &description
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := s.clock.Now()
	p := &domain.Product{
		ID:          s.genID.Generate(),
		StoreID:     storeID,
		Name:        name,
		Description: descriptionPtr,
		Price:       price.Round(2),
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Metadata != nil {
		p.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		return nil, err
	}
	resp := s.toResponse(p)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidStore
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, storeID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) toResponse(p *domain.Product) domain.Response {
	resp := domain.Response{
		ID:          p.ID.String(),
		StoreID:     p.StoreID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if len(p.Metadata) > 0 {
		resp.Metadata = map[string]any(p.Metadata)
	}

	return resp
}

func ptrToString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
