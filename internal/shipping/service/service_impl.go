package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/observability/metrics"
	"github.com/smallbiznis/vitrine/internal/shipping/domain"
	"github.com/smallbiznis/vitrine/internal/storecontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	clock   clock.Clock
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return newService(p)
}

// NewQuoter exposes the quote resolver of the same service.
func NewQuoter(svc domain.Service) domain.Quoter {
	return svc
}

func newService(p Params) *Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("shipping.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		clock:   clk,
		metrics: p.Metrics,
	}
}

func (s *Service) GetConfig(ctx context.Context) (*domain.ConfigResponse, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidStore
	}

	cfg, err := s.repo.FindConfigByStoreID(ctx, s.db, storeID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &domain.ConfigResponse{StoreID: storeID.String()}, nil
	}
	return toConfigResponse(cfg), nil
}

func (s *Service) UpsertConfig(ctx context.Context, req domain.UpsertConfigRequest) (*domain.ConfigResponse, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidStore
	}

	threshold, err := parseOptionalAmount(req.FreeShippingThreshold)
	if err != nil {
		return nil, err
	}
	defaultCost, err := parseOptionalAmount(req.DefaultShippingCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	cfg := &domain.ShippingConfig{
		ID:                    s.genID.Generate(),
		StoreID:               storeID,
		FreeShippingThreshold: threshold,
		DefaultShippingCost:   defaultCost,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.repo.UpsertConfig(ctx, s.db, cfg); err != nil {
		return nil, err
	}

	stored, err := s.repo.FindConfigByStoreID(ctx, s.db, storeID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		stored = cfg
	}
	s.log.Info("shipping config saved", zap.String("store_id", storeID.String()))
	return toConfigResponse(stored), nil
}

func (s *Service) ListZones(ctx context.Context) ([]domain.ZoneResponse, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidStore
	}

	zones, err := s.repo.ListZones(ctx, s.db, storeID)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.ZoneResponse, 0, len(zones))
	for i := range zones {
		resp = append(resp, toZoneResponse(&zones[i]))
	}
	return resp, nil
}

func (s *Service) CreateZone(ctx context.Context, req domain.CreateZoneRequest) (*domain.ZoneResponse, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidStore
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidZoneName
	}
	start := domain.CleanZipCode(req.ZipCodeStart)
	end := domain.CleanZipCode(req.ZipCodeEnd)
	if start == "" || end == "" {
		return nil, domain.ErrInvalidZipCode
	}
	// Same ordering the matcher uses.
	if start > end {
		return nil, domain.ErrInvalidZipRange
	}
	cost, err := parseAmount(req.ShippingCost)
	if err != nil {
		return nil, err
	}
	if req.EstimatedDays != nil && *req.EstimatedDays < 0 {
		return nil, domain.ErrInvalidEstimate
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := s.clock.Now()
	zone := &domain.ShippingZone{
		ID:            s.genID.Generate(),
		StoreID:       storeID,
		Name:          name,
		ZipCodeStart:  start,
		ZipCodeEnd:    end,
		ShippingCost:  cost,
		EstimatedDays: req.EstimatedDays,
		Active:        active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.InsertZone(ctx, s.db, zone); err != nil {
		return nil, err
	}

	resp := toZoneResponse(zone)
	return &resp, nil
}

func (s *Service) DeleteZone(ctx context.Context, id string) error {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidStore
	}
	zoneID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || zoneID == 0 {
		return domain.ErrInvalidZoneID
	}

	affected, err := s.repo.DeleteZone(ctx, s.db, storeID, zoneID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrZoneNotFound
	}
	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || value.IsNegative() {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	return value.Round(2), nil
}

func parseOptionalAmount(raw *string) (decimal.NullDecimal, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return decimal.NullDecimal{}, nil
	}
	value, err := parseAmount(*raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(value), nil
}

func formatOptional(value decimal.NullDecimal) *string {
	if !value.Valid {
		return nil
	}
	formatted := value.Decimal.StringFixed(2)
	return &formatted
}

func toConfigResponse(cfg *domain.ShippingConfig) *domain.ConfigResponse {
	updatedAt := cfg.UpdatedAt
	return &domain.ConfigResponse{
		StoreID:               cfg.StoreID.String(),
		FreeShippingThreshold: formatOptional(cfg.FreeShippingThreshold),
		DefaultShippingCost:   formatOptional(cfg.DefaultShippingCost),
		UpdatedAt:             &updatedAt,
	}
}

func toZoneResponse(zone *domain.ShippingZone) domain.ZoneResponse {
	return domain.ZoneResponse{
		ID:            zone.ID.String(),
		Name:          zone.Name,
		ZipCodeStart:  zone.ZipCodeStart,
		ZipCodeEnd:    zone.ZipCodeEnd,
		ShippingCost:  zone.ShippingCost.StringFixed(2),
		EstimatedDays: zone.EstimatedDays,
		Active:        zone.Active,
		CreatedAt:     zone.CreatedAt,
	}
}
