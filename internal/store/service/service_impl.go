package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/store/domain"
	"github.com/smallbiznis/vitrine/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxSlugLength = 63

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
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("store.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: clk,
	}
}

func (s *Service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateRequest) (*domain.Store, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	source := strings.TrimSpace(req.Slug)
	if source == "" {
		source = name
	}
	storeSlug := slug.MakeLang(source, "pt")
	if len(storeSlug) > maxSlugLength {
		storeSlug = strings.Trim(storeSlug[:maxSlugLength], "-")
	}
	if !slug.IsSlug(storeSlug) {
		return nil, domain.ErrInvalidSlug
	}

	existing, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrStoreExists
	}

	now := s.clock.Now()
	store := &domain.Store{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Name:      name,
		Slug:      storeSlug,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, store); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.log.Info("store created",
		zap.String("store_id", store.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("slug", store.Slug),
	)
	return store, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID snowflake.ID) (*domain.Store, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	store, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}
	return store, nil
}

// GetBySlug resolves an active store for public endpoints.
func (s *Service) GetBySlug(ctx context.Context, value string) (*domain.Store, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return nil, domain.ErrInvalidSlug
	}
	store, err := s.repo.FindBySlug(ctx, s.db, value)
	if err != nil {
		return nil, err
	}
	if store == nil || !store.Active {
		return nil, domain.ErrStoreNotFound
	}
	return store, nil
}
