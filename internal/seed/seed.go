package seed

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/vitrine/internal/clock"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	planrepository "github.com/smallbiznis/vitrine/internal/plan/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	plansLockKey = "seed:plans"
	plansLockTTL = 30 * time.Second
)

// Locker serializes seeding across instances.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

type Options struct {
	Log    *zap.Logger
	Clock  clock.Clock
	Locker Locker
}

// EnsurePlans inserts every built-in plan whose slug is missing. Existing
// rows are left untouched so operators can edit prices and limits.
func EnsurePlans(ctx context.Context, db *gorm.DB, opts Options) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("seed")
	clk := opts.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}

	if opts.Locker != nil {
		token, ok, err := opts.Locker.TryLock(ctx, plansLockKey, plansLockTTL)
		if err != nil {
			return err
		}
		if !ok {
			log.Info("plan seeding held by another instance, skipping")
			return nil
		}
		defer func() {
			if err := opts.Locker.Release(ctx, plansLockKey, token); err != nil {
				log.Warn("release seed lock", zap.Error(err))
			}
		}()
	}

	repo := planrepository.Provide()
	now := clk.Now().UTC()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, plan := range plandomain.DefaultPlans() {
			existing, err := repo.FindBySlug(ctx, tx, plan.Slug)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			plan.CreatedAt = now
			plan.UpdatedAt = now
			if err := repo.Insert(ctx, tx, &plan); err != nil {
				return err
			}
			log.Info("seeded plan", zap.String("slug", plan.Slug))
		}
		return nil
	})
}
