package migration

import (
	"context"

	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/config"
	"github.com/smallbiznis/vitrine/internal/ratelimit"
	"github.com/smallbiznis/vitrine/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type params struct {
	fx.In

	DB     *gorm.DB
	Config config.Config
	Log    *zap.Logger
	Clock  clock.Clock
	Locker *ratelimit.Locker `optional:"true"`
}

var Module = fx.Module("migrations",
	fx.Invoke(func(p params) error {
		if err := Apply(p.DB, p.Config.DBType); err != nil {
			return err
		}
		opts := seed.Options{Log: p.Log, Clock: p.Clock}
		if p.Locker != nil {
			opts.Locker = p.Locker
		}
		return seed.EnsurePlans(context.Background(), p.DB, opts)
	}),
)
