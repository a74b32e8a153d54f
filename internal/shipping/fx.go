package shipping

import (
	"github.com/smallbiznis/vitrine/internal/shipping/repository"
	"github.com/smallbiznis/vitrine/internal/shipping/service"
	"go.uber.org/fx"
)

var Module = fx.Module("shipping.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(service.NewQuoter),
)
