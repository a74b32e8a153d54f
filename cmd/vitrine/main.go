package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/config"
	"github.com/smallbiznis/vitrine/internal/entitlement"
	"github.com/smallbiznis/vitrine/internal/migration"
	"github.com/smallbiznis/vitrine/internal/observability"
	"github.com/smallbiznis/vitrine/internal/order"
	"github.com/smallbiznis/vitrine/internal/plan"
	"github.com/smallbiznis/vitrine/internal/product"
	"github.com/smallbiznis/vitrine/internal/ratelimit"
	"github.com/smallbiznis/vitrine/internal/scheduler"
	"github.com/smallbiznis/vitrine/internal/server"
	"github.com/smallbiznis/vitrine/internal/shipping"
	"github.com/smallbiznis/vitrine/internal/store"
	"github.com/smallbiznis/vitrine/internal/subscription"
	"github.com/smallbiznis/vitrine/internal/usage"
	"github.com/smallbiznis/vitrine/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		ratelimit.Module,
		migration.Module,

		// Functional Domains
		plan.Module,
		subscription.Module,
		store.Module,
		product.Module,
		shipping.Module,
		order.Module,
		usage.Module,
		entitlement.Module,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
