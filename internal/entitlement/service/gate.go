package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/config"
	"github.com/smallbiznis/vitrine/internal/entitlement/domain"
	"github.com/smallbiznis/vitrine/internal/observability/metrics"
	usagedomain "github.com/smallbiznis/vitrine/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Usage   usagedomain.Service
	Config  *config.CatalogConfigHolder `optional:"true"`
	Metrics *metrics.Metrics            `optional:"true"`
}

type Gate struct {
	log     *zap.Logger
	usage   usagedomain.Service
	config  *config.CatalogConfigHolder
	metrics *metrics.Metrics
}

func New(p Params) domain.Gate {
	return &Gate{
		log:     p.Log.Named("entitlement.service"),
		usage:   p.Usage,
		config:  p.Config,
		metrics: p.Metrics,
	}
}

func (g *Gate) CheckProductLimit(ctx context.Context, userID snowflake.ID) (domain.Decision, error) {
	return g.check(ctx, userID, usagedomain.ResourceProducts)
}

func (g *Gate) CheckOrderLimit(ctx context.Context, userID snowflake.ID) (domain.Decision, error) {
	return g.check(ctx, userID, usagedomain.ResourceOrders)
}

func (g *Gate) check(ctx context.Context, userID snowflake.ID, resource usagedomain.Resource) (domain.Decision, error) {
	m, err := g.usage.Measure(ctx, userID, resource)
	if err != nil {
		return domain.Decision{}, err
	}

	if !m.Metric.Exhausted() {
		g.metrics.RecordGateDecision(string(resource), true)
		return domain.Allow(resource, m.Plan.Slug, m.Metric), nil
	}

	decision := domain.Deny(resource, m.Plan.Slug, m.Metric, limitMessage(resource, m.Plan.Name, *m.Metric.Limit), g.redirect())
	g.metrics.RecordGateDecision(string(resource), false)
	g.log.Info("plan limit reached",
		zap.String("resource", string(resource)),
		zap.String("plan", m.Plan.Slug),
		zap.String("store_id", m.StoreID.String()),
		zap.Int64("current", m.Metric.Current),
		zap.Int("limit", *m.Metric.Limit),
	)
	return decision, nil
}

func (g *Gate) redirect() string {
	if g.config == nil {
		return domain.DefaultUpgradeRedirect
	}
	redirect := strings.TrimSpace(g.config.Get().UpgradeRedirect)
	if redirect == "" {
		return domain.DefaultUpgradeRedirect
	}
	return redirect
}

func limitMessage(resource usagedomain.Resource, planName string, limit int) string {
	switch resource {
	case usagedomain.ResourceProducts:
		return fmt.Sprintf("Você atingiu o limite de %d produtos do plano %s. Faça upgrade para cadastrar mais produtos.", limit, planName)
	case usagedomain.ResourceOrders:
		return fmt.Sprintf("Você atingiu o limite de %d pedidos mensais do plano %s. Faça upgrade para receber mais pedidos.", limit, planName)
	default:
		return fmt.Sprintf("Você atingiu o limite do plano %s.", planName)
	}
}
