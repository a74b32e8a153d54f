package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/vitrine/internal/observability/metrics"
	"github.com/smallbiznis/vitrine/internal/shipping/domain"
	"go.uber.org/zap"
)

// Quote resolves shipping in three steps: the free shipping threshold, then
// the first matching active zone, then the store's default cost.
func (s *Service) Quote(ctx context.Context, storeID snowflake.ID, rawZip string, subtotal decimal.Decimal) (domain.Quote, error) {
	zip := domain.CleanZipCode(rawZip)

	cfg, err := s.repo.FindConfigByStoreID(ctx, s.db, storeID)
	if err != nil {
		return domain.Quote{}, err
	}
	if cfg.ThresholdApplies(subtotal) {
		quote := domain.FreeQuote()
		s.record(storeID, zip, metrics.QuoteOutcomeThreshold, quote)
		return quote, nil
	}

	zones, err := s.repo.FindActiveZones(ctx, s.db, storeID)
	if err != nil {
		return domain.Quote{}, err
	}
	if zone := domain.MatchZone(zones, zip); zone != nil {
		quote := domain.ZoneQuote(*zone)
		s.record(storeID, zip, metrics.QuoteOutcomeZone, quote)
		return quote, nil
	}

	quote := domain.DefaultQuote(cfg)
	s.record(storeID, zip, metrics.QuoteOutcomeDefault, quote)
	return quote, nil
}

func (s *Service) record(storeID snowflake.ID, zip, outcome string, quote domain.Quote) {
	s.metrics.RecordQuote(outcome, quote.IsFree)
	s.log.Debug("shipping quoted",
		zap.String("store_id", storeID.String()),
		zap.String("zip", zip),
		zap.String("outcome", outcome),
		zap.String("cost", quote.Cost.StringFixed(2)),
		zap.Int("estimated_days", quote.EstimatedDays),
	)
}
