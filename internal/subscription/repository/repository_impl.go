package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	"github.com/smallbiznis/vitrine/internal/subscription/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (
			id, user_id, plan_id, status, current_period_start, current_period_end,
			cancel_at_period_end, canceled_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID,
		sub.UserID,
		sub.PlanID,
		sub.Status,
		sub.CurrentPeriodStart.UTC(),
		sub.CurrentPeriodEnd.UTC(),
		sub.CancelAtPeriodEnd,
		sub.CanceledAt,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Error
}

type latestRow struct {
	ID                 snowflake.ID
	UserID             snowflake.ID
	PlanID             snowflake.ID
	Status             domain.Status
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
	CanceledAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	PlanRowID       *int64
	PlanName        *string
	PlanSlug        *string
	PlanPrice       decimal.NullDecimal
	PlanMaxProducts *int
	PlanMaxOrders   *int
	PlanFeatures    *string
	PlanActive      *bool
}

func (r *repo) FindLatestByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.WithPlan, error) {
	var row latestRow
	err := db.WithContext(ctx).Raw(
		`SELECT s.id, s.user_id, s.plan_id, s.status, s.current_period_start, s.current_period_end,
			s.cancel_at_period_end, s.canceled_at, s.created_at, s.updated_at,
			p.id AS plan_row_id, p.name AS plan_name, p.slug AS plan_slug, p.price AS plan_price,
			p.max_products AS plan_max_products, p.max_orders AS plan_max_orders,
			p.features AS plan_features, p.active AS plan_active
		 FROM subscriptions s
		 LEFT JOIN plans p ON p.id = s.plan_id
		 WHERE s.user_id = ?
		 ORDER BY s.created_at DESC, s.id DESC
		 LIMIT 1`,
		userID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}

	out := &domain.WithPlan{
		Subscription: domain.Subscription{
			ID:                 row.ID,
			UserID:             row.UserID,
			PlanID:             row.PlanID,
			Status:             row.Status,
			CurrentPeriodStart: row.CurrentPeriodStart,
			CurrentPeriodEnd:   row.CurrentPeriodEnd,
			CancelAtPeriodEnd:  row.CancelAtPeriodEnd,
			CanceledAt:         row.CanceledAt,
			CreatedAt:          row.CreatedAt,
			UpdatedAt:          row.UpdatedAt,
		},
	}
	if row.PlanRowID != nil && row.PlanSlug != nil {
		plan := plandomain.Plan{
			ID:          snowflake.ID(*row.PlanRowID),
			Slug:        *row.PlanSlug,
			Price:       row.PlanPrice.Decimal,
			MaxProducts: row.PlanMaxProducts,
			MaxOrders:   row.PlanMaxOrders,
		}
		if row.PlanName != nil {
			plan.Name = *row.PlanName
		}
		if row.PlanActive != nil {
			plan.Active = *row.PlanActive
		}
		if row.PlanFeatures != nil {
			var features datatypes.JSONSlice[string]
			if err := features.Scan(*row.PlanFeatures); err == nil {
				plan.Features = features
			}
		}
		out.Plan = &plan
	}
	return out, nil
}

func (r *repo) MarkCanceled(ctx context.Context, db *gorm.DB, id snowflake.ID, atPeriodEnd bool, canceledAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET status = ?, cancel_at_period_end = ?, canceled_at = ?, updated_at = ?
		 WHERE id = ?`,
		domain.StatusCanceled,
		atPeriodEnd,
		canceledAt,
		canceledAt,
		id,
	).Error
}

func (r *repo) FindLapsed(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM subscriptions
		 WHERE status IN (?, ?) AND current_period_end <= ?
		 ORDER BY current_period_end ASC, id ASC
		 LIMIT ?`,
		domain.StatusCanceled,
		domain.StatusPastDue,
		now.UTC(),
		limit,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) MarkExpired(ctx context.Context, db *gorm.DB, ids []snowflake.ID, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Exec(
		`UPDATE subscriptions SET status = ?, updated_at = ?
		 WHERE id IN ? AND status IN (?, ?)`,
		domain.StatusExpired,
		now,
		ids,
		domain.StatusCanceled,
		domain.StatusPastDue,
	)
	return res.RowsAffected, res.Error
}
