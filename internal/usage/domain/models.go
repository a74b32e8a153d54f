// Package domain contains usage snapshots measured against plan ceilings.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
)

type Resource string

const (
	ResourceProducts Resource = "products"
	ResourceOrders   Resource = "orders"
)

// Metric is one resource's consumption. Limit is nil for unlimited plans,
// which always report a percentage of 0.
type Metric struct {
	Current    int64   `json:"current"`
	Limit      *int    `json:"limit"`
	Percentage float64 `json:"percentage"`
}

func NewMetric(current int64, limit *int) Metric {
	m := Metric{Current: current, Limit: limit}
	if limit == nil {
		return m
	}
	if *limit <= 0 {
		if current > 0 {
			m.Percentage = 100
		}
		return m
	}
	m.Percentage = float64(current) / float64(*limit) * 100
	return m
}

// Exhausted reports whether another unit would exceed the limit.
func (m Metric) Exhausted() bool {
	return m.Limit != nil && m.Current >= int64(*m.Limit)
}

// Snapshot is computed on every request and never cached.
type Snapshot struct {
	Plan     plandomain.Plan `json:"plan"`
	Products Metric          `json:"products"`
	Orders   Metric          `json:"orders"`
}

// Measurement is one resource measured for a gate decision.
type Measurement struct {
	Resource   Resource
	StoreID    snowflake.ID
	Plan       plandomain.Plan
	Resolution subscriptiondomain.Resolution
	Metric     Metric
}

// MonthStart returns 00:00:00 on the first day of now's month, in now's
// location.
func MonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// LimitFor picks the plan ceiling of a resource.
func LimitFor(plan plandomain.Plan, resource Resource) *int {
	switch resource {
	case ResourceProducts:
		return plan.MaxProducts
	case ResourceOrders:
		return plan.MaxOrders
	default:
		return nil
	}
}
