// Package domain describes plan limit decisions for merchant actions.
package domain

import (
	usagedomain "github.com/smallbiznis/vitrine/internal/usage/domain"
)

// LimitExceeded is the payload returned to the merchant when a plan ceiling
// blocks an action. It is a value, not an error.
type LimitExceeded struct {
	Message         string `json:"message"`
	Limit           int    `json:"limit"`
	Current         int64  `json:"current"`
	UpgradeRequired bool   `json:"upgradeRequired"`
	RedirectTo      string `json:"redirectTo"`
}

// Decision is the outcome of a gate check. Denial is set only when Allowed
// is false.
type Decision struct {
	Allowed  bool
	Resource usagedomain.Resource
	PlanSlug string
	Metric   usagedomain.Metric
	Denial   *LimitExceeded
}

func Allow(resource usagedomain.Resource, planSlug string, metric usagedomain.Metric) Decision {
	return Decision{Allowed: true, Resource: resource, PlanSlug: planSlug, Metric: metric}
}

func Deny(resource usagedomain.Resource, planSlug string, metric usagedomain.Metric, message, redirectTo string) Decision {
	limit := 0
	if metric.Limit != nil {
		limit = *metric.Limit
	}
	return Decision{
		Resource: resource,
		PlanSlug: planSlug,
		Metric:   metric,
		Denial: &LimitExceeded{
			Message:         message,
			Limit:           limit,
			Current:         metric.Current,
			UpgradeRequired: true,
			RedirectTo:      redirectTo,
		},
	}
}
