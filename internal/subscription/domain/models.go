// Package domain contains the subscription model and the resolution of a
// user's current plan.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusExpired  Status = "expired"
	StatusPastDue  Status = "past_due"
)

// Subscription binds a user to a plan for a billing period. A user keeps every
// row ever created; the most recently created one is current.
type Subscription struct {
	ID                 snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID             snowflake.ID `json:"userId" gorm:"not null;index"`
	PlanID             snowflake.ID `json:"planId" gorm:"not null;index"`
	Status             Status       `json:"status" gorm:"type:text;not null"`
	CurrentPeriodStart time.Time    `json:"currentPeriodStart" gorm:"not null"`
	CurrentPeriodEnd   time.Time    `json:"currentPeriodEnd" gorm:"not null"`
	CancelAtPeriodEnd  bool         `json:"cancelAtPeriodEnd" gorm:"not null;default:false"`
	CanceledAt         *time.Time   `json:"canceledAt,omitempty"`
	CreatedAt          time.Time    `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time    `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Subscription) TableName() string { return "subscriptions" }

// WithPlan is a subscription row joined with its plan. Plan is nil when the
// referenced plan row no longer exists.
type WithPlan struct {
	Subscription Subscription
	Plan         *plandomain.Plan
}

type Kind string

const (
	// KindExplicit is backed by a stored subscription row.
	KindExplicit Kind = "explicit"
	// KindImplicitFree is the free tier of a user with no subscription row.
	KindImplicitFree Kind = "implicit_free"
)

// Resolution is a user's current subscription state. Subscription is nil for
// KindImplicitFree.
type Resolution struct {
	Kind         Kind
	Status       Status
	Plan         plandomain.Plan
	IsFree       bool
	Subscription *Subscription
}

func ImplicitFree(free plandomain.Plan) Resolution {
	return Resolution{
		Kind:   KindImplicitFree,
		Status: StatusActive,
		Plan:   free,
		IsFree: true,
	}
}

func Explicit(sub Subscription, plan plandomain.Plan) Resolution {
	return Resolution{
		Kind:         KindExplicit,
		Status:       sub.Status,
		Plan:         plan,
		IsFree:       plan.IsFree(),
		Subscription: &sub,
	}
}

// EntitledAt reports whether the resolved plan's limits apply at now. Active
// rows are always entitled. Canceled and past-due rows keep their plan until
// the paid period ends. Expired rows are never entitled.
func (r Resolution) EntitledAt(now time.Time) bool {
	if r.Kind == KindImplicitFree {
		return true
	}
	switch r.Status {
	case StatusActive:
		return true
	case StatusCanceled, StatusPastDue:
		return r.Subscription != nil && now.Before(r.Subscription.CurrentPeriodEnd)
	default:
		return false
	}
}
