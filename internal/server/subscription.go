package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	"github.com/smallbiznis/vitrine/internal/storecontext"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
)

type subscribeRequest struct {
	PlanSlug string `json:"planSlug" binding:"required"`
}

type subscriptionView struct {
	ID                 string     `json:"id"`
	Status             string     `json:"status"`
	CurrentPeriodStart time.Time  `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time  `json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool       `json:"cancelAtPeriodEnd"`
	CanceledAt         *time.Time `json:"canceledAt,omitempty"`
}

type resolutionView struct {
	Kind         string            `json:"kind"`
	Status       string            `json:"status"`
	IsFree       bool              `json:"isFree"`
	Plan         plandomain.Plan   `json:"plan"`
	Subscription *subscriptionView `json:"subscription"`
}

func newResolutionView(res subscriptiondomain.Resolution) resolutionView {
	view := resolutionView{
		Kind:   string(res.Kind),
		Status: string(res.Status),
		IsFree: res.IsFree,
		Plan:   res.Plan,
	}
	if sub := res.Subscription; sub != nil {
		view.Subscription = &subscriptionView{
			ID:                 sub.ID.String(),
			Status:             string(sub.Status),
			CurrentPeriodStart: sub.CurrentPeriodStart,
			CurrentPeriodEnd:   sub.CurrentPeriodEnd,
			CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
			CanceledAt:         sub.CanceledAt,
		}
	}
	return view
}

func (s *Server) GetSubscription(c *gin.Context) {
	userID, _ := storecontext.UserIDFromContext(c.Request.Context())
	res, err := s.subscriptionSvc.Resolve(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newResolutionView(res)})
}

func (s *Server) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID, _ := storecontext.UserIDFromContext(c.Request.Context())
	res, err := s.subscriptionSvc.Subscribe(c.Request.Context(), userID, strings.TrimSpace(req.PlanSlug))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": newResolutionView(res)})
}

func (s *Server) CancelSubscription(c *gin.Context) {
	userID, _ := storecontext.UserIDFromContext(c.Request.Context())
	res, err := s.subscriptionSvc.Cancel(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newResolutionView(res)})
}
