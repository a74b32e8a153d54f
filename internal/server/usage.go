package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/vitrine/internal/storecontext"
)

// GetUsage reports plan consumption. The snapshot is recomputed on every call.
func (s *Server) GetUsage(c *gin.Context) {
	userID, _ := storecontext.UserIDFromContext(c.Request.Context())
	snap, err := s.usageSvc.Snapshot(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
