package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListPlans(c *gin.Context) {
	plans := s.catalog.ListActive(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"data": plans})
}

func (s *Server) GetPlanBySlug(c *gin.Context) {
	plan, err := s.catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plan})
}
