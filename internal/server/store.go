package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	storedomain "github.com/smallbiznis/vitrine/internal/store/domain"
	"github.com/smallbiznis/vitrine/internal/storecontext"
)

func (s *Server) CreateStore(c *gin.Context) {
	var req storedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID, _ := storecontext.UserIDFromContext(c.Request.Context())
	store, err := s.storeSvc.Create(c.Request.Context(), userID, storedomain.CreateRequest{
		Name: strings.TrimSpace(req.Name),
		Slug: strings.TrimSpace(req.Slug),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": store})
}

func (s *Server) GetStore(c *gin.Context) {
	userID, _ := storecontext.UserIDFromContext(c.Request.Context())
	store, err := s.storeSvc.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": store})
}
