package rest

import (
	"net/http"

	"github.com/KevinKickass/OpenPanelIO/internal/types"
	"github.com/gin-gonic/gin"
)

// GET /api/v1/components
func (s *Server) listComponents(c *gin.Context) {
	cat := s.lm.Catalog()
	if cat == nil {
		c.JSON(http.StatusServiceUnavailable, types.NewErrorResponse(types.CodeCatalogFailed, "Component catalog not loaded", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"components": cat.All(),
		"keys":       cat.Keys(),
		"count":      cat.Len(),
	})
}

// GET /api/v1/components/:key
func (s *Server) getComponent(c *gin.Context) {
	cat := s.lm.Catalog()
	if cat == nil {
		c.JSON(http.StatusServiceUnavailable, types.NewErrorResponse(types.CodeCatalogFailed, "Component catalog not loaded", nil))
		return
	}

	key := c.Param("key")
	desc, ok := cat.Get(key)
	if !ok {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.CodeComponentAbsent, "Component not found", key))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":       key,
		"component": desc,
	})
}
