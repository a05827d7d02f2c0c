package router

import (
	"github.com/gin-gonic/gin"

	"github.com/myposcore/backend/internal/handlers"
)

// RegisterCollections mounts the stateless collection check and fix.
func RegisterCollections(v1 *gin.RouterGroup, maxBodyBytes int64) {
	h := handlers.NewCollectionHandler(maxBodyBytes)
	g := v1.Group("/collections")
	g.POST("/check", h.Check)
	g.POST("/fix", h.Fix)
}
