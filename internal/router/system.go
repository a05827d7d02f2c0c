package router

import (
	"github.com/gin-gonic/gin"

	"github.com/myposcore/backend/internal/handlers"
)

// RegisterSystem mounts the code table and the envelope validator on v1.
func RegisterSystem(v1 *gin.RouterGroup) {
	v1.GET("/status-codes", handlers.StatusCodes)
	v1.POST("/envelopes/validate", handlers.ValidateEnvelope)
}
