package router

import (
	"github.com/gin-gonic/gin"

	"github.com/myposcore/backend/internal/handlers"
	"github.com/myposcore/backend/internal/middleware"
	"github.com/myposcore/backend/internal/security"
)

// RegisterChecks mounts the recorded check runs. Reads are public; recording
// a run needs a maintainer token.
func RegisterChecks(g *gin.RouterGroup, deps Dependencies) {
	h := handlers.NewCheckHandler(deps.Checks, deps.MaxBodyBytes, deps.Logger)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", middleware.AuthMiddleware(deps.AuthValidator, security.RoleMaintainer), h.Create)
}
