package position

import (
	"buildhr/internal/middleware"
	"buildhr/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	positions := r.Group("/positions")
	positions.Use(middleware.AuthMiddleware())
	{
		positions.GET("", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetAll)
		positions.GET("/:id", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetByID)
	}
}
