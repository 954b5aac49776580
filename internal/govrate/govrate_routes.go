package govrate

import (
	"buildhr/internal/middleware"
	"buildhr/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	rates := r.Group("/government-rates")
	rates.Use(middleware.AuthMiddleware())
	{
		rates.GET("", middleware.RBACAuthorize(rbacService, "government_rate", "read"), handler.GetAll)
		rates.POST("", middleware.RBACAuthorize(rbacService, "government_rate", "manage"), handler.Create)
		rates.PATCH("/:id", middleware.RBACAuthorize(rbacService, "government_rate", "manage"), handler.Update)
		rates.POST("/:id/deactivate", middleware.RBACAuthorize(rbacService, "government_rate", "manage"), handler.Deactivate)
	}
}
