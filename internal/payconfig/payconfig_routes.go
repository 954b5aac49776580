package payconfig

import (
	"buildhr/internal/middleware"
	"buildhr/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	configs := r.Group("/pay-configs")
	configs.Use(middleware.AuthMiddleware())
	{
		configs.GET("", middleware.RBACAuthorize(rbacService, "pay_config", "read"), handler.GetAll)
		configs.PUT("", middleware.RBACAuthorize(rbacService, "pay_config", "manage"), handler.Set)
	}
}
