package attendance

import (
	"buildhr/internal/middleware"
	"buildhr/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.GET("/employees/:employeeId", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetByEmployee)
	}
}
