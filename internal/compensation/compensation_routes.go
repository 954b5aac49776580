package compensation

import (
	"buildhr/internal/middleware"
	"buildhr/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	grp := r.Group("/compensation")
	grp.Use(middleware.AuthMiddleware())
	{
		grp.GET("/employees/:employee_id/ledger", middleware.RBACAuthorize(rbacService, "compensation", "read"), handler.GetLedger)
		grp.POST("/employees/:employee_id/allowances", middleware.RBACAuthorize(rbacService, "compensation", "write"), handler.GrantAllowance)
		grp.POST("/employees/:employee_id/deductions", middleware.RBACAuthorize(rbacService, "compensation", "write"), handler.GrantDeduction)
		grp.POST("/employees/:employee_id/loans", middleware.RBACAuthorize(rbacService, "compensation", "write"), handler.GrantLoan)
	}
}
