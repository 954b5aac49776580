package payroll

import (
	"buildhr/internal/middleware"
	"buildhr/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, rdb *redis.Client) {
	periods := r.Group("/payroll-periods")
	periods.Use(middleware.AuthMiddleware())
	{
		idem := middleware.Idempotency(rdb)

		periods.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		periods.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetByID)
		periods.POST("", idem, middleware.RBACAuthorize(rbacService, "payroll", "prepare"), handler.Create)

		// Transitions are guarded per stage so one role cannot carry a run
		// end to end, and replayed requests short-circuit on the
		// idempotency key.
		periods.POST("/:id/process", idem, middleware.RBACAuthorize(rbacService, "payroll", "prepare"), handler.Process)
		periods.POST("/:id/check", idem, middleware.RBACAuthorize(rbacService, "payroll", "check"), handler.Check)
		periods.POST("/:id/recommend", idem, middleware.RBACAuthorize(rbacService, "payroll", "recommend"), handler.Recommend)
		periods.POST("/:id/approve", idem, middleware.RBACAuthorize(rbacService, "payroll", "approve"), handler.Approve)
		periods.POST("/:id/pay", idem, middleware.RBACAuthorize(rbacService, "payroll", "pay"), handler.MarkPaid)
		periods.POST("/:id/cancel", idem, middleware.RBACAuthorize(rbacService, "payroll", "prepare"), handler.Cancel)
	}
}
