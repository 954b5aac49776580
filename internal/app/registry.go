package app

import (
	"database/sql"
	"path/filepath"

	"buildhr/internal/attendance"
	"buildhr/internal/compensation"
	"buildhr/internal/employee"
	"buildhr/internal/govrate"
	"buildhr/internal/messaging/kafka"
	"buildhr/internal/payconfig"
	"buildhr/internal/payroll"
	"buildhr/internal/position"
	"buildhr/internal/rbac"
	"buildhr/internal/rbac/infra"
	"buildhr/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	compensationRepo := compensation.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	govrateRepo := govrate.NewRepository(gormDB)
	payconfigRepo := payconfig.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	positionRepo := position.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	govrateResolver := govrate.NewResolver(govrateRepo)
	govrateService := govrate.NewService(db, govrateRepo, govrateResolver)
	payconfigService := payconfig.NewService(db, payconfigRepo)
	attendanceService := attendance.NewService(attendanceRepo)
	compensationService := compensation.NewService(db, compensationRepo)
	payrollService := payroll.NewService(
		db,
		payrollRepo,
		employeeRepo,
		attendanceService,
		compensationRepo,
		compensationService,
		payconfigService,
		govrateResolver,
		counterRepo,
		outboxRepo,
		zap.L().Named("payroll"),
	)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	compensationHandler := compensation.NewHandler(compensationService)
	employeeHandler := employee.NewHandler(employeeRepo)
	govrateHandler := govrate.NewHandler(govrateService)
	payconfigHandler := payconfig.NewHandler(payconfigService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	positionHandler := position.NewHandler(positionRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		compensation.RegisterRoutes(api, compensationHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		govrate.RegisterRoutes(api, govrateHandler, rbacService)
		payconfig.RegisterRoutes(api, payconfigHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		position.RegisterRoutes(api, positionHandler, rbacService)
	}

	return nil
}
