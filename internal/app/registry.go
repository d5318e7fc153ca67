package app

import (
	"database/sql"

	"github.com/Toretto00/salary-calculator/internal/attendance"
	"github.com/Toretto00/salary-calculator/internal/auth"
	"github.com/Toretto00/salary-calculator/internal/employee"
	"github.com/Toretto00/salary-calculator/internal/messaging/kafka"
	"github.com/Toretto00/salary-calculator/internal/middleware"
	"github.com/Toretto00/salary-calculator/internal/payroll"
	"github.com/Toretto00/salary-calculator/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	authService := auth.NewService(db, authRepo)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb)
	attendanceService := attendance.NewService(db, attendanceRepo, attendance.DefaultStatsPolicy())
	payrollService := payroll.NewService(
		db,
		payrollRepo,
		employeeService,
		attendanceService,
		outboxRepo,
		payroll.DefaultPolicy(),
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	payrollHandler := payroll.NewHandler(payrollService, rdb)

	// --- Routes ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler)
		attendance.RegisterRoutes(api, attendanceHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
	}

	return nil
}
