package payroll

import (
	"github.com/Toretto00/salary-calculator/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	salaries := r.Group("/salaries")
	salaries.Use(middleware.AuthMiddleware())
	{
		salaries.POST("/calculate",
			middleware.RoleMiddleware("admin"),
			middleware.Idempotency(rdb),
			h.Calculate,
		)

		salaries.GET("", middleware.RoleMiddleware("admin"), h.GetAll)
		salaries.GET("/period", middleware.RoleMiddleware("admin"), h.GetByPeriod)
		salaries.GET("/export/excel", middleware.RoleMiddleware("admin"), h.ExportExcel)
		salaries.GET("/:id", h.GetByID)
		salaries.GET("/:id/payslip", h.Payslip)
		salaries.PUT("/:id", middleware.RoleMiddleware("admin"), h.Update)
		salaries.DELETE("/:id", middleware.RoleMiddleware("admin"), h.Delete)
	}
}
