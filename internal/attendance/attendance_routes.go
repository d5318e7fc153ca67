package attendance

import (
	"github.com/Toretto00/salary-calculator/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	attendance := r.Group("/attendances")
	attendance.Use(middleware.AuthMiddleware())
	{
		attendance.POST("/check-in", h.CheckIn)
		attendance.POST("/check-out", h.CheckOut)
		attendance.GET("/status", h.TodayStatus)
		attendance.GET("/history", h.History)
		attendance.GET("/stats", h.MonthlyStats)
		attendance.GET("/employee/:employeeId", middleware.RoleMiddleware("admin"), h.RangeSummary)
	}
}
