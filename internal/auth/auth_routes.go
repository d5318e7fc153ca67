package auth

import (
	"github.com/Toretto00/salary-calculator/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)

		authGroup.POST("/register", middleware.AuthMiddleware(), middleware.RoleMiddleware("admin"), h.Register)
		authGroup.GET("/me", middleware.AuthMiddleware(), h.Me)
		authGroup.POST("/change-password", middleware.AuthMiddleware(), h.ChangePassword)
	}
}
