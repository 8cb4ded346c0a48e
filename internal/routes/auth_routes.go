// school-erp/internal/routes/auth_routes.go
package routes

import (
	"school-erp/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the public authentication routes.
func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/api/auth/login", handlers.LoginHandler)
}
