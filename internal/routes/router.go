// school-erp/internal/routes/router.go
package routes

import (
	"school-erp/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every route of the application.
func SetupRoutes(r *gin.Engine) {
	// Public routes: only login lives outside the auth middleware.
	RegisterAuthRoutes(r)

	// Everything else requires a valid bearer token.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
