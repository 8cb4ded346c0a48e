// school-erp/internal/routes/api_routes.go
package routes

import (
	"school-erp/internal/handlers"
	"school-erp/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes registers every authenticated API route.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/logout", handlers.LogoutHandler)
			auth.GET("/me", handlers.MeHandler)
		}

		// --- ACADEMIC SESSIONS ---
		sessions := apiGroup.Group("/sessions")
		sessions.Use(middleware.PermissionMiddleware("sessions_view"))
		{
			sessions.GET("", handlers.ListSessionsHandler)
			sessions.GET("/:id", handlers.GetSessionHandler)
			sessions.POST("", middleware.PermissionMiddleware("sessions_manage"), handlers.CreateSessionHandler)
			sessions.PUT("/:id", middleware.PermissionMiddleware("sessions_manage"), handlers.UpdateSessionHandler)
			sessions.POST("/:id/activate", middleware.PermissionMiddleware("sessions_manage"), handlers.ActivateSessionHandler)
			sessions.DELETE("/:id", middleware.PermissionMiddleware("sessions_manage"), handlers.DeleteSessionHandler)
		}

		// --- CLASSES & SECTIONS ---
		classes := apiGroup.Group("/classes")
		classes.Use(middleware.PermissionMiddleware("classes_view"))
		{
			classes.GET("", handlers.ListClassesHandler)
			classes.GET("/:id", handlers.GetClassHandler)
			classes.POST("", middleware.PermissionMiddleware("classes_manage"), handlers.CreateClassHandler)
			classes.PUT("/:id", middleware.PermissionMiddleware("classes_manage"), handlers.UpdateClassHandler)
			classes.DELETE("/:id", middleware.PermissionMiddleware("classes_manage"), handlers.DeleteClassHandler)
		}

		sections := apiGroup.Group("/sections")
		sections.Use(middleware.PermissionMiddleware("classes_view"))
		{
			sections.GET("", handlers.ListSectionsHandler)
			sections.GET("/:id", handlers.GetSectionHandler)
			sections.POST("", middleware.PermissionMiddleware("classes_manage"), handlers.CreateSectionHandler)
			sections.PUT("/:id", middleware.PermissionMiddleware("classes_manage"), handlers.UpdateSectionHandler)
			sections.DELETE("/:id", middleware.PermissionMiddleware("classes_manage"), handlers.DeleteSectionHandler)
		}

		// --- STUDENTS ---
		students := apiGroup.Group("/students")
		students.Use(middleware.PermissionMiddleware("students_view"))
		{
			students.GET("", handlers.ListStudentsHandler)
			students.GET("/export", middleware.PermissionMiddleware("reports_view"), handlers.ExportStudentsHandler)
			students.GET("/:id", handlers.GetStudentHandler)
			students.POST("", middleware.PermissionMiddleware("students_manage"), handlers.CreateStudentHandler)
			students.PUT("/:id", middleware.PermissionMiddleware("students_manage"), handlers.UpdateStudentHandler)
			students.DELETE("/:id", middleware.PermissionMiddleware("students_manage"), handlers.DeleteStudentHandler)
			students.POST("/import", middleware.PermissionMiddleware("students_import"), handlers.ImportStudentsHandler)
			students.POST("/:id/photo", middleware.PermissionMiddleware("students_manage"), handlers.UploadStudentPhotoHandler)
		}

		// Fee views sit outside the students_view gate so a student account
		// can reach its own records; the handlers enforce ownership for
		// callers without that capability.
		studentFees := apiGroup.Group("/students")
		studentFees.Use(middleware.PermissionMiddleware("fees_view"))
		{
			studentFees.GET("/:id/fees", handlers.ListStudentFeesHandler)
			studentFees.GET("/:id/invoice", handlers.GenerateInvoiceHandler)
			studentFees.GET("/:id/fee-split", handlers.GenerateFeeSplitHandler)
		}

		// --- FEE CATALOG ---
		feeGroups := apiGroup.Group("/fee-groups")
		feeGroups.Use(middleware.PermissionMiddleware("fees_view"))
		{
			feeGroups.GET("", handlers.ListFeeGroupsHandler)
			feeGroups.GET("/:id", handlers.GetFeeGroupHandler)
			feeGroups.POST("", middleware.PermissionMiddleware("fees_manage"), handlers.CreateFeeGroupHandler)
			feeGroups.PUT("/:id", middleware.PermissionMiddleware("fees_manage"), handlers.UpdateFeeGroupHandler)
			feeGroups.DELETE("/:id", middleware.PermissionMiddleware("fees_manage"), handlers.DeleteFeeGroupHandler)
		}

		feeTypes := apiGroup.Group("/fee-types")
		feeTypes.Use(middleware.PermissionMiddleware("fees_view"))
		{
			feeTypes.GET("", handlers.ListFeeTypesHandler)
			feeTypes.GET("/:id", handlers.GetFeeTypeHandler)
			feeTypes.POST("", middleware.PermissionMiddleware("fees_manage"), handlers.CreateFeeTypeHandler)
			feeTypes.PUT("/:id", middleware.PermissionMiddleware("fees_manage"), handlers.UpdateFeeTypeHandler)
			feeTypes.DELETE("/:id", middleware.PermissionMiddleware("fees_manage"), handlers.DeleteFeeTypeHandler)
		}

		feeMaster := apiGroup.Group("/fee-master")
		feeMaster.Use(middleware.PermissionMiddleware("fees_view"))
		{
			feeMaster.GET("", handlers.ListFeeMastersHandler)
			feeMaster.GET("/:id", handlers.GetFeeMasterHandler)
			feeMaster.POST("", middleware.PermissionMiddleware("fees_manage"), handlers.CreateFeeMasterHandler)
			feeMaster.PUT("/:id", middleware.PermissionMiddleware("fees_manage"), handlers.UpdateFeeMasterHandler)
			feeMaster.DELETE("/:id", middleware.PermissionMiddleware("fees_manage"), handlers.DeleteFeeMasterHandler)
		}

		// --- FEE ASSIGNMENT & COLLECTION ---
		fees := apiGroup.Group("/fees")
		{
			fees.POST("/assign", middleware.PermissionMiddleware("fees_assign"), handlers.AssignFeesHandler)
			fees.POST("/collect", middleware.PermissionMiddleware("fees_collect"), handlers.CollectPaymentHandler)
			fees.GET("/transactions", middleware.PermissionMiddleware("fees_view"), handlers.ListFeeTransactionsHandler)
		}

		// --- USERS & ROLES ---
		users := apiGroup.Group("/users")
		users.Use(middleware.PermissionMiddleware("users_view"))
		{
			users.GET("", handlers.ListUsersHandler)
			users.GET("/:id", handlers.GetUserHandler)
			users.POST("", middleware.PermissionMiddleware("users_manage"), handlers.CreateUserHandler)
			users.PUT("/:id", middleware.PermissionMiddleware("users_manage"), handlers.UpdateUserHandler)
			users.DELETE("/:id", middleware.PermissionMiddleware("users_manage"), handlers.DeleteUserHandler)
		}
		apiGroup.GET("/roles", middleware.PermissionMiddleware("users_view"), handlers.ListRolesHandler)

		// --- DASHBOARD & REPORTS ---
		apiGroup.GET("/dashboard/summary", handlers.DashboardSummaryHandler)
		apiGroup.GET("/reports/collections.xlsx", middleware.PermissionMiddleware("reports_view"), handlers.ExportCollectionsHandler)

		// --- NOTIFICATIONS ---
		apiGroup.GET("/ws/notifications", handlers.NotificationsWSEndpoint)
	}
}
