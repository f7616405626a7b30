package routes

import (
	"payroll-compliance-api/controllers"
	"payroll-compliance-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(router *gin.Engine) {
	// Prometheus metrics for the monitor and process
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Payroll Compliance API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)

			// Notifications
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)

			// Government submissions
			gov := protected.Group("/gov-submissions")
			{
				mudad := gov.Group("/mudad")
				{
					mudad.POST("", controllers.CreateMudadSubmission)
					mudad.GET("", controllers.ListMudadSubmissions)
					mudad.GET("/:id", controllers.GetMudadSubmission)
					mudad.PATCH("/:id/status", controllers.UpdateMudadSubmissionStatus)
					mudad.POST("/:id/file", controllers.AttachMudadSubmissionFile)
					mudad.DELETE("/:id", controllers.DeleteMudadSubmission)
				}

				wps := gov.Group("/wps")
				{
					wps.POST("", controllers.CreateWPSSubmission)
					wps.GET("", controllers.ListWPSSubmissions)
					wps.GET("/:id", controllers.GetWPSSubmission)
					wps.PATCH("/:id/status", controllers.UpdateWPSSubmissionStatus)
					wps.DELETE("/:id", controllers.DeleteWPSSubmission)
				}

				// Transition table for UI state rendering
				gov.GET("/:channel/statuses/:status/next", controllers.GetAllowedNextStatuses)

				// Stuck-submission operator tooling (admins only)
				stuck := gov.Group("/stuck")
				stuck.Use(middleware.RequireRole(3)) // 3 = admin
				{
					stuck.GET("/stats", controllers.GetStuckSubmissionStats)
					stuck.POST("/scan", controllers.TriggerStuckScan)
				}
			}

			// Audit trail (compliance export feeds off these)
			logs := protected.Group("/status-logs")
			{
				logs.GET("/entity/:type/:id", controllers.GetEntityStatusLogs)
				logs.GET("/user/:id", controllers.GetUserStatusLogs)
				logs.GET("", controllers.GetStatusLogsByPeriod)
			}
		}
	}

	// 404 catch-all
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}
