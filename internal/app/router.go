package app

import (
	"quizhub_backend/docs"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/middleware"
	"quizhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// Landing projection for the shareable quiz link. TryAuth lets
		// logged-in visitors be recognized without requiring a token.
		public.GET("/quizzes/public/:nanoid", middleware.TryAuthMiddleware(cfg), c.quiz.GetPublic)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.Profile)

		quizzes := authGroup.Group("/quizzes")
		{
			quizzes.GET("", c.quiz.List)
			quizzes.POST("", c.quiz.Create)
			quizzes.GET("/:id", c.quiz.Get)
			quizzes.PUT("/:id", c.quiz.Update)
			quizzes.DELETE("/:id", c.quiz.Delete)

			quizzes.GET("/:id/attempts", c.attempt.ListForQuiz)
			quizzes.GET("/:id/reports", c.report.Get)

			quizzes.GET("/:id/roles", c.quizRole.List)
			quizzes.POST("/:id/roles", c.quizRole.Assign)
			quizzes.DELETE("/:id/roles", c.quizRole.Remove)

			quizzes.POST("/:id/access-requests", c.accessRequest.Request)
			quizzes.GET("/:id/access-requests", c.accessRequest.ListPending)
			quizzes.GET("/:id/access-requests/me", c.accessRequest.MyStatus)
			quizzes.PATCH("/:id/access-requests/:requestId", c.accessRequest.Decide)
		}

		attempts := authGroup.Group("/attempts")
		{
			attempts.POST("", c.attempt.Submit)
			attempts.POST("/save", c.attempt.SaveProgress)
			attempts.GET("", c.attempt.ListMine)
			attempts.GET("/:id", c.attempt.Get)
		}

		authGroup.POST("/uploads/options", c.upload.UploadOptionImage)

		authGroup.GET("/leaderboard", c.report.Leaderboard)

		authGroup.GET("/notifications", c.notification.List)
		authGroup.PATCH("/notifications", c.notification.MarkRead)
	}
}
