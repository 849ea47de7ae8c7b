package app

import (
	"codingclass_backend/internal/middleware"
	"codingclass_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "codingclass_backend/docs"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services) {
	cookieName := a.Config.Session.CookieName

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	api.GET("/health", c.health.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", c.auth.Signup)
		auth.POST("/login", c.auth.Login)
		auth.POST("/logout", c.auth.Logout)
		auth.GET("/me", middleware.OptionalAuth(s.auth, cookieName), c.auth.Me)
	}

	users := api.Group("/users")
	users.Use(middleware.SessionAuth(s.auth, cookieName))
	{
		users.PATCH("/me/instructor", c.user.SetInstructor)
		users.PATCH("/me/profile", c.user.UpdateProfile)
		users.POST("/me/avatar", c.upload.Avatar)
		users.GET("/:id", c.user.Get)

		admin := users.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("", c.user.List)
			admin.PATCH("/:id/role", c.user.ChangeRole)
			admin.POST("/:id/transfer-ownership", c.user.TransferOwnership)
			admin.PATCH("/:id/instructor-lock", c.user.SetInstructorLock)
			admin.DELETE("/:id", c.user.Delete)
		}
	}

	courses := api.Group("/courses")
	{
		courses.GET("", middleware.OptionalAuth(s.auth, cookieName), c.course.List)
		courses.GET("/my", middleware.SessionAuth(s.auth, cookieName), middleware.RequireInstructor(), c.course.ListMine)
		courses.GET("/:id", middleware.OptionalAuth(s.auth, cookieName), c.course.Get)

		authoring := courses.Group("")
		authoring.Use(middleware.SessionAuth(s.auth, cookieName), middleware.RequireInstructor())
		{
			authoring.POST("", c.course.Create)
			authoring.PATCH("/:id", c.course.Update)
			authoring.DELETE("/:id", c.course.Delete)

			authoring.POST("/:id/lessons", c.course.AddLesson)
			authoring.PATCH("/:id/lessons/:lessonId", c.course.UpdateLesson)
			authoring.DELETE("/:id/lessons/:lessonId", c.course.DeleteLesson)

			authoring.POST("/:id/lessons/:lessonId/blocks", c.course.AddBlock)
			authoring.PATCH("/:id/lessons/:lessonId/blocks/:blockId", c.course.UpdateBlock)
			authoring.DELETE("/:id/lessons/:lessonId/blocks/:blockId", c.course.DeleteBlock)
		}
	}

	enrollments := api.Group("/enrollments")
	enrollments.Use(middleware.SessionAuth(s.auth, cookieName))
	{
		enrollments.GET("", c.enrollment.List)
		enrollments.GET("/:courseId", c.enrollment.Get)
		enrollments.POST("/:courseId", c.enrollment.Enroll)
		enrollments.POST("/:courseId/progress", c.enrollment.MarkProgress)
		enrollments.GET("/:courseId/completion", c.enrollment.Completion)
	}

	uploads := api.Group("/uploads")
	uploads.Use(middleware.SessionAuth(s.auth, cookieName), middleware.RequireInstructor())
	{
		uploads.POST("/thumbnail", c.upload.Thumbnail)
		uploads.POST("/video", c.upload.Video)
	}
}
