package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要登录的学员路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 后台管理路由
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		// 课程目录对游客开放，登录管理员可预览草稿
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:slug", middleware.TryAuthMiddleware(cfg), c.course.GetCourse)

		// 附件令牌解析不要求登录，令牌本身即凭证
		public.GET("/documents/resolve", c.document.ResolveToken)

		// 支付网关回调，凭密钥头认证
		public.POST("/payments/webhook", c.enrollment.PaymentWebhook)

		auth := public.Group("/auth")
		{
			auth.POST("/register", c.auth.Register)
			auth.POST("/login", c.auth.Login)
			auth.POST("/verify-email", c.auth.VerifyEmail)
			auth.POST("/resend-verification", c.auth.ResendVerification)
			auth.POST("/captcha/verify", c.auth.VerifyCaptcha)
		}
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/me", c.auth.Me)

	rg.GET("/courses/:slug/sidebar", c.course.GetSidebar)
	rg.GET("/progress/:courseId", c.lesson.GetCourseProgress)

	rg.GET("/lessons/:id", c.lesson.GetLessonContent)
	rg.POST("/lessons/:id/complete", c.lesson.CompleteLesson)

	rg.POST("/enrollments", c.enrollment.Enroll)
	rg.GET("/enrollments", c.enrollment.MyEnrollments)

	rg.GET("/documents/:id/token", c.document.IssueToken)

	rg.GET("/dashboard", c.dashboard.GetDashboard)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/courses", c.admin.ListCourses)
		admin.GET("/courses/recent", c.admin.RecentCourses)
		admin.GET("/courses/slug/:slug", c.admin.GetCourse)
		admin.POST("/courses", c.admin.CreateCourse)
		admin.PUT("/courses/:id", c.admin.UpdateCourse)
		admin.DELETE("/courses/:id", c.admin.DeleteCourse)
		admin.POST("/courses/:id/chapters/reorder", c.admin.ReorderChapters)

		admin.POST("/chapters", c.admin.CreateChapter)
		admin.PUT("/chapters/:id", c.admin.RenameChapter)
		admin.DELETE("/chapters/:id", c.admin.DeleteChapter)
		admin.POST("/chapters/:id/lessons/reorder", c.admin.ReorderLessons)

		admin.POST("/lessons", c.admin.CreateLesson)
		admin.PUT("/lessons/:id", c.admin.UpdateLesson)
		admin.DELETE("/lessons/:id", c.admin.DeleteLesson)

		admin.DELETE("/enrollments/:id", c.enrollment.CancelEnrollment)

		admin.POST("/uploads/presign", c.admin.PresignUpload)
		admin.DELETE("/uploads", c.admin.DeleteFile)
		admin.POST("/uploads/video/chunk", c.upload.UploadVideoChunk)
		admin.GET("/uploads/video/progress/:identifier", c.upload.GetUploadProgress)
	}
}
