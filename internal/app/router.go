package app

import (
	"skill_extractor_backend/docs"
	"skill_extractor_backend/internal/config"
	"skill_extractor_backend/internal/middleware"
	"skill_extractor_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	// 注解中的路由已带 /api 前缀
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		authGroup.GET("/auth/check", c.auth.Check)

		a.registerProjectRoutes(authGroup, c)
		a.registerSkillRoutes(authGroup, c)
		a.registerQuizRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/health", c.health.HealthCheck)

		public.GET("/skills/categories", c.skill.Categories)
		public.GET("/skills/levels", c.skill.Levels)
	}
}

func (a *App) registerProjectRoutes(group *gin.RouterGroup, c *controllers) {
	projects := group.Group("/projects")
	{
		projects.POST("/upload", c.project.Upload)
		projects.POST("/upload/multipart", c.project.UploadMultipart)
		projects.GET("", c.project.List)
		projects.GET("/:id", c.project.Get)
		projects.DELETE("/:id", c.project.Delete)
	}
}

func (a *App) registerSkillRoutes(group *gin.RouterGroup, c *controllers) {
	skills := group.Group("/skills")
	{
		skills.GET("", c.skill.List)
		skills.GET("/category/:category", c.skill.ListByCategory)
		skills.GET("/:id", c.skill.Get)
	}
}

func (a *App) registerQuizRoutes(group *gin.RouterGroup, c *controllers) {
	quiz := group.Group("/quiz")
	{
		quiz.POST("/generate/:skillId", c.quiz.Generate)
		quiz.POST("/submit", c.quiz.Submit)
		quiz.GET("/results/:skillId", c.quiz.Latest)
		quiz.GET("/results/:skillId/history", c.quiz.History)
	}
}
