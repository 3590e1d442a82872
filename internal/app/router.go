package app

import (
	"quiz_rating_backend/docs"
	"quiz_rating_backend/internal/middleware"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.services.auth))
	{
		// 用户与管理员通用
		a.registerSharedRoutes(authGroup, c)

		// 仅用户
		a.registerUserRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/user/login", c.auth.UserLogin)
		public.POST("/auth/admin/login", c.auth.AdminLogin)
	}
}

func (a *App) registerSharedRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/auth/logout", c.auth.Logout)

	tests := group.Group("/tests")
	{
		tests.GET("/practice/:level", c.test.Practice)
		tests.GET("/exam", c.test.Exam)
	}

	group.GET("/ratings/average", c.rating.GlobalAverage)
}

func (a *App) registerUserRoutes(group *gin.RouterGroup, c *controllers) {
	user := group.Group("")
	user.Use(middleware.RoleMiddleware(model.RoleUser))
	{
		user.GET("/users/me", c.user.Me)
		user.PUT("/users/me/password", c.user.ChangePassword)

		user.POST("/ratings/answer", c.rating.SubmitAnswer)
		user.POST("/ratings/snapshots", c.rating.BuildMySnapshot)
		user.GET("/ratings/me", c.rating.MyRatings)
		user.GET("/ratings/me/average", c.rating.MyAverage)
		user.GET("/ratings/me/:ratingId/category", c.rating.MyCategoryValue)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(a.services.auth), middleware.RoleMiddleware(model.RoleAdmin))
	{
		// 题库
		admin.POST("/items", c.item.CreateItem)
		admin.GET("/items", c.item.ListItems)
		admin.GET("/items/level/:level", c.item.ListItemsByLevel)
		admin.GET("/items/:id", c.item.GetItem)
		admin.PUT("/items/:id", c.item.UpdateItem)
		admin.DELETE("/items/:id", c.item.DeleteItem)

		// 管理员
		admin.POST("/admins", c.admin.CreateAdmin)
		admin.PUT("/admins/:id", c.admin.UpdateAdmin)
		admin.DELETE("/admins/:id", c.admin.DeleteAdmin)

		// 用户
		admin.POST("/users", c.user.CreateUser)
		admin.GET("/users", c.user.ListUsers)
		admin.GET("/users/:id", c.user.GetUser)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.DELETE("/users/:id", c.user.DeleteUser)
		admin.POST("/users/:id/block", c.user.BlockUser)
		admin.POST("/users/:id/unblock", c.user.UnblockUser)

		// 统计
		admin.GET("/ratings", c.rating.ListRatings)
		admin.POST("/ratings/global", c.rating.BuildGlobalSnapshot)
		admin.GET("/ratings/:id", c.rating.GetRating)
		admin.POST("/ratings/:id/recompute", c.rating.RecomputeRating)
		admin.GET("/users/:id/ratings", c.rating.UserRatings)
		admin.GET("/users/:id/ratings/average", c.rating.UserAverage)
		admin.GET("/users/:id/ratings/:ratingId/category", c.rating.UserCategoryValue)
	}
}
