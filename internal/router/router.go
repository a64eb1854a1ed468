package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/kitchenlog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("kitchenlog_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/healthz", api.HealthCheck)

	r.POST("/login/:role", api.Login)
	r.POST("/logout", api.Logout)

	// 厨房成本录入
	kitchen := r.Group("/api/kitchen")
	kitchen.Use(handler.AuthRequired("kitchen"))
	{
		kitchen.GET("/ingredients", api.GetIngredients)
		kitchen.GET("/prices", api.GetPrices)
		kitchen.GET("/prices/status", api.GetPriceStatus)
		kitchen.POST("/prices", api.CreatePrice)
		kitchen.POST("/comments", api.AddComment)
		kitchen.GET("/help", api.ShowHelp)
	}

	// 菜谱编辑
	recipes := r.Group("/api/recipes")
	recipes.Use(handler.AuthRequired("recipes"))
	{
		recipes.GET("", api.GetRecipes)
		recipes.POST("", api.CreateRecipe)
		recipes.PUT("/:name", api.UpdateRecipe)
		recipes.DELETE("/:name", api.DeleteRecipe)
		recipes.GET("/ingredients", api.GetIngredients)
		recipes.GET("/prices", api.GetPrices)
	}

	// 目录管理与备份
	admin := r.Group("/api/admin")
	admin.Use(handler.AuthRequired("admin"))
	{
		admin.GET("/ingredients", api.GetIngredients)
		admin.POST("/ingredients", api.CreateIngredient)
		admin.PUT("/ingredients/:id", api.RenameIngredient)
		admin.GET("/ingredients/export", api.ExportIngredients)
		admin.POST("/ingredients/import", api.ImportIngredients)
		admin.POST("/backup", api.RunBackup)
		admin.GET("/logs", api.GetLogs)
		admin.GET("/comments", api.GetComments)
	}

	return r
}
