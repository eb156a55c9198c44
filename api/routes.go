package api

import (
	"toolhub/internal/auth"
	"toolhub/internal/metrics"
	middlewarepkg "toolhub/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes 注册所有 API 路由
func RegisterRoutes(router *gin.Engine, container *AppContainer, handlers *Handlers) {
	router.Use(
		middlewarepkg.RequestIDMiddleware(),
		RequestLogger(),
		CORS(),
		metrics.PrometheusMiddleware(),
	)

	// 系统端点（公开）
	router.GET("/", Root())
	router.GET("/health", HealthCheck())
	router.GET("/ready", ReadinessCheck(container.DB))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// well-known 插件清单：可选认证，匿名只能访问公开工具
	router.GET("/.well-known/:user_id/:file",
		auth.OptionalAuthMiddleware(container.Authenticator),
		handlers.Plugin.WellKnown,
	)

	// OAuth 回调（公开，第三方服务直接回调）
	router.POST("/oauth/callback/:service", handlers.OAuth.Callback)

	registerToolRoutes(router, container, handlers)
	registerPluginRoutes(router, container, handlers)

	// 版本化路由组（与根路由同一套处理器）
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/", Root())
		apiV1.GET("/health", HealthCheck())
		apiV1.GET("/.well-known/:user_id/:file",
			auth.OptionalAuthMiddleware(container.Authenticator),
			handlers.Plugin.WellKnown,
		)
		apiV1.POST("/oauth/callback/:service", handlers.OAuth.Callback)
		registerToolRoutes(apiV1, container, handlers)
		registerPluginRoutes(apiV1, container, handlers)
	}
}

// registerToolRoutes 注册工具管理路由（需要认证）
func registerToolRoutes(r gin.IRouter, c *AppContainer, h *Handlers) {
	tools := r.Group("/tools")
	tools.Use(
		auth.AuthMiddleware(c.Authenticator),
		middlewarepkg.RateLimitMiddleware(c.RateLimiter),
	)
	{
		tools.POST("", h.Tool.Create)
		tools.POST("/yaml", h.Tool.CreateFromYAML)
		tools.GET("", h.Tool.List)
		tools.GET("/:id", h.Tool.Get)
		tools.PUT("/:id", h.Tool.Update)
		tools.DELETE("/:id", h.Tool.Delete)

		tools.GET("/:id/agents", h.Tool.GetAgents)
		tools.POST("/:id/agents", h.Tool.SetAgents)

		tools.POST("/:id/health", h.Health.Record)
		tools.GET("/:id/health", h.Health.List)

		tools.POST("/:id/call", h.Tool.Call)
	}
}

// registerPluginRoutes 注册插件清单路由（公开只读）
func registerPluginRoutes(r gin.IRouter, c *AppContainer, h *Handlers) {
	plugins := r.Group("/plugins")
	{
		plugins.GET("/:name", h.Plugin.GetByName)
	}
}
