package api

import (
	"time"

	healthHandlers "toolhub/api/handlers/health"
	oauthHandlers "toolhub/api/handlers/oauth"
	pluginHandlers "toolhub/api/handlers/plugin"
	toolHandlers "toolhub/api/handlers/tool"
	"toolhub/internal/auth"
	"toolhub/internal/config"
	"toolhub/internal/health"
	"toolhub/internal/infra"
	"toolhub/internal/logger"
	middlewarepkg "toolhub/internal/middleware"
	"toolhub/internal/plugin"
	"toolhub/internal/tool"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppContainer 应用依赖容器
type AppContainer struct {
	DB            *gorm.DB
	Config        *config.Config
	Authenticator auth.Authenticator
	JWTService    *auth.JWTService
	RateLimiter   *middlewarepkg.RateLimiter

	ToolService   *tool.Service
	HealthService *health.Service
	PluginService *plugin.Service
}

// Handlers 所有 HTTP 处理器
type Handlers struct {
	Tool   *toolHandlers.Handler
	Health *healthHandlers.Handler
	Plugin *pluginHandlers.Handler
	OAuth  *oauthHandlers.Handler
}

// BuildContainer 组装服务依赖
func BuildContainer(db *gorm.DB, cfg *config.Config) *AppContainer {
	container := &AppContainer{
		DB:     db,
		Config: cfg,
	}

	// 认证器：local 模式本地校验 JWT，remote 模式委托外部认证服务
	jwtService := auth.NewJWTService(
		cfg.Auth.JWTSecret,
		cfg.Auth.Issuer,
		cfg.Auth.Audience,
		infra.GetRedis(),
	)
	container.JWTService = jwtService

	switch cfg.Auth.Mode {
	case "remote":
		container.Authenticator = auth.NewRemoteAuthenticator(
			cfg.Auth.Endpoint,
			time.Duration(cfg.Auth.Timeout)*time.Second,
		)
		logger.Info("使用远程认证模式", zap.String("endpoint", cfg.Auth.Endpoint))
	default:
		container.Authenticator = auth.NewJWTAuthenticator(jwtService)
		logger.Info("使用本地 JWT 认证模式")
	}

	container.RateLimiter = middlewarepkg.NewRateLimiter(nil)

	container.ToolService = tool.NewService(db)
	container.HealthService = health.NewService(db)
	container.PluginService = plugin.NewService(db, container.ToolService)

	return container
}

// BuildHandlers 组装 HTTP 处理器
func BuildHandlers(c *AppContainer) *Handlers {
	return &Handlers{
		Tool:   toolHandlers.NewHandler(c.ToolService),
		Health: healthHandlers.NewHandler(c.HealthService),
		Plugin: pluginHandlers.NewHandler(c.PluginService),
		OAuth:  oauthHandlers.NewHandler(),
	}
}

// Migrate 执行所有业务表迁移
func Migrate(c *AppContainer) error {
	if err := c.ToolService.AutoMigrate(); err != nil {
		return err
	}
	if err := c.HealthService.AutoMigrate(); err != nil {
		return err
	}
	return c.PluginService.AutoMigrate()
}

// SetupRouter 设置并返回 Gin 路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	container := BuildContainer(db, cfg)
	handlers := BuildHandlers(container)

	RegisterRoutes(router, container, handlers)

	return router
}
