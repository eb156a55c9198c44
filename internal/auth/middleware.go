package auth

import (
	"context"
	"errors"

	"toolhub/internal/common"

	"github.com/gin-gonic/gin"
)

// ContextKey 上下文键类型
type ContextKey string

const (
	// IdentityContextKey 请求者身份上下文键
	IdentityContextKey ContextKey = "identity"
)

// AuthMiddleware 认证中间件
// 凭证缺失或无效时拒绝请求，绝不降级为匿名访问
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.AbortWithError(c, common.CodeUnauthorized, "缺少认证令牌")
			return
		}

		token := ExtractTokenFromBearer(authHeader)
		if token == "" {
			common.AbortWithError(c, common.CodeUnauthorized, "无效的令牌格式")
			return
		}

		identity, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, ErrInvalidToken) {
				common.AbortWithError(c, common.CodeForbidden, "令牌验证失败")
				return
			}
			common.AbortWithError(c, common.CodeInternalError, "认证服务不可用")
			return
		}

		c.Set(string(IdentityContextKey), identity)
		c.Next()
	}
}

// OptionalAuthMiddleware 可选认证中间件
// 用于公开端点（如 well-known 插件清单）：有令牌则解析，无令牌或令牌无效时按匿名继续
func OptionalAuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		token := ExtractTokenFromBearer(authHeader)
		if token == "" {
			c.Next()
			return
		}

		identity, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			// 令牌无效但不拦截请求
			c.Next()
			return
		}

		c.Set(string(IdentityContextKey), identity)
		c.Next()
	}
}

// GetIdentity 从 Gin Context 获取请求者身份
func GetIdentity(c *gin.Context) (*Identity, bool) {
	v, exists := c.Get(string(IdentityContextKey))
	if !exists {
		return nil, false
	}

	identity, ok := v.(*Identity)
	return identity, ok
}

// SetIdentity 在标准 context.Context 中设置身份（供服务层测试使用）
func SetIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

// GetIdentityFromStdContext 从标准 context.Context 获取身份
func GetIdentityFromStdContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(*Identity)
	return identity, ok
}
