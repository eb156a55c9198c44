package middleware

import (
	"context"

	"toolhub/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 上下文键
type contextKey string

const (
	// RequestIDKey 请求 ID 上下文键
	RequestIDKey contextKey = "request_id"
)

// HTTP 头常量
const (
	HeaderRequestID = "X-Request-ID"
)

// RequestIDMiddleware 请求 ID 中间件
// 为每个请求生成唯一的请求 ID，并注入日志追踪上下文
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 支持上游传递的 Request ID
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		// 设置到 Gin 上下文
		c.Set(string(RequestIDKey), requestID)

		// 注入到 context.Context，供 logger.WithContext 使用
		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, RequestIDKey, requestID)
		ctx = logger.WithTraceID(ctx, requestID)
		c.Request = c.Request.WithContext(ctx)

		// 设置响应头
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}

// GetRequestID 从上下文获取请求 ID
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(RequestIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetRequestIDFromGin 从 Gin 上下文获取请求 ID
func GetRequestIDFromGin(c *gin.Context) string {
	if id, exists := c.Get(string(RequestIDKey)); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
