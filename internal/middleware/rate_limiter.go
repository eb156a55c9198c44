package middleware

import (
	"sync"
	"time"

	"toolhub/internal/auth"
	"toolhub/internal/common"

	"github.com/gin-gonic/gin"
)

// RateLimiterConfig 限流配置
type RateLimiterConfig struct {
	RequestsPerSecond int           // 每秒请求数
	RequestsPerMinute int           // 每分钟请求数
	BurstSize         int           // 突发容量
	CleanupInterval   time.Duration // 清理间隔
}

// DefaultRateLimiterConfig 默认配置
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		RequestsPerSecond: 10,
		RequestsPerMinute: 300,
		BurstSize:         20,
		CleanupInterval:   5 * time.Minute,
	}
}

// callerState 调用方状态
type callerState struct {
	tokens      float64
	lastUpdate  time.Time
	requests    int64     // 分钟内请求数
	minuteStart time.Time // 分钟计数开始时间
}

// RateLimiter 令牌桶限流器，按调用方身份或 IP 维护独立配额
type RateLimiter struct {
	config  *RateLimiterConfig
	callers map[string]*callerState
	mu      sync.Mutex
	stopCh  chan struct{}
}

// NewRateLimiter 创建限流器
func NewRateLimiter(config *RateLimiterConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}

	rl := &RateLimiter{
		config:  config,
		callers: make(map[string]*callerState),
		stopCh:  make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Allow 检查是否允许请求
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	state, exists := rl.callers[key]

	if !exists {
		rl.callers[key] = &callerState{
			tokens:      float64(rl.config.BurstSize - 1),
			lastUpdate:  now,
			requests:    1,
			minuteStart: now,
		}
		return true
	}

	// 令牌桶算法：按经过时间补充令牌
	elapsed := now.Sub(state.lastUpdate).Seconds()
	state.tokens += elapsed * float64(rl.config.RequestsPerSecond)
	if state.tokens > float64(rl.config.BurstSize) {
		state.tokens = float64(rl.config.BurstSize)
	}
	state.lastUpdate = now

	if now.Sub(state.minuteStart) > time.Minute {
		state.requests = 0
		state.minuteStart = now
	}

	if rl.config.RequestsPerMinute > 0 && state.requests >= int64(rl.config.RequestsPerMinute) {
		return false
	}

	if state.tokens < 1 {
		return false
	}

	state.tokens--
	state.requests++
	return true
}

// cleanup 定期清理长时间无请求的调用方状态
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for key, state := range rl.callers {
				if now.Sub(state.lastUpdate) > 10*time.Minute {
					delete(rl.callers, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

// Stop 停止限流器
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// rateKey 取限流键：已认证身份优先，匿名回退到客户端 IP
func rateKey(c *gin.Context) string {
	if identity, ok := auth.GetIdentity(c); ok && identity.UserID != "" {
		return identity.UserID
	}
	return c.ClientIP()
}

// RateLimitMiddleware 全局限流中间件
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(rateKey(c)) {
			common.AbortTooManyRequests(c)
			return
		}

		c.Next()
	}
}

// RateLimitByEndpoint 按端点限流中间件（用于写入类 API）
func RateLimitByEndpoint(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "endpoint:" + c.FullPath() + ":" + rateKey(c)

		if !limiter.Allow(key) {
			common.AbortTooManyRequests(c)
			return
		}

		c.Next()
	}
}
