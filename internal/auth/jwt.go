package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// JWTService 本地 JWT 令牌服务（auth.mode = local）
// 使用共享密钥在本地完成签名、受众与过期校验，不依赖外部认证服务
type JWTService struct {
	secretKey   []byte
	issuer      string
	audience    string
	expiry      time.Duration         // 访问令牌过期时间（默认 2 小时）
	redisClient redis.UniversalClient // Redis 客户端，用于黑名单（可为 nil）
}

// NewJWTService 创建 JWT 服务
func NewJWTService(secretKey, issuer, audience string, redisClient redis.UniversalClient) *JWTService {
	return &JWTService{
		secretKey:   []byte(secretKey),
		issuer:      issuer,
		audience:    audience,
		expiry:      2 * time.Hour,
		redisClient: redisClient,
	}
}

// TokenClaims JWT 声明
type TokenClaims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken 签发访问令牌
func (s *JWTService) GenerateToken(userID, sessionID string) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("签名令牌失败: %w", err)
	}

	return tokenString, nil
}

// ValidateToken 验证并解析 JWT 令牌（签名、受众、有效期）
func (s *JWTService) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	// 1. 检查黑名单
	if s.IsTokenBlacklisted(ctx, tokenString) {
		return nil, fmt.Errorf("令牌已失效")
	}

	// 2. 解析令牌
	parseOpts := []jwt.ParserOption{}
	if s.audience != "" {
		parseOpts = append(parseOpts, jwt.WithAudience(s.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("无效的签名算法: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, parseOpts...)

	if err != nil {
		return nil, fmt.Errorf("解析令牌失败: %w", err)
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("无效的令牌")
}

// InvalidateToken 使令牌失效（加入黑名单）
func (s *JWTService) InvalidateToken(ctx context.Context, tokenString string) error {
	if s.redisClient == nil {
		return nil // 没有 Redis 时无黑名单能力，直接返回
	}

	// 解析令牌以获取过期时间
	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, &TokenClaims{})
	if err != nil {
		return fmt.Errorf("解析令牌失败: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || claims.ExpiresAt == nil {
		return fmt.Errorf("无效的令牌声明")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil // 令牌已过期，无需加入黑名单
	}

	key := fmt.Sprintf("blacklist:token:%s", tokenString)
	if err := s.redisClient.Set(ctx, key, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("加入黑名单失败: %w", err)
	}

	return nil
}

// IsTokenBlacklisted 检查令牌是否在黑名单中
func (s *JWTService) IsTokenBlacklisted(ctx context.Context, tokenString string) bool {
	if s.redisClient == nil {
		return false
	}

	key := fmt.Sprintf("blacklist:token:%s", tokenString)
	exists, err := s.redisClient.Exists(ctx, key).Result()
	if err != nil {
		// Redis 故障时选择 fail-open，避免所有请求失败
		return false
	}

	return exists > 0
}

// ExtractTokenFromBearer 从 Bearer 令牌中提取纯令牌字符串
func ExtractTokenFromBearer(bearerToken string) string {
	const prefix = "Bearer "
	if len(bearerToken) > len(prefix) && bearerToken[:len(prefix)] == prefix {
		return bearerToken[len(prefix):]
	}
	return bearerToken
}
