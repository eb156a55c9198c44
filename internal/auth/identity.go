package auth

import (
	"context"
	"errors"
)

// Identity 已解析的请求者身份
// SessionToken 保留原始凭证，数据访问层以此为作用域凭证
type Identity struct {
	UserID       string // 用户标识（令牌 sub）
	SessionID    string // 会话标识
	SessionToken string // 原始 Bearer 凭证
}

// ErrInvalidToken 凭证无效（缺失、过期或签名错误）
var ErrInvalidToken = errors.New("凭证无效")

// Authenticator 把 Bearer 凭证解析为身份
// local 模式由 JWTAuthenticator 实现，remote 模式由 RemoteAuthenticator 实现
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// JWTAuthenticator 本地签名令牌认证器
type JWTAuthenticator struct {
	jwtService *JWTService
}

// NewJWTAuthenticator 创建本地认证器
func NewJWTAuthenticator(jwtService *JWTService) *JWTAuthenticator {
	return &JWTAuthenticator{jwtService: jwtService}
}

// Authenticate 在本地校验签名、受众与有效期
func (a *JWTAuthenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims, err := a.jwtService.ValidateToken(ctx, token)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	return &Identity{
		UserID:       claims.UserID,
		SessionID:    claims.SessionID,
		SessionToken: token,
	}, nil
}
