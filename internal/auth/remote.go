package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"toolhub/internal/logger"
	"toolhub/pkg/httputil"

	"go.uber.org/zap"
)

// RemoteAuthenticator 外部认证服务委托（auth.mode = remote）
// 把 Bearer 凭证原样转发给认证服务，由其返回用户身份
type RemoteAuthenticator struct {
	endpoint   string
	httpClient *httputil.Client
}

// NewRemoteAuthenticator 创建远程认证器
func NewRemoteAuthenticator(endpoint string, timeout time.Duration) *RemoteAuthenticator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RemoteAuthenticator{
		endpoint:   endpoint,
		httpClient: httputil.NewClient(httputil.WithTimeout(timeout)),
	}
}

// remoteIdentityResponse 认证服务的响应体
type remoteIdentityResponse struct {
	Sub       string `json:"sub"`
	SessionID string `json:"session_id"`
}

// Authenticate 调用外部认证服务验证凭证
func (a *RemoteAuthenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("构造认证请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("调用认证服务失败: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// 继续解析
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	default:
		logger.Warn("认证服务返回异常状态", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("认证服务返回 HTTP %d", resp.StatusCode)
	}

	var data remoteIdentityResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("解析认证响应失败: %w", err)
	}

	if data.Sub == "" {
		return nil, errors.Join(ErrInvalidToken, errors.New("认证响应缺少 sub"))
	}

	return &Identity{
		UserID:       data.Sub,
		SessionID:    data.SessionID,
		SessionToken: token,
	}, nil
}
