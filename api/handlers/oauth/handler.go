package oauth

import (
	"toolhub/internal/common"
	"toolhub/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CallbackRequest 第三方服务回调请求体
// 各服务的回调格式差异较大，这里只约定最小公共字段
type CallbackRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	UserID       string `json:"user_id"`
}

// Handler OAuth 回调处理器
type Handler struct{}

// NewHandler 创建处理器
func NewHandler() *Handler {
	return &Handler{}
}

// Callback 接收第三方服务的授权回调
// @Summary OAuth 授权回调
// @Description 接收第三方服务回调，access_token 缺失返回 400
// @Tags OAuth
// @Accept json
// @Produce json
// @Param service path string true "服务名"
// @Param request body CallbackRequest true "回调数据"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Router /oauth/callback/{service} [post]
func (h *Handler) Callback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	if req.AccessToken == "" {
		common.ResponseError(c, common.CodeOAuthTokenMissing, "")
		return
	}

	// TODO: 凭证持久化到 provider_credentials 表，待第三方服务接入方案确定后实现
	logger.WithContext(c.Request.Context()).Info("收到 OAuth 回调",
		zap.String("service", c.Param("service")),
	)

	common.ResponseSuccessMessage(c, "回调已接收", nil)
}
