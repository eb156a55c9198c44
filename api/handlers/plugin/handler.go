package plugin

import (
	"errors"
	"net/http"
	"strings"

	"toolhub/internal/auth"
	"toolhub/internal/common"
	"toolhub/internal/plugin"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

// Handler 插件清单处理器
type Handler struct {
	service *plugin.Service
}

// NewHandler 创建处理器
func NewHandler(service *plugin.Service) *Handler {
	return &Handler{service: service}
}

func respondServiceError(c *gin.Context, err error) {
	if errors.Is(err, plugin.ErrPluginNotFound) {
		common.ResponseError(c, common.CodePluginNotFound, "")
		return
	}
	common.ResponseServerError(c, err.Error())
}

// GetByName 获取预注册插件的清单
// @Summary 获取插件清单
// @Description 按 name_for_model 查询预注册插件
// @Tags Plugin
// @Produce json
// @Param name path string true "插件名（name_for_model）"
// @Success 200 {object} common.APIResponse{data=plugin.Manifest}
// @Failure 404 {object} common.APIResponse
// @Router /plugins/{name} [get]
func (h *Handler) GetByName(c *gin.Context) {
	manifest, err := h.service.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.ResponseSuccess(c, manifest)
}

// WellKnown 获取工具的 ai-plugin 清单
// 路径形如 /.well-known/{user_id}/{name}.yaml 或 {name}.json，
// 按扩展名决定响应格式；匿名访问只能看到公开工具
// @Summary 获取 well-known 插件清单
// @Tags Plugin
// @Produce json
// @Param user_id path string true "所有者用户ID"
// @Param file path string true "工具名加 .yaml 或 .json 后缀"
// @Success 200 {object} plugin.Manifest
// @Failure 404 {object} common.APIResponse
// @Router /.well-known/{user_id}/{file} [get]
func (h *Handler) WellKnown(c *gin.Context) {
	ownerID := c.Param("user_id")
	file := c.Param("file")

	var name, format string
	switch {
	case strings.HasSuffix(file, ".yaml"):
		name, format = strings.TrimSuffix(file, ".yaml"), "yaml"
	case strings.HasSuffix(file, ".yml"):
		name, format = strings.TrimSuffix(file, ".yml"), "yaml"
	case strings.HasSuffix(file, ".json"):
		name, format = strings.TrimSuffix(file, ".json"), "json"
	default:
		common.ResponseNotFound(c, "不支持的清单格式")
		return
	}

	// 认证身份可见自己的私有工具，其余一律按匿名处理
	identity, _ := auth.GetIdentity(c)
	anonymous := identity == nil || identity.UserID != ownerID

	manifest, err := h.service.GetWellKnown(c.Request.Context(), ownerID, name, anonymous)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if format == "json" {
		c.JSON(http.StatusOK, manifest)
		return
	}

	out, err := yaml.Marshal(manifest)
	if err != nil {
		common.ResponseServerError(c, "清单序列化失败: "+err.Error())
		return
	}
	c.Data(http.StatusOK, "application/x-yaml", out)
}
