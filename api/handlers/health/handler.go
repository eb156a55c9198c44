package health

import (
	"errors"

	"toolhub/internal/common"
	"toolhub/internal/health"

	"github.com/gin-gonic/gin"
)

// Handler 健康检查处理器
type Handler struct {
	service *health.Service
}

// NewHandler 创建处理器
func NewHandler(service *health.Service) *Handler {
	return &Handler{service: service}
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, health.ErrToolIDMismatch):
		common.ResponseError(c, common.CodeHealthIDMismatch, "")
	case errors.Is(err, health.ErrToolNotFound):
		common.ResponseError(c, common.CodeToolNotFound, "")
	default:
		common.ResponseServerError(c, err.Error())
	}
}

// Record 上报健康状态
// @Summary 上报健康状态
// @Description 更新工具的缓存状态并追加一条历史记录；请求体的 tool_id 必须与路径一致
// @Tags Health
// @Accept json
// @Produce json
// @Param id path string true "工具ID"
// @Param request body health.CreateHealthUpdateRequest true "健康状态"
// @Success 201 {object} common.APIResponse{data=health.HealthCheck}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /tools/{id}/health [post]
func (h *Handler) Record(c *gin.Context) {
	var req health.CreateHealthUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	check, err := h.service.Record(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.ResponseCreated(c, check)
}

// List 查询健康检查历史
// @Summary 查询健康检查历史
// @Description 倒序游标分页；无记录时返回空数组
// @Tags Health
// @Produce json
// @Param id path string true "工具ID"
// @Param limit query int false "单页数量，默认10"
// @Param created_at_lt query string false "游标：只返回早于该时间的记录"
// @Success 200 {object} common.APIResponse{data=[]health.HealthCheck}
// @Failure 404 {object} common.APIResponse
// @Router /tools/{id}/health [get]
func (h *Handler) List(c *gin.Context) {
	var cursor common.CursorRequest
	if err := c.ShouldBindQuery(&cursor); err != nil {
		common.ResponseBadRequest(c, "分页参数错误: "+err.Error())
		return
	}

	checks, err := h.service.List(c.Request.Context(), c.Param("id"), cursor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.ResponseSuccess(c, checks)
}
