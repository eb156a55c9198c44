package tool

import (
	"errors"
	"io"

	"toolhub/internal/auth"
	"toolhub/internal/common"
	"toolhub/internal/tool"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

// Handler 工具管理处理器
type Handler struct {
	service *tool.Service
}

// NewHandler 创建处理器
func NewHandler(service *tool.Service) *Handler {
	return &Handler{service: service}
}

// respondServiceError 把服务层错误映射为统一响应
func respondServiceError(c *gin.Context, err error) {
	var vErr *tool.ValidationError
	switch {
	case errors.Is(err, tool.ErrToolNotFound):
		common.ResponseError(c, common.CodeToolNotFound, "")
	case errors.Is(err, tool.ErrToolCallFailed):
		common.ResponseError(c, common.CodeToolCallFailed, err.Error())
	case errors.As(err, &vErr):
		common.ResponseError(c, common.CodeToolInvalid, vErr.Error())
	default:
		common.ResponseServerError(c, err.Error())
	}
}

// Create 创建工具
// @Summary 创建工具
// @Description 注册一个新的工具描述符，所有者取自当前认证身份
// @Tags Tool
// @Accept json
// @Produce json
// @Param request body tool.CreateToolRequest true "工具信息"
// @Success 201 {object} common.APIResponse{data=tool.Tool}
// @Failure 400 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Router /tools [post]
func (h *Handler) Create(c *gin.Context) {
	identity, ok := auth.GetIdentity(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	var req tool.CreateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	t, err := h.service.Create(c.Request.Context(), identity, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.ResponseCreated(c, t)
}

// CreateFromYAML 通过 YAML 创建工具
// @Summary 通过 YAML 创建工具
// @Description 请求体为 YAML 格式的工具描述符，解析失败返回 400
// @Tags Tool
// @Accept plain
// @Produce json
// @Success 201 {object} common.APIResponse{data=tool.Tool}
// @Failure 400 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Router /tools/yaml [post]
func (h *Handler) CreateFromYAML(c *gin.Context) {
	identity, ok := auth.GetIdentity(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.ResponseBadRequest(c, "读取请求体失败: "+err.Error())
		return
	}

	var req tool.CreateToolRequest
	if err := yaml.Unmarshal(body, &req); err != nil {
		common.ResponseError(c, common.CodeToolYAMLInvalid, "YAML解析失败: "+err.Error())
		return
	}

	t, err := h.service.Create(c.Request.Context(), identity, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.ResponseCreated(c, t)
}

// List 列出工具
// @Summary 列出工具
// @Description 游标分页，返回公开工具与当前用户自己的工具
// @Tags Tool
// @Produce json
// @Param limit query int false "单页数量，默认10"
// @Param created_at_lt query string false "游标：只返回早于该时间的记录"
// @Success 200 {object} common.APIResponse{data=[]tool.Tool}
// @Router /tools [get]
func (h *Handler) List(c *gin.Context) {
	var cursor common.CursorRequest
	if err := c.ShouldBindQuery(&cursor); err != nil {
		common.ResponseBadRequest(c, "分页参数错误: "+err.Error())
		return
	}

	identity, _ := auth.GetIdentity(c)

	tools, err := h.service.List(c.Request.Context(), identity, cursor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.ResponseSuccess(c, tools)
}

// Get 获取工具详情
// @Summary 获取工具详情
// @Tags Tool
// @Produce json
// @Param id path string true "工具ID"
// @Success 200 {object} common.APIResponse{data=tool.Tool}
// @Failure 404 {object} common.APIResponse
// @Router /tools/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	t, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.ResponseSuccess(c, t)
}

// Update 更新工具
// @Summary 更新工具
// @Description 部分更新，未提交的字段保持原值
// @Tags Tool
// @Accept json
// @Produce json
// @Param id path string true "工具ID"
// @Param request body tool.UpdateToolRequest true "更新内容"
// @Success 200 {object} common.APIResponse{data=tool.Tool}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /tools/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req tool.UpdateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	t, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.ResponseSuccess(c, t)
}

// Delete 删除工具
// @Summary 删除工具
// @Tags Tool
// @Produce json
// @Param id path string true "工具ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /tools/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	common.ResponseSuccessMessage(c, "工具已删除", nil)
}

// GetAgents 查询工具可用的 Agent
// @Summary 查询工具可用的 Agent
// @Tags Tool
// @Produce json
// @Param id path string true "工具ID"
// @Success 200 {object} common.APIResponse{data=[]int64}
// @Failure 404 {object} common.APIResponse
// @Router /tools/{id}/agents [get]
func (h *Handler) GetAgents(c *gin.Context) {
	toolID := c.Param("id")
	if _, err := h.service.Get(c.Request.Context(), toolID); err != nil {
		respondServiceError(c, err)
		return
	}

	agentIDs, err := h.service.GetToolAgents(c.Request.Context(), toolID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.ResponseSuccess(c, agentIDs)
}

// SetAgents 设置工具可用的 Agent
// @Summary 设置工具可用的 Agent
// @Description 整体替换关联集合；重复ID去重，不存在的Agent跳过
// @Tags Tool
// @Accept json
// @Produce json
// @Param id path string true "工具ID"
// @Param request body tool.AgentIDsRequest true "Agent ID 集合"
// @Success 200 {object} common.APIResponse{data=[]int64}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /tools/{id}/agents [post]
func (h *Handler) SetAgents(c *gin.Context) {
	var req tool.AgentIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	linked, err := h.service.SetToolAgents(c.Request.Context(), c.Param("id"), req.AgentIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.ResponseSuccess(c, linked)
}

// Call 调用工具
// @Summary 调用工具
// @Description 把参数转发给工具的 API 端点并返回其响应
// @Tags Tool
// @Accept json
// @Produce json
// @Param id path string true "工具ID"
// @Param request body tool.CallToolRequest true "调用参数"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /tools/{id}/call [post]
func (h *Handler) Call(c *gin.Context) {
	var req tool.CallToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	result, err := h.service.Call(c.Request.Context(), c.Param("id"), req.Args)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.ResponseSuccess(c, result)
}
