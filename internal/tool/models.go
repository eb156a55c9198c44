package tool

import (
	"time"
)

// APIType 工具后端 API 类型
const (
	APITypeOpenAPI = "openapi"
)

// HealthStatus 取值（与健康检查模块共享同一枚举）
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
	HealthStatusDown      = "down"
	HealthStatusUnknown   = "unknown"
	HealthStatusAuthError = "authentication_error"
)

// Tool 工具描述符（规范实体，v1 的 tools 表结构已并入此表）
type Tool struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      string `json:"user_id" gorm:"column:user_id;size:255;not null;index:idx_tool_owner_name"`
	DisplayName string `json:"display_name" gorm:"size:255;not null;index:idx_tool_owner_name"`
	Public      bool   `json:"public" gorm:"default:false;index"`

	// 基本信息
	NameForHuman        string `json:"name_for_human" gorm:"column:name_for_human;size:80;not null"`
	NameForAI           string `json:"name_for_ai" gorm:"column:name_for_ai;size:80;not null"`
	DescriptionForHuman string `json:"description_for_human" gorm:"column:description_for_human;size:280;not null"`
	DescriptionForAI    string `json:"description_for_ai" gorm:"column:description_for_ai;size:280;not null"`

	// API 描述
	APIType      string `json:"api_type" gorm:"column:api_type;size:50;default:openapi"`
	APIURL       string `json:"api_url" gorm:"column:api_url;size:500;not null"`
	LogoURL      string `json:"logo_url" gorm:"column:logo_url;size:500"`
	ContactEmail string `json:"contact_email" gorm:"size:255"`
	LegalInfoURL string `json:"legal_info_url" gorm:"column:legal_info_url;size:500"`

	// 最近一次健康状态（完整历史在 tools_health_checks 表）
	HealthStatus string `json:"health_status" gorm:"size:50;default:unknown"`

	// 时间戳（服务端赋值，客户端提交的值一律丢弃）
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime"`
}

func (Tool) TableName() string {
	return "mcp_tools"
}

// Agent 可以使用工具的智能体（本服务只做存在性校验，不管理其生命周期）
type Agent struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:255"`
	UserID    string    `json:"user_id" gorm:"size:255;index"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}

func (Agent) TableName() string {
	return "agents"
}

// AgentLink 工具与 Agent 的多对多关联，一行代表一次使用授权
type AgentLink struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	MCPToolID string    `json:"mcp_tool_id" gorm:"column:mcp_tool_id;type:uuid;not null;uniqueIndex:idx_agent_link"`
	AgentID   int64     `json:"agent_id" gorm:"not null;uniqueIndex:idx_agent_link"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}

func (AgentLink) TableName() string {
	return "agent_mcp_tool"
}

// --- 请求/响应 DTO ---

// CreateToolRequest 创建工具请求
// 不含 id/created_at/updated_at：这些字段永远由服务端赋值
type CreateToolRequest struct {
	DisplayName         string `json:"display_name" yaml:"display_name"`
	Public              bool   `json:"public" yaml:"public"`
	NameForHuman        string `json:"name_for_human" yaml:"name_for_human" binding:"required"`
	NameForAI           string `json:"name_for_ai" yaml:"name_for_ai" binding:"required"`
	DescriptionForHuman string `json:"description_for_human" yaml:"description_for_human" binding:"required"`
	DescriptionForAI    string `json:"description_for_ai" yaml:"description_for_ai" binding:"required"`
	APIType             string `json:"api_type" yaml:"api_type" binding:"required,oneof=openapi"`
	APIURL              string `json:"api_url" yaml:"api_url" binding:"required,url"`
	LogoURL             string `json:"logo_url" yaml:"logo_url" binding:"required,url"`
	ContactEmail        string `json:"contact_email" yaml:"contact_email" binding:"required,email"`
	LegalInfoURL        string `json:"legal_info_url" yaml:"legal_info_url" binding:"required,url"`
}

// UpdateToolRequest 部分更新请求，nil 字段保持不变
type UpdateToolRequest struct {
	DisplayName         *string `json:"display_name"`
	Public              *bool   `json:"public"`
	NameForHuman        *string `json:"name_for_human"`
	NameForAI           *string `json:"name_for_ai"`
	DescriptionForHuman *string `json:"description_for_human"`
	DescriptionForAI    *string `json:"description_for_ai"`
	APIType             *string `json:"api_type" binding:"omitempty,oneof=openapi"`
	APIURL              *string `json:"api_url" binding:"omitempty,url"`
	LogoURL             *string `json:"logo_url" binding:"omitempty,url"`
	ContactEmail        *string `json:"contact_email" binding:"omitempty,email"`
	LegalInfoURL        *string `json:"legal_info_url" binding:"omitempty,url"`
}

// AgentIDsRequest 设置工具可用 Agent 的请求
type AgentIDsRequest struct {
	AgentIDs []int64 `json:"agent_ids" binding:"required"`
}

// CallToolRequest 工具调用请求
type CallToolRequest struct {
	Args map[string]any `json:"args"`
}
