package health

import (
	"time"
)

// HealthCheck 工具健康检查历史记录
// 每次上报追加一行，工具上的 health_status 只是最新一条的缓存
type HealthCheck struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ToolID       string    `json:"tool_id" gorm:"column:tool_id;type:uuid;not null;index"`
	HealthStatus string    `json:"health_status" gorm:"size:50;not null"`
	APIURL       *string   `json:"api_url" gorm:"column:api_url;size:500"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;autoCreateTime;index"`
}

func (HealthCheck) TableName() string {
	return "tools_health_checks"
}

// CreateHealthUpdateRequest 健康状态上报请求
// tool_id 必须与路径中的工具ID一致，否则拒绝且不落库
type CreateHealthUpdateRequest struct {
	ToolID       string  `json:"tool_id" binding:"required"`
	HealthStatus string  `json:"health_status" binding:"required,oneof=healthy unhealthy down unknown authentication_error"`
	APIURL       *string `json:"api_url" binding:"omitempty,url"`
}
