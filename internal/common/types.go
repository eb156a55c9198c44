package common

import "time"

// ============================================================================
// 通用请求类型
// ============================================================================

// CursorRequest 游标分页请求参数
// 按 created_at 倒序返回 created_at < CreatedAtLt 的记录，最多 Limit 条
type CursorRequest struct {
	Limit       int       `json:"limit" form:"limit" binding:"omitempty,min=1"` // 单页数量，默认10
	CreatedAtLt time.Time `json:"created_at_lt" form:"created_at_lt" time_format:"2006-01-02T15:04:05Z07:00"`
}

// DefaultCursor 返回默认游标参数（请求时刻为游标起点）
func DefaultCursor() CursorRequest {
	return CursorRequest{
		Limit:       10,
		CreatedAtLt: time.Now().UTC(),
	}
}

// GetLimit 获取单页数量，提供默认值与上限
func (r CursorRequest) GetLimit() int {
	if r.Limit < 1 {
		return 10
	}
	if r.Limit > 100 {
		return 100
	}
	return r.Limit
}

// GetCreatedAtLt 获取游标时间，零值时以当前时间兜底
func (r CursorRequest) GetCreatedAtLt() time.Time {
	if r.CreatedAtLt.IsZero() {
		return time.Now().UTC()
	}
	return r.CreatedAtLt
}

// IDRequest 通过ID查询的请求
type IDRequest struct {
	ID string `json:"id" uri:"id" binding:"required"` // 资源ID
}

// ============================================================================
// 通用响应类型
// ============================================================================

// APIResponse 统一API响应格式
type APIResponse struct {
	Success bool   `json:"success"`           // 是否成功
	Data    any    `json:"data,omitempty"`    // 响应数据
	Message string `json:"message,omitempty"` // 提示信息
	Code    int    `json:"code"`              // 业务状态码
}

// SuccessResponse 成功响应
func SuccessResponse(data any) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
		Code:    0,
	}
}

// SuccessMessageResponse 成功响应（带消息）
func SuccessMessageResponse(message string, data any) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
		Message: message,
		Code:    0,
	}
}

// ErrorResponse 错误响应
func ErrorResponse(code int, message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
		Code:    code,
	}
}

// ============================================================================
// 业务状态码定义
// ============================================================================

const (
	// 成功状态码
	CodeSuccess = 0

	// 通用错误码 (1000-1999)
	CodeInvalidRequest = 1000 // 请求参数错误
	CodeUnauthorized   = 1001 // 未授权
	CodeForbidden      = 1002 // 禁止访问
	CodeNotFound       = 1003 // 资源不存在
	CodeConflict       = 1004 // 资源冲突
	CodeInternalError  = 1005 // 内部错误
	CodeRateLimited    = 1006 // 请求过于频繁

	// 工具相关错误码 (2000-2099)
	CodeToolNotFound    = 2000 // 工具不存在
	CodeToolInvalid     = 2001 // 工具字段校验失败
	CodeToolYAMLInvalid = 2002 // 工具YAML解析失败
	CodeAgentNotFound   = 2010 // Agent不存在
	CodeToolCallFailed  = 2020 // 工具调用失败

	// 健康检查相关错误码 (3000-3099)
	CodeHealthIDMismatch = 3000 // 路径与请求体的工具ID不一致
	CodeHealthNotFound   = 3001 // 健康记录不存在

	// 插件清单相关错误码 (4000-4099)
	CodePluginNotFound = 4000 // 插件清单不存在

	// OAuth 相关错误码 (5000-5099)
	CodeOAuthTokenMissing = 5000 // 回调缺少 access_token
)

// ErrorMessages 错误码对应的默认消息
var ErrorMessages = map[int]string{
	CodeSuccess:        "操作成功",
	CodeInvalidRequest: "请求参数错误",
	CodeUnauthorized:   "未授权，请先登录",
	CodeForbidden:      "无权限访问",
	CodeNotFound:       "资源不存在",
	CodeConflict:       "资源冲突",
	CodeInternalError:  "系统内部错误",
	CodeRateLimited:    "请求过于频繁，请稍后再试",

	CodeToolNotFound:    "工具不存在",
	CodeToolInvalid:     "工具字段校验失败",
	CodeToolYAMLInvalid: "无效的YAML格式",
	CodeAgentNotFound:   "Agent不存在",
	CodeToolCallFailed:  "工具调用失败",

	CodeHealthIDMismatch: "路径中的工具ID与请求体不一致",
	CodeHealthNotFound:   "健康记录不存在",

	CodePluginNotFound: "插件清单不存在",

	CodeOAuthTokenMissing: "回调缺少 access_token",
}

// GetErrorMessage 获取错误码对应的消息
func GetErrorMessage(code int) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return "未知错误"
}

// ============================================================================
// 通用业务错误类型
// ============================================================================

// BusinessError 业务错误
type BusinessError struct {
	Code    int    // 错误码
	Message string // 错误信息
}

// Error 实现error接口
func (e *BusinessError) Error() string {
	return e.Message
}

// NewBusinessError 创建业务错误
func NewBusinessError(code int, message string) *BusinessError {
	if message == "" {
		message = GetErrorMessage(code)
	}
	return &BusinessError{
		Code:    code,
		Message: message,
	}
}
