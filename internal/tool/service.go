package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"toolhub/internal/auth"
	"toolhub/internal/common"
	"toolhub/internal/logger"
	"toolhub/internal/metrics"
	"toolhub/pkg/httputil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrToolNotFound   = errors.New("工具不存在")
	ErrToolIDRequired = errors.New("工具ID不能为空")
	ErrOwnerRequired  = errors.New("缺少请求者身份")
	ErrToolCallFailed = errors.New("工具调用失败")
)

// Service 工具服务
// 所有操作都是对外部数据库的一次无状态往返，按调用方身份显式传参（不依赖全局客户端）
type Service struct {
	db         *gorm.DB
	httpClient *httputil.Client
}

// NewService 创建工具服务
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:         db,
		httpClient: httputil.NewClient(httputil.WithTimeout(30 * time.Second)),
	}
}

// AutoMigrate 自动迁移数据库表
func (s *Service) AutoMigrate() error {
	return s.db.AutoMigrate(
		&Tool{},
		&Agent{},
		&AgentLink{},
	)
}

// --- CRUD ---

// Create 创建工具，所有者取自已认证身份
// id/created_at/updated_at 由服务端赋值，请求体中的同名字段不参与
func (s *Service) Create(ctx context.Context, identity *auth.Identity, req *CreateToolRequest) (*Tool, error) {
	if identity == nil || identity.UserID == "" {
		return nil, ErrOwnerRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiType := req.APIType
	if apiType == "" {
		apiType = APITypeOpenAPI
	}
	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.NameForAI
	}

	t := &Tool{
		ID:                  uuid.New().String(),
		UserID:              identity.UserID,
		DisplayName:         displayName,
		Public:              req.Public,
		NameForHuman:        req.NameForHuman,
		NameForAI:           req.NameForAI,
		DescriptionForHuman: req.DescriptionForHuman,
		DescriptionForAI:    req.DescriptionForAI,
		APIType:             apiType,
		APIURL:              req.APIURL,
		LogoURL:             req.LogoURL,
		ContactEmail:        req.ContactEmail,
		LegalInfoURL:        req.LegalInfoURL,
		HealthStatus:        HealthStatusUnknown,
	}

	err := s.db.WithContext(ctx).Create(t).Error
	metrics.RecordStoreOperation("tool", "create", err)
	if err != nil {
		return nil, fmt.Errorf("创建工具失败: %w", err)
	}

	logger.WithContext(ctx).Info("工具已创建",
		zap.String("tool_id", t.ID),
		zap.String("user_id", t.UserID),
	)
	return t, nil
}

// Get 按 ID 查询工具
// 零行命中返回 ErrToolNotFound，与传输层错误严格区分
func (s *Service) Get(ctx context.Context, id string) (*Tool, error) {
	if id == "" {
		return nil, ErrToolIDRequired
	}

	var t Tool
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	metrics.RecordStoreOperation("tool", "get", err)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, fmt.Errorf("查询工具失败: %w", err)
	}
	return &t, nil
}

// GetByOwnerAndName 按所有者与 display_name 查询（well-known 清单入口）
// anonymous 为 true 时仅允许公开工具
func (s *Service) GetByOwnerAndName(ctx context.Context, ownerID, displayName string, anonymous bool) (*Tool, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ? AND display_name = ?", ownerID, displayName)
	if anonymous {
		query = query.Where("public = ?", true)
	}

	var t Tool
	err := query.First(&t).Error
	metrics.RecordStoreOperation("tool", "get_by_name", err)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, fmt.Errorf("查询工具失败: %w", err)
	}
	return &t, nil
}

// Update 部分更新，nil 字段保持原值
func (s *Service) Update(ctx context.Context, id string, req *UpdateToolRequest) (*Tool, error) {
	if id == "" {
		return nil, ErrToolIDRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var t Tool
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, fmt.Errorf("查询工具失败: %w", err)
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Public != nil {
		updates["public"] = *req.Public
	}
	if req.NameForHuman != nil {
		updates["name_for_human"] = *req.NameForHuman
	}
	if req.NameForAI != nil {
		updates["name_for_ai"] = *req.NameForAI
	}
	if req.DescriptionForHuman != nil {
		updates["description_for_human"] = *req.DescriptionForHuman
	}
	if req.DescriptionForAI != nil {
		updates["description_for_ai"] = *req.DescriptionForAI
	}
	if req.APIType != nil {
		updates["api_type"] = *req.APIType
	}
	if req.APIURL != nil {
		updates["api_url"] = *req.APIURL
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.ContactEmail != nil {
		updates["contact_email"] = *req.ContactEmail
	}
	if req.LegalInfoURL != nil {
		updates["legal_info_url"] = *req.LegalInfoURL
	}

	if len(updates) > 0 {
		err := s.db.WithContext(ctx).Model(&t).Updates(updates).Error
		metrics.RecordStoreOperation("tool", "update", err)
		if err != nil {
			return nil, fmt.Errorf("更新工具失败: %w", err)
		}
	}

	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, fmt.Errorf("查询工具失败: %w", err)
	}
	return &t, nil
}

// Delete 删除工具
// 零行命中返回 ErrToolNotFound，删除结果不会被无条件报告为成功
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrToolIDRequired
	}

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Tool{})
	metrics.RecordStoreOperation("tool", "delete", result.Error)
	if result.Error != nil {
		return fmt.Errorf("删除工具失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrToolNotFound
	}

	logger.WithContext(ctx).Info("工具已删除", zap.String("tool_id", id))
	return nil
}

// List 游标分页列表
// 可见性过滤（public OR 本人）在查询内完成，先过滤再 Limit，保证单页可见条数
func (s *Service) List(ctx context.Context, identity *auth.Identity, cursor common.CursorRequest) ([]Tool, error) {
	userID := ""
	if identity != nil {
		userID = identity.UserID
	}

	tools := []Tool{}
	err := s.db.WithContext(ctx).
		Scopes(
			common.VisibleTo(userID),
			common.CreatedBefore(cursor.GetCreatedAtLt()),
			common.NewestFirst(),
		).
		Limit(cursor.GetLimit()).
		Find(&tools).Error
	metrics.RecordStoreOperation("tool", "list", err)
	if err != nil {
		return nil, fmt.Errorf("查询工具列表失败: %w", err)
	}
	return tools, nil
}

// --- Agent 关联 ---

// GetToolAgents 查询工具已关联的 Agent ID 集合
func (s *Service) GetToolAgents(ctx context.Context, toolID string) ([]int64, error) {
	if toolID == "" {
		return nil, ErrToolIDRequired
	}

	var links []AgentLink
	err := s.db.WithContext(ctx).Where("mcp_tool_id = ?", toolID).Find(&links).Error
	metrics.RecordStoreOperation("agent_link", "list", err)
	if err != nil {
		return nil, fmt.Errorf("查询工具关联失败: %w", err)
	}

	agentIDs := make([]int64, 0, len(links))
	for _, link := range links {
		agentIDs = append(agentIDs, link.AgentID)
	}
	return agentIDs, nil
}

// SetToolAgents 设置工具可用的 Agent 集合（替换语义）
// 提交的集合整体替换既有关联；重复 ID 去重；不存在的 Agent 记日志后跳过，不报错
func (s *Service) SetToolAgents(ctx context.Context, toolID string, agentIDs []int64) ([]int64, error) {
	if toolID == "" {
		return nil, ErrToolIDRequired
	}

	if _, err := s.Get(ctx, toolID); err != nil {
		return nil, err
	}

	// 去重，保持提交顺序
	seen := make(map[int64]struct{}, len(agentIDs))
	unique := make([]int64, 0, len(agentIDs))
	for _, id := range agentIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	// 存在性校验：只保留数据库中真实存在的 Agent
	existing := make(map[int64]struct{})
	if len(unique) > 0 {
		var agents []Agent
		if err := s.db.WithContext(ctx).Where("id IN ?", unique).Find(&agents).Error; err != nil {
			return nil, fmt.Errorf("校验 Agent 失败: %w", err)
		}
		for _, a := range agents {
			existing[a.ID] = struct{}{}
		}
	}

	linked := make([]int64, 0, len(unique))
	for _, id := range unique {
		if _, ok := existing[id]; !ok {
			logger.WithContext(ctx).Warn("Agent 不存在，跳过关联",
				zap.String("tool_id", toolID),
				zap.Int64("agent_id", id),
			)
			continue
		}
		linked = append(linked, id)
	}

	// 整体替换既有关联
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mcp_tool_id = ?", toolID).Delete(&AgentLink{}).Error; err != nil {
			return err
		}
		for _, id := range linked {
			link := &AgentLink{MCPToolID: toolID, AgentID: id}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	metrics.RecordStoreOperation("agent_link", "set", err)
	if err != nil {
		return nil, fmt.Errorf("设置工具关联失败: %w", err)
	}

	logger.WithContext(ctx).Info("工具关联已更新",
		zap.String("tool_id", toolID),
		zap.Int("linked", len(linked)),
	)
	return linked, nil
}

// --- 工具调用 ---

// Call 把参数转发给工具的 API 端点并返回响应
func (s *Service) Call(ctx context.Context, id string, args map[string]any) (map[string]any, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := s.httpClient.PostJSONRaw(ctx, t.APIURL, map[string]any{"args": args})
	if err != nil {
		return nil, errors.Join(ErrToolCallFailed, err)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		// 非 JSON 响应按原文返回
		result = map[string]any{"raw": string(body)}
	}
	return result, nil
}
